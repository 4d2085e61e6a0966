package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"helpdesk/internal/app"
	"helpdesk/internal/config"
	"helpdesk/internal/db"
	"helpdesk/internal/domain"
	"helpdesk/internal/engine"
	"helpdesk/internal/engine/auth"
	"helpdesk/internal/events"
	"helpdesk/internal/state"
	"helpdesk/internal/ui"
	"helpdesk/internal/undo"
)

var rootCmd = &cobra.Command{
	Use:   "helpdesk",
	Short: "Helpdesk ticket tracker",
	Long: `Helpdesk tracks support tickets for a single operator.
Core concepts:
- Workspace: a directory holding .helpdesk/ (state, session, sqlite db) and an optional helpdesk.yml.
- Tickets: numbered from 1, open until closed. A ticket with a parent can only be closed once every ancestor is closed.
- Queues: high priority tickets are dispatched first (oldest first); medium and low wait in a FIFO queue.
- Undo: create, close, assign and tag are recorded; helpdesk undo reverses the most recent one.
- Analytics: open/closed counts per priority, aging buckets and SLA breaches against the thresholds in helpdesk.yml.
- Session: helpdesk login records who is operating; the admin role unlocks the admin view.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.ConfigureColor(os.Stdout.Fd(), viper.GetBool("no-color"))
		workspace := viper.GetString("workspace")
		if err := app.LoadDotEnv(workspace); err != nil {
			return err
		}
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("HELPDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colour and highlighting")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("storage-driver", "", "storage driver (file, sqlite); overrides helpdesk.yml")
	rootCmd.PersistentFlags().String("storage-path", "", "state file name for the file driver; overrides helpdesk.yml")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("storage-driver", rootCmd.PersistentFlags().Lookup("storage-driver"))
	_ = viper.BindPFlag("storage-path", rootCmd.PersistentFlags().Lookup("storage-path"))
}

func registerCommands() {
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(closeCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(assignCmd())
	rootCmd.AddCommand(tagCmd())
	rootCmd.AddCommand(undoCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(queueCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(analyticsCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(adminCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(useStateCmd())
	rootCmd.AddCommand(logCmd())
}

// --- tickets ---

func createCmd() *cobra.Command {
	var opts engine.CreateOptions
	var priority string
	var parent int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ticket",
		Long:  "Create a ticket. High priority tickets go to the priority queue, the rest to the standard queue. The logged-in user becomes the owner.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ParsePriority(priority)
			if err != nil {
				return err
			}
			opts.Priority = p
			if cmd.Flags().Changed("parent") {
				opts.ParentID = domain.IntPtr(parent)
			}
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				u, err := c.CurrentUser()
				if err != nil {
					return err
				}
				if u != nil {
					opts.OwnerID = domain.StringPtr(u.UserID)
				}
				t, err := c.Engine.CreateTicket(ctx, opts)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(t.Record())
				}
				fmt.Printf("Created ticket #%d (%s)\n", t.ID, t.Priority)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "ticket description")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(domain.PriorityMedium), "priority (high, medium, low)")
	cmd.Flags().IntVar(&parent, "parent", 0, "parent ticket id; the ticket cannot close before its parent")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func closeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <id>",
		Short: "Close a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				ok, err := c.Engine.CloseTicket(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					if reason := c.Engine.Explain(id); reason != nil {
						return reason
					}
					return fmt.Errorf("ticket #%d could not be closed", id)
				}
				return printResult(map[string]any{"ticket_id": id, "closed": true}, fmt.Sprintf("Closed ticket #%d", id))
			})
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <id>",
		Short: "Check whether a ticket can be closed",
		Long:  "A ticket is resolvable when it exists and every ancestor along its parent chain is closed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				ok := c.Engine.IsResolvable(id)
				out := map[string]any{"ticket_id": id, "resolvable": ok}
				if ok {
					return printResult(out, fmt.Sprintf("Ticket #%d is resolvable", id))
				}
				reason := c.Engine.Explain(id)
				out["reason"] = fmt.Sprint(reason)
				return printResult(out, fmt.Sprintf("Ticket #%d is not resolvable: %v", id, reason))
			})
		},
	}
}

func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Dispatch the next ticket",
		Long:  "Take the next ticket off the queues, high priority first. Dispatching does not close the ticket.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				if err := requireDispatch(c); err != nil {
					return err
				}
				t, ok, err := c.Engine.ProcessNextTicket(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return printResult(map[string]any{"processed": nil}, "No tickets to process")
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"processed": t.Record()})
				}
				fmt.Printf("Processing: %s\n", t)
				return nil
			})
		},
	}
}

func assignCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "assign <id>",
		Short: "Assign a ticket to a user",
		Long:  "Assign a ticket. An empty --user clears the assignee.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				ok, err := c.Engine.AssignTicket(ctx, id, user)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: #%d", engine.ErrNotFound, id)
				}
				msg := fmt.Sprintf("Assigned ticket #%d to %s", id, user)
				if strings.TrimSpace(user) == "" {
					msg = fmt.Sprintf("Cleared assignee of ticket #%d", id)
				}
				return printResult(map[string]any{"ticket_id": id, "assigned_to_user_id": domain.StringPtr(strings.TrimSpace(user))}, msg)
			})
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "assignee user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func tagCmd() *cobra.Command {
	var tags []string
	cmd := &cobra.Command{
		Use:   "tag <id>",
		Short: "Add tags to a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				ok, err := c.Engine.TagTicket(ctx, id, tags)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: #%d", engine.ErrNotFound, id)
				}
				t, _ := c.Engine.Get(id)
				return printResult(map[string]any{"ticket_id": id, "tags": t.Tags},
					fmt.Sprintf("Ticket #%d tags: %s", id, strings.Join(t.Tags, ", ")))
			})
		},
	}
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", []string{}, "tag to add (repeatable)")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}

func undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last action",
		Long:  "Reverse the most recent create, close, assign or tag. Undoing a close puts the ticket back at the end of its queue.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				if err := requireDispatch(c); err != nil {
					return err
				}
				a, ok, err := c.Engine.UndoLastAction(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return engine.ErrNothingToUndo
				}
				return printResult(map[string]any{"undone": a.Record()}, describeUndo(a))
			})
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				t, ok := c.Engine.Get(id)
				if !ok {
					return fmt.Errorf("%w: #%d", engine.ErrNotFound, id)
				}
				if viper.GetBool("json") {
					return printJSON(t.Record())
				}
				ui.TicketDetail(os.Stdout, t, c.Engine.IsResolvable(id))
				return nil
			})
		},
	}
}

func listCmd() *cobra.Command {
	var status, priority, tag string
	var mine bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := engine.ListFilter{Status: domain.Status(strings.ToLower(status)), Tag: tag}
			if priority != "" {
				p, err := domain.ParsePriority(priority)
				if err != nil {
					return err
				}
				f.Priority = p
			}
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				if mine {
					u, err := c.Session.Current()
					if err != nil {
						return err
					}
					f.UserID = u.UserID
				}
				tickets := c.Engine.List(f)
				if viper.GetBool("json") {
					return printJSON(records(tickets))
				}
				ui.TicketTable(os.Stdout, tickets, c.Engine.Now())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status filter (open, closed)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority filter")
	cmd.Flags().StringVar(&tag, "tag", "", "tag filter")
	cmd.Flags().BoolVar(&mine, "mine", false, "only tickets owned by or assigned to the current user")
	return cmd
}

func queueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show pending dispatch order",
		Long:  "Peek at both queues in the order process would take them. Nothing is dequeued.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				high, standard := c.Engine.Queues()
				if viper.GetBool("json") {
					return printJSON(map[string]any{
						"high_priority_queue": records(high),
						"standard_queue":      records(standard),
					})
				}
				ui.QueueTable(os.Stdout, "High priority", high)
				ui.QueueTable(os.Stdout, "Standard", standard)
				return nil
			})
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show every ticket ever created",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				if viper.GetBool("json") {
					return printJSON(records(c.Engine.History()))
				}
				fmt.Println(c.Engine.RenderHistory())
				return nil
			})
		},
	}
}

func analyticsCmd() *cobra.Command {
	var extended bool
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Open and closed tickets per priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				d := c.Engine.AnalyticsDashboard()
				if !extended {
					if viper.GetBool("json") {
						return printJSON(d)
					}
					ui.DashboardGrid(os.Stdout, d.Grid())
					return nil
				}
				ext := c.Engine.AnalyticsExtended()
				if viper.GetBool("json") {
					return printJSON(map[string]any{"dashboard": d, "extended": ext})
				}
				ui.DashboardGrid(os.Stdout, d.Grid())
				fmt.Println(ui.AnalyticsPanels(ext))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&extended, "extended", false, "include totals, SLA breaches and aging buckets")
	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Your tickets and analytics",
		Long:  "Tickets owned by or assigned to the logged-in user, open first, then by priority and age, followed by analytics panels.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				u, err := c.Session.Current()
				if err != nil {
					return err
				}
				return renderDashboard(c, u, c.Engine.List(engine.ListFilter{UserID: u.UserID}), "My tickets")
			})
		},
	}
}

func adminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "All tickets and analytics (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				u, err := c.CurrentUser()
				if err != nil {
					return err
				}
				if err := auth.Require(u, domain.RoleAdmin); err != nil {
					return err
				}
				return renderDashboard(c, u, c.Engine.List(engine.ListFilter{}), "All tickets")
			})
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the persisted state record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				data, err := state.Marshal(c.Engine.Snapshot())
				if err != nil {
					return err
				}
				return ui.WriteJSON(os.Stdout, data)
			})
		},
	}
}

// --- session ---

func loginCmd() *cobra.Command {
	var userID, name, role, email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.SessionStore(viper.GetString("workspace")).Login(userID, name, role, email)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(u)
			}
			fmt.Printf("Logged in as %s (%s)\n", u.Name, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user id")
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the user id)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "role (user, admin)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.SessionStore(viper.GetString("workspace")).Logout()
			if err != nil {
				return err
			}
			if !ok {
				return printResult(map[string]any{"logged_out": false}, "Not logged in")
			}
			return printResult(map[string]any{"logged_out": true}, "Logged out")
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.SessionStore(viper.GetString("workspace")).Current()
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(u)
			}
			email := "-"
			if u.Email != nil {
				email = *u.Email
			}
			fmt.Printf("%s (%s) role=%s email=%s\n", u.Name, u.UserID, u.Role, email)
			return nil
		},
	}
}

// --- config ---

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect helpdesk.yml",
		Long:  "helpdesk.yml selects the storage driver and sets SLA thresholds, the dispatch policy and the log level. Without it the defaults apply.",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	cfg.AddCommand(configInitCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.ResolveConfig(storeOptions())
			if err != nil {
				return err
			}
			return printJSONOrTable(cfg)
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate helpdesk.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.Load(viper.GetString("workspace"))
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default helpdesk.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func useStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use-state <driver>",
		Short: "Pin the storage driver in the workspace .env",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := strings.ToLower(strings.TrimSpace(args[0]))
			if !config.ValidDriver(driver) {
				return fmt.Errorf("unknown storage driver %q", driver)
			}
			path := app.EnvPath(viper.GetString("workspace"))
			if err := setEnvValue(path, "HELPDESK_STORAGE_DRIVER", driver); err != nil {
				return err
			}
			fmt.Printf("Storage driver set to %s in %s\n", driver, path)
			return nil
		},
	}
}

// --- journal ---

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Save journal",
		Long:  "The sqlite driver records every save with the operation that caused it.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var evtType string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show the latest journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, c *app.Context) error {
				if c.DB == nil {
					return fmt.Errorf("the save journal needs the sqlite driver; current driver is %s", c.Config.Storage.Driver)
				}
				evts, err := events.Latest(ctx, c.DB, n, evtType)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(evts)
				}
				ui.EventTable(os.Stdout, evts)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter, e.g. ticket.close")
	return cmd
}

// --- helpers ---

func storeOptions() app.Options {
	return app.Options{
		Workspace:   viper.GetString("workspace"),
		Driver:      viper.GetString("storage-driver"),
		StoragePath: viper.GetString("storage-path"),
		LogLevel:    viper.GetString("log-level"),
	}
}

func withStore(ctx context.Context, fn func(context.Context, *app.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := app.Open(ctx, storeOptions())
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

// requireDispatch enforces policy.restrict_dispatch.
func requireDispatch(c *app.Context) error {
	if !c.Config.Policy.RestrictDispatch {
		return nil
	}
	u, err := c.CurrentUser()
	if err != nil {
		return err
	}
	return auth.Require(u, domain.RoleAdmin)
}

func renderDashboard(c *app.Context, u *domain.User, tickets []*domain.Ticket, title string) error {
	ui.SortForDashboard(tickets)
	ext := c.Engine.AnalyticsExtended()
	if viper.GetBool("json") {
		return printJSON(map[string]any{
			"user":      u,
			"tickets":   records(tickets),
			"dashboard": c.Engine.AnalyticsDashboard(),
			"extended":  ext,
		})
	}
	fmt.Println(ui.Rule(fmt.Sprintf("%s: %s (%s)", title, u.Name, u.Role)))
	ui.TicketTable(os.Stdout, tickets, c.Engine.Now())
	fmt.Println(ui.Rule("Analytics"))
	ui.DashboardGrid(os.Stdout, c.Engine.AnalyticsDashboard().Grid())
	fmt.Println(ui.AnalyticsPanels(ext))
	fmt.Println(ui.Hints("create", "close <id>", "assign <id>", "tag <id>", "process", "undo"))
	return nil
}

func describeUndo(a undo.Action) string {
	switch a := a.(type) {
	case undo.Create:
		return fmt.Sprintf("Undid create of ticket #%d", a.ID)
	case undo.Close:
		return fmt.Sprintf("Reopened ticket #%d", a.ID)
	case undo.Assign:
		return fmt.Sprintf("Restored assignee of ticket #%d", a.ID)
	case undo.Tag:
		return fmt.Sprintf("Restored tags of ticket #%d", a.ID)
	}
	return fmt.Sprintf("Undid %s on ticket #%d", a.Kind(), a.TicketID())
}

func records(tickets []*domain.Ticket) []domain.TicketRecord {
	out := make([]domain.TicketRecord, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.Record())
	}
	return out
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid ticket id %q", s)
	}
	return id, nil
}

func printResult(v any, text string) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	fmt.Println(text)
	return nil
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setEnvValue(path, key, value string) error {
	var lines []string
	seen := false
	f, err := os.Open(path)
	if err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, key+"=") {
				lines = append(lines, fmt.Sprintf("%s=%s", key, value))
				seen = true
			} else {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return err
		}
		f.Close()
	} else if !os.IsNotExist(err) {
		return err
	}
	if !seen {
		lines = append(lines, fmt.Sprintf("%s=%s", key, value))
	}
	content := strings.Join(lines, "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
