// Package ui renders store contents for the terminal. It only reads from
// the engine.
package ui

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"helpdesk/internal/domain"
	"helpdesk/internal/engine"
	"helpdesk/internal/events"
)

const maxDescription = 60

// color is false once ConfigureColor decides output is not a terminal.
var color = true

var (
	ruleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	hintStyle = panelStyle.Foreground(lipgloss.Color("7"))
)

// ConfigureColor turns styling off when fd is not a terminal or disable is
// set. It reports whether colour stays on.
func ConfigureColor(fd uintptr, disable bool) bool {
	color = !disable && term.IsTerminal(int(fd))
	if !color {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return color
}

// WriteJSON writes encoded JSON, syntax highlighted when colour is on.
func WriteJSON(w io.Writer, data []byte) error {
	if color {
		if err := quick.Highlight(w, string(data), "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err := w.Write(data)
	return err
}

func newTable(w io.Writer, title string) table.Writer {
	tw := table.NewWriter()
	if w != nil {
		tw.SetOutputMirror(w)
	}
	if title != "" {
		tw.SetTitle(title)
	}
	tw.SetStyle(table.StyleLight)
	return tw
}

func orDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

// TicketTable writes one row per ticket.
func TicketTable(w io.Writer, tickets []*domain.Ticket, now time.Time) {
	tw := newTable(w, "Tickets")
	tw.AppendHeader(table.Row{"ID", "Priority", "Status", "Age", "Owner", "Assignee", "Description", "Tags"})
	for _, t := range tickets {
		tags := "-"
		if len(t.Tags) > 0 {
			tags = strings.Join(t.Tags, ",")
		}
		tw.AppendRow(table.Row{
			fmt.Sprintf("#%d", t.ID),
			capitalize(string(t.Priority)),
			capitalize(string(t.Status)),
			fmt.Sprintf("%dh", int(t.Age(now).Hours())),
			orDash(t.OwnerID),
			orDash(t.AssigneeID),
			truncate(t.Description, maxDescription),
			tags,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	tw.Render()
}

// TicketDetail writes a key/value view of one ticket.
func TicketDetail(w io.Writer, t *domain.Ticket, resolvable bool) {
	tw := newTable(w, fmt.Sprintf("Ticket #%d", t.ID))
	parent := "-"
	if t.ParentID != nil {
		parent = fmt.Sprintf("#%d", *t.ParentID)
	}
	closed := "-"
	if t.ClosedAt != nil {
		closed = t.ClosedAt.Format(time.RFC3339)
	}
	tags := "-"
	if len(t.Tags) > 0 {
		tags = strings.Join(t.Tags, ", ")
	}
	tw.AppendRows([]table.Row{
		{"Description", t.Description},
		{"Status", capitalize(string(t.Status))},
		{"Priority", capitalize(string(t.Priority))},
		{"Parent", parent},
		{"Resolvable", strconv.FormatBool(resolvable)},
		{"Owner", orDash(t.OwnerID)},
		{"Assignee", orDash(t.AssigneeID)},
		{"Tags", tags},
		{"Created", t.CreatedAt.Format(time.RFC3339)},
		{"Closed", closed},
	})
	tw.Render()
}

// DashboardGrid writes the priority by status grid.
func DashboardGrid(w io.Writer, grid [4][3]string) {
	tw := newTable(w, "")
	tw.AppendHeader(table.Row{grid[0][0], grid[0][1], grid[0][2]})
	for _, row := range grid[1:] {
		tw.AppendRow(table.Row{row[0], row[1], row[2]})
	}
	tw.Render()
}

// QueueTable writes pending tickets in dispatch order.
func QueueTable(w io.Writer, title string, tickets []*domain.Ticket) {
	tw := newTable(w, title)
	tw.AppendHeader(table.Row{"#", "ID", "Priority", "Status", "Created", "Description"})
	for i, t := range tickets {
		tw.AppendRow(table.Row{i + 1, t.ID, string(t.Priority), string(t.Status), t.CreatedAt.Format(time.RFC3339), truncate(t.Description, maxDescription)})
	}
	tw.Render()
}

// EventTable writes journal rows.
func EventTable(w io.Writer, evts []events.Event) {
	tw := newTable(w, "Events")
	tw.AppendHeader(table.Row{"ID", "Time", "Type", "Ticket", "Payload"})
	for _, e := range evts {
		tw.AppendRow(table.Row{e.ID, e.TS, e.Type, e.Ref, e.Payload})
	}
	tw.Render()
}

// AnalyticsPanels renders totals, SLA and aging as bordered panels side by side.
func AnalyticsPanels(ext engine.Extended) string {
	totals := newTable(nil, "Totals")
	totals.AppendHeader(table.Row{"Metric", "Value"})
	totals.AppendRow(table.Row{"Open", ext.Totals.Open})
	totals.AppendRow(table.Row{"Closed", ext.Totals.Closed})

	sla := newTable(nil, "SLA")
	sla.AppendHeader(table.Row{"Metric", "Value"})
	sla.AppendRow(table.Row{"Open breaches", ext.SLA.OpenBreaches})
	sla.AppendRow(table.Row{"SLA % (est)", fmt.Sprintf("%d%%", ext.SLA.PctEstimate)})

	aging := newTable(nil, "Aging")
	aging.AppendHeader(table.Row{"Bucket", "Count"})
	for _, b := range ext.AgingBuckets {
		aging.AppendRow(table.Row{b.Label, b.Count})
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(totals.Render()),
		panelStyle.Render(sla.Render()),
		panelStyle.Render(aging.Render()),
	)
}

// Rule renders a section heading.
func Rule(title string) string {
	return ruleStyle.Render("── " + title + " ──")
}

// Hints renders a panel listing follow-up commands.
func Hints(commands ...string) string {
	return hintStyle.Render("Commands: helpdesk " + strings.Join(commands, " | "))
}

// SortForDashboard orders open tickets first, then by priority rank and age.
func SortForDashboard(tickets []*domain.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := tickets[i], tickets[j]
		if a.IsOpen() != b.IsOpen() {
			return a.IsOpen()
		}
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
