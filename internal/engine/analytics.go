package engine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"helpdesk/internal/domain"
)

// TierCounts is one row of the dashboard grid.
type TierCounts struct {
	Priority domain.Priority `json:"priority"`
	Open     int             `json:"open"`
	Closed   int             `json:"closed"`
}

// Dashboard holds open/closed counts for the high, medium and low tiers in
// that order.
type Dashboard struct {
	Rows [3]TierCounts `json:"rows"`
}

// Grid renders the dashboard as a header row plus one row per tier.
func (d Dashboard) Grid() [4][3]string {
	grid := [4][3]string{{"Priority", "Open", "Closed"}}
	for i, row := range d.Rows {
		label := string(row.Priority)
		if label != "" {
			label = strings.ToUpper(label[:1]) + label[1:]
		}
		grid[i+1] = [3]string{label, strconv.Itoa(row.Open), strconv.Itoa(row.Closed)}
	}
	return grid
}

// AnalyticsDashboard tabulates open and closed tickets per priority.
func (e *Engine) AnalyticsDashboard() Dashboard {
	var d Dashboard
	for i, p := range domain.Priorities {
		d.Rows[i].Priority = p
	}
	for _, t := range e.tickets {
		r := t.Priority.Rank()
		if r < 0 {
			continue
		}
		if t.IsOpen() {
			d.Rows[r].Open++
		} else {
			d.Rows[r].Closed++
		}
	}
	return d
}

// Aging bucket labels, in display order.
const (
	Bucket0To24h = "0-24h"
	Bucket1To3d  = "1-3d"
	Bucket3To7d  = "3-7d"
	Bucket7dPlus = "7d+"
)

var BucketLabels = []string{Bucket0To24h, Bucket1To3d, Bucket3To7d, Bucket7dPlus}

// Bucket is one aging bucket of open tickets.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TicketAge is the age of one ticket in hours, measured to closure for
// closed tickets.
type TicketAge struct {
	TicketID int     `json:"ticket_id"`
	Hours    float64 `json:"hours"`
	Open     bool    `json:"open"`
	Breached bool    `json:"breached"`
}

type Totals struct {
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

type SLAReport struct {
	OpenBreaches int `json:"open_breaches"`
	PctEstimate  int `json:"sla_pct_estimate"`
}

// Extended is the aging and SLA report.
type Extended struct {
	Totals       Totals      `json:"totals"`
	SLA          SLAReport   `json:"sla"`
	AgingBuckets []Bucket    `json:"aging_buckets"`
	Ages         []TicketAge `json:"ages"`
}

// bucketFor places an age into the half-open ranges [0,24h), [24h,72h),
// [72h,168h) and [168h,inf).
func bucketFor(age time.Duration) int {
	switch {
	case age < 24*time.Hour:
		return 0
	case age < 72*time.Hour:
		return 1
	case age < 7*24*time.Hour:
		return 2
	}
	return 3
}

// AnalyticsExtended computes ages, aging buckets for open tickets and the
// SLA breach estimate. An open ticket breaches when its age exceeds the
// configured threshold for its priority.
func (e *Engine) AnalyticsExtended() Extended {
	now := e.now()
	ext := Extended{AgingBuckets: make([]Bucket, len(BucketLabels)), Ages: []TicketAge{}}
	for i, label := range BucketLabels {
		ext.AgingBuckets[i].Label = label
	}
	for _, t := range e.List(ListFilter{}) {
		age := t.Age(now)
		ta := TicketAge{TicketID: t.ID, Hours: age.Hours(), Open: t.IsOpen()}
		if t.IsOpen() {
			ext.Totals.Open++
			ext.AgingBuckets[bucketFor(age)].Count++
			if age > e.Config.SLA.Threshold(t.Priority) {
				ta.Breached = true
				ext.SLA.OpenBreaches++
			}
		} else {
			ext.Totals.Closed++
		}
		ext.Ages = append(ext.Ages, ta)
	}
	ext.SLA.PctEstimate = slaPercent(ext.Totals.Open+ext.Totals.Closed, ext.Totals.Open, ext.SLA.OpenBreaches)
	return ext
}

// slaPercent is 0 with no tickets at all and 100 when nothing is open.
func slaPercent(total, open, breaches int) int {
	if total == 0 {
		return 0
	}
	if open == 0 {
		return 100
	}
	return int(math.Round(100 * (1 - float64(breaches)/float64(open))))
}
