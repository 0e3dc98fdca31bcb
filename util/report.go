package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Action is what happened to a single file during a pass.
type Action int

const (
	ActionMoved Action = iota
	// ActionSkipped covers expected no-ops: no year in the name, or the file
	// is already where it belongs.
	ActionSkipped
	// ActionIgnored is a path that was not a regular file by the time it was
	// looked at.
	ActionIgnored
	ActionFailed
)

func (a Action) String() string {
	switch a {
	case ActionMoved:
		return "moved"
	case ActionSkipped:
		return "skipped"
	case ActionIgnored:
		return "ignored"
	case ActionFailed:
		return "failed"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Outcome records the decision taken for one file.
type Outcome struct {
	Source   string
	Dest     string
	Action   Action
	Year     string
	Category string
	Reason   string
	Err      error
}

// Report summarises one organize pass.
type Report struct {
	RunID    string
	Root     string
	Started  time.Time
	Duration time.Duration
	Outcomes []Outcome
	// Pruned lists directories skipped because they were already organized.
	Pruned []string
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Count returns the number of outcomes with the given action.
func (r *Report) Count(a Action) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == a {
			n++
		}
	}
	return n
}

// Filter returns the outcomes with the given action, in visit order.
func (r *Report) Filter(a Action) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Action == a {
			out = append(out, o)
		}
	}
	return out
}

// Render draws the summary table, followed by a table of failures if any.
func (r *Report) Render() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("%s (%s)", r.Root, r.Duration.Round(time.Millisecond)))
	tw.AppendHeader(table.Row{"Result", "Files"})
	for _, a := range []Action{ActionMoved, ActionSkipped, ActionIgnored, ActionFailed} {
		tw.AppendRow(table.Row{a.String(), r.Count(a)})
	}
	tw.AppendFooter(table.Row{"pruned dirs", len(r.Pruned)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	out := tw.Render()

	failures := r.Filter(ActionFailed)
	if len(failures) == 0 {
		return out
	}
	ft := table.NewWriter()
	ft.SetStyle(table.StyleRounded)
	ft.AppendHeader(table.Row{"Source", "Destination", "Error"})
	for _, o := range failures {
		ft.AppendRow(table.Row{o.Source, o.Dest, o.Err})
	}
	return out + "\n" + ft.Render()
}

// RenderCategories draws the category table in match order.
func RenderCategories(cfg Config) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Category", "Keywords"})
	for i, cat := range cfg.Categories {
		tw.AppendRow(table.Row{i + 1, cat.Name, strings.Join(cat.Keywords, ", ")})
	}
	tw.AppendFooter(table.Row{"", cfg.Other, "(no match)"})
	return tw.Render()
}
