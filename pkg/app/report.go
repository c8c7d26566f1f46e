package app

import (
	"context"
	"sort"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

// CategoryTotal sums the planned time of one category.
type CategoryTotal struct {
	Category task.Category `json:"category" yaml:"category"`
	Planned  int           `json:"plannedMinutes" yaml:"plannedMinutes"`
	Done     int           `json:"doneMinutes" yaml:"doneMinutes"`
	Tasks    int           `json:"tasks" yaml:"tasks"`
}

// ReportResult summarises a plan.
type ReportResult struct {
	Plan       string          `json:"plan" yaml:"plan"`
	Tasks      int             `json:"tasks" yaml:"tasks"`
	Completed  int             `json:"completed" yaml:"completed"`
	Pool       int             `json:"pool" yaml:"pool"`
	Planned    int             `json:"plannedMinutes" yaml:"plannedMinutes"`
	Free       int             `json:"freeMinutes" yaml:"freeMinutes"`
	Categories []CategoryTotal `json:"categories" yaml:"categories"`
}

// Report totals the scheduled time of plan per category. Free is the part of
// the window no scheduled task covers.
func (s *Service) Report(ctx context.Context, plan string, w timemath.Window) (ReportResult, error) {
	all, err := s.ListTasksForPlan(ctx, plan)
	if err != nil {
		return ReportResult{}, err
	}
	out := ReportResult{Plan: plan}
	grouped := make(map[task.Category]*CategoryTotal)
	covered := make([]bool, w.Length())
	for _, t := range all {
		if t == nil {
			continue
		}
		out.Tasks++
		if t.Completed {
			out.Completed++
		}
		if !t.Scheduled() {
			out.Pool++
			continue
		}
		total, ok := grouped[t.Category]
		if !ok {
			total = &CategoryTotal{Category: t.Category}
			grouped[t.Category] = total
		}
		total.Tasks++
		total.Planned += t.Duration()
		if t.Completed {
			total.Done += t.Duration()
		}
		out.Planned += t.Duration()

		off := w.Offset(t.StartMinute())
		start, end, visible := w.Clip(off, off+t.Duration())
		if !visible {
			continue
		}
		for m := start; m < end; m++ {
			covered[m] = true
		}
	}
	for _, c := range covered {
		if !c {
			out.Free++
		}
	}

	for _, c := range task.AllCategories() {
		if total, ok := grouped[c]; ok {
			out.Categories = append(out.Categories, *total)
		}
	}
	sort.SliceStable(out.Categories, func(i, j int) bool {
		return out.Categories[i].Planned > out.Categories[j].Planned
	})
	return out, nil
}
