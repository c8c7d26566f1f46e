package app

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"tableflip.dev/dayplan/pkg/task"
)

// RolloverCandidates returns the unfinished tasks of plan, scheduled ones
// first in start order, then the pool in creation order.
func (s *Service) RolloverCandidates(ctx context.Context, plan string) ([]*task.Task, error) {
	all, err := s.ListTasksForPlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	open := make([]*task.Task, 0, len(all))
	for _, t := range all {
		if t != nil && !t.Completed {
			open = append(open, t)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		a, b := open[i], open[j]
		if a.Scheduled() != b.Scheduled() {
			return a.Scheduled()
		}
		if a.Scheduled() {
			return a.StartMinute() < b.StartMinute()
		}
		return false
	})
	return open, nil
}

// Rollover moves unfinished tasks from one plan into the pool of another.
// With no ids every candidate moves. Durations, categories and priorities are
// kept; start times are not, since the target day has its own layout.
func (s *Service) Rollover(ctx context.Context, from, to string, ids ...string) ([]*task.Task, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, errors.New("app: rollover needs a source and a target plan")
	}
	if from == to {
		return nil, nil
	}
	candidates, err := s.RolloverCandidates(ctx, from)
	if err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	moved := make([]*task.Task, 0, len(candidates))
	for _, t := range candidates {
		if len(want) > 0 && !want[t.ID] {
			continue
		}
		clone := t.Clone()
		clone.ID = uuid.NewString()
		clone.PlanID = to
		clone.StartTime = ""
		clone.Updated = task.Timestamp{Time: s.now()}
		clone.Normalize()
		if err := s.Persistence.Store(clone); err != nil {
			return moved, err
		}
		if err := s.Persistence.Delete(t); err != nil {
			return moved, err
		}
		moved = append(moved, clone)
	}
	return moved, nil
}
