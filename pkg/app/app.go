package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

// Service is the data-access layer shared by the CLI, the TUI and the MCP
// server. It wraps persistence with validation and the task update rules.
type Service struct {
	Persistence store.Persistence
	// Now stamps Created and Updated; time.Now when nil.
	Now func() time.Time
}

var (
	ErrTaskNotFound  = errors.New("app: task not found")
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrTitleRequired = errors.New("app: title required")
)

// NewTask describes a task to create. Start and Duration are optional.
type NewTask struct {
	Plan     string
	Title    string
	Category string
	Priority string
	Start    string
	Duration *int
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ready() error {
	if s == nil || s.Persistence == nil {
		return ErrNoPersistence
	}
	return nil
}

// Plans lists the stored plans.
func (s *Service) Plans(ctx context.Context) ([]store.PlanMeta, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Plans(ctx), nil
}

// ListTasksForPlan loads every task of plan, scheduled or not.
func (s *Service) ListTasksForPlan(ctx context.Context, plan string) ([]*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(plan) == "" {
		return nil, errors.New("app: plan required")
	}
	return s.Persistence.List(ctx, plan), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Watch(ctx)
}

// Get returns the stored task with id.
func (s *Service) Get(ctx context.Context, id string) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.Persistence.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return t, err
}

// CreateTask validates and stores a new task. A start, when given, must be a
// valid time label.
func (s *Service) CreateTask(ctx context.Context, in NewTask) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(in.Plan) == "" {
		return nil, errors.New("app: plan required")
	}
	category, err := task.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	priority, err := task.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}
	if in.Start != "" && !timemath.Valid(in.Start) {
		return nil, fmt.Errorf("app: invalid start time %q", in.Start)
	}

	t := task.New(strings.TrimSpace(in.Plan), title)
	t.ID = uuid.NewString()
	t.Category = category
	t.Priority = priority
	t.StartTime = in.Start
	if in.Duration != nil {
		t.DurationMinutes = task.Minutes(*in.Duration)
	}
	now := s.now()
	t.Created = task.Timestamp{Time: now}
	t.Updated = task.Timestamp{Time: now}
	t.Normalize()
	if err := s.Persistence.Store(t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask applies a partial update and returns the stored record. EndTime
// in the patch is ignored and recomputed.
func (s *Service) UpdateTask(ctx context.Context, id string, p task.Patch) (*task.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.StartTime != nil && *p.StartTime != "" && !timemath.Valid(*p.StartTime) {
		return nil, fmt.Errorf("app: invalid start time %q", *p.StartTime)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, ErrTitleRequired
	}
	if p.Empty() {
		return t, nil
	}
	t.Apply(p)
	t.Updated = task.Timestamp{Time: s.now()}
	if err := s.Persistence.Store(t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTask removes a task permanently.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.Persistence.Delete(t)
}

// Schedule places id at start. A nil duration keeps the current one.
func (s *Service) Schedule(ctx context.Context, id, start string, duration *int) (*task.Task, error) {
	if !timemath.Valid(start) {
		return nil, fmt.Errorf("app: invalid start time %q", start)
	}
	return s.UpdateTask(ctx, id, task.Patch{StartTime: task.Label(start), DurationMinutes: duration})
}

// Unassign returns id to the pool. Unassigning a task already in the pool
// changes nothing and writes nothing.
func (s *Service) Unassign(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.Scheduled() {
		return t, nil
	}
	return s.UpdateTask(ctx, id, task.Patch{StartTime: task.Label(""), EndTime: task.Label("")})
}

// SetCompleted marks id done or not done. Scheduling is left as is.
func (s *Service) SetCompleted(ctx context.Context, id string, done bool) (*task.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Completed == done {
		return t, nil
	}
	return s.UpdateTask(ctx, id, task.Patch{Completed: &done})
}

// ToggleCompleted flips the completion flag of id.
func (s *Service) ToggleCompleted(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SetCompleted(ctx, id, !t.Completed)
}

// Window is the visible window for plan: the plan's own override when one is
// stored, fallback otherwise.
func (s *Service) Window(ctx context.Context, plan string, fallback timemath.Window) timemath.Window {
	if s.ready() != nil {
		return fallback
	}
	for _, meta := range s.Persistence.Plans(ctx) {
		if meta.Name == plan && meta.Window != nil {
			return *meta.Window
		}
	}
	return fallback
}

// SetWindow stores a window override for plan.
func (s *Service) SetWindow(_ context.Context, plan string, w timemath.Window) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.Persistence.SetPlanWindow(plan, w)
}
