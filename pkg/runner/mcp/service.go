// Package mcp provides the Model Context Protocol server integration for
// dayplan.
package mcp

import (
	"context"
	"errors"
	"sort"
	"strings"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/clock"
	"tableflip.dev/dayplan/pkg/focus"
	"tableflip.dev/dayplan/pkg/live"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeline"
	"tableflip.dev/dayplan/pkg/timemath"
)

// Service adapts the app service to transport-friendly shapes shared by the
// MCP tools and resources.
type Service struct {
	App *app.Service
	// Plan is used when a request names none.
	Plan string
	// Window is used for plans without an override.
	Window timemath.Window
	Clock  clock.Clock
}

// TaskDTO is a transport-friendly projection of a task.
type TaskDTO struct {
	ID              string `json:"id"`
	Plan            string `json:"plan"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	CategorySymbol  string `json:"categorySymbol"`
	Priority        string `json:"priority"`
	Scheduled       bool   `json:"scheduled"`
	StartTime       string `json:"startTime,omitempty"`
	EndTime         string `json:"endTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	Completed       bool   `json:"completed"`
	Lane            *int   `json:"lane,omitempty"`
	Clipped         bool   `json:"clipped,omitempty"`
	Created         string `json:"created,omitempty"`
	Updated         string `json:"updated,omitempty"`
}

// PlanView is a plan laid out on its window.
type PlanView struct {
	Plan      string    `json:"plan"`
	StartHour int       `json:"startHour"`
	EndHour   int       `json:"endHour"`
	Lanes     int       `json:"lanes"`
	Scheduled []TaskDTO `json:"scheduled"`
	Pool      []TaskDTO `json:"pool"`
}

// NowDTO is the live schedule at the service clock's current time.
type NowDTO struct {
	Plan      string   `json:"plan"`
	Mode      string   `json:"mode"`
	Headline  string   `json:"headline"`
	Caption   string   `json:"caption"`
	Countdown string   `json:"countdown"`
	Seconds   int      `json:"seconds"`
	Progress  float64  `json:"progressPercent"`
	Remaining string   `json:"remaining,omitempty"`
	Current   *TaskDTO `json:"current,omitempty"`
	Next      *TaskDTO `json:"next,omitempty"`
	NextCard  *TaskDTO `json:"nextCard,omitempty"`
}

// NewService builds a service wrapper around svc.
func NewService(svc *app.Service, plan string, w timemath.Window) *Service {
	return &Service{App: svc, Plan: plan, Window: w}
}

func (s *Service) ready() error {
	if s == nil || s.App == nil || s.App.Persistence == nil {
		return errors.New("persistence is not configured")
	}
	return nil
}

func (s *Service) plan(plan string) string {
	if p := strings.TrimSpace(plan); p != "" {
		return p
	}
	return s.Plan
}

func (s *Service) now() live.Moment {
	c := s.Clock
	if c == nil {
		c = clock.System
	}
	return live.MomentOf(c.Now())
}

// ListPlans returns the stored plans.
func (s *Service) ListPlans(ctx context.Context) ([]store.PlanMeta, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.App.Plans(ctx)
}

// View lays plan out: scheduled tasks in start order with their lanes, then
// the pool.
func (s *Service) View(ctx context.Context, plan string) (*PlanView, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	plan = s.plan(plan)
	if plan == "" {
		return nil, errors.New("plan is required")
	}
	tasks, err := s.App.ListTasksForPlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	w := s.App.Window(ctx, plan, s.Window)
	v := timeline.Layout(tasks, timemath.Scale{Window: w, PixelsPerMinute: 1})

	out := &PlanView{Plan: plan, StartHour: w.StartHour, EndHour: w.EndHour, Lanes: v.Lanes, Scheduled: []TaskDTO{}, Pool: []TaskDTO{}}
	boxes := append([]timeline.Box(nil), v.Boxes...)
	sort.SliceStable(boxes, func(i, j int) bool { return boxes[i].Start < boxes[j].Start })
	for _, b := range boxes {
		dto := toDTO(b.Task)
		lane := b.Lane
		dto.Lane = &lane
		dto.Clipped = b.Clipped
		out.Scheduled = append(out.Scheduled, dto)
	}
	for _, t := range v.Pool {
		out.Pool = append(out.Pool, toDTO(t))
	}
	return out, nil
}

// Get fetches one task.
func (s *Service) Get(ctx context.Context, id string) (*TaskDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.App.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dtoPtr(t), nil
}

// Create adds a task to a plan.
func (s *Service) Create(ctx context.Context, in app.NewTask) (*TaskDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	in.Plan = s.plan(in.Plan)
	t, err := s.App.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}
	return dtoPtr(t), nil
}

// Schedule places a task at start, keeping its duration when duration is nil.
func (s *Service) Schedule(ctx context.Context, id, start string, duration *int) (*TaskDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.App.Schedule(ctx, id, start, duration)
	if err != nil {
		return nil, err
	}
	return dtoPtr(t), nil
}

// Unassign returns a task to the pool.
func (s *Service) Unassign(ctx context.Context, id string) (*TaskDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.App.Unassign(ctx, id)
	if err != nil {
		return nil, err
	}
	return dtoPtr(t), nil
}

// Complete sets the completion flag.
func (s *Service) Complete(ctx context.Context, id string, done bool) (*TaskDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.App.SetCompleted(ctx, id, done)
	if err != nil {
		return nil, err
	}
	return dtoPtr(t), nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.App.DeleteTask(ctx, id)
}

// Now resolves the live schedule of plan.
func (s *Service) Now(ctx context.Context, plan string) (*NowDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	plan = s.plan(plan)
	tasks, err := s.App.ListTasksForPlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	sched := live.Resolve(tasks, s.App.Window(ctx, plan, s.Window), s.now())
	c := focus.Present(sched)
	return &NowDTO{
		Plan:      plan,
		Mode:      c.Mode.String(),
		Headline:  c.Headline,
		Caption:   c.Caption,
		Countdown: c.Clock,
		Seconds:   c.Seconds,
		Progress:  sched.ProgressPercent(),
		Remaining: sched.RemainingLabel(),
		Current:   dtoPtr(sched.Current),
		Next:      dtoPtr(sched.Next),
		NextCard:  dtoPtr(sched.NextCard()),
	}, nil
}

// Report totals plan per category.
func (s *Service) Report(ctx context.Context, plan string) (app.ReportResult, error) {
	if err := s.ready(); err != nil {
		return app.ReportResult{}, err
	}
	plan = s.plan(plan)
	return s.App.Report(ctx, plan, s.App.Window(ctx, plan, s.Window))
}

func toDTO(t *task.Task) TaskDTO {
	dto := TaskDTO{
		ID:              t.ID,
		Plan:            t.PlanID,
		Title:           t.Title,
		Category:        string(t.Category),
		CategorySymbol:  t.Category.Symbol(),
		Priority:        string(t.Priority),
		Scheduled:       t.Scheduled(),
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		DurationMinutes: t.Duration(),
		Completed:       t.Completed,
	}
	if !t.Created.IsZero() {
		dto.Created = t.Created.String()
	}
	if !t.Updated.IsZero() {
		dto.Updated = t.Updated.String()
	}
	return dto
}

func dtoPtr(t *task.Task) *TaskDTO {
	if t == nil {
		return nil
	}
	dto := toDTO(t)
	return &dto
}
