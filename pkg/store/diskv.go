package store

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("store: task not found")

// Persistence defines the persistence contract for planned tasks.
type Persistence interface {
	ListAll(ctx context.Context) []*task.Task
	List(ctx context.Context, plan string) []*task.Task
	Get(ctx context.Context, id string) (*task.Task, error)
	Plans(ctx context.Context) []PlanMeta
	Store(t *task.Task) error
	Delete(t *task.Task) error
	EnsurePlan(plan string) error
	SetPlanWindow(plan string, w timemath.Window) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*task.Task, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	t := &task.Task{}
	if err := json.Unmarshal(val, t); err != nil {
		return nil, err
	}
	pk := keyToPathTransform(key)
	t.ID = pk.FileName
	if len(pk.Path) > 0 {
		t.PlanID = fromPlan(pk.Path[0])
	}
	if _, err := task.ParseCategory(string(t.Category)); err != nil {
		slog.Warn("store: unknown category, using other", "key", key, "category", t.Category)
		t.Category = task.CategoryOther
	}
	if _, err := task.ParsePriority(string(t.Priority)); err != nil {
		slog.Warn("store: unknown priority, using medium", "key", key, "priority", t.Priority)
		t.Priority = task.PriorityMedium
	}
	t.Normalize()
	return t, nil
}

func (p *persistence) ListAll(ctx context.Context) []*task.Task {
	all := make([]*task.Task, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if !isTaskKey(key) {
			continue
		}
		t, err := p.read(key)
		if err != nil {
			slog.Warn("store: skipping unreadable record", "key", key, "err", err)
			continue
		}
		all = append(all, t)
	}
	sortTasks(all)
	return all
}

func (p *persistence) List(ctx context.Context, plan string) []*task.Task {
	prefix := toPlan(plan) + "-"
	all := make([]*task.Task, 0)
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		t, err := p.read(key)
		if err != nil {
			slog.Warn("store: skipping unreadable record", "key", key, "err", err)
			continue
		}
		all = append(all, t)
	}
	sortTasks(all)
	return all
}

func (p *persistence) Get(ctx context.Context, id string) (*task.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	for key := range p.d.Keys(ctx.Done()) {
		if !isTaskKey(key) || keyToPathTransform(key).FileName != id {
			continue
		}
		return p.read(key)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (p *persistence) Store(t *task.Task) error {
	if strings.TrimSpace(t.PlanID) == "" {
		return errors.New("store: task has no plan")
	}
	t.Normalize()
	key := toKey(t)
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := p.d.Write(key, data); err != nil {
		return err
	}
	if err := p.EnsurePlan(t.PlanID); err != nil {
		slog.Warn("store: plan index not updated", "plan", t.PlanID, "err", err)
	}
	return nil
}

func (p *persistence) Delete(t *task.Task) error {
	if t.ID == "" {
		return ErrNotFound
	}
	return p.d.Erase(toKey(t))
}

func sortTasks(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		left := tasks[i]
		right := tasks[j]
		if left == nil || right == nil {
			return left != nil
		}
		lt := left.Created.Time
		rt := right.Created.Time
		switch {
		case lt.IsZero() && rt.IsZero():
			return left.ID < right.ID
		case lt.IsZero():
			return false
		case rt.IsZero():
			return true
		default:
			if lt.Equal(rt) {
				return left.ID < right.ID
			}
			return lt.Before(rt)
		}
	})
}

// planEncoding is base64 with '_' in place of '/', so encoded plan names are
// safe as a single directory and never contain the key separator.
var planEncoding = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+_")

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) < 2 {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{
		Path:     parts[:1],
		FileName: parts[1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// isTaskKey filters out the index files kept next to the plan directories.
func isTaskKey(key string) bool {
	return len(keyToPathTransform(key).Path) > 0
}

// toKey makes `plan-id`
func toKey(t *task.Task) string {
	if t.ID == "" {
		b, _ := json.Marshal(t)
		id := md5.Sum(b)
		t.ID = fmt.Sprintf("%x", id[:8])
	}
	return fmt.Sprintf("%s-%s", toPlan(t.PlanID), t.ID)
}

func toPlan(s string) string {
	return planEncoding.EncodeToString([]byte(s))
}

func fromPlan(s string) string {
	plan, err := planEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("fromPlan: %s", err)
	}
	return string(plan)
}
