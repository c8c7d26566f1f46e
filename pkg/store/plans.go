package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tableflip.dev/dayplan/pkg/timemath"
)

// PlanMeta describes a stored plan. Window overrides the configured window
// for this plan when set.
type PlanMeta struct {
	Name   string           `json:"name" yaml:"name"`
	Window *timemath.Window `json:"window,omitempty" yaml:"window,omitempty"`
	Tasks  int              `json:"tasks" yaml:"tasks"`
}

const plansIndexFile = ".plans.json"

func (p *persistence) Plans(ctx context.Context) []PlanMeta {
	all := make(map[string]PlanMeta)
	if idx, err := p.loadPlansIndex(); err == nil {
		for name, meta := range idx {
			meta.Tasks = 0
			all[name] = meta
		}
	} else {
		slog.Warn("store: load plans index", "err", err)
	}

	for key := range p.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		if len(pk.Path) == 0 {
			continue
		}
		name := fromPlan(pk.Path[0])
		meta := all[name]
		meta.Name = name
		meta.Tasks++
		all[name] = meta
	}

	list := make([]PlanMeta, 0, len(all))
	for _, meta := range all {
		list = append(list, meta)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

func (p *persistence) EnsurePlan(name string) error {
	return p.updatePlan(name, func(*PlanMeta) {})
}

func (p *persistence) SetPlanWindow(name string, w timemath.Window) error {
	w = w.Normalized()
	return p.updatePlan(name, func(meta *PlanMeta) { meta.Window = &w })
}

func (p *persistence) updatePlan(name string, mutate func(*PlanMeta)) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("store: plan name required")
	}
	if err := os.MkdirAll(filepath.Join(p.basePath, toPlan(name)), 0o755); err != nil {
		return fmt.Errorf("store: ensure plan directory: %w", err)
	}
	index, err := p.loadPlansIndex()
	if err != nil {
		return fmt.Errorf("store: load plans index: %w", err)
	}
	meta, existed := index[name]
	meta.Name = name
	before := meta.Window
	mutate(&meta)
	if existed && meta.Window == before {
		return nil
	}
	index[name] = meta
	if err := p.savePlansIndex(index); err != nil {
		return fmt.Errorf("store: save plans index: %w", err)
	}
	return nil
}

func (p *persistence) plansIndexPath() string {
	return filepath.Join(p.basePath, plansIndexFile)
}

func (p *persistence) loadPlansIndex() (map[string]PlanMeta, error) {
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.plansIndexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]PlanMeta), nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return make(map[string]PlanMeta), nil
	}
	var list []PlanMeta
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	index := make(map[string]PlanMeta, len(list))
	for _, meta := range list {
		name := strings.TrimSpace(meta.Name)
		if name == "" {
			continue
		}
		meta.Name = name
		index[name] = meta
	}
	return index, nil
}

func (p *persistence) savePlansIndex(idx map[string]PlanMeta) error {
	list := make([]PlanMeta, 0, len(idx))
	for name, meta := range idx {
		meta.Name = name
		meta.Tasks = 0
		list = append(list, meta)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	path := p.plansIndexPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
