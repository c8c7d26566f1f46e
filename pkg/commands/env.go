package commands

import (
	"context"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/store"
)

// loadService reads the configuration and opens the store it points at.
func loadService() (store.Config, *app.Service, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, &app.Service{Persistence: p}, nil
}

func planCompletions() []string {
	_, svc, err := loadService()
	if err != nil {
		return nil
	}
	plans, err := svc.Plans(context.Background())
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(plans))
	for _, p := range plans {
		names = append(names, p.Name)
	}
	return names
}

// taskCompletions offers the IDs of the configured plan, titles as hints.
func taskCompletions() []string {
	cfg, svc, err := loadService()
	if err != nil {
		return nil
	}
	tasks, err := svc.ListTasksForPlan(context.Background(), cfg.Plan())
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID+"\t"+t.Title)
	}
	return ids
}
