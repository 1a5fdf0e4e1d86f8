package cli

import (
	"fmt"

	"github.com/littletreezlx/learn-x/internal/callback"
	"github.com/littletreezlx/learn-x/internal/config"
	"github.com/littletreezlx/learn-x/internal/engine"
	"github.com/littletreezlx/learn-x/internal/hello"
	"github.com/littletreezlx/learn-x/internal/registry"
)

// Host wires the bridge components for one process.
type Host struct {
	Config    config.Config
	Registry  *registry.Registry
	Scheduler *callback.Scheduler
	Engine    *engine.Engine
}

// NewHost builds a registry holding the reference namespaces, a scheduler
// configured from cfg and an engine over both. extra options are applied
// to the scheduler after the configured ones.
func NewHost(cfg config.Config, ids engine.IDGenerator, extra ...callback.Option) (*Host, error) {
	sched := callback.NewScheduler(append(cfg.SchedulerOptions(), extra...)...)

	reg := registry.New()
	if err := hello.Register(reg, hello.New(sched)); err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	return &Host{
		Config:    cfg,
		Registry:  reg,
		Scheduler: sched,
		Engine:    engine.New(reg, engine.WithIDGenerator(ids)),
	}, nil
}
