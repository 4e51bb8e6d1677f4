package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/timemore/publicstore/errors"
)

// Module contains attributes which describe a storage module.
type Module struct {
	// ServiceConfigSkeleton returns an instance of config used to initialize
	// the service. This skeleton contains a config structure.
	ServiceConfigSkeleton func() ServiceConfig

	// NewService creates a storage service backend connection. It must
	// verify that the configured bucket is reachable before returning.
	NewService func(ctx context.Context, config ServiceConfig) (Service, error)
}

var (
	modules   = map[string]Module{}
	modulesMu sync.RWMutex
)

func ModuleNames() []string {
	modulesMu.RLock()
	defer modulesMu.RUnlock()

	var names []string
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func NewServiceClient(
	ctx context.Context,
	serviceName string,
	config ServiceConfig,
) (Service, error) {
	if serviceName == "" {
		return nil, errors.ArgMsg("serviceName", "empty")
	}

	modulesMu.RLock()
	module, ok := modules[serviceName]
	modulesMu.RUnlock()
	if !ok || module.NewService == nil {
		return nil, errors.ArgMsg("serviceName",
			serviceName+" not registered, available: "+strings.Join(ModuleNames(), ", "))
	}

	return module.NewService(ctx, config)
}

func RegisterModule(
	serviceName string,
	module Module,
) {
	modulesMu.Lock()
	defer modulesMu.Unlock()

	if _, dup := modules[serviceName]; dup {
		panic("called twice for service " + serviceName)
	}

	modules[serviceName] = module
}

func ModuleConfigSkeletons() map[string]any {
	modulesMu.RLock()
	defer modulesMu.RUnlock()

	configs := map[string]any{}
	for serviceName, mod := range modules {
		if mod.ServiceConfigSkeleton != nil {
			configs[serviceName] = mod.ServiceConfigSkeleton()
		}
	}

	return configs
}
