package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigSkeleton(t *testing.T) {
	cfg := ConfigSkeleton()

	assert.False(t, cfg.Enabled, "storage must be opt-in")
	assert.Equal(t, ServiceDefault, cfg.StoreService)
	assert.IsType(t, &fakeConfig{}, cfg.Modules[fakeServiceName])
	assert.Contains(t, ModuleNames(), fakeServiceName)
}

func TestConfig_ServiceConfig(t *testing.T) {
	conf := &fakeConfig{Bucket: "assets"}

	cfg := Config{StoreService: fakeServiceName, Modules: map[string]any{fakeServiceName: conf}}
	assert.Same(t, conf, cfg.ServiceConfig())

	cfg = Config{Modules: map[string]any{ServiceDefault: conf}}
	assert.Same(t, conf, cfg.ServiceConfig(), "empty service name selects the default")

	assert.Nil(t, Config{}.ServiceConfig())
}

func TestRegisterModule_Duplicate(t *testing.T) {
	assert.Panics(t, func() {
		RegisterModule(fakeServiceName, Module{})
	})
}
