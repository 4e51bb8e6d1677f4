package app

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/timemore/publicstore/errors"
)

// EnvPrefixDefault is joined to field names with an underscore by
// envconfig, so Name is read from APP_NAME.
const EnvPrefixDefault = "APP"

const (
	NameDefault = "publicstore"
	EnvDefault  = "dev"
)

// Info describes the running process. It is attached to log events and
// error reports.
type Info struct {
	// Name of the app
	Name string `split_words:"true"`
	// Env is the deployment environment, e.g. dev, staging or production.
	Env string `split_words:"true"`
}

func DefaultInfo() Info {
	return Info{
		Name: NameDefault,
		Env:  EnvDefault,
	}
}

// InfoFromEnv loads Info from APP_* environment variables on top of
// DefaultInfo.
func InfoFromEnv() (Info, error) {
	info := DefaultInfo()
	err := envconfig.Process(EnvPrefixDefault, &info)
	if err != nil {
		return DefaultInfo(), errors.Wrap("info loading from environment variables", err)
	}
	if info.Name == "" {
		info.Name = NameDefault
	}
	if info.Env == "" {
		info.Env = EnvDefault
	}
	return info, nil
}
