package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/timemore/publicstore/errors"
)

// LoadEnvFiles populates the process environment from dotenv sources.
// For every key, the value of the environment variable with that name
// is parsed as a dotenv document first, then the file <key>.env under
// fileBasePath is loaded. Variables already present in the environment
// are never overridden. Missing files are ignored.
func LoadEnvFiles(envVarKeys []string, fileBasePath string) error {
	for _, k := range envVarKeys {
		str := os.Getenv(k)
		if str == "" {
			continue
		}
		envMap, err := godotenv.Parse(strings.NewReader(str))
		if err != nil {
			return errors.Wrap("parsing "+k, err)
		}
		for ik, iv := range envMap {
			if _, exists := os.LookupEnv(ik); !exists {
				_ = os.Setenv(ik, iv)
			}
		}
	}

	for _, k := range envVarKeys {
		envFile := filepath.Join(fileBasePath, k+".env")
		err := godotenv.Load(envFile)
		if err != nil {
			var pathErr *os.PathError
			if !errors.As(err, &pathErr) {
				return errors.Wrap("loading "+envFile, err)
			}
		}
	}
	return nil
}
