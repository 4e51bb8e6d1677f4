package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/timemore/publicstore/errors"
	"github.com/timemore/publicstore/errors/access"
	mediastore "github.com/timemore/publicstore/store"
)

type Config struct {
	// DirectoryPath plays the role of the bucket and must exist.
	DirectoryPath string `env:"FOLDER_PATH"`
	// BaseURL is where the directory is served from. Without it, public
	// URLs are file URLs.
	BaseURL string `env:"BASE_URL"`
}

const ServiceName = "local"

func init() {
	mediastore.RegisterModule(
		ServiceName,
		mediastore.Module{
			NewService: NewService,
			ServiceConfigSkeleton: func() mediastore.ServiceConfig {
				cfg := ConfigSkeleton()
				return &cfg
			},
		})
}

func ConfigSkeleton() Config { return Config{} }

var errKeyInvalid = errors.Msg("key escapes the storage directory")

func NewService(_ context.Context, config mediastore.ServiceConfig) (mediastore.Service, error) {
	if config == nil {
		return nil, errors.ArgMsg("config", "missing")
	}

	conf, ok := config.(*Config)
	if !ok {
		return nil, errors.ArgMsg("config", "type invalid")
	}
	if conf.DirectoryPath == "" {
		return nil, errors.ArgMsg("config.DirectoryPath", "empty")
	}

	dirPath, err := filepath.Abs(conf.DirectoryPath)
	if err != nil {
		return nil, errors.ArgWrap("config.DirectoryPath", "resolve", err)
	}
	info, err := os.Stat(dirPath)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, errors.Ent(dirPath, mediastore.ErrBucketNotFound)
		case errors.Is(err, os.ErrPermission):
			return nil, access.Wrap("directory access denied", err)
		}
		return nil, errors.Wrap("stat directory", err)
	}
	if !info.IsDir() {
		return nil, errors.ArgMsg("config.DirectoryPath", "not a directory")
	}

	return &Service{
		directoryPath: dirPath,
		baseURL:       strings.TrimRight(conf.BaseURL, "/"),
	}, nil
}

type Service struct {
	directoryPath string
	baseURL       string
}

var _ mediastore.Service = &Service{}

// PutPublicObject writes the object world-readable. The content type is
// not persisted; the serving side derives it from the name.
func (s *Service) PutPublicObject(
	_ context.Context,
	objectKey string,
	contentSource io.Reader,
	_ int64,
	_ string,
) error {
	targetName, err := s.objectPath(objectKey)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(targetName), 0755); err != nil {
		return errors.Wrap("create directory", err)
	}

	targetFile, err := os.OpenFile(targetName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap("create file", err)
	}
	defer func() {
		_ = targetFile.Close()
	}()

	// OpenFile permissions are subject to the umask.
	if err = targetFile.Chmod(0644); err != nil {
		return errors.Wrap("chmod file", err)
	}
	if _, err = io.Copy(targetFile, contentSource); err != nil {
		return errors.Wrap("write content", err)
	}
	return targetFile.Sync()
}

func (s *Service) StatObject(_ context.Context, objectKey string) error {
	targetName, err := s.objectPath(objectKey)
	if err != nil {
		return err
	}
	info, err := os.Stat(targetName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.Ent(objectKey, mediastore.ErrObjectNotFound)
		}
		return errors.Wrap("stat object", err)
	}
	if info.IsDir() {
		return errors.Ent(objectKey, mediastore.ErrObjectNotFound)
	}
	return nil
}

func (s *Service) RemoveObject(_ context.Context, objectKey string) error {
	targetName, err := s.objectPath(objectKey)
	if err != nil {
		return err
	}
	if err = os.Remove(targetName); err != nil {
		return errors.Wrap("remove object", err)
	}
	return nil
}

func (s *Service) PublicURL(objectKey string) string {
	if s.baseURL == "" {
		return "file://" + filepath.ToSlash(filepath.Join(s.directoryPath, objectKey))
	}
	return s.baseURL + "/" + strings.TrimPrefix(objectKey, "/")
}

func (s *Service) objectPath(objectKey string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(objectKey, "/")))
	if cleaned == "." || cleaned == ".." ||
		strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errors.Ent(objectKey, errKeyInvalid)
	}
	return filepath.Join(s.directoryPath, cleaned), nil
}
