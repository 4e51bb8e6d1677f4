package gcs

import (
	"context"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/timemore/publicstore/errors"
	"github.com/timemore/publicstore/errors/access"
	"github.com/timemore/publicstore/logger"
	mediastore "github.com/timemore/publicstore/store"
)

var log = logger.NewPkgLogger()

type Config struct {
	BucketName     string `env:"BUCKET_NAME" yaml:"bucket_name" json:"bucket_name"`
	CredentialFile string `env:"CREDENTIAL_FILE" yaml:"credential_file" json:"credential_file"`
	Basepath       string `env:"BASEPATH" yaml:"basepath" json:"basepath"`
	// Endpoint points the client at an emulator. Requests are sent
	// unauthenticated when no credential file is given.
	Endpoint string `env:"ENDPOINT" yaml:"endpoint" json:"endpoint"`
}

const ServiceName = "gcs"

const publicURLBase = "https://storage.googleapis.com"

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

func NewService(ctx context.Context, config mediastore.ServiceConfig) (mediastore.Service, error) {
	if config == nil {
		return nil, errors.ArgMsg("config", "missing")
	}

	conf, ok := config.(*Config)
	if !ok {
		return nil, errors.ArgMsg("config", "type invalid")
	}
	if conf.BucketName == "" {
		return nil, errors.ArgMsg("config.BucketName", "empty")
	}

	opts, err := conf.clientOptions()
	if err != nil {
		return nil, err
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap("gcs client initialization", err)
	}

	attrs, err := client.Bucket(conf.BucketName).Attrs(ctx)
	if err != nil {
		_ = client.Close()
		return nil, classifyError(conf.BucketName, mediastore.ErrBucketNotFound, err)
	}
	log.Debug().
		Str("bucket", attrs.Name).
		Time("created", attrs.Created).
		Msg("bucket found")

	return &Service{
		bucketName: conf.BucketName,
		gcsClient:  client,
		basePath:   conf.Basepath,
	}, nil
}

type Service struct {
	bucketName string
	gcsClient  *gcs.Client
	basePath   string
}

var _ mediastore.Service = &Service{}

func (s *Service) PutPublicObject(
	ctx context.Context,
	targetKey string,
	contentSource io.Reader,
	size int64,
	contentType string,
) error {
	objectName := s.objectName(targetKey)
	wc := s.gcsClient.Bucket(s.bucketName).Object(objectName).NewWriter(ctx)
	wc.PredefinedACL = "publicRead"
	if contentType != "" {
		wc.ContentType = contentType
	}
	if _, err := io.Copy(wc, contentSource); err != nil {
		_ = wc.Close()
		return classifyError(objectName, nil, err)
	}
	if err := wc.Close(); err != nil {
		return classifyError(objectName, nil, err)
	}
	return nil
}

func (s *Service) StatObject(ctx context.Context, sourceKey string) error {
	objectName := s.objectName(sourceKey)
	_, err := s.gcsClient.Bucket(s.bucketName).Object(objectName).Attrs(ctx)
	if err != nil {
		return classifyError(objectName, mediastore.ErrObjectNotFound, err)
	}
	return nil
}

func (s *Service) RemoveObject(ctx context.Context, sourceKey string) error {
	objectName := s.objectName(sourceKey)
	err := s.gcsClient.Bucket(s.bucketName).Object(objectName).Delete(ctx)
	if err != nil {
		return classifyError(objectName, nil, err)
	}
	return nil
}

func (s *Service) PublicURL(sourceKey string) string {
	return publicURLBase + "/" + s.bucketName + "/" + s.objectName(sourceKey)
}

func (s *Service) objectName(key string) string {
	if s.basePath != "" {
		key = path.Join(s.basePath, key)
	}
	key = path.Clean(key)
	return strings.TrimPrefix(key, "/")
}

func (conf *Config) clientOptions() ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if conf.CredentialFile != "" {
		isExists, err := conf.IsAvailableCredentials()
		if err != nil {
			return nil, errors.Wrap("credentialFile", err)
		}
		if !isExists {
			return nil, errors.ArgMsg("config.CredentialFile", "not a file")
		}
		opts = append(opts, option.WithCredentialsFile(conf.CredentialFile))
	}
	if conf.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(conf.Endpoint))
		if conf.CredentialFile == "" {
			opts = append(opts, option.WithoutAuthentication())
		}
	}
	return opts, nil
}

func (conf *Config) IsAvailableCredentials() (bool, error) {
	if conf.CredentialFile == "" {
		return false, errors.ArgMsg("config.CredentialFile", "empty")
	}
	inf, err := os.Stat(conf.CredentialFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, errors.ArgMsg("config.CredentialFile", "notExists")
		}

		return false, errors.Wrap("credential file not valid", err)
	}

	return !inf.IsDir(), nil
}

func classifyError(identifier string, notFound error, err error) error {
	if notFound != nil &&
		(errors.Is(err, gcs.ErrBucketNotExist) || errors.Is(err, gcs.ErrObjectNotExist)) {
		return errors.Ent(identifier, notFound)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return access.Wrap("GCS authentication failed", err)
		case http.StatusNotFound:
			if notFound != nil {
				return errors.Ent(identifier, notFound)
			}
		}
	}
	return errors.Wrap(identifier, err)
}
