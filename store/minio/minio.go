package minio

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/timemore/publicstore/errors"
	"github.com/timemore/publicstore/errors/access"
	mediastore "github.com/timemore/publicstore/store"
)

type Config struct {
	Region          string `env:"REGION"`
	BucketName      string `env:"BUCKET_NAME"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	Endpoint        string `env:"ENDPOINT"`
	UseSSL          bool   `env:"USE_SSL"`
}

const ServiceName = "minio"

const regionDefault = "us-east-1"

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

func ConfigSkeleton() Config { return Config{Region: regionDefault} }

func NewService(ctx context.Context, config mediastore.ServiceConfig) (mediastore.Service, error) {
	if config == nil {
		return nil, errors.ArgMsg("config", "missing")
	}

	conf, ok := config.(*Config)
	if !ok {
		return nil, errors.ArgMsg("config", "type invalid")
	}
	if conf.Endpoint == "" {
		return nil, errors.ArgMsg("config.Endpoint", "empty")
	}
	if conf.BucketName == "" {
		return nil, errors.ArgMsg("config.BucketName", "empty")
	}
	if conf.AccessKeyID == "" || conf.SecretAccessKey == "" {
		return nil, errors.ArgMsg("config", "access key required")
	}

	region := conf.Region
	if region == "" {
		region = regionDefault
	}

	// 	Initialize minio client object
	minioClient, err := minio.New(conf.Endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(
			conf.AccessKeyID,
			conf.SecretAccessKey,
			"",
		),
		Secure:       conf.UseSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, errors.Wrap("minio client initialization", err)
	}

	// The bucket is never created here; a missing bucket is a
	// configuration mistake.
	exists, err := minioClient.BucketExists(ctx, conf.BucketName)
	if err != nil {
		return nil, classifyError(conf.BucketName, mediastore.ErrBucketNotFound, err)
	}
	if !exists {
		return nil, errors.Ent(conf.BucketName, mediastore.ErrBucketNotFound)
	}

	return &Service{
		bucketName:  conf.BucketName,
		minioClient: minioClient,
	}, nil
}

type Service struct {
	bucketName  string
	minioClient *minio.Client
}

var _ mediastore.Service = &Service{}

func (s *Service) PutPublicObject(
	ctx context.Context,
	targetKey string,
	contentSource io.Reader,
	size int64,
	contentType string,
) error {
	_, err := s.minioClient.PutObject(ctx, s.bucketName, targetKey, contentSource, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return classifyError(targetKey, nil, err)
	}
	return nil
}

func (s *Service) StatObject(ctx context.Context, sourceKey string) error {
	_, err := s.minioClient.StatObject(ctx, s.bucketName, sourceKey, minio.StatObjectOptions{})
	if err != nil {
		return classifyError(sourceKey, mediastore.ErrObjectNotFound, err)
	}
	return nil
}

func (s *Service) RemoveObject(ctx context.Context, sourceKey string) error {
	err := s.minioClient.RemoveObject(ctx, s.bucketName, sourceKey, minio.RemoveObjectOptions{})
	if err != nil {
		return classifyError(sourceKey, nil, err)
	}
	return nil
}

// PublicURL returns a path-style URL on the configured endpoint.
func (s *Service) PublicURL(sourceKey string) string {
	endpoint := strings.TrimRight(s.minioClient.EndpointURL().String(), "/")
	return endpoint + "/" + s.bucketName + "/" + sourceKey
}

func classifyError(identifier string, notFound error, err error) error {
	errResp := minio.ToErrorResponse(err)
	switch {
	case errResp.StatusCode == http.StatusForbidden || errResp.Code == "AccessDenied":
		return access.Wrap("minio authentication failed", err)
	case notFound != nil && (errResp.StatusCode == http.StatusNotFound ||
		errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket"):
		return errors.Ent(identifier, notFound)
	}
	return errors.Wrap(identifier, err)
}
