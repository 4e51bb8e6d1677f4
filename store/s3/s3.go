package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/timemore/publicstore/errors"
	"github.com/timemore/publicstore/errors/access"
	mediastore "github.com/timemore/publicstore/store"
)

type Config struct {
	Region          string `env:"REGION"`
	BucketName      string `env:"BUCKET_NAME"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`

	// Endpoint overrides the AWS endpoint, for S3-compatible services.
	Endpoint       string `env:"ENDPOINT"`
	ForcePathStyle bool   `env:"FORCE_PATH_STYLE"`
}

const ServiceName = "s3"

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

// NewSession creates an AWS session for conf without touching the
// network. Static credentials are used when an access key is given,
// otherwise the SDK's default chain applies.
func NewSession(conf Config) (*session.Session, error) {
	var creds *credentials.Credentials
	if conf.AccessKeyID != "" {
		creds = credentials.NewStaticCredentials(
			conf.AccessKeyID,
			conf.SecretAccessKey,
			"",
		)
	}

	awsConfig := &aws.Config{
		Region:      aws.String(conf.Region),
		Credentials: creds,
	}
	if conf.Endpoint != "" {
		awsConfig.Endpoint = aws.String(conf.Endpoint)
	}
	if conf.ForcePathStyle {
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap("AWS Session", err)
	}
	return sess, nil
}

func NewService(ctx context.Context, config mediastore.ServiceConfig) (mediastore.Service, error) {
	if config == nil {
		return nil, errors.ArgMsg("config", "missing")
	}

	conf, ok := config.(*Config)
	if !ok {
		return nil, errors.ArgMsg("config", "type invalid")
	}
	if conf == nil || conf.Region == "" || conf.BucketName == "" {
		return nil, errors.ArgMsg("config", "field invalid")
	}

	sess, err := NewSession(*conf)
	if err != nil {
		return nil, err
	}
	client := awss3.New(sess)

	_, err = client.HeadBucketWithContext(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(conf.BucketName),
	})
	if err != nil {
		return nil, classifyError(conf.BucketName, mediastore.ErrBucketNotFound, err)
	}

	const uploadPartSize = 10 * 1024 * 1024 // 10MiB

	return &Service{
		region:     conf.Region,
		bucketName: conf.BucketName,
		client:     client,
		uploader: s3manager.NewUploaderWithClient(client, func(u *s3manager.Uploader) {
			u.PartSize = uploadPartSize
		}),
	}, nil
}

type Service struct {
	region     string
	bucketName string
	client     *awss3.S3
	uploader   *s3manager.Uploader
}

var _ mediastore.Service = &Service{}

func (s *Service) PutPublicObject(
	ctx context.Context,
	targetKey string,
	contentSource io.Reader,
	size int64,
	contentType string,
) error {
	input := &s3manager.UploadInput{
		Body:   contentSource,
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(targetKey),
		ACL:    aws.String(awss3.ObjectCannedACLPublicRead),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := s.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return classifyError(targetKey, nil, err)
	}
	return nil
}

func (s *Service) StatObject(ctx context.Context, sourceKey string) error {
	_, err := s.client.HeadObjectWithContext(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(sourceKey),
	})
	if err != nil {
		return classifyError(sourceKey, mediastore.ErrObjectNotFound, err)
	}
	return nil
}

func (s *Service) RemoveObject(ctx context.Context, sourceKey string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(sourceKey),
	})
	if err != nil {
		return classifyError(sourceKey, nil, err)
	}
	return nil
}

// PublicURL uses the legacy regional S3 host; existing consumers match
// on this exact form.
func (s *Service) PublicURL(sourceKey string) string {
	return fmt.Sprintf("https://s3-%s.amazonaws.com/%s/%s", s.region, s.bucketName, sourceKey)
}

// classifyError maps SDK failures onto the store error kinds. notFound
// is used for 404 responses; nil keeps them as plain errors.
func classifyError(identifier string, notFound error, err error) error {
	switch statusCode(err) {
	case http.StatusForbidden:
		return access.Wrap("AWS authentication failed", err)
	case http.StatusNotFound:
		if notFound != nil {
			return errors.Ent(identifier, notFound)
		}
	}
	return errors.Wrap(identifier, err)
}

func statusCode(err error) int {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode()
	}
	return 0
}
