package store

import (
	"context"
	"io"
	"os"

	apperrors "github.com/timemore/publicstore/app/errors"
	"github.com/timemore/publicstore/errors"
	"github.com/timemore/publicstore/errors/access"
	"github.com/timemore/publicstore/logger"
	"github.com/timemore/publicstore/media"
)

var log = logger.NewPkgLogger()

// Store is the active client. It holds only immutable configuration
// and the backend client, and is safe for concurrent use.
type Store struct {
	config        Config
	serviceName   string
	serviceClient Service
}

// NewStore creates the backend named by config.StoreService. Any
// failure, including a missing bucket or rejected credentials, is
// returned as a configuration error.
func NewStore(ctx context.Context, config Config) (*Store, error) {
	serviceName := config.serviceName()
	if len(config.Modules) == 0 {
		return nil, apperrors.NewConfiguration(errors.ArgMsg("config.Modules", "empty"))
	}
	modCfg := config.Modules[serviceName]
	if modCfg == nil {
		return nil, apperrors.NewConfiguration(
			errors.ArgMsg("config.StoreService", serviceName+" not configured"))
	}

	serviceClient, err := NewServiceClient(ctx, serviceName, modCfg)
	if err != nil {
		switch {
		case access.IsAccessError(err):
			log.Error().Err(err).Str("service", serviceName).Msg("authentication failed")
		case errors.Is(err, ErrBucketNotFound):
			log.Error().Err(err).Str("service", serviceName).Msg("bucket does not exist")
		case errors.IsCallError(err):
			log.Error().Err(err).Str("service", serviceName).Msg("storage configuration invalid")
		default:
			log.Error().Err(err).Str("service", serviceName).Msg("storage service initialization failed")
		}
		return nil, apperrors.NewConfiguration(
			errors.ArgWrap("config.StoreService", serviceName+" initialization failed", err))
	}

	return &Store{
		config:        config,
		serviceName:   serviceName,
		serviceClient: serviceClient,
	}, nil
}

func (s *Store) Upload(ctx context.Context, localFile, remoteKey, mimeType string) (publicURL string, ok bool) {
	if remoteKey == "" {
		log.Warn().Str("file", localFile).Msg("Empty object key, upload aborted")
		return "", false
	}

	file, err := os.Open(localFile)
	if err != nil {
		log.Warn().Err(err).Str("file", localFile).Msg("Local file does not exist, upload aborted")
		return "", false
	}
	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		log.Warn().Err(err).Str("file", localFile).Msg("Local file is not a regular file, upload aborted")
		return "", false
	}

	contentType := mimeType
	if contentType == "" && s.config.DetectContentType {
		if mt, err := media.DetectReader(file); err == nil {
			contentType = mt.String()
		}
		if _, err = file.Seek(0, io.SeekStart); err != nil {
			log.Warn().Err(err).Str("file", localFile).Msg("Local file rewind failed, upload aborted")
			return "", false
		}
	}

	err = s.serviceClient.PutPublicObject(ctx, remoteKey, file, info.Size(), contentType)
	if err != nil {
		log.Error().Err(err).
			Str("service", s.serviceName).
			Str("file", localFile).
			Str("key", remoteKey).
			Msg("upload failed")
		return "", false
	}

	return s.serviceClient.PublicURL(remoteKey), true
}

func (s *Store) Delete(ctx context.Context, remoteKey string) (deleted bool, err error) {
	err = s.serviceClient.StatObject(ctx, remoteKey)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			log.Debug().Str("key", remoteKey).Msg("Object does not exist")
			return false, nil
		}
		return false, errors.Wrap("object check", err)
	}

	err = s.serviceClient.RemoveObject(ctx, remoteKey)
	if err != nil {
		log.Error().Err(err).
			Str("service", s.serviceName).
			Str("key", remoteKey).
			Msg("delete failed")
		return false, nil
	}
	return true, nil
}

// PublicURL returns the URL an object stored at remoteKey is served
// from, whether or not it exists.
func (s *Store) PublicURL(remoteKey string) string {
	return s.serviceClient.PublicURL(remoteKey)
}
