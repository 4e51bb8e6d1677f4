package store

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/timemore/publicstore/errors"
	"github.com/timemore/publicstore/logger"
)

const fakeServiceName = "fake"

type fakeConfig struct {
	Bucket  string
	InitErr error
}

type fakeObject struct {
	body        []byte
	contentType string
}

type fakeService struct {
	bucket string

	mu        sync.Mutex
	objects   map[string]fakeObject
	calls     int
	putErr    error
	statErr   error
	removeErr error
}

var (
	fakeServicesMu sync.Mutex
	fakeServices   []*fakeService
)

func init() {
	RegisterModule(fakeServiceName, Module{
		ServiceConfigSkeleton: func() ServiceConfig { return &fakeConfig{} },
		NewService: func(ctx context.Context, config ServiceConfig) (Service, error) {
			conf, ok := config.(*fakeConfig)
			if !ok {
				return nil, errors.ArgMsg("config", "type invalid")
			}
			if conf.InitErr != nil {
				return nil, conf.InitErr
			}
			svc := &fakeService{bucket: conf.Bucket, objects: map[string]fakeObject{}}
			fakeServicesMu.Lock()
			fakeServices = append(fakeServices, svc)
			fakeServicesMu.Unlock()
			return svc, nil
		},
	})
}

func (s *fakeService) PutPublicObject(_ context.Context, key string, content io.Reader, _ int64, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.putErr != nil {
		return s.putErr
	}
	body, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	s.objects[key] = fakeObject{body: body, contentType: contentType}
	return nil
}

func (s *fakeService) StatObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.statErr != nil {
		return s.statErr
	}
	if _, ok := s.objects[key]; !ok {
		return errors.Ent(key, ErrObjectNotFound)
	}
	return nil
}

func (s *fakeService) RemoveObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeService) PublicURL(key string) string {
	return "https://fake.example.com/" + s.bucket + "/" + key
}

func (s *fakeService) object(key string) (fakeObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	return obj, ok
}

func fakeStoreConfig(conf *fakeConfig) Config {
	return Config{
		Enabled:      true,
		StoreService: fakeServiceName,
		Modules:      map[string]any{fakeServiceName: conf},
	}
}

// captureLog redirects the package logger into the returned buffer for
// the duration of the test.
func captureLog(t interface{ Cleanup(func()) }) *bytes.Buffer {
	prev := log
	buf := &bytes.Buffer{}
	log = logger.NewWithWriter(buf, zerolog.DebugLevel)
	t.Cleanup(func() { log = prev })
	return buf
}
