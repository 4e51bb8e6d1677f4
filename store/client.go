package store

import (
	"context"
)

// Client is the capability callers depend on. New returns either the
// real Store or the Disabled stand-in.
type Client interface {
	// Upload stores the local file at remoteKey with public-read access
	// and returns its public URL. Failures are logged and reported only
	// through ok.
	Upload(ctx context.Context, localFile, remoteKey, mimeType string) (publicURL string, ok bool)

	// Delete removes remoteKey. It reports false when the object does
	// not exist or could not be removed. An error is returned only when
	// the existence check fails for a reason other than absence.
	Delete(ctx context.Context, remoteKey string) (deleted bool, err error)
}

var (
	_ Client = &Store{}
	_ Client = &Disabled{}
)

// New creates the client selected by config.Enabled. The enabled path
// contacts the storage service and fails when the bucket cannot be
// reached with the configured credentials.
func New(ctx context.Context, config Config) (Client, error) {
	if !config.Enabled {
		log.Debug().Msg("object storage disabled")
		return NewDisabled(), nil
	}

	s, err := NewStore(ctx, config)
	if err != nil {
		return nil, err
	}
	return s, nil
}
