package store

import (
	"context"
)

const disabledMessage = "Method not run, object storage client is disabled"

// Disabled replaces the Store when object storage is turned off. It
// never touches the network or the local filesystem.
type Disabled struct{}

func NewDisabled() *Disabled { return &Disabled{} }

func (*Disabled) Upload(ctx context.Context, localFile, remoteKey, mimeType string) (publicURL string, ok bool) {
	log.Warn().Str("file", localFile).Str("key", remoteKey).Msg(disabledMessage)
	return "", false
}

func (*Disabled) Delete(ctx context.Context, remoteKey string) (deleted bool, err error) {
	log.Warn().Str("key", remoteKey).Msg(disabledMessage)
	return false, nil
}
