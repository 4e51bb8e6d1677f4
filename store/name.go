package store

import (
	"encoding/hex"
	"io"
	"strconv"

	"golang.org/x/crypto/blake2b"

	"github.com/timemore/publicstore/errors"
)

const nameGenHashLength = 16

const nameGenKeyDefault = "N0k3y"

// GenerateName is used to generate an object key based on the content.
// It utilizes a keyed hash so the result can be used to prevent
// duplicates when storing the same file twice.
func (cfg Config) GenerateName(stream io.Reader) (string, error) {
	return GenerateName(cfg.NameGenerationKey, stream)
}

func GenerateName(key string, stream io.Reader) (string, error) {
	keyBytes := []byte(key)
	if len(keyBytes) < 4 {
		keyBytes = []byte(nameGenKeyDefault)
	}
	hasher, err := blake2b.New(nameGenHashLength, keyBytes)
	if err != nil {
		return "", errors.Wrap("hasher", err)
	}

	dataSize, err := io.Copy(hasher, stream)
	if err != nil {
		return "", errors.Wrap("reading content", err)
	}

	hashBytes := hasher.Sum(nil)

	return hex.EncodeToString(hashBytes) +
		"K" + hex.EncodeToString(keyBytes[:4]) +
		"N" + strconv.FormatInt(dataSize, 16), nil
}
