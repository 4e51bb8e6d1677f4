package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timemore/publicstore/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "publicstore "), out)
}

func TestUploadCmd_Args(t *testing.T) {
	_, err := execute(t, "upload")
	assert.Error(t, err)

	_, err = execute(t, "upload", "a", "b", "c")
	assert.Error(t, err)
}

func TestDeleteCmd_Args(t *testing.T) {
	_, err := execute(t, "delete")
	assert.Error(t, err)
}

func TestGenerateKey(t *testing.T) {
	dir := t.TempDir()
	cfg := store.Config{NameGenerationKey: "cli-test-key"}

	pngFile := filepath.Join(dir, "photo.bin")
	require.NoError(t, os.WriteFile(pngFile, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0600))
	key, err := generateKey(cfg, pngFile)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	again, err := generateKey(cfg, pngFile)
	require.NoError(t, err)
	assert.Equal(t, key, again)

	_, err = generateKey(cfg, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
