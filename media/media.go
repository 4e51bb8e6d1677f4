// Package media detects the content type of files before they are
// stored.
package media

import (
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// DetectReader sniffs the header of r. r is consumed; callers holding
// a file must seek back before reusing it.
func DetectReader(r io.Reader) (*mimetype.MIME, error) {
	return mimetype.DetectReader(r)
}

func DetectFile(path string) (*mimetype.MIME, error) {
	return mimetype.DetectFile(path)
}
