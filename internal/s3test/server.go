// Package s3test provides an in-memory server speaking the subset of
// the S3 REST protocol used by the storage backends. It only supports
// path-style addressing.
package s3test

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Object is a stored object as received by the server.
type Object struct {
	Body   []byte
	Header http.Header
}

// Server is an httptest server holding a single bucket.
type Server struct {
	*httptest.Server

	bucket string

	mu      sync.Mutex
	objects map[string]Object
	faults  map[string]int
}

// NewServer starts a server that owns bucket. Call Close when done.
func NewServer(bucket string) *Server {
	srv := &Server{
		bucket:  bucket,
		objects: map[string]Object{},
		faults:  map[string]int{},
	}
	srv.Server = httptest.NewServer(srv)
	return srv
}

// Fail makes every request with the given HTTP method answer with
// statusCode until Reset is called.
func (srv *Server) Fail(method string, statusCode int) {
	srv.mu.Lock()
	srv.faults[method] = statusCode
	srv.mu.Unlock()
}

func (srv *Server) Reset() {
	srv.mu.Lock()
	srv.faults = map[string]int{}
	srv.mu.Unlock()
}

// Put stores an object directly, bypassing HTTP.
func (srv *Server) Put(key string, body []byte) {
	srv.mu.Lock()
	srv.objects[key] = Object{Body: body, Header: http.Header{}}
	srv.mu.Unlock()
}

func (srv *Server) Object(key string) (Object, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	obj, ok := srv.objects[key]
	return obj, ok
}

func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "IncompleteBody")
		return
	}

	srv.mu.Lock()
	fault := srv.faults[r.Method]
	srv.mu.Unlock()
	if fault != 0 {
		writeError(w, r, fault, codeForStatus(fault))
		return
	}

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != srv.bucket {
		writeError(w, r, http.StatusNotFound, "NoSuchBucket")
		return
	}
	if key == "" {
		// Only the bucket HEAD and location lookups are served.
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/"></LocationConstraint>`)
		return
	}

	switch r.Method {
	case http.MethodHead:
		srv.headObject(w, r, key)
	case http.MethodPut:
		srv.putObject(w, r, key, body)
	case http.MethodDelete:
		srv.mu.Lock()
		delete(srv.objects, key)
		srv.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "MethodNotAllowed")
	}
}

func (srv *Server) headObject(w http.ResponseWriter, r *http.Request, key string) {
	obj, ok := srv.Object(key)
	if !ok {
		writeError(w, r, http.StatusNotFound, "NoSuchKey")
		return
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Body)))
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.Header().Set("ETag", etag(obj.Body))
	if ct := obj.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(http.StatusOK)
}

func (srv *Server) putObject(w http.ResponseWriter, r *http.Request, key string, body []byte) {
	srv.mu.Lock()
	srv.objects[key] = Object{Body: body, Header: r.Header.Clone()}
	srv.mu.Unlock()
	w.Header().Set("ETag", etag(body))
	w.WriteHeader(http.StatusOK)
}

func etag(body []byte) string {
	sum := md5.Sum(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func codeForStatus(statusCode int) string {
	switch statusCode {
	case http.StatusForbidden:
		return "AccessDenied"
	case http.StatusNotFound:
		return "NoSuchKey"
	default:
		return "InternalError"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code string) {
	if r.Method == http.MethodHead {
		w.WriteHeader(statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = fmt.Fprintf(w,
		`<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message><RequestId>s3test</RequestId></Error>`,
		code, http.StatusText(statusCode))
}
