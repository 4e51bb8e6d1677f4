// Package gcstest provides an in-memory server speaking the subset of
// the Cloud Storage JSON API used by the gcs backend. Point the client
// at Endpoint().
package gcstest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Object is a stored object as received by the server.
type Object struct {
	Body          []byte
	ContentType   string
	PredefinedACL string
}

// Server is an httptest server holding a single bucket.
type Server struct {
	*httptest.Server

	bucket  string
	created time.Time

	mu      sync.Mutex
	objects map[string]Object
	faults  map[string]int
}

// NewServer starts a server that owns bucket. Call Close when done.
func NewServer(bucket string) *Server {
	srv := &Server{
		bucket:  bucket,
		created: time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
		objects: map[string]Object{},
		faults:  map[string]int{},
	}
	srv.Server = httptest.NewServer(srv)
	return srv
}

// Endpoint is the JSON API base URL to configure the client with.
func (srv *Server) Endpoint() string {
	return srv.URL + "/storage/v1/"
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
func (srv *Server) Put(name string, body []byte) {
	srv.mu.Lock()
	srv.objects[name] = Object{Body: body}
	srv.mu.Unlock()
}

func (srv *Server) Object(name string) (Object, bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	obj, ok := srv.objects[name]
	return obj, ok
}

func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	srv.mu.Lock()
	fault := srv.faults[r.Method]
	srv.mu.Unlock()
	if fault != 0 {
		writeError(w, fault, http.StatusText(fault))
		return
	}

	const uploadPrefix, apiPrefix = "/upload/storage/v1/b/", "/storage/v1/b/"

	if strings.HasPrefix(r.URL.Path, uploadPrefix) {
		bucket, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, uploadPrefix), "/")
		if bucket != srv.bucket {
			writeError(w, http.StatusNotFound, "bucket not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		srv.insertObject(w, r, body)
		return
	}

	if !strings.HasPrefix(r.URL.Path, apiPrefix) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	bucket, objectPath, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, apiPrefix), "/")
	if bucket != srv.bucket {
		writeError(w, http.StatusNotFound, "bucket not found")
		return
	}
	if objectPath == "" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"kind":        "storage#bucket",
			"name":        srv.bucket,
			"timeCreated": srv.created.Format(time.RFC3339),
		})
		return
	}

	name := strings.TrimPrefix(objectPath, "o/")
	if !strings.HasPrefix(objectPath, "o/") || name == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	obj, found := srv.Object(name)
	if !found {
		writeError(w, http.StatusNotFound, "object not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, srv.objectResource(name, obj))
	case http.MethodDelete:
		srv.mu.Lock()
		delete(srv.objects, name)
		srv.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// insertObject accepts multipart uploads: JSON metadata followed by
// the media.
func (srv *Server) insertObject(w http.ResponseWriter, r *http.Request, body []byte) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "object name required")
		return
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		writeError(w, http.StatusBadRequest, "multipart upload required")
		return
	}
	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	metaPart, err := mr.NextPart()
	if err != nil {
		writeError(w, http.StatusBadRequest, "metadata part missing")
		return
	}
	var meta struct {
		ContentType string `json:"contentType"`
	}
	if err = json.NewDecoder(metaPart).Decode(&meta); err != nil {
		writeError(w, http.StatusBadRequest, "metadata invalid")
		return
	}

	mediaPart, err := mr.NextPart()
	if err != nil {
		writeError(w, http.StatusBadRequest, "media part missing")
		return
	}
	content, err := io.ReadAll(mediaPart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "media unreadable")
		return
	}
	if meta.ContentType == "" {
		meta.ContentType = mediaPart.Header.Get("Content-Type")
	}

	obj := Object{
		Body:          content,
		ContentType:   meta.ContentType,
		PredefinedACL: r.URL.Query().Get("predefinedAcl"),
	}
	srv.mu.Lock()
	srv.objects[name] = obj
	srv.mu.Unlock()

	writeJSON(w, http.StatusOK, srv.objectResource(name, obj))
}

func (srv *Server) objectResource(name string, obj Object) map[string]any {
	return map[string]any{
		"kind":        "storage#object",
		"bucket":      srv.bucket,
		"name":        name,
		"size":        strconv.Itoa(len(obj.Body)),
		"contentType": obj.ContentType,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"error": map[string]any{
			"code":    statusCode,
			"message": message,
		},
	})
}
