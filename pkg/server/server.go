// Package server adapts the storage engine to the HTTP boundary: verb
// dispatch, XML/JSON rendering, and the Kind-to-status error mapping. It
// never touches the filesystem or the metadata store directly.
package server

import (
	"net/http"
	"strings"

	"github.com/s3lite/objectstore/pkg/storage"
)

// Handler is the S3-compatible HTTP handler.
type Handler struct {
	storage *storage.Storage
	region  string
}

// Option configures a Handler.
type Option func(*Handler)

// WithRegion overrides the default region advertised in response headers.
func WithRegion(region string) Option {
	return func(h *Handler) { h.region = region }
}

// New builds a Handler bound to a storage engine.
func New(s *storage.Storage, opts ...Option) *Handler {
	h := &Handler{storage: s, region: storage.RegionDefault}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (s *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/healthz":
		s.handleHealthz(w, r)
		return
	case "/readyz":
		s.handleReadyz(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	parts := strings.SplitN(path, "/", 2)
	bucket := parts[0]
	if bucket == "" {
		http.NotFound(w, r)
		return
	}
	var key string
	if len(parts) > 1 {
		key = parts[1]
	}

	if key == "" {
		switch r.Method {
		case http.MethodPut:
			s.handleCreateBucket(w, r, bucket)
		case http.MethodDelete:
			s.handleDeleteBucket(w, r, bucket)
		case http.MethodGet:
			s.handleListObjectsV2(w, r, bucket)
		default:
			s.errorResponseWithStatus(w, "MethodNotAllowed", "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handlePutObject(w, r, bucket, key)
	case http.MethodGet:
		s.handleGetObject(w, r, bucket, key, false)
	case http.MethodHead:
		s.handleGetObject(w, r, bucket, key, true)
	case http.MethodDelete:
		s.handleDeleteObject(w, r, bucket, key)
	default:
		s.errorResponseWithStatus(w, "MethodNotAllowed", "method not allowed", http.StatusMethodNotAllowed)
	}
}
