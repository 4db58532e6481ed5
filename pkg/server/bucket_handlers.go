package server

import (
	"encoding/json"
	"net/http"
)

type createBucketRequest struct {
	LocationConstraint string `json:"LocationConstraint"`
}

// handleCreateBucket handles PUT /{bucket}. The body, when present, carries
// a JSON {"LocationConstraint":"<region>"}; an empty or absent body
// defaults to storage.RegionDefault.
func (s *Handler) handleCreateBucket(w http.ResponseWriter, r *http.Request, bucket string) {
	var req createBucketRequest
	if r.ContentLength != 0 {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if _, err := s.storage.CreateBucket(bucket, req.LocationConstraint); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.xmlResponse(w, CreateBucketResult{
		Xmlns:    xmlNamespace,
		Location: "/" + bucket,
	}, http.StatusOK)
}

// handleDeleteBucket handles DELETE /{bucket}.
func (s *Handler) handleDeleteBucket(w http.ResponseWriter, r *http.Request, bucket string) {
	if err := s.storage.DeleteBucket(bucket); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.setHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}
