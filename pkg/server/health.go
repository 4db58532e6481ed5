package server

import (
	"net/http"

	"github.com/s3lite/objectstore/pkg/storage"
)

type healthzResponse struct {
	Status string `json:"status"`
}

func (s *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, healthzResponse{Status: "ok"}, http.StatusOK)
}

type checkResultResponse struct {
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	Info       string `json:"info,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

func checkResultToResponse(c storage.CheckResult) checkResultResponse {
	return checkResultResponse{OK: c.OK, Error: c.Error, Info: c.Info, DurationMs: c.DurationMs}
}

type readyzResponse struct {
	Status string   `json:"status"`
	Checks checkMap `json:"checks"`
}

type checkMap struct {
	Metadata checkResultResponse `json:"metadata"`
	Storage  checkResultResponse `json:"storage"`
	Disk     checkResultResponse `json:"disk"`
}

// handleReadyz runs the three-check readiness probe: metadata connectivity,
// storage-root reachability, and a disk write/read/delete round trip. Each
// check reports its own ok/error/info/duration_ms independently of the
// others.
func (s *Handler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	metadataCheck, storageCheck, diskCheck := s.storage.Ready()

	resp := readyzResponse{
		Checks: checkMap{
			Metadata: checkResultToResponse(metadataCheck),
			Storage:  checkResultToResponse(storageCheck),
			Disk:     checkResultToResponse(diskCheck),
		},
	}

	status := http.StatusOK
	if metadataCheck.OK && storageCheck.OK && diskCheck.OK {
		resp.Status = "ok"
	} else {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	s.jsonResponse(w, resp, status)
}
