package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/s3lite/objectstore/pkg/storage"
)

// handlePutObject handles PUT /{bucket}/{key...}.
func (s *Handler) handlePutObject(w http.ResponseWriter, r *http.Request, bucket, key string) {
	obj, err := s.storage.UploadObject(bucket, key, r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.setHeaders(w)
	w.Header().Set("ETag", fmt.Sprintf("%q", obj.ETag))
	w.WriteHeader(http.StatusOK)
}

// handleGetObject handles both GET and HEAD /{bucket}/{key...}. headOnly
// suppresses the body while still validating preconditions and setting the
// same headers GET would.
func (s *Handler) handleGetObject(w http.ResponseWriter, r *http.Request, bucket, key string, headOnly bool) {
	obj, f, err := s.storage.GetObjectReader(bucket, key)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	defer f.Close()

	quotedETag := fmt.Sprintf("%q", obj.ETag)

	if ifMatch := r.Header.Get("If-Match"); ifMatch != "" && stripQuotes(ifMatch) != obj.ETag {
		w.WriteHeader(http.StatusPreconditionFailed)
		return
	}
	if ifNoneMatch := r.Header.Get("If-None-Match"); ifNoneMatch != "" && stripQuotes(ifNoneMatch) == obj.ETag {
		w.Header().Set("ETag", quotedETag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	s.setHeaders(w)
	w.Header().Set("ETag", quotedETag)
	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	w.Header().Set("Last-Modified", obj.LastModified.Format(http.TimeFormat))

	if headOnly {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.SizeBytes, 10))
		w.WriteHeader(http.StatusOK)
		return
	}

	// http.ServeContent handles Range requests and If-Modified-Since on our
	// behalf, streaming directly from the open payload file.
	http.ServeContent(w, r, obj.Key, obj.LastModified, f)
}

// handleDeleteObject handles DELETE /{bucket}/{key...}.
func (s *Handler) handleDeleteObject(w http.ResponseWriter, r *http.Request, bucket, key string) {
	obj, err := s.storage.DeleteObject(bucket, key)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.setHeaders(w)
	w.Header().Set("x-amz-delete-marker", "true")
	w.WriteHeader(http.StatusNoContent)
	xmlEncodeBody(w, DeleteResult{Xmlns: xmlNamespace, Key: obj.Key})
}

// handleListObjectsV2 handles GET /{bucket}?list-type=2&....
func (s *Handler) handleListObjectsV2(w http.ResponseWriter, r *http.Request, bucket string) {
	query := r.URL.Query()

	if lt := query.Get("list-type"); lt != "2" {
		s.errorResponseWithStatus(w, "InvalidArgument", "only list-type=2 is supported", http.StatusBadRequest)
		return
	}

	params := storage.ListParams{
		Prefix:            query.Get("prefix"),
		Delimiter:         query.Get("delimiter"),
		ContinuationToken: query.Get("continuation-token"),
		StartAfter:        query.Get("start-after"),
	}
	if mk := query.Get("max-keys"); mk != "" {
		if parsed, err := strconv.Atoi(mk); err == nil {
			params.MaxKeys = parsed
		}
	}

	result, err := s.storage.ListObjectsV2(bucket, params)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resp := ListBucketResult{
		Xmlns:                 xmlNamespace,
		Name:                  bucket,
		Prefix:                params.Prefix,
		Delimiter:             params.Delimiter,
		MaxKeys:               storage.ClampMaxKeys(params.MaxKeys),
		KeyCount:              result.KeyCount,
		IsTruncated:           result.IsTruncated,
		ContinuationToken:     params.ContinuationToken,
		NextContinuationToken: result.NextContinuationToken,
		StartAfter:            params.StartAfter,
	}
	for _, obj := range result.Objects {
		resp.Contents = append(resp.Contents, Contents{
			Key:          obj.Key,
			LastModified: obj.LastModified.Format("2006-01-02T15:04:05.000Z"),
			ETag:         fmt.Sprintf("%q", obj.ETag),
			Size:         obj.SizeBytes,
			StorageClass: obj.StorageClass,
		})
	}
	for _, cp := range result.CommonPrefixes {
		resp.CommonPrefixes = append(resp.CommonPrefixes, CommonPrefix{Prefix: cp})
	}

	s.xmlResponse(w, resp, http.StatusOK)
}

func stripQuotes(s string) string {
	return strings.Trim(s, `"`)
}
