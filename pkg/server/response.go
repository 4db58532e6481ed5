package server

import (
	"encoding/json"
	"encoding/xml"
	"net/http"

	"github.com/s3lite/objectstore/pkg/storage"
)

// setHeaders sets the headers every response carries.
func (s *Handler) setHeaders(w http.ResponseWriter) {
	w.Header().Set("x-amz-bucket-region", s.region)
}

// xmlResponse writes an XML response with the S3 namespace populated.
func (s *Handler) xmlResponse(w http.ResponseWriter, data any, status int) {
	s.setHeaders(w)
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(data)
}

// xmlEncodeBody writes an XML body without touching headers or status,
// for handlers that set their own headers (e.g. x-amz-delete-marker) and
// call WriteHeader themselves. After a 204 status net/http discards the
// body, so nothing written here reaches the client in that case.
func xmlEncodeBody(w http.ResponseWriter, data any) {
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(data)
}

// jsonResponse writes a JSON response, used by the health endpoints.
func (s *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	s.setHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorResponse writes an *Error XML body, translating the storage.Kind to
// an S3-style code and HTTP status.
func (s *Handler) errorResponse(w http.ResponseWriter, err error) {
	code, status := codeAndStatus(storage.KindOf(err))
	s.xmlResponse(w, Error{Xmlns: xmlNamespace, Code: code, Message: err.Error()}, status)
}

// errorResponseWithStatus writes an *Error XML body for a raw HTTP-layer
// error that carries no storage.Kind (e.g. method-not-allowed).
func (s *Handler) errorResponseWithStatus(w http.ResponseWriter, code, message string, status int) {
	s.xmlResponse(w, Error{Xmlns: xmlNamespace, Code: code, Message: message}, status)
}

// codeAndStatus maps a storage.Kind to an S3-style error code and HTTP
// status, per the error taxonomy's mapping contract.
func codeAndStatus(kind storage.Kind) (code string, status int) {
	switch kind {
	case storage.KindBucketNotFound:
		return "NoSuchBucket", http.StatusNotFound
	case storage.KindBucketAlreadyExists:
		return "BucketAlreadyExists", http.StatusConflict
	case storage.KindBucketNotEmpty:
		return "BucketNotEmpty", http.StatusConflict
	case storage.KindInvalidBucketName:
		return "InvalidBucketName", http.StatusBadRequest
	case storage.KindUnsupportedRegion:
		return "InvalidLocationConstraint", http.StatusBadRequest
	case storage.KindObjectNotFound:
		return "NoSuchKey", http.StatusNotFound
	case storage.KindInvalidObjectKey:
		return "InvalidArgument", http.StatusBadRequest
	case storage.KindMetadataStoreFailure:
		return "InternalError", http.StatusInternalServerError
	case storage.KindFilesystemFailure:
		return "InternalError", http.StatusInternalServerError
	default:
		return "InternalError", http.StatusInternalServerError
	}
}
