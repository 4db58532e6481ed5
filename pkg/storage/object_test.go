package storage

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"strings"
	"testing"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestUploadAndGetObject(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.CreateBucket("b", ""); err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}

	obj, err := s.UploadObject("b", "a/b.txt", "text/plain", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("UploadObject: %v", err)
	}
	if obj.ETag != md5Hex("hello") {
		t.Fatalf("expected ETag %s, got %s", md5Hex("hello"), obj.ETag)
	}
	if obj.SizeBytes != 5 {
		t.Fatalf("expected size 5, got %d", obj.SizeBytes)
	}

	meta, f, err := s.GetObjectReader("b", "a/b.txt")
	if err != nil {
		t.Fatalf("GetObjectReader: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("reading payload: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("expected payload %q, got %q", "hello", data)
	}
	if meta.ContentType != "text/plain" {
		t.Fatalf("expected content type text/plain, got %q", meta.ContentType)
	}
}

func TestUploadObjectOverwrite(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.CreateBucket("b", ""); err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}

	if _, err := s.UploadObject("b", "k", "text/plain", strings.NewReader("v1")); err != nil {
		t.Fatalf("UploadObject v1: %v", err)
	}
	obj, err := s.UploadObject("b", "k", "text/plain", strings.NewReader("v2"))
	if err != nil {
		t.Fatalf("UploadObject v2: %v", err)
	}
	if obj.ETag != md5Hex("v2") {
		t.Fatalf("expected overwritten ETag %s, got %s", md5Hex("v2"), obj.ETag)
	}

	_, f, err := s.GetObjectReader("b", "k")
	if err != nil {
		t.Fatalf("GetObjectReader: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "v2" {
		t.Fatalf("expected v2 on disk, got %q", data)
	}
}

func TestUploadObjectInvalidKey(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.CreateBucket("b", ""); err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}

	_, err := s.UploadObject("b", "/leading-slash", "", strings.NewReader("x"))
	if KindOf(err) != KindInvalidObjectKey {
		t.Fatalf("expected KindInvalidObjectKey, got %v", err)
	}
}

func TestUploadObjectBucketNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.UploadObject("never-existed", "k", "", strings.NewReader("x"))
	if KindOf(err) != KindBucketNotFound {
		t.Fatalf("expected KindBucketNotFound, got %v", err)
	}
}

func TestDeleteObjectThenNotFound(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.CreateBucket("b", ""); err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}
	if _, err := s.UploadObject("b", "k", "", strings.NewReader("x")); err != nil {
		t.Fatalf("UploadObject: %v", err)
	}

	if _, err := s.DeleteObject("b", "k"); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}

	if _, err := s.GetObjectMetadata("b", "k"); KindOf(err) != KindObjectNotFound {
		t.Fatalf("expected KindObjectNotFound after delete, got %v", err)
	}
}

func TestDeleteObjectNotFound(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.CreateBucket("b", ""); err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}

	_, err := s.DeleteObject("b", "never-uploaded")
	if KindOf(err) != KindObjectNotFound {
		t.Fatalf("expected KindObjectNotFound, got %v", err)
	}
}

func TestListObjectsV2Basic(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.CreateBucket("b", ""); err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if _, err := s.UploadObject("b", key, "", strings.NewReader("x")); err != nil {
			t.Fatalf("UploadObject(%s): %v", key, err)
		}
	}

	result, err := s.ListObjectsV2("b", ListParams{})
	if err != nil {
		t.Fatalf("ListObjectsV2: %v", err)
	}
	if len(result.Objects) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(result.Objects))
	}
	if result.IsTruncated {
		t.Fatal("expected result to not be truncated")
	}
}
