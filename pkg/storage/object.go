package storage

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/s3lite/objectstore/pkg/metadata"
)

// UploadObject streams data to a temp file in the object's shard directory,
// accumulating MD5 and byte count, then atomically installs it and upserts
// the metadata row. On any mid-stream error the temp file is removed; on a
// post-install metadata failure the installed payload is unlinked to avoid
// an orphan.
func (s *Storage) UploadObject(bucketName, key, contentType string, data io.Reader) (Object, error) {
	if err := ValidateObjectKey(key); err != nil {
		return Object{}, err
	}
	bucket, err := s.GetBucket(bucketName)
	if err != nil {
		return Object{}, err
	}

	finalPath := objectPath(s.basePath, bucketName, key)
	shardDir := filepath.Dir(finalPath)
	if err := os.MkdirAll(shardDir, 0o755); err != nil {
		return Object{}, NewFilesystemFailure(err)
	}

	tmp, err := os.CreateTemp(shardDir, ".tmp-*")
	if err != nil {
		return Object{}, NewFilesystemFailure(err)
	}
	tmpPath := tmp.Name()
	cleanTemp := true
	defer func() {
		if cleanTemp {
			os.Remove(tmpPath)
		}
	}()

	hasher := md5.New()
	size, err := io.Copy(io.MultiWriter(tmp, hasher), data)
	if err != nil {
		tmp.Close()
		return Object{}, NewFilesystemFailure(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return Object{}, NewFilesystemFailure(err)
	}
	if err := tmp.Close(); err != nil {
		return Object{}, NewFilesystemFailure(err)
	}

	etag := hex.EncodeToString(hasher.Sum(nil))

	if err := os.Rename(tmpPath, finalPath); err != nil {
		if os.IsExist(err) {
			os.Remove(finalPath)
			err = os.Rename(tmpPath, finalPath)
		}
		if err != nil {
			return Object{}, NewFilesystemFailure(err)
		}
	}
	cleanTemp = false
	if err := fsyncDir(shardDir); err != nil {
		// Best-effort durability only; a crash immediately after this point
		// may undo the rename on some filesystems (see design notes).
		_ = err
	}

	row := &metadata.Object{
		ID:           uuid.NewString(),
		BucketID:     bucket.ID,
		Key:          key,
		Filename:     path.Base(key),
		SizeBytes:    size,
		ETag:         etag,
		StorageClass: StorageClassStandard,
		LastModified: time.Now().UTC(),
		IsDeleted:    false,
	}
	if contentType != "" {
		row.ContentType = &contentType
	}

	if err := s.meta.UpsertObject(row); err != nil {
		os.Remove(finalPath)
		return Object{}, NewMetadataStoreFailure(err)
	}

	return objectFromRow(row), nil
}

// GetObjectMetadata returns the live row for (bucket, key), or
// *Error(KindObjectNotFound).
func (s *Storage) GetObjectMetadata(bucketName, key string) (Object, error) {
	if err := ValidateObjectKey(key); err != nil {
		return Object{}, err
	}
	bucket, err := s.GetBucket(bucketName)
	if err != nil {
		return Object{}, err
	}
	row, err := s.meta.FetchObject(bucket.ID, key)
	if err == metadata.ErrNotFound {
		return Object{}, NewObjectNotFound(bucketName, key)
	}
	if err != nil {
		return Object{}, NewMetadataStoreFailure(err)
	}
	return objectFromRow(row), nil
}

// GetObjectReader resolves the live row for (bucket, key) and opens its
// payload file for sequential reading. A missing payload file (metadata and
// filesystem state diverged) is mapped to *Error(KindObjectNotFound), same
// as a missing metadata row — the client never sees the distinction.
func (s *Storage) GetObjectReader(bucketName, key string) (Object, *os.File, error) {
	obj, err := s.GetObjectMetadata(bucketName, key)
	if err != nil {
		return Object{}, nil, err
	}
	f, err := os.Open(objectPath(s.basePath, bucketName, key))
	if err != nil {
		if os.IsNotExist(err) {
			return Object{}, nil, NewObjectNotFound(bucketName, key)
		}
		return Object{}, nil, NewFilesystemFailure(err)
	}
	return obj, f, nil
}

// DeleteObject soft-deletes the live row for (bucket, key), best-effort
// unlinks the payload, and prunes now-empty ancestor shard directories up
// to the bucket root. Returns the pre-delete row.
func (s *Storage) DeleteObject(bucketName, key string) (Object, error) {
	if err := ValidateObjectKey(key); err != nil {
		return Object{}, err
	}
	bucket, err := s.GetBucket(bucketName)
	if err != nil {
		return Object{}, err
	}

	row, err := s.meta.SoftDeleteObject(bucket.ID, key)
	if err == metadata.ErrNotFound {
		return Object{}, NewObjectNotFound(bucketName, key)
	}
	if err != nil {
		return Object{}, NewMetadataStoreFailure(err)
	}

	finalPath := objectPath(s.basePath, bucketName, key)
	if rmErr := os.Remove(finalPath); rmErr != nil && !os.IsNotExist(rmErr) {
		return objectFromRow(row), NewFilesystemFailure(rmErr)
	}
	cleanupEmptyDirs(filepath.Dir(finalPath), bucketRoot(s.basePath, bucketName))

	return objectFromRow(row), nil
}

func objectFromRow(row *metadata.Object) Object {
	o := Object{
		ID:           row.ID,
		BucketID:     row.BucketID,
		Key:          row.Key,
		Filename:     row.Filename,
		SizeBytes:    row.SizeBytes,
		ETag:         row.ETag,
		StorageClass: row.StorageClass,
		LastModified: row.LastModified,
	}
	if row.ContentType != nil {
		o.ContentType = *row.ContentType
	}
	return o
}
