package storage

import (
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/s3lite/objectstore/pkg/metadata"
)

// CreateBucket validates name and region, creates the bucket directory, and
// inserts the bucket row. owner_id is never derived from an authenticated
// principal (there is none); it is a random value per create, same as the
// bucket and object IDs. Returns *Error(KindBucketAlreadyExists) on a
// unique-constraint violation of the name.
func (s *Storage) CreateBucket(name, region string) (Bucket, error) {
	if err := ValidateBucketName(name); err != nil {
		return Bucket{}, err
	}
	canonicalRegion, err := ValidateRegion(region)
	if err != nil {
		return Bucket{}, err
	}

	root := bucketRoot(s.basePath, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return Bucket{}, NewFilesystemFailure(err)
	}

	row := &metadata.Bucket{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   uuid.NewString(),
		Region:    canonicalRegion,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.meta.InsertBucket(row); err != nil {
		// The directory is left behind on non-conflict failures; a retried
		// CreateBucket will reuse it since MkdirAll is idempotent.
		if err == metadata.ErrConflict {
			return Bucket{}, NewBucketAlreadyExists(name)
		}
		return Bucket{}, NewMetadataStoreFailure(err)
	}

	return bucketFromRow(row), nil
}

// DeleteBucket validates name, refuses deletion while live objects remain
// (KindBucketNotEmpty), deletes the bucket row, and best-effort removes the
// bucket directory.
func (s *Storage) DeleteBucket(name string) error {
	if err := ValidateBucketName(name); err != nil {
		return err
	}

	row, err := s.meta.FetchBucket(name)
	if err == metadata.ErrNotFound {
		return NewBucketNotFound(name)
	}
	if err != nil {
		return NewMetadataStoreFailure(err)
	}

	n, err := s.meta.CountLiveObjects(row.ID)
	if err != nil {
		return NewMetadataStoreFailure(err)
	}
	if n > 0 {
		return NewBucketNotEmpty(name)
	}

	if err := s.meta.DeleteBucket(name); err != nil {
		if err == metadata.ErrNotFound {
			return NewBucketNotFound(name)
		}
		return NewMetadataStoreFailure(err)
	}

	os.RemoveAll(bucketRoot(s.basePath, name))
	return nil
}

// GetBucket resolves a bucket by name, returning *Error(KindBucketNotFound)
// if it does not exist.
func (s *Storage) GetBucket(name string) (Bucket, error) {
	row, err := s.meta.FetchBucket(name)
	if err == metadata.ErrNotFound {
		return Bucket{}, NewBucketNotFound(name)
	}
	if err != nil {
		return Bucket{}, NewMetadataStoreFailure(err)
	}
	return bucketFromRow(row), nil
}

func bucketFromRow(row *metadata.Bucket) Bucket {
	return Bucket{
		ID:        row.ID,
		Name:      row.Name,
		OwnerID:   row.OwnerID,
		Region:    row.Region,
		CreatedAt: row.CreatedAt,
	}
}
