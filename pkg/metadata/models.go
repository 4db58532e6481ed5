// Package metadata implements the Metadata Store Adapter: the embedded
// relational store (SQLite via GORM) holding bucket and object rows. It
// hides schema, CRUD, and paginated listing behind a small Store type so
// the storage engine never issues SQL directly.
package metadata

import "time"

// Bucket is the buckets table row.
type Bucket struct {
	ID                string `gorm:"primaryKey"`
	Name              string `gorm:"uniqueIndex;not null"`
	OwnerID           string `gorm:"not null"`
	Region            string `gorm:"not null"`
	CreatedAt         time.Time
	VersioningEnabled bool
}

func (Bucket) TableName() string { return "buckets" }

// Object is the objects table row. ContentType and VersionID are nullable;
// represented as pointers so a zero value round-trips as SQL NULL rather
// than an empty string.
type Object struct {
	ID           string `gorm:"primaryKey"`
	BucketID     string `gorm:"not null;uniqueIndex:idx_bucket_key;index:idx_bucket_key_scan,priority:1"`
	Key          string `gorm:"not null;uniqueIndex:idx_bucket_key;index:idx_bucket_key_scan,priority:2"`
	Filename     string `gorm:"not null"`
	ContentType  *string
	SizeBytes    int64  `gorm:"not null"`
	ETag         string `gorm:"column:etag"`
	StorageClass string `gorm:"not null"`
	LastModified time.Time
	VersionID    *string
	IsDeleted    bool `gorm:"not null;index"`
}

func (Object) TableName() string { return "objects" }
