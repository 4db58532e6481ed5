package metadata

import (
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by the Fetch* methods when no row matches.
var ErrNotFound = errors.New("metadata: not found")

// ErrConflict is returned by InsertBucket when a row with the same name
// already exists.
var ErrConflict = errors.New("metadata: conflict")

// Store wraps the GORM handle to the embedded SQLite database. One Store
// is shared (by reference) across every concurrent HTTP request the
// process serves; GORM's underlying *sql.DB pool (at most five open
// connections) is shared by all of them, and SQLite itself serializes
// writers to the single database file.
type Store struct {
	db *gorm.DB
}

// Open creates/opens the SQLite database at path, accepting either a bare
// filesystem path or a "sqlite://" URL matching the OBJECT_STORE_DATABASE_URL
// convention.
func Open(databaseURL string) (*Store, error) {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	path = strings.TrimPrefix(path, "file:")

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite database at %s", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "obtaining underlying sql.DB")
	}
	// SQLite serializes writers regardless; bound the pool so we never pile
	// up more goroutines waiting on file locks than necessary.
	sqlDB.SetMaxOpenConns(5)

	return &Store{db: db}, nil
}

// Migrate applies the schema. Safe to call repeatedly (AutoMigrate is
// idempotent) and is also what the `-migrate` CLI flag invokes standalone.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Bucket{}, &Object{}); err != nil {
		return errors.Wrap(err, "running schema migration")
	}
	return nil
}

// Ping validates connectivity for the readiness probe.
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// FetchBucket returns the bucket row by name, or ErrNotFound.
func (s *Store) FetchBucket(name string) (*Bucket, error) {
	var b Bucket
	err := s.db.Where("name = ?", name).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// InsertBucket inserts a new bucket row, returning ErrConflict on a unique
// violation of the name column.
func (s *Store) InsertBucket(b *Bucket) error {
	err := s.db.Create(b).Error
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// DeleteBucket deletes the bucket row by name, returning ErrNotFound if
// none existed.
func (s *Store) DeleteBucket(name string) error {
	res := s.db.Where("name = ?", name).Delete(&Bucket{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountLiveObjects returns how many non-deleted object rows exist for
// bucketID — used by DeleteBucket to refuse removal while objects remain.
func (s *Store) CountLiveObjects(bucketID string) (int64, error) {
	var n int64
	err := s.db.Model(&Object{}).
		Where("bucket_id = ? AND is_deleted = ?", bucketID, false).
		Count(&n).Error
	return n, err
}

// FetchObject returns the live (is_deleted=false) row for (bucketID, key),
// or ErrNotFound.
func (s *Store) FetchObject(bucketID, key string) (*Object, error) {
	var o Object
	err := s.db.Where("bucket_id = ? AND key = ? AND is_deleted = ?", bucketID, key, false).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpsertObject inserts a new object row or, on a (bucket_id, key) conflict
// (including a previously soft-deleted row), overwrites all mutable
// fields and clears the soft-delete flag.
func (s *Store) UpsertObject(o *Object) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "bucket_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"filename", "content_type", "size_bytes", "etag",
			"storage_class", "last_modified", "version_id", "is_deleted",
		}),
	}).Create(o).Error
	if err != nil {
		return err
	}
	// SQLite's ON CONFLICT DO UPDATE via GORM does not always repopulate the
	// struct's primary key for the updated path; re-fetch so callers always
	// see the committed row (notably its possibly-preexisting id).
	fresh, err := s.FetchObject(o.BucketID, o.Key)
	if err != nil {
		return err
	}
	*o = *fresh
	return nil
}

// SoftDeleteObject marks the live row for (bucketID, key) deleted and
// returns the pre-delete row, or ErrNotFound if no live row existed.
func (s *Store) SoftDeleteObject(bucketID, key string) (*Object, error) {
	existing, err := s.FetchObject(bucketID, key)
	if err != nil {
		return nil, err
	}
	res := s.db.Model(&Object{}).
		Where("bucket_id = ? AND key = ? AND is_deleted = ?", bucketID, key, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return existing, nil
}

// ListObjects returns up to limit live rows for bucketID in ascending key
// order, filtered by an optional prefix and, when cursor is non-empty,
// restricted to key > cursor.
func (s *Store) ListObjects(bucketID, prefix, cursor string, limit int) ([]Object, error) {
	q := s.db.Where("bucket_id = ? AND is_deleted = ?", bucketID, false)
	if prefix != "" {
		q = q.Where("key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	}
	if cursor != "" {
		q = q.Where("key > ?", cursor)
	}
	var objs []Object
	if err := q.Order("key ASC").Limit(limit).Find(&objs).Error; err != nil {
		return nil, err
	}
	return objs, nil
}

// escapeLike escapes SQLite LIKE metacharacters in a user-supplied prefix
// so a key containing '%' or '_' isn't treated as a wildcard.
func escapeLike(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_")
	return r.Replace(s)
}
