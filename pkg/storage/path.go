package storage

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
)

// shards computes the two-level shard directory components for a
// (bucket, key) pair: the first two bytes of MD5(bucket + "/" + key),
// each rendered as a lowercase two-hex-digit string. Pure and stateless —
// it never touches the filesystem.
func shards(bucket, key string) (string, string) {
	sum := md5.Sum([]byte(bucket + "/" + key))
	return hex.EncodeToString(sum[0:1]), hex.EncodeToString(sum[1:2])
}

// objectPath returns the on-disk path for bucket/key under base.
func objectPath(base, bucket, key string) string {
	a, b := shards(bucket, key)
	return filepath.Join(base, bucket, a, b, filepath.FromSlash(key))
}

// bucketRoot returns the on-disk directory for bucket under base.
func bucketRoot(base, bucket string) string {
	return filepath.Join(base, bucket)
}
