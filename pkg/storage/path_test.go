package storage

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestShardsDeterministic(t *testing.T) {
	a1, b1 := shards("my-bucket", "a/b.txt")
	a2, b2 := shards("my-bucket", "a/b.txt")
	if a1 != a2 || b1 != b2 {
		t.Fatal("expected shards to be deterministic for the same input")
	}
	if len(a1) != 2 || len(b1) != 2 {
		t.Fatalf("expected two-hex-digit shard components, got %q %q", a1, b1)
	}
	if strings.ToLower(a1) != a1 || strings.ToLower(b1) != b1 {
		t.Fatal("expected lowercase hex shard components")
	}
}

func TestShardsDistinctForDifferentKeys(t *testing.T) {
	a1, b1 := shards("my-bucket", "a.txt")
	a2, b2 := shards("my-bucket", "b.txt")
	if a1 == a2 && b1 == b2 {
		t.Fatal("expected different keys to usually land in different shards")
	}
}

func TestObjectPath(t *testing.T) {
	a, b := shards("my-bucket", "a/b.txt")
	got := objectPath("/base", "my-bucket", "a/b.txt")
	want := filepath.Join("/base", "my-bucket", a, b, "a", "b.txt")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestBucketRoot(t *testing.T) {
	got := bucketRoot("/base", "my-bucket")
	want := filepath.Join("/base", "my-bucket")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
