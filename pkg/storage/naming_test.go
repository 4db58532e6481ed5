package storage

import "testing"

func TestValidateBucketName(t *testing.T) {
	valid := []string{"foo.bar-baz", "abc", "a23456789012345678901234567890123456789012345678901234567890ab"}
	for _, name := range valid {
		if err := ValidateBucketName(name); err != nil {
			t.Errorf("expected %q to be valid, got %v", name, err)
		}
	}

	invalid := []string{
		"ab",
		"",
		"A-B-C",
		"-foo",
		"foo-",
		"foo..bar",
		"foo.-bar",
		"foo-.bar",
		"10.0.0.1",
		" foo",
		"foo ",
		"this-bucket-name-is-far-too-long-to-be-a-valid-s3-bucket-name-00000",
	}
	for _, name := range invalid {
		if err := ValidateBucketName(name); err == nil {
			t.Errorf("expected %q to be invalid", name)
		}
	}
}

func TestValidateObjectKey(t *testing.T) {
	if err := ValidateObjectKey(""); err == nil {
		t.Error("expected empty key to be invalid")
	}
	if err := ValidateObjectKey("/leading-slash"); err == nil {
		t.Error("expected leading-slash key to be invalid")
	}
	if err := ValidateObjectKey("a/../b"); err == nil {
		t.Error("expected key containing .. to be invalid")
	}
	if err := ValidateObjectKey("a\x00b"); err == nil {
		t.Error("expected key containing NUL to be invalid")
	}
	if err := ValidateObjectKey("a\\b"); err == nil {
		t.Error("expected key containing backslash to be invalid")
	}

	exact := make([]byte, MaxKeyBytes)
	for i := range exact {
		exact[i] = 'a'
	}
	if err := ValidateObjectKey(string(exact)); err != nil {
		t.Errorf("expected 1024-byte key to be valid, got %v", err)
	}

	tooLong := append(exact, 'a')
	if err := ValidateObjectKey(string(tooLong)); err == nil {
		t.Error("expected 1025-byte key to be invalid")
	}

	if err := ValidateObjectKey("a/b/c.txt"); err != nil {
		t.Errorf("expected key with slashes to be valid, got %v", err)
	}
}

func TestValidateRegion(t *testing.T) {
	r, err := ValidateRegion("")
	if err != nil || r != RegionDefault {
		t.Fatalf("expected default region, got %q, %v", r, err)
	}

	r, err = ValidateRegion("US-WEST-2")
	if err != nil || r != "us-west-2" {
		t.Fatalf("expected case-insensitive match, got %q, %v", r, err)
	}

	if _, err := ValidateRegion("mars-central-1"); err == nil {
		t.Error("expected unsupported region to error")
	}
}
