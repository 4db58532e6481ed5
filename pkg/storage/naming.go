package storage

import "strings"

// Regions is the allow-list a caller-supplied region is matched against,
// case-insensitively. CreateBucket defaults to RegionDefault when the
// caller supplies none.
var Regions = []string{
	"local",
	"us-east-1", "us-east-2", "us-west-1", "us-west-2",
	"eu-west-1",
	"ap-southeast-1", "ap-southeast-2", "ap-southeast-3", "ap-southeast-4",
	"ap-northeast-1", "ap-northeast-2", "ap-northeast-3",
	"ap-south-1", "ap-south-2",
	"me-south-1",
}

const RegionDefault = "local"

// ValidateRegion matches region case-insensitively against Regions,
// returning the canonical lowercase form. An empty region is replaced with
// RegionDefault.
func ValidateRegion(region string) (string, error) {
	if region == "" {
		return RegionDefault, nil
	}
	lower := strings.ToLower(region)
	for _, r := range Regions {
		if r == lower {
			return r, nil
		}
	}
	return "", NewUnsupportedRegion(region)
}

// ValidateBucketName enforces the S3-like bucket naming rules from the
// spec: length 3-63, lowercase alphanumerics plus '.' and '-', alphanumeric
// first/last character, no "..", ".-", or "-." substrings, and not a
// dotted-quad IPv4 address.
func ValidateBucketName(name string) error {
	if name != strings.TrimSpace(name) {
		return NewInvalidBucketName(name)
	}
	if len(name) < 3 || len(name) > 63 {
		return NewInvalidBucketName(name)
	}
	for _, c := range name {
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '.' && c != '-' {
			return NewInvalidBucketName(name)
		}
	}
	first, last := name[0], name[len(name)-1]
	if !isAlnum(first) || !isAlnum(last) {
		return NewInvalidBucketName(name)
	}
	if strings.Contains(name, "..") || strings.Contains(name, ".-") || strings.Contains(name, "-.") {
		return NewInvalidBucketName(name)
	}
	if isDottedQuadIPv4(name) {
		return NewInvalidBucketName(name)
	}
	return nil
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// isDottedQuadIPv4 reports whether name parses as a dotted-quad IPv4
// address: four decimal segments, each 1-3 non-empty digits, each in
// [0,255].
func isDottedQuadIPv4(name string) bool {
	segs := strings.Split(name, ".")
	if len(segs) != 4 {
		return false
	}
	for _, seg := range segs {
		if len(seg) == 0 || len(seg) > 3 {
			return false
		}
		val := 0
		for _, c := range seg {
			if c < '0' || c > '9' {
				return false
			}
			val = val*10 + int(c-'0')
		}
		if val > 255 {
			return false
		}
	}
	return true
}

const MaxKeyBytes = 1024

// ValidateObjectKey enforces the object key rules: non-empty, at most 1024
// bytes, no leading '/', no "..", and no byte that is ASCII control, '\\',
// or NUL.
func ValidateObjectKey(key string) error {
	if key == "" {
		return NewInvalidObjectKey(key)
	}
	if len(key) > MaxKeyBytes {
		return NewInvalidObjectKey(key)
	}
	if strings.HasPrefix(key, "/") {
		return NewInvalidObjectKey(key)
	}
	if strings.Contains(key, "..") {
		return NewInvalidObjectKey(key)
	}
	for i := 0; i < len(key); i++ {
		b := key[i]
		if b == '\\' || b == 0 || b < 0x20 || b == 0x7f {
			return NewInvalidObjectKey(key)
		}
	}
	return nil
}
