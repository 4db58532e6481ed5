package storage

import (
	"encoding/base64"
	"sort"
	"strings"
)

const (
	DefaultMaxKeys = 1000
	MaxMaxKeys     = 1000
)

// ListParams are the inputs to ListObjectsV2.
type ListParams struct {
	Prefix            string
	Delimiter         string
	ContinuationToken string
	StartAfter        string
	MaxKeys           int
}

// ClampMaxKeys normalizes MaxKeys to [1, 1000], defaulting to 1000 when the
// caller supplied zero or a negative value.
func ClampMaxKeys(n int) int {
	if n <= 0 {
		return DefaultMaxKeys
	}
	if n > MaxMaxKeys {
		return MaxMaxKeys
	}
	return n
}

// EncodeContinuationToken base64-encodes a cursor for the wire.
func EncodeContinuationToken(cursor string) string {
	return base64.StdEncoding.EncodeToString([]byte(cursor))
}

// DecodeContinuationToken base64-decodes a wire token, tolerantly falling
// back to the token verbatim if it doesn't decode.
func DecodeContinuationToken(token string) string {
	if token == "" {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return token
	}
	return string(decoded)
}

// ListObjectsV2 assembles a page of live objects for bucket per params:
// lexicographic ordering, prefix/delimiter grouping, and continuation-token
// pagination. continuation_token takes priority over start_after when both
// are supplied.
func (s *Storage) ListObjectsV2(bucketName string, params ListParams) (ListResult, error) {
	bucket, err := s.GetBucket(bucketName)
	if err != nil {
		return ListResult{}, err
	}

	maxKeys := ClampMaxKeys(params.MaxKeys)

	cursor := ""
	if params.ContinuationToken != "" {
		cursor = DecodeContinuationToken(params.ContinuationToken)
	} else if params.StartAfter != "" {
		cursor = params.StartAfter
	}

	rows, err := s.meta.ListObjects(bucket.ID, params.Prefix, cursor, maxKeys+1)
	if err != nil {
		return ListResult{}, NewMetadataStoreFailure(err)
	}

	isTruncated := false
	nextToken := ""
	if len(rows) == maxKeys+1 {
		isTruncated = true
		nextToken = EncodeContinuationToken(rows[maxKeys-1].Key)
		rows = rows[:maxKeys]
	}

	var objects []Object
	prefixSet := map[string]struct{}{}
	var prefixOrder []string

	for _, row := range rows {
		key := row.Key
		if params.Prefix != "" && !strings.HasPrefix(key, params.Prefix) {
			continue
		}
		if params.Delimiter != "" {
			rest := key[len(params.Prefix):]
			if idx := strings.Index(rest, params.Delimiter); idx >= 0 {
				cp := params.Prefix + rest[:idx+len(params.Delimiter)]
				if _, seen := prefixSet[cp]; !seen {
					prefixSet[cp] = struct{}{}
					prefixOrder = append(prefixOrder, cp)
				}
				continue
			}
		}
		obj := row
		objects = append(objects, objectFromRow(&obj))
	}

	sort.Strings(prefixOrder)

	return ListResult{
		Objects:               objects,
		CommonPrefixes:        prefixOrder,
		IsTruncated:           isTruncated,
		NextContinuationToken: nextToken,
		KeyCount:              len(objects) + len(prefixOrder),
	}, nil
}
