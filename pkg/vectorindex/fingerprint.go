package vectorindex

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"sort"
)

// ContentHash is the MD5 hex digest of one document's raw bytes.
func ContentHash(raw []byte) string {
	sum := md5.Sum(raw)
	return hex.EncodeToString(sum[:])
}

// Fingerprint derives the content-addressed cache key for a document
// set: MD5 over the sorted per-document content hashes. Sorting makes
// the key independent of upload order.
func Fingerprint(contentHashes []string) string {
	sorted := make([]string, len(contentHashes))
	copy(sorted, contentHashes)
	sort.Strings(sorted)

	h := md5.New()
	for _, ch := range sorted {
		io.WriteString(h, ch)
	}
	return hex.EncodeToString(h.Sum(nil))
}
