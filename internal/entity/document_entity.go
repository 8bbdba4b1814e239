package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded PDF after text extraction. Raw bytes are not
// retained; ContentHash is the MD5 of the original file and feeds the
// index fingerprint.
type Document struct {
	Id          uuid.UUID
	Name        string
	ContentHash string
	Pages       int
	SizeBytes   int64
	UploadedAt  time.Time
}

// PageText is the extraction output for a single page, 1-based.
type PageText struct {
	Page int
	Text string
}
