package specification

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ByFingerprint filters rows belonging to one built index.
type ByFingerprint struct {
	Fingerprint string
}

func (s ByFingerprint) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("fingerprint = ?", s.Fingerprint)
}

// ByDocumentName filters chunks of a single source document.
type ByDocumentName struct {
	Name string
}

func (s ByDocumentName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_name = ?", s.Name)
}

// CreatedBefore selects rows older than the cutoff. Used by the cache
// garbage collector.
type CreatedBefore struct {
	Cutoff time.Time
}

func (s CreatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at < ?", s.Cutoff)
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}
