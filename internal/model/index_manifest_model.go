package model

import (
	"time"

	"gorm.io/datatypes"
)

type IndexManifest struct {
	Fingerprint string         `gorm:"type:varchar(32);primaryKey"`
	Documents   datatypes.JSON `gorm:"type:jsonb"` // []vectorindex.DocumentStat
	ChunkCount  int            `gorm:"default:0"`
	Dimensions  int            `gorm:"default:0"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}

func (IndexManifest) TableName() string {
	return "index_manifests"
}
