package dto

// UploadedFile carries one multipart part from the controller to the
// ingest service.
type UploadedFile struct {
	Name string
	Data []byte
}

type DocumentReport struct {
	Name   string `json:"name"`
	Pages  int    `json:"pages"`
	Chunks int    `json:"chunks"`
}

type IngestResponse struct {
	Fingerprint       string           `json:"fingerprint"`
	CacheHit          bool             `json:"cache_hit"`
	ChunkCount        int              `json:"chunk_count"`
	Documents         []DocumentReport `json:"documents"`
	ConversationReset bool             `json:"conversation_reset"`
}
