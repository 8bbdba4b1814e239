package entity

// Chunk is the unit of retrieval: a bounded span of extracted text with
// enough provenance to point the user back at the source.
type Chunk struct {
	Text     string
	Document string
	Page     int
	Seq      int
}

// SourceRef is a retrieved chunk plus its similarity score, returned as
// answer evidence.
type SourceRef struct {
	Document string  `json:"document"`
	Page     int     `json:"page"`
	Score    float64 `json:"score"`
	Excerpt  string  `json:"excerpt"`
	Text     string  `json:"text"`
}
