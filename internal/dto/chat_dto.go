package dto

import (
	"time"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/entity"
)

type AskRequest struct {
	Question string `json:"question" validate:"required,min=1,max=4000"`
}

type AskResponse struct {
	Answer  string             `json:"answer"`
	Sources []entity.SourceRef `json:"sources"`
}

type TurnResponse struct {
	Question string             `json:"question"`
	Answer   string             `json:"answer"`
	Sources  []entity.SourceRef `json:"sources,omitempty"`
	AskedAt  time.Time          `json:"asked_at"`
}
