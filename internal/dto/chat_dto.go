package dto

import "time"

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	Message string        `json:"message" validate:"required,min=1,max=2000"`
	Context []ChatMessage `json:"context" validate:"omitempty,max=50,dive"`
}

type SourceInfo struct {
	Module string `json:"module"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

type ChatResponse struct {
	Response string       `json:"response"`
	Sources  []SourceInfo `json:"sources"`
	UsedRAG  bool         `json:"used_rag"`
}

type IngestJobResponse struct {
	JobId   string `json:"job_id"`
	Message string `json:"message"`
}

// IngestJobMessage is the payload of an async ingestion request on the job topic.
type IngestJobMessage struct {
	JobId         string    `json:"job_id"`
	ClearExisting bool      `json:"clear_existing"`
	RequestedAt   time.Time `json:"requested_at"`
}

type RateLimitStatusResponse struct {
	Remaining       int       `json:"remaining"`
	Total           int       `json:"total"`
	ResetAt         time.Time `json:"reset_at"`
	IsAuthenticated bool      `json:"is_authenticated"`
}
