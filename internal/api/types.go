package api

import "time"

// SpeechRequest represents the request payload for a synthesis
type SpeechRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Async    bool   `json:"async,omitempty"`
}

// SpeechResponse represents a completed synthesis
type SpeechResponse struct {
	Path      string `json:"path"`
	FileName  string `json:"file_name"`
	Voice     string `json:"voice"`
	Bytes     int64  `json:"bytes"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Message   string `json:"message"`
}

// JobResponse is returned when a synthesis was accepted for background execution
type JobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// VoicesResponse lists the selectable voices
type VoicesResponse struct {
	Voices  []string `json:"voices"`
	Default string   `json:"default"`
}

// ArtifactInfoResponse describes the current artifact
type ArtifactInfoResponse struct {
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	DurationMs int64     `json:"duration_ms,omitempty"`
}

// SaveRequest represents the request payload for copying the current artifact
type SaveRequest struct {
	Destination string `json:"destination"`
}

// SaveResponse represents a completed copy
type SaveResponse struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
