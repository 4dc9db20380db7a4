package domain

import "time"

// SynthesisEventType names a step in the life of a synthesis job
type SynthesisEventType string

const (
	EventSynthesisStarted   SynthesisEventType = "synthesis_started"
	EventSynthesisCompleted SynthesisEventType = "synthesis_completed"
	EventSynthesisFailed    SynthesisEventType = "synthesis_failed"
)

// SynthesisEvent is pushed to shells observing the service
type SynthesisEvent struct {
	Type      SynthesisEventType `json:"type"`
	JobID     string             `json:"job_id"`
	Voice     string             `json:"voice,omitempty"`
	FileName  string             `json:"file_name,omitempty"`
	Path      string             `json:"path,omitempty"`
	Bytes     int64              `json:"bytes,omitempty"`
	Error     string             `json:"error,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}
