package usecase

import (
	"sync"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
)

// Session holds the state a shell keeps for its lifetime: the most recent
// artifact and the single synthesis slot.
type Session struct {
	mu       sync.Mutex
	lastPath string
	inflight *Job
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// LastArtifact returns the path of the most recently generated artifact, or ""
func (s *Session) LastArtifact() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPath
}

// Current returns the outstanding job, if any
func (s *Session) Current() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight
}

// Cancel cancels the outstanding job and returns it, or nil when there was none.
func (s *Session) Cancel() *Job {
	s.mu.Lock()
	job := s.inflight
	s.mu.Unlock()

	if job != nil {
		job.Cancel()
	}
	return job
}

func (s *Session) setLastArtifact(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPath = path
}

func (s *Session) acquire(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight != nil {
		return entities.ErrBusy
	}
	s.inflight = job
	return nil
}

func (s *Session) release(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight == job {
		s.inflight = nil
	}
}
