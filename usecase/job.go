package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
)

// Job is one synthesis running off the caller's goroutine
type Job struct {
	ID      string
	Request entities.SynthesisRequest

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	once   sync.Once
	result *entities.SynthesisResult
	err    error
}

func newJob(parent context.Context, req entities.SynthesisRequest) *Job {
	ctx, cancel := context.WithCancel(parent)
	return &Job{
		ID:      uuid.NewString(),
		Request: req,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Cancel stops the job. Cancelling a finished job has no effect.
func (j *Job) Cancel() {
	j.cancel()
}

// Done is closed once the job has finished
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result blocks until the job finishes and returns its outcome
func (j *Job) Result() (*entities.SynthesisResult, error) {
	<-j.done
	return j.result, j.err
}

func (j *Job) finish(result *entities.SynthesisResult, err error) {
	j.once.Do(func() {
		j.result = result
		j.err = err
		j.cancel()
		close(j.done)
	})
}
