package repositories

import "github.com/xingkongliang/text-to-speech-app/domain"

// EventPublisher fans synthesis events out to interested shells
type EventPublisher interface {
	Publish(event domain.SynthesisEvent)
}
