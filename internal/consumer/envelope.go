package consumer

import (
	"context"

	"github.com/cohortics/churn-analytics-service/internal/domain"
)

// Envelope wraps an activity fact with acknowledgment callbacks
type Envelope struct {
	Fact *domain.ActivityFact
	ack  func(context.Context) error
	nack func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(fact *domain.ActivityFact, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Fact: fact,
		ack:  ack,
		nack: nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
