package consumer

import (
	"github.com/cohortics/churn-analytics-service/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into
// activity facts
type MessageParser interface {
	Parse(body []byte) (*domain.ActivityFact, error)
}
