package consumer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cohortics/churn-analytics-service/internal/domain"
)

// JSONFactParser implements MessageParser for JSON-formatted fact messages
type JSONFactParser struct{}

// NewJSONFactParser creates a new JSON fact parser
func NewJSONFactParser() *JSONFactParser {
	return &JSONFactParser{}
}

type factMessage struct {
	FactID      string `json:"fact_id"`
	UserID      string `json:"user_id"`
	ActiveMonth string `json:"active_month"`
}

// Parse parses a JSON message body into an ActivityFact. The active month
// is normalized to the first of the month whatever date form the producer
// sent.
func (p *JSONFactParser) Parse(body []byte) (*domain.ActivityFact, error) {
	var msg factMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if msg.UserID == "" {
		return nil, fmt.Errorf("message has no user_id")
	}

	month, err := domain.ParseMonth(msg.ActiveMonth)
	if err != nil {
		return nil, fmt.Errorf("message has invalid active_month: %w", err)
	}

	fact := &domain.ActivityFact{
		FactID:     msg.FactID,
		UserID:     msg.UserID,
		Month:      month,
		RecordedAt: time.Now().UTC(),
		Version:    uint64(time.Now().UnixNano()),
	}

	return fact, nil
}
