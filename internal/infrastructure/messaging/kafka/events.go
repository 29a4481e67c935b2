package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

const (
	// TopicCoverageAnalyzed carries one event per completed analysis.
	TopicCoverageAnalyzed = "coverage.analyzed"

	EventTypeCoverageAnalyzed = "coverage.analyzed"
	eventSource               = "covergap"
)

// EventEnvelope wraps every payload published by this service.
type EventEnvelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// AnalyzedPayload summarises an analysis.  It carries no policy text.
type AnalyzedPayload struct {
	ReportID       string    `json:"report_id"`
	PolicyHash     string    `json:"policy_hash"`
	PolicyCategory string    `json:"policy_category"`
	Region         string    `json:"region"`
	AnalysisPath   string    `json:"analysis_path"`
	OverallScore   int       `json:"overall_score"`
	TotalGaps      int       `json:"total_gaps"`
	CriticalGaps   int       `json:"critical_gaps"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// NewAnalyzedPayload projects an analysis onto its event payload.
func NewAnalyzedPayload(a *coverage.Analysis) AnalyzedPayload {
	p := AnalyzedPayload{
		ReportID:    a.ID,
		PolicyHash:  a.PolicyHash,
		GeneratedAt: a.GeneratedAt,
	}
	if r := a.Report; r != nil {
		p.PolicyCategory = string(r.PolicyCategory)
		p.Region = string(r.Region)
		p.AnalysisPath = string(r.Path)
		p.OverallScore = r.OverallScore
		p.TotalGaps = r.TotalGapCount
		p.CriticalGaps = r.CriticalGapCount
	}
	return p
}

func NewEventEnvelope(eventType string, payload interface{}) (*EventEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event payload")
	}
	return &EventEnvelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Source:    eventSource,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}, nil
}

// DecodePayload unmarshals the payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}

// publisher is the part of *Producer the AnalysisPublisher needs.
type publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// AnalysisPublisher implements coverage.EventPublisher over a Producer.
type AnalysisPublisher struct {
	producer publisher
	topic    string
	logger   logging.Logger
}

var _ coverage.EventPublisher = (*AnalysisPublisher)(nil)

// NewAnalysisPublisher publishes to topic, or TopicCoverageAnalyzed when empty.
func NewAnalysisPublisher(p publisher, topic string, logger logging.Logger) *AnalysisPublisher {
	if topic == "" {
		topic = TopicCoverageAnalyzed
	}
	return &AnalysisPublisher{producer: p, topic: topic, logger: logger}
}

// PublishAnalyzed emits a coverage.analyzed event keyed by report id.
func (p *AnalysisPublisher) PublishAnalyzed(ctx context.Context, a *coverage.Analysis) error {
	if a == nil {
		return errors.InvalidInput("analysis is required")
	}
	env, err := NewEventEnvelope(EventTypeCoverageAnalyzed, NewAnalyzedPayload(a))
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event")
	}

	headers := map[string]string{
		"event_type": env.EventType,
		"event_id":   env.EventID,
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(a.ID), value, headers); err != nil {
		return errors.Wrap(err, errors.ErrCodeEventPublishFailed, "failed to publish analysis event")
	}
	p.logger.Debug("Analysis event published",
		logging.String("report_id", a.ID),
		logging.String("topic", p.topic))
	return nil
}

//Personal.AI order the ending
