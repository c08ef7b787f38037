package processors

import (
	"context"
	"fmt"
	"time"

	"feedcheck/internal/customrules"
	"feedcheck/internal/history"
	"feedcheck/internal/logger"
	"feedcheck/internal/metrics"
	"feedcheck/internal/models"
	"feedcheck/internal/validation"
)

const (
	EventFeedValidationRequested = "feed.validation.requested"
)

// Event is a feed-lifecycle message consumed from Kafka.
type Event struct {
	Type      string              `json:"type"`
	FeedID    string              `json:"feed_id"`
	Records   []models.FeedRecord `json:"records"`
	Timestamp time.Time           `json:"timestamp"`
}

// EventProcessor runs the validation pipeline for feed events: local rules,
// custom rules, then history persistence.
type EventProcessor struct {
	engine      *validation.Engine
	customRules *customrules.Engine
	ruleStore   *customrules.Store
	store       history.Store
	metrics     *metrics.Collector
	logger      *logger.Logger
}

func NewEventProcessor(
	engine *validation.Engine,
	custom *customrules.Engine,
	ruleStore *customrules.Store,
	store history.Store,
	collector *metrics.Collector,
	log *logger.Logger,
) *EventProcessor {
	return &EventProcessor{
		engine:      engine,
		customRules: custom,
		ruleStore:   ruleStore,
		store:       store,
		metrics:     collector,
		logger:      log,
	}
}

func (ep *EventProcessor) Process(ctx context.Context, event Event) error {
	switch event.Type {
	case EventFeedValidationRequested:
		return ep.processValidation(ctx, event)
	default:
		ep.logger.Debug("Ignoring event of type %s", event.Type)
		return nil
	}
}

func (ep *EventProcessor) processValidation(ctx context.Context, event Event) error {
	if event.FeedID == "" {
		return fmt.Errorf("validation event without feed_id")
	}

	result := ep.engine.ValidateFeed(ctx, event.FeedID, event.Records)

	if ep.ruleStore != nil {
		rules, err := ep.ruleStore.LoadEnabled(ctx)
		if err != nil {
			ep.logger.Error("Failed to load custom rules, skipping: %v", err)
		} else {
			result.Issues = append(result.Issues, ep.customRules.Apply(event.Records, rules)...)
		}
	}

	ep.metrics.RecordRun(result)
	ep.logger.Info("Validated feed %s: %d/%d valid, %d issues",
		event.FeedID, result.ValidItemCount, result.TotalItems, len(result.Issues))

	// Persistence is best-effort: a failed save must not fail the event.
	if _, err := ep.store.Save(ctx, history.NewEntry(result)); err != nil {
		ep.logger.Error("Failed to save validation history for feed %s: %v", event.FeedID, err)
		ep.metrics.RecordHistorySaveFailure()
	}

	return nil
}
