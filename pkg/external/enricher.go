package external

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// textAnalyzer is the underlying model client the enricher wraps.
type textAnalyzer interface {
	Analyze(ctx context.Context, text string) (map[string]interface{}, error)
}

// ResilientEnricher wraps the inference client with a circuit breaker
// and response caching. The intake path calls it in the background, so
// a tripped breaker just means enrichment is skipped for a while.
type ResilientEnricher struct {
	client  textAnalyzer
	cache   *AnalysisCache
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

// NewResilientEnricher creates an enricher around the given client.
func NewResilientEnricher(client textAnalyzer, cache *AnalysisCache, logger *logrus.Logger) *ResilientEnricher {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "HuggingFace",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &ResilientEnricher{
		client:  client,
		cache:   cache,
		breaker: breaker,
		log:     logger,
	}
}

// Analyze returns the analysis for the text, serving from cache when
// possible and tripping the breaker on repeated upstream failures.
func (e *ResilientEnricher) Analyze(ctx context.Context, text string) (map[string]interface{}, error) {
	if e.cache != nil {
		if data, found := e.cache.Get(ctx, text); found {
			return data, nil
		}
	}

	result, err := e.breaker.Execute(func() (interface{}, error) {
		return e.client.Analyze(ctx, text)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("enrichment service unavailable (circuit breaker open)")
		}
		return nil, fmt.Errorf("enrichment query failed: %w", err)
	}

	data := result.(map[string]interface{})

	if e.cache != nil {
		if cacheErr := e.cache.Set(ctx, text, data); cacheErr != nil {
			e.log.WithError(cacheErr).Warn("Failed to cache enrichment result")
		}
	}

	return data, nil
}

// BreakerCounts returns the current circuit breaker counters.
func (e *ResilientEnricher) BreakerCounts() gobreaker.Counts {
	return e.breaker.Counts()
}

// BreakerState returns the current circuit breaker state.
func (e *ResilientEnricher) BreakerState() gobreaker.State {
	return e.breaker.State()
}
