package evaluator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BerylCAtieno/idea-validator/internal/logger"
	"github.com/BerylCAtieno/idea-validator/internal/metrics"
	"github.com/BerylCAtieno/idea-validator/internal/models"
)

// Client evaluates product ideas through a single model call per idea.
type Client struct {
	generator Generator
	webSearch bool
	logger    logger.Logger
}

type Option func(*Client)

// WithWebSearch toggles the model's search grounding. On by default.
func WithWebSearch(enabled bool) Option {
	return func(c *Client) {
		c.webSearch = enabled
	}
}

func NewClient(generator Generator, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		generator: generator,
		webSearch: true,
		logger:    log.With(map[string]interface{}{"component": "evaluator"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Evaluate issues exactly one request for ideaText. Failures are returned as
// *EvaluationError.
func (c *Client) Evaluate(ctx context.Context, ideaText string) (*models.EvaluationResult, error) {
	started := time.Now()
	text, err := c.generator.Generate(ctx, buildRequest(ideaText, c.webSearch))
	metrics.EvaluationDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, c.fail(KindTransportFailure, err)
	}

	if strings.TrimSpace(text) == "" {
		return nil, c.fail(KindEmptyResponse, errors.New("model returned no text"))
	}

	result, err := ParseResult(text)
	if err != nil {
		c.logger.Debug("unparseable model output", map[string]interface{}{"raw": text})
		return nil, c.fail(KindMalformedResponse, err)
	}

	if len(result.Dimensions) != ExpectedDimensions {
		c.logger.Warn("unexpected dimension count", map[string]interface{}{
			"expected": ExpectedDimensions,
			"got":      len(result.Dimensions),
		})
	}

	metrics.EvaluationsTotal.WithLabelValues("success").Inc()
	metrics.EvaluationGrades.WithLabelValues(string(result.Grade)).Inc()
	c.logger.Info("evaluation completed", map[string]interface{}{
		"totalScore": result.TotalScore,
		"grade":      result.Grade,
		"dimensions": len(result.Dimensions),
		"elapsed":    time.Since(started).String(),
	})
	return result, nil
}

func (c *Client) fail(kind Kind, cause error) error {
	metrics.EvaluationsTotal.WithLabelValues("failure").Inc()
	metrics.EvaluationFailures.WithLabelValues(string(kind)).Inc()
	c.logger.WithError(cause).Error("evaluation failed", map[string]interface{}{"kind": kind})
	return &EvaluationError{Kind: kind, Cause: cause}
}
