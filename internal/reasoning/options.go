package reasoning

import (
	"context"
	"time"

	"github.com/timmy/carbonbite/internal/logger"
)

const (
	defaultMaxTokens = 4096
	defaultTimeout   = 60 * time.Second
)

// Options configures one provider client.
type Options struct {
	Model       string
	APIKey      string
	BaseURL     string
	Region      string
	Profile     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultMaxTokens
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}

func schemaName(req Request) string {
	if req.SchemaName != "" {
		return req.SchemaName
	}
	return "response"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// logResult records every non-OK outcome. OK results are logged at debug.
func logResult(ctx context.Context, p Provider, model string, res Result) {
	entry := logger.With(logger.Fields{
		logger.FieldProvider: string(p),
		"model":              model,
	}).WithStatus(res.Status.String())

	switch res.Status {
	case StatusOK:
		entry.WithField(logger.FieldSize, len(res.Payload)).Debug(ctx, "Reasoning call succeeded")
	case StatusEmpty:
		entry.Info(ctx, "Reasoning call returned no content: %s", res.Detail)
	default:
		entry.WithField(logger.FieldCause, res.Detail).Warn(ctx, "Reasoning call failed")
	}
}
