package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for New()
// ============================================================================
// Invalid values are rejected by New before any data is processed.
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	AsOfDate          time.Time // zero value = latest timestamp in the input
	AffinityMinCount  int       `validate:"gte=1"`
	TopProducts       int       `validate:"gte=1"`
	TopPairs          int       `validate:"gte=1"`
	TopCustomers      int       `validate:"gte=1"`
	TopCLV            int       `validate:"gte=1"`
	RoundingPrecision int32     `validate:"gte=0,lte=8"`
	Logger            *logrus.Logger `validate:"-"`
}

// WithAsOfDate sets the reference date for churn recency. When unset, the
// latest transaction timestamp in the input is used.
func WithAsOfDate(t time.Time) Option {
	return func(c *config) { c.AsOfDate = t }
}

// WithAffinityMinCount sets the minimum co-occurrence count for a product
// pair to appear in the basket affinity output.
func WithAffinityMinCount(n int) Option {
	return func(c *config) { c.AffinityMinCount = n }
}

// WithTopProducts sets the product growth leaderboard size.
func WithTopProducts(n int) Option {
	return func(c *config) { c.TopProducts = n }
}

// WithTopPairs sets the basket affinity leaderboard size.
func WithTopPairs(n int) Option {
	return func(c *config) { c.TopPairs = n }
}

// WithTopCustomers sets the top-customer leaderboard size.
func WithTopCustomers(n int) Option {
	return func(c *config) { c.TopCustomers = n }
}

// WithTopCLV sets the CLV ranking size.
func WithTopCLV(n int) Option {
	return func(c *config) { c.TopCLV = n }
}

// WithRoundingPrecision sets the decimal places for every rounded output
// value. Rounding is half-away-from-zero.
func WithRoundingPrecision(places int32) Option {
	return func(c *config) { c.RoundingPrecision = places }
}

// WithLogger sets the structured logger used for run diagnostics.
func WithLogger(log *logrus.Logger) Option {
	return func(c *config) { c.Logger = log }
}

func defaultConfig() config {
	// Default logger is silent so the engine stays quiet inside pipelines.
	log := logrus.New()
	log.SetOutput(io.Discard)

	return config{
		AffinityMinCount:  10,
		TopProducts:       20,
		TopPairs:          20,
		TopCustomers:      50,
		TopCLV:            100,
		RoundingPrecision: 2,
		Logger:            log,
	}
}

// newConfig applies options and validates the result. Validation failures
// are configuration errors: they happen before any data is read.
func newConfig(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		return config{}, fmt.Errorf("engine config: logger must not be nil")
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return config{}, fmt.Errorf("engine config: %w", err)
	}
	return cfg, nil
}
