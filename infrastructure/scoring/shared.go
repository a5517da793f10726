// Package scoring provides the component implementations of the
// competition scoring engine: the keyed score store, the aggregator, the
// per-kind ranker, the popularity ranker, and the award filter.
// All components are synchronous and perform no I/O.
package scoring

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Common errors returned by scoring components.
var (
	// ErrNilScoreSource is returned when an aggregator is created without a
	// score source.
	ErrNilScoreSource = errors.New("score source cannot be nil")

	// ErrNilAggregator is returned when a ranker is created without an
	// aggregator.
	ErrNilAggregator = errors.New("aggregator cannot be nil")

	// ErrNilRegistry is returned when a ranker is created without the team
	// or proposal registry it needs to resolve participants.
	ErrNilRegistry = errors.New("registry cannot be nil")

	// ErrNilLikeSource is returned when a popularity ranker is created
	// without a like-count source.
	ErrNilLikeSource = errors.New("like count source cannot be nil")

	// ErrUnknownCompetitionType is returned when a competition carries a
	// type the engine does not rank.
	ErrUnknownCompetitionType = errors.New("unknown competition type")
)

// Package-level validator instance for input and configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// discardLogger returns a logger that swallows all output. Components fall
// back to it when the caller injects no logger, keeping diagnostics
// optional without nil checks at every call site.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return l
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
