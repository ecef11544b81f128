package colorize

import (
	"fmt"

	"go.uber.org/zap"
)

// Policy decides what a malformed value does to the rest of a run
type Policy string

const (
	// PolicyIndependent colors every parseable node and reports the rest
	PolicyIndependent Policy = "independent"
	// PolicyAtomic colors nothing unless every node parses
	PolicyAtomic Policy = "atomic"
)

// ParsePolicy converts a config string to a Policy. Empty means independent.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyIndependent:
		return PolicyIndependent, nil
	case PolicyAtomic:
		return PolicyAtomic, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q", s)
	}
}

type options struct {
	logger  *zap.Logger
	policy  Policy
	keyword string
}

// Option configures an Applier or Colorizer
type Option func(*options)

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPolicy sets the failure policy
func WithPolicy(p Policy) Option {
	return func(o *options) {
		if p != "" {
			o.policy = p
		}
	}
}

// WithKeyword overrides the column-name substring, "color" by default
func WithKeyword(k string) Option {
	return func(o *options) {
		if k != "" {
			o.keyword = k
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:  zap.NewNop(),
		policy:  PolicyIndependent,
		keyword: DefaultKeyword,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
