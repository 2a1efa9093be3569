// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corosched

// schedulerOptions holds configuration options for Scheduler.Init.
type schedulerOptions struct {
	logger         *schedLogger
	metricsEnabled bool
}

// --- Scheduler Options ---

// Option configures a Scheduler at Init time.
type Option interface {
	applyScheduler(*schedulerOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyFunc func(*schedulerOptions) error
}

func (o *optionImpl) applyScheduler(opts *schedulerOptions) error {
	return o.applyFunc(opts)
}

// WithLogger installs a structured logger for lifecycle and reschedule
// events. The zero value (nil) leaves logging disabled.
func WithLogger(logger *schedLogger) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		if logger == nil {
			logger = disabledLogger
		}
		opts.logger = logger
		return nil
	}}
}

// WithMetrics enables runtime metrics collection on the Scheduler.
// When enabled, metrics can be accessed via Scheduler.Metrics().
// This adds minimal overhead (a handful of atomic increments per
// reschedule). For zero-allocation hot paths, disable metrics in
// production.
func WithMetrics(enabled bool) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// resolveOptions applies Option instances to schedulerOptions.
func resolveOptions(opts []Option) (*schedulerOptions, error) {
	cfg := &schedulerOptions{
		logger: disabledLogger,
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyScheduler(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
