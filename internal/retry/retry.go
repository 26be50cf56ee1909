// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

// Package retry computes retry delays for the fetch pipeline. It builds on
// github.com/cenkalti/backoff/v4's BackOff interface so the fixed and
// linear strategies can be driven by the same retry loop as backoff's own
// exponential implementation.
package retry

import (
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Strategy names one of the delay curves a Policy can follow.
type Strategy int

const (
	Fixed Strategy = iota
	Linear
	Exponential
	ExponentialJitter
)

// Policy configures how many attempts to make and how long to wait between
// them.
type Policy struct {
	Strategy   Strategy
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxRetries int
}

// DefaultPolicy matches the retry behavior described for transient network
// and 5xx failures: three retries, exponential backoff with full jitter,
// capped at 8 seconds between attempts.
func DefaultPolicy() Policy {
	return Policy{
		Strategy:   ExponentialJitter,
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   8 * time.Second,
		MaxRetries: 3,
	}
}

// NewBackOff returns a backoff.BackOff implementing p's strategy. The
// returned value is stateful (attempt count resets via Reset) and is not
// safe for concurrent use, matching backoff.BackOff's own contract.
func (p Policy) NewBackOff() backoff.BackOff {
	var b backoff.BackOff

	switch p.Strategy {
	case Fixed:
		b = &fixedBackOff{delay: p.BaseDelay}
	case Linear:
		b = &linearBackOff{base: p.BaseDelay, max: p.MaxDelay}
	case ExponentialJitter:
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = p.BaseDelay
		eb.MaxInterval = p.MaxDelay
		eb.RandomizationFactor = 0
		eb.Multiplier = 2.0
		eb.MaxElapsedTime = 0
		eb.Reset()
		b = fullJitterBackOff{eb}
	default: // Exponential, no jitter
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = p.BaseDelay
		eb.MaxInterval = p.MaxDelay
		eb.RandomizationFactor = 0
		eb.Multiplier = 2.0
		eb.MaxElapsedTime = 0
		eb.Reset()
		b = eb
	}

	if p.MaxRetries > 0 {
		b = backoff.WithMaxRetries(b, uint64(p.MaxRetries))
	}

	return b
}

type fixedBackOff struct {
	delay time.Duration
}

func (f *fixedBackOff) NextBackOff() time.Duration { return f.delay }
func (f *fixedBackOff) Reset()                     {}

type linearBackOff struct {
	base    time.Duration
	max     time.Duration
	attempt int
}

func (l *linearBackOff) NextBackOff() time.Duration {
	l.attempt++
	d := time.Duration(l.attempt) * l.base
	if l.max > 0 && d > l.max {
		d = l.max
	}
	return d
}

func (l *linearBackOff) Reset() { l.attempt = 0 }

// fullJitterBackOff draws each delay uniformly from [0, d), where d is the
// next delay of the wrapped, unjittered exponential BackOff.
type fullJitterBackOff struct {
	backoff.BackOff
}

func (j fullJitterBackOff) NextBackOff() time.Duration {
	d := j.BackOff.NextBackOff()
	if d == backoff.Stop {
		return d
	}
	return Jitter(d)
}

// Jitter returns d randomized uniformly in [0, d); the ExponentialJitter
// strategy applies it to every delay.
func Jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(d)))
}
