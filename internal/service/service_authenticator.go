// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/neuro-vault/internal/adapter"
	"github.com/MKhiriev/neuro-vault/internal/auth"
	"github.com/MKhiriev/neuro-vault/internal/config"
	"github.com/MKhiriev/neuro-vault/internal/face"
	"github.com/MKhiriev/neuro-vault/internal/logger"
	"github.com/MKhiriev/neuro-vault/internal/store"
	"github.com/MKhiriev/neuro-vault/models"
)

// MinTickInterval is the shortest pause between two session ticks.
const MinTickInterval = 100 * time.Millisecond

// authenticator drives an [auth.Session] from a frame source.
type authenticator struct {
	// refs holds the enrolled reference set, loaded once per Authenticate.
	refs *face.ReferenceStore

	cfg          auth.Config
	tolerance    float64
	tickInterval time.Duration

	now   func() time.Time
	audit auditor

	logger *logger.Logger
}

// NewAuthenticator builds an Authenticator from the auth configuration.
// Tick intervals below [MinTickInterval] are raised to it.
func NewAuthenticator(refs *face.ReferenceStore, audit store.AuditRepository, cfg config.Auth, log *logger.Logger) (Authenticator, error) {
	sessionCfg := auth.Config{
		MaxAttempts:                cfg.MaxAttempts,
		Timeout:                    cfg.Timeout,
		RequiredConsecutiveMatches: cfg.RequiredConsecutiveMatches,
	}
	if err := sessionCfg.Validate(); err != nil {
		return nil, err
	}

	return newAuthenticator(refs, newAuditor(audit, log), sessionCfg, cfg.Tolerance, max(cfg.TickInterval, MinTickInterval), log), nil
}

func newAuthenticator(refs *face.ReferenceStore, audit auditor, cfg auth.Config, tolerance float64, tick time.Duration, log *logger.Logger) *authenticator {
	return &authenticator{
		refs:         refs,
		cfg:          cfg,
		tolerance:    tolerance,
		tickInterval: tick,
		now:          time.Now,
		audit:        audit,
		logger:       log,
	}
}

// Authenticate implements Authenticator.
//
// Frames are read on a separate goroutine and handed over one at a time.
// Each tick evaluates the pending frame, or only checks the timeout when none
// has arrived. A finished stream keeps the session polling until it times
// out; any other source error ends the session with that error.
func (a *authenticator) Authenticate(ctx context.Context, src adapter.FrameSource) (auth.Decision, error) {
	defer src.Close()

	refs, err := a.refs.Load()
	if err != nil {
		a.audit.result(ctx, models.OpAuthenticate, err, "")
		return auth.Decision{}, err
	}
	if len(refs) == 0 {
		a.audit.result(ctx, models.OpAuthenticate, face.ErrNotEnrolled, "")
		return auth.Decision{}, face.ErrNotEnrolled
	}

	session, err := auth.NewSession(a.cfg, auth.WithClock(a.now))
	if err != nil {
		return auth.Decision{}, err
	}
	log := a.logger.With().Str("session_id", session.ID()).Logger()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan face.Embedding)
	errs := make(chan error, 1)
	go func() {
		for {
			e, err := src.Next(ctx)
			if err != nil {
				errs <- err
				return
			}
			select {
			case frames <- e:
			case <-ctx.Done():
				return
			}
		}
	}()

	decision := session.Start()
	log.Info().
		Int("references", len(refs)).
		Dur("timeout", a.cfg.Timeout).
		Msg("authentication started")

	ticker := time.NewTicker(a.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			a.finish(ctx, decision, err)
			return decision, err

		case err = <-errs:
			if errors.Is(err, io.EOF) {
				log.Debug().Msg("frame source finished")
				errs = nil
				continue
			}
			if !errors.Is(err, adapter.ErrCaptureUnavailable) && !errors.Is(err, adapter.ErrMalformedFrame) {
				err = fmt.Errorf("%w: %w", adapter.ErrCaptureUnavailable, err)
			}
			a.finish(ctx, decision, err)
			return decision, err

		case <-ticker.C:
			select {
			case e := <-frames:
				outcome := face.Evaluate(refs, e, a.tolerance)
				decision, err = session.Tick(outcome)
				log.Debug().
					Stringer("outcome", outcome).
					Int("attempts", decision.Attempts).
					Int("consecutive", decision.Consecutive).
					Msg("frame evaluated")
			default:
				decision, err = session.Poll()
			}
			if err != nil {
				return decision, err
			}
			if decision.State.Terminal() {
				a.finish(ctx, decision, nil)
				return decision, nil
			}
		}
	}
}

func (a *authenticator) finish(ctx context.Context, d auth.Decision, err error) {
	event := models.AuditEvent{
		SessionID: d.SessionID,
		Operation: models.OpAuthenticate,
		Attempts:  d.Attempts,
		Detail:    fmt.Sprintf("elapsed=%s", d.Elapsed.Round(time.Millisecond)),
	}

	entry := a.logger.Info()
	switch {
	case err != nil:
		event.Outcome = models.OutcomeFailure
		event.Reason = err.Error()
		entry = a.logger.Warn().Err(err)
	case d.State == auth.StateAccepted:
		event.Outcome = models.OutcomeAccepted
	default:
		event.Outcome = models.OutcomeRejected
		event.Reason = string(d.Reason)
	}

	entry.
		Str("session_id", d.SessionID).
		Stringer("state", d.State).
		Str("reason", string(d.Reason)).
		Int("attempts", d.Attempts).
		Dur("elapsed", d.Elapsed).
		Msg("authentication finished")

	a.audit.record(ctx, event)
}

// RequireAccess turns a rejected decision into [ErrAccessDenied].
func RequireAccess(d auth.Decision, err error) error {
	if err != nil {
		return err
	}
	if d.State != auth.StateAccepted {
		reason := d.Reason
		if reason == auth.ReasonNone {
			reason = auth.Reason(d.State.String())
		}
		return fmt.Errorf("%w: %s", ErrAccessDenied, reason)
	}
	return nil
}
