// Package insertgate runs every entity create through the same sequence:
// validate, check references, compare against existing records, persist.
package insertgate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ynmsafety/ynmops/internal/dedupe"
	"github.com/ynmsafety/ynmops/internal/observability/logger"
	"github.com/ynmsafety/ynmops/internal/observability/metrics"
	"github.com/ynmsafety/ynmops/internal/validation"
	"github.com/ynmsafety/ynmops/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Request describes one create. Validate, Reference and OnDuplicateKey are
// optional. A nil Peers skips duplicate detection and the insert lock.
type Request struct {
	Entity string

	Validate  func() validation.Result
	Reference func(ctx context.Context) error

	Policy    dedupe.Policy
	Candidate dedupe.Fields
	// Peers loads every existing record of the entity, in a stable order.
	Peers func(ctx context.Context) ([]dedupe.Fields, error)
	// Conflict shapes the snapshot of the peer a Match points at.
	Conflict func(m *dedupe.Match) any

	Persist func(ctx context.Context) error
	// OnDuplicateKey looks up the record that won an insert race when the
	// datastore rejects the candidate's fingerprint.
	OnDuplicateKey func(ctx context.Context) any
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Locker  Locker
	Metrics *metrics.InsertMetrics `optional:"true"`
}

type Gate struct {
	log     *zap.Logger
	locker  Locker
	metrics *metrics.InsertMetrics
}

func New(p Params) *Gate {
	locker := p.Locker
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &Gate{
		log:     p.Log.Named("insertgate"),
		locker:  locker,
		metrics: p.Metrics,
	}
}

// Run executes req. It returns nil once Persist succeeded, or one of
// *FieldError, *ReferenceError, *DuplicateError or *PersistenceError.
func (g *Gate) Run(ctx context.Context, req Request) error {
	log := logger.WithContext(ctx, g.log).With(zap.String("entity", req.Entity))

	if req.Validate != nil {
		if r := req.Validate(); !r.Valid {
			g.metrics.IncOutcome(req.Entity, metrics.OutcomeInvalid)
			log.Debug("candidate rejected by validation", zap.String("field", r.Field), zap.String("reason", r.Message))
			return &FieldError{Field: r.Field, Message: r.Message}
		}
	}

	if req.Reference != nil {
		if err := req.Reference(ctx); err != nil {
			var refErr *ReferenceError
			if errors.As(err, &refErr) {
				g.metrics.IncOutcome(req.Entity, metrics.OutcomeReference)
				log.Info("candidate references missing catalog entry", zap.String("value", refErr.Value))
				return refErr
			}
			g.metrics.IncOutcome(req.Entity, metrics.OutcomeFailed)
			log.Error("reference check failed", zap.Error(err))
			return &PersistenceError{Err: err}
		}
	}

	if req.Peers == nil {
		return g.persist(ctx, log, req)
	}

	waitStart := time.Now()
	unlock, err := g.locker.Lock(ctx, "insert:"+req.Entity)
	if err != nil {
		g.metrics.IncOutcome(req.Entity, metrics.OutcomeFailed)
		log.Error("insert lock unavailable", zap.Error(err))
		return &PersistenceError{Err: fmt.Errorf("acquire %s insert lock: %w", req.Entity, err)}
	}
	defer unlock()
	g.metrics.ObserveLockWait(req.Entity, time.Since(waitStart))

	peers, err := req.Peers(ctx)
	if err != nil {
		g.metrics.IncOutcome(req.Entity, metrics.OutcomeFailed)
		log.Error("load existing records failed", zap.Error(err))
		return &PersistenceError{Err: err}
	}
	g.metrics.ObservePeerScan(req.Entity, len(peers))

	if m := dedupe.Evaluate(req.Policy, req.Candidate, peers); m != nil {
		var existing any
		if req.Conflict != nil {
			existing = req.Conflict(m)
		}
		g.metrics.IncOutcome(req.Entity, metrics.OutcomeDuplicate)
		log.Warn("duplicate rejected",
			zap.String("clause", m.Clause),
			zap.Int("peer_index", m.Index),
			zap.Any("scores", m.Scores),
		)
		return &DuplicateError{Entity: req.Entity, Clause: m.Clause, Existing: existing}
	}

	return g.persist(ctx, log, req)
}

func (g *Gate) persist(ctx context.Context, log *zap.Logger, req Request) error {
	if err := req.Persist(ctx); err != nil {
		if db.IsDuplicateKeyErr(err) {
			var existing any
			if req.OnDuplicateKey != nil {
				existing = req.OnDuplicateKey(ctx)
			}
			g.metrics.IncOutcome(req.Entity, metrics.OutcomeRaceCaught)
			log.Warn("duplicate rejected by unique fingerprint", zap.Error(err))
			return &DuplicateError{Entity: req.Entity, Clause: "fingerprint", Existing: existing}
		}
		g.metrics.IncOutcome(req.Entity, metrics.OutcomeFailed)
		log.Error("persist failed", zap.Error(err))
		return &PersistenceError{Err: err}
	}

	g.metrics.IncOutcome(req.Entity, metrics.OutcomeCreated)
	log.Info("created")
	return nil
}
