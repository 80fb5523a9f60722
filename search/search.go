// Package search enumerates candidate proof witnesses 0, 1, 2, … and checks
// each against ¬(v0 = v0). Finding one would mean the encoded axiom system
// proves a contradiction.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/rfielding/zfsearch/internal/logging"
	"github.com/rfielding/zfsearch/verifier"
	"github.com/rfielding/zfsearch/wff"
)

// Config controls one run. The zero value starts at index 0 and never stops
// on its own.
type Config struct {
	Start            *big.Int      // first index to try; nil is 0
	Limit            uint64        // candidates to try; 0 is unbounded
	Resume           bool          // start from the stored checkpoint when there is one
	CheckpointEvery  uint64        // candidates between checkpoints; 0 saves only at the end
	ProgressInterval time.Duration // minimum gap between progress log lines
}

func DefaultConfig() Config {
	return Config{
		Start:            new(big.Int),
		CheckpointEvery:  100_000,
		ProgressInterval: 10 * time.Second,
	}
}

// RunRecord summarizes a finished run for the Store.
type RunRecord struct {
	ID         string    `json:"id"`
	Start      string    `json:"start"`
	Next       string    `json:"next"`
	Candidates uint64    `json:"candidates"`
	Found      bool      `json:"found"`
	Stop       Stop      `json:"stop"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store persists the next index to try and a history of runs.
type Store interface {
	Load(ctx context.Context) (next *big.Int, ok bool, err error)
	Save(ctx context.Context, next *big.Int) error
	RecordRun(ctx context.Context, run RunRecord) error
}

// Stop says why a run ended.
type Stop string

const (
	StopFound    Stop = "found"
	StopLimit    Stop = "limit"
	StopCanceled Stop = "canceled"
)

type Result struct {
	RunID      string
	Stop       Stop
	Start      *big.Int
	Next       *big.Int // first index not tried
	Index      *big.Int // the accepted witness when Stop is StopFound
	Proof      *wff.ProofNode
	Candidates uint64
	Elapsed    time.Duration
	Stats      *Stats
}

func (r *Result) Found() bool { return r.Stop == StopFound }

type Option func(*Searcher)

func WithLogger(l *slog.Logger) Option {
	return func(s *Searcher) { s.logger = l }
}

// WithStore enables checkpoints and run history.
func WithStore(st Store) Option {
	return func(s *Searcher) { s.store = st }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Searcher) { s.tracer = t }
}

// Searcher runs the enumeration. A Searcher is not safe for concurrent use.
type Searcher struct {
	cfg    Config
	logger *slog.Logger
	store  Store
	tracer trace.Tracer
	m      *verifier.Machine
	target *big.Int
}

func New(cfg Config, opts ...Option) *Searcher {
	s := &Searcher{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)
	if s.tracer == nil {
		s.tracer = otel.Tracer("zfsearch.search")
	}
	s.m = verifier.New()
	s.target = wff.Target()
	return s
}

var one = big.NewInt(1)

// Run tries candidates in ascending order until one proves the target, the
// limit is reached, or ctx is done. On cancellation the partial result is
// returned together with ctx.Err().
func (s *Searcher) Run(ctx context.Context) (*Result, error) {
	start, err := s.startIndex(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID: uuid.NewString(),
		Start: start,
		Stats: NewStats(),
	}
	ctx, span := s.tracer.Start(ctx, "Searcher.Run", trace.WithAttributes(
		attribute.String("search.run_id", res.RunID),
		attribute.String("search.start", start.String()),
		attribute.Int64("search.limit", int64(s.cfg.Limit)),
	))
	defer span.End()

	logger := s.logger.With("run_id", res.RunID)
	logger.Info("search started", "start", start, "limit", s.cfg.Limit, "resume", s.cfg.Resume)

	progress := rate.Sometimes{Interval: s.cfg.ProgressInterval}
	target := s.target
	began := time.Now()
	idx := new(big.Int).Set(start)

	for {
		if s.cfg.Limit > 0 && res.Candidates >= s.cfg.Limit {
			res.Stop = StopLimit
			break
		}
		if ctx.Err() != nil {
			res.Stop = StopCanceled
			break
		}

		t0 := time.Now()
		ok := s.m.Verify(target, idx)
		observeCandidate(idx, s.m, time.Since(t0))
		res.Stats.Record(idx, s.m)
		res.Candidates++

		if ok {
			res.Stop = StopFound
			res.Index = idx
			res.Proof = wff.ParseWitness(idx)
			idx = new(big.Int).Add(idx, one)
			break
		}
		idx = new(big.Int).Add(idx, one)

		if s.cfg.CheckpointEvery > 0 && res.Candidates%s.cfg.CheckpointEvery == 0 {
			if err := s.checkpoint(ctx, span, idx); err != nil {
				return nil, err
			}
		}
		progress.Do(func() {
			logger.Info("search progress", "next", idx, "candidates", res.Candidates,
				"rate", perSecond(res.Candidates, time.Since(began)))
		})
	}

	res.Next = idx
	res.Elapsed = time.Since(began)
	setNextIndex(idx)

	// The final checkpoint and run record still go out when ctx is done.
	saveCtx := context.WithoutCancel(ctx)
	if err := s.checkpoint(saveCtx, span, idx); err != nil {
		return nil, err
	}
	if err := s.record(saveCtx, res, began); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("search.stop", string(res.Stop)),
		attribute.String("search.next", idx.String()),
		attribute.Int64("search.candidates", int64(res.Candidates)),
	)
	runsTotal.WithLabelValues(string(res.Stop)).Inc()

	if res.Found() {
		logger.Warn("contradiction derived", "index", res.Index, "candidates", res.Candidates)
	} else {
		logger.Info("search stopped", "stop", res.Stop, "next", idx, "candidates", res.Candidates,
			"elapsed", res.Elapsed)
	}

	if res.Stop == StopCanceled {
		span.SetStatus(codes.Error, "canceled")
		return res, ctx.Err()
	}
	return res, nil
}

func (s *Searcher) startIndex(ctx context.Context) (*big.Int, error) {
	if s.cfg.Resume && s.store != nil {
		next, ok, err := s.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading checkpoint: %w", err)
		}
		if ok {
			return next, nil
		}
	}
	if s.cfg.Start == nil {
		return new(big.Int), nil
	}
	if s.cfg.Start.Sign() < 0 {
		return nil, errors.New("start index must not be negative")
	}
	return new(big.Int).Set(s.cfg.Start), nil
}

func (s *Searcher) checkpoint(ctx context.Context, span trace.Span, next *big.Int) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, next); err != nil {
		checkpointsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkpoint failed")
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	checkpointsTotal.WithLabelValues("ok").Inc()
	span.AddEvent("checkpoint", trace.WithAttributes(attribute.String("search.next", next.String())))
	s.logger.Debug("checkpoint saved", "next", next)
	return nil
}

func (s *Searcher) record(ctx context.Context, res *Result, began time.Time) error {
	if s.store == nil {
		return nil
	}
	run := RunRecord{
		ID:         res.RunID,
		Start:      res.Start.String(),
		Next:       res.Next.String(),
		Candidates: res.Candidates,
		Found:      res.Found(),
		Stop:       res.Stop,
		StartedAt:  began,
		FinishedAt: began.Add(res.Elapsed),
	}
	if err := s.store.RecordRun(ctx, run); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

func perSecond(n uint64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}
