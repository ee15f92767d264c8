package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BerylCAtieno/idea-validator/internal/evaluator"
	"github.com/BerylCAtieno/idea-validator/internal/logger"
	"github.com/BerylCAtieno/idea-validator/internal/metrics"
	"github.com/BerylCAtieno/idea-validator/internal/models"
)

var (
	ErrEmptyInput = errors.New("idea text is empty")
	ErrBusy       = errors.New("an evaluation is already in progress")
	ErrClosed     = errors.New("session closed")
)

// FailureMessage is the only error text users ever see.
const FailureMessage = "分析失败，请检查网络或稍后重试。"

// Evaluator performs the single upstream evaluation call.
type Evaluator interface {
	Evaluate(ctx context.Context, ideaText string) (*models.EvaluationResult, error)
}

type Config struct {
	ResearchingDelay time.Duration
	ScoringDelay     time.Duration
	RequestTimeout   time.Duration
}

func DefaultConfig() Config {
	return Config{
		ResearchingDelay: 1500 * time.Millisecond,
		ScoringDelay:     3500 * time.Millisecond,
		RequestTimeout:   120 * time.Second,
	}
}

// TransitionFunc observes status changes. It is called with the session lock
// held and must not call back into the Session.
type TransitionFunc func(runID string, from, to Status)

type Option func(*Session)

func WithObserver(fn TransitionFunc) Option {
	return func(s *Session) {
		s.observers = append(s.observers, fn)
	}
}

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	RunID      string                   `json:"runId,omitempty"`
	Status     Status                   `json:"status"`
	Idea       string                   `json:"idea"`
	Result     *models.EvaluationResult `json:"result,omitempty"`
	Error      string                   `json:"error,omitempty"`
	StartedAt  *time.Time               `json:"startedAt,omitempty"`
	FinishedAt *time.Time               `json:"finishedAt,omitempty"`
	CanSubmit  bool                     `json:"canSubmit"`
}

// Run is the handle for one submitted evaluation.
type Run struct {
	ID      string
	done    chan struct{}
	outcome Snapshot
}

// Done is closed once the run reached complete or error.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run settles and returns the state it settled in,
// even if a later submission has since replaced it.
func (r *Run) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-r.done:
		return r.outcome, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Session owns the status and result of the one evaluation that may be in
// flight at a time.
type Session struct {
	evaluator Evaluator
	cfg       Config
	logger    logger.Logger
	observers []TransitionFunc

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu           sync.Mutex
	status       Status
	idea         string
	result       *models.EvaluationResult
	errMsg       string
	startedAt    time.Time
	finishedAt   time.Time
	current      *Run
	cancelPhases context.CancelFunc
	closed       bool
}

func NewSession(ev Evaluator, cfg Config, log logger.Logger, opts ...Option) *Session {
	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		evaluator:  ev,
		cfg:        cfg,
		logger:     log.With(map[string]interface{}{"component": "analysis"}),
		baseCtx:    baseCtx,
		cancelBase: cancel,
		status:     StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit starts an evaluation of idea. It returns ErrEmptyInput when nothing
// is left after normalization and ErrBusy while another evaluation is in
// flight; neither changes the session state.
func (s *Session) Submit(idea string) (*Run, error) {
	idea = NormalizeIdea(idea)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if idea == "" {
		metrics.SubmissionsRejected.WithLabelValues("empty").Inc()
		return nil, ErrEmptyInput
	}
	if !s.status.AcceptsSubmission() {
		metrics.SubmissionsRejected.WithLabelValues("busy").Inc()
		return nil, ErrBusy
	}

	run := &Run{ID: uuid.NewString(), done: make(chan struct{})}
	phaseCtx, cancelPhases := context.WithCancel(s.baseCtx)

	s.current = run
	s.cancelPhases = cancelPhases
	s.idea = idea
	s.result = nil
	s.errMsg = ""
	s.startedAt = time.Now()
	s.finishedAt = time.Time{}
	s.transition(StatusAnalyzing)

	s.schedulePhase(phaseCtx, run.ID, s.cfg.ResearchingDelay, StatusResearching)
	s.schedulePhase(phaseCtx, run.ID, s.cfg.ScoringDelay, StatusScoring)

	s.logger.Info("evaluation submitted", map[string]interface{}{
		"runId":      run.ID,
		"ideaLength": len([]rune(idea)),
	})

	go s.execute(run, idea)
	return run, nil
}

// schedulePhase arms a cosmetic transition that dies with ctx.
func (s *Session) schedulePhase(ctx context.Context, runID string, delay time.Duration, to Status) {
	timer := time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if ctx.Err() != nil || s.current == nil || s.current.ID != runID {
			return
		}
		if !s.status.InFlight() || s.status.phase() >= to.phase() {
			return
		}
		s.transition(to)
	})
	context.AfterFunc(ctx, func() {
		timer.Stop()
	})
}

func (s *Session) execute(run *Run, idea string) {
	ctx, cancel := context.WithTimeout(s.baseCtx, s.cfg.RequestTimeout)
	defer cancel()

	result, err := s.evaluator.Evaluate(ctx, idea)
	s.resolve(run, result, err)
}

func (s *Session) resolve(run *Run, result *models.EvaluationResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Phase timers go first so none can fire after the terminal state.
	s.cancelPhases()
	s.finishedAt = time.Now()

	if err != nil {
		s.logger.WithError(err).Error("evaluation run failed", map[string]interface{}{
			"runId": run.ID,
			"kind":  evaluator.KindOf(err),
		})
		s.result = nil
		s.errMsg = FailureMessage
		s.transition(StatusError)
	} else {
		s.result = result
		s.errMsg = ""
		s.transition(StatusComplete)
	}

	run.outcome = s.snapshotLocked()
	close(run.done)
}

func (s *Session) transition(to Status) {
	from := s.status
	s.status = to

	runID := ""
	if s.current != nil {
		runID = s.current.ID
	}
	metrics.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
	s.logger.Debug("status transition", map[string]interface{}{
		"runId": runID,
		"from":  from,
		"to":    to,
	})
	for _, fn := range s.observers {
		fn(runID, from, to)
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:    s.status,
		Idea:      s.idea,
		CanSubmit: s.status.AcceptsSubmission() && !s.closed,
	}
	if s.current != nil {
		snap.RunID = s.current.ID
	}
	if s.status == StatusComplete && s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	if s.status == StatusError {
		snap.Error = s.errMsg
	}
	if !s.startedAt.IsZero() {
		t := s.startedAt
		snap.StartedAt = &t
	}
	if !s.finishedAt.IsZero() {
		t := s.finishedAt
		snap.FinishedAt = &t
	}
	return snap
}

// Current returns the handle of the latest run, or nil before the first
// submission.
func (s *Session) Current() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close refuses further submissions and cancels pending phase timers and the
// in-flight request. Used on shutdown.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancelBase()
}
