package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"teamsort/internal/assessment"
	"teamsort/internal/audit"
	"teamsort/internal/domain"
	"teamsort/internal/grouping"
	"teamsort/internal/session/metrics"
	"teamsort/internal/session/models"
	id "teamsort/pkg/domain"
	dErrors "teamsort/pkg/domain-errors"
)

const tracerName = "teamsort/internal/session"

// DefaultRevealDelay is the narrative pause between scoring and presenting.
const DefaultRevealDelay = 9 * time.Second

// SnapshotStore persists the finalized roster and partition in one
// all-or-nothing write.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *models.Snapshot) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Controller owns one session's state and is the only thing that mutates it.
// Every operator intent has one method; each returns the resulting view.
type Controller struct {
	mu          sync.Mutex
	state       *models.State
	acc         *assessment.Accumulator
	generation  uint64
	closed      bool
	outbox      []audit.Event
	bank        assessment.Bank
	partitioner *grouping.Partitioner
	store       SnapshotStore
	reveals     *revealScheduler
	revealDelay time.Duration
	now         func() time.Time
	sessionID   id.SessionID

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(c *Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(c *Controller) {
		c.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithRevealDelay sets the pause before a scored individual is presented.
// Zero or negative applies the reveal synchronously.
func WithRevealDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.revealDelay = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func WithSessionID(sessionID id.SessionID) Option {
	return func(c *Controller) {
		c.sessionID = sessionID
	}
}

// New creates a controller at the welcome step with an empty roster.
func New(bank assessment.Bank, partitioner *grouping.Partitioner, store SnapshotStore, opts ...Option) (*Controller, error) {
	if bank.Len() == 0 {
		return nil, errors.New("question bank is required")
	}
	if partitioner == nil {
		return nil, errors.New("partitioner is required")
	}
	if store == nil {
		return nil, errors.New("snapshot store is required")
	}

	c := &Controller{
		bank:        bank,
		partitioner: partitioner,
		store:       store,
		reveals:     newRevealScheduler(),
		revealDelay: DefaultRevealDelay,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessionID.IsNil() {
		c.sessionID = id.NewSessionID()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.state = models.NewState(c.sessionID, partitioner.GroupCount())
	return c, nil
}

// ID returns the session id.
func (c *Controller) ID() id.SessionID {
	return c.sessionID
}

// Bank returns the question bank the session assesses with.
func (c *Controller) Bank() assessment.Bank {
	return c.bank
}

// View returns a copy of the current session state.
func (c *Controller) View() models.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Dashboard returns roster statistics for the operator.
func (c *Controller) Dashboard() models.DashboardStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return buildStats(c.state)
}

// BeginIntake starts collecting a new individual. It is rejected once the
// session is finalized.
func (c *Controller) BeginIntake(ctx context.Context) (models.View, error) {
	c.mu.Lock()
	defer c.unlockAndFlush(ctx)

	next, err := c.allow(ctx, models.IntentBeginIntake)
	if err != nil {
		return c.viewLocked(), err
	}
	if err := c.state.CanAcceptIntake(); err != nil {
		c.rejectLocked(ctx, models.IntentBeginIntake, err.Error())
		return c.viewLocked(), err
	}

	c.state.Step = next
	c.state.Draft = &domain.Draft{}
	c.acc = nil
	return c.viewLocked(), nil
}

// SubmitIntake validates the intake form and starts the assessment. A
// validation failure leaves the session in intake.
func (c *Controller) SubmitIntake(ctx context.Context, input models.IntakeInput) (models.View, error) {
	c.mu.Lock()
	defer c.unlockAndFlush(ctx)

	next, err := c.allow(ctx, models.IntentSubmitIntake)
	if err != nil {
		return c.viewLocked(), err
	}
	draft, err := input.Draft()
	if err != nil {
		c.logger.InfoContext(ctx, "intake rejected",
			"session_id", c.sessionID.String(),
			"reason", dErrors.MessageOf(err),
		)
		return c.viewLocked(), err
	}

	c.state.Step = next
	c.state.Draft = &draft
	c.acc = assessment.NewAccumulator(c.bank)
	c.record(audit.Event{
		Action: audit.ActionIntakeSubmitted,
		Step:   next.String(),
	})
	c.logger.InfoContext(ctx, "intake submitted",
		"session_id", c.sessionID.String(),
		"primary_category", draft.PrimaryCategory,
	)
	return c.viewLocked(), nil
}

// SubmitAnswer records one weight for the current question. The last answer
// scores the individual and moves the session to distributing.
func (c *Controller) SubmitAnswer(ctx context.Context, weight int) (models.View, error) {
	c.mu.Lock()
	defer c.unlockAndFlush(ctx)

	if err := assessment.ValidateWeight(weight); err != nil {
		return c.viewLocked(), err
	}
	if _, err := c.allow(ctx, models.IntentAnswer); err != nil {
		return c.viewLocked(), err
	}
	if c.acc == nil || c.state.Draft == nil {
		return c.viewLocked(), dErrors.New(dErrors.CodeInternal, "assessment is not in progress")
	}

	c.acc.Record(weight)
	if !c.acc.Done() {
		return c.viewLocked(), nil
	}

	next, err := c.allow(ctx, models.IntentCompleteAssessment)
	if err != nil {
		return c.viewLocked(), err
	}
	result := c.acc.Result()
	identity, err := domain.NewIdentity(*c.state.Draft, result.Trait, result.Scores)
	if err != nil {
		return c.viewLocked(), dErrors.Wrap(err, dErrors.CodeInternal, "failed to build identity")
	}

	c.acc = nil
	c.state.Step = next
	c.state.Pending = &identity
	if c.metrics != nil {
		c.metrics.IncrementScored(identity.Trait.String())
	}
	c.record(audit.Event{
		Action:     audit.ActionIndividualScored,
		IdentityID: identity.ID,
		Step:       next.String(),
		Trait:      identity.Trait.String(),
	})
	c.logger.InfoContext(ctx, "individual scored",
		"session_id", c.sessionID.String(),
		"identity_id", identity.ID.String(),
		"trait", identity.Trait,
	)

	if c.revealDelay <= 0 {
		c.revealLocked(ctx)
		return c.viewLocked(), nil
	}

	c.generation++
	gen := c.generation
	revealAt := c.now().Add(c.revealDelay)
	c.state.RevealAt = &revealAt
	c.reveals.Schedule(c.sessionID, c.revealDelay, func() {
		c.fireReveal(gen)
	})
	return c.viewLocked(), nil
}

// OpenDashboard navigates to the operator dashboard.
func (c *Controller) OpenDashboard(ctx context.Context) (models.View, error) {
	return c.navigate(ctx, models.IntentOpenDashboard)
}

// ShowResults navigates from the dashboard back to the group presentation.
func (c *Controller) ShowResults(ctx context.Context) (models.View, error) {
	return c.navigate(ctx, models.IntentShowResults)
}

// Back returns to the welcome step from intake (discarding the draft) or
// from the dashboard.
func (c *Controller) Back(ctx context.Context) (models.View, error) {
	return c.navigate(ctx, models.IntentBack)
}

// Abandon discards the individual in flight and returns to welcome. A
// pending reveal is cancelled and never touches the roster.
func (c *Controller) Abandon(ctx context.Context) (models.View, error) {
	c.mu.Lock()
	defer c.unlockAndFlush(ctx)

	next, err := c.allow(ctx, models.IntentAbandon)
	if err != nil {
		return c.viewLocked(), err
	}
	from := c.state.Step
	c.cancelRevealLocked()
	c.acc = nil
	c.state.ClearInFlight()
	c.state.Step = next
	c.record(audit.Event{
		Action: audit.ActionSessionAbandoned,
		Step:   from.String(),
	})
	c.logger.InfoContext(ctx, "individual abandoned",
		"session_id", c.sessionID.String(),
		"step", from,
	)
	return c.viewLocked(), nil
}

// Finalize freezes the roster and partition and persists the snapshot. It
// is rejected on an empty roster or when already finalized. When the write
// fails the session stays unfinalized so the operator can retry.
func (c *Controller) Finalize(ctx context.Context) (models.View, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "session.Finalize")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", c.sessionID.String()))

	c.mu.Lock()
	defer c.unlockAndFlush(ctx)

	if _, err := c.allow(ctx, models.IntentFinalize); err != nil {
		c.finalizationOutcome("rejected")
		return c.viewLocked(), err
	}
	if err := c.state.CanFinalize(); err != nil {
		c.finalizationOutcome("rejected")
		c.rejectLocked(ctx, models.IntentFinalize, err.Error())
		return c.viewLocked(), err
	}

	now := c.now()
	snapshot := c.state.Snapshot()
	snapshot.FinalizedAt = now
	span.SetAttributes(attribute.Int("session.roster_size", len(snapshot.Roster)))

	if err := c.saveSnapshot(ctx, snapshot); err != nil {
		c.finalizationOutcome("store_error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot write failed")
		c.record(audit.Event{
			Action:     audit.ActionFinalizeFailed,
			RosterSize: len(snapshot.Roster),
			Reason:     err.Error(),
		})
		c.logger.ErrorContext(ctx, "failed to persist finalized snapshot",
			"session_id", c.sessionID.String(),
			"error", err,
		)
		return c.viewLocked(), dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist finalized groups")
	}

	c.state.ApplyFinalization(now)
	c.finalizationOutcome("success")
	c.record(audit.Event{
		Action:     audit.ActionSessionFinalized,
		RosterSize: len(snapshot.Roster),
		Step:       c.state.Step.String(),
	})
	c.logger.InfoContext(ctx, "session finalized",
		"session_id", c.sessionID.String(),
		"roster_size", len(snapshot.Roster),
		"groups", len(snapshot.Groups),
	)
	return c.viewLocked(), nil
}

// Close cancels any pending reveal and rejects further intents. It waits for
// the reveal goroutine to exit and is safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		c.cancelRevealLocked()
	}
	c.mu.Unlock()
	c.reveals.Shutdown()
}

func (c *Controller) navigate(ctx context.Context, intent models.Intent) (models.View, error) {
	c.mu.Lock()
	defer c.unlockAndFlush(ctx)

	next, err := c.allow(ctx, intent)
	if err != nil {
		return c.viewLocked(), err
	}
	if c.state.Step == models.StepIntake && next == models.StepWelcome {
		c.state.ClearInFlight()
		c.acc = nil
	}
	c.state.Step = next
	return c.viewLocked(), nil
}

// allow checks intent against the transition table and records a rejection
// when it is not allowed from the current step.
func (c *Controller) allow(ctx context.Context, intent models.Intent) (models.Step, error) {
	if c.closed {
		return c.state.Step, dErrors.New(dErrors.CodeConflict, "session is closed")
	}
	next, ok := c.state.Step.Next(intent)
	if !ok {
		reason := fmt.Sprintf("%s is not allowed from %s", intent, c.state.Step)
		c.rejectLocked(ctx, intent, reason)
		return c.state.Step, dErrors.New(dErrors.CodeConflict, reason)
	}
	return next, nil
}

func (c *Controller) rejectLocked(ctx context.Context, intent models.Intent, reason string) {
	if c.metrics != nil {
		c.metrics.IncrementRejected(c.state.Step.String(), string(intent))
	}
	c.record(audit.Event{
		Action: audit.ActionTransitionRejected,
		Step:   c.state.Step.String(),
		Intent: string(intent),
		Reason: reason,
	})
	c.logger.WarnContext(ctx, "transition rejected",
		"session_id", c.sessionID.String(),
		"step", c.state.Step,
		"intent", intent,
		"reason", reason,
	)
}

func (c *Controller) fireReveal(gen uint64) {
	ctx := context.Background()
	c.mu.Lock()
	defer c.unlockAndFlush(ctx)

	if c.closed || gen != c.generation || c.state.Step != models.StepDistributing {
		return
	}
	c.revealLocked(ctx)
}

// revealLocked appends the pending identity and re-partitions the roster.
func (c *Controller) revealLocked(ctx context.Context) {
	next, ok := c.state.Step.Next(models.IntentReveal)
	if !ok || c.state.Pending == nil {
		return
	}
	pending := *c.state.Pending

	start := time.Now()
	roster := append(domain.CloneRoster(c.state.Roster), pending)
	partition := c.partitioner.Place(c.state.Partition, roster)
	if c.metrics != nil {
		c.metrics.ObservePartition(start, len(roster))
	}

	c.state.ApplyReveal(partition)
	c.state.Step = next
	c.record(audit.Event{
		Action:     audit.ActionRosterPartitioned,
		IdentityID: pending.ID,
		Step:       next.String(),
		RosterSize: len(c.state.Roster),
	})
	c.logger.InfoContext(ctx, "roster partitioned",
		"session_id", c.sessionID.String(),
		"identity_id", pending.ID.String(),
		"roster_size", len(c.state.Roster),
		"sizes", c.state.Partition.Sizes(),
	)
}

func (c *Controller) cancelRevealLocked() {
	c.generation++
	if c.reveals.Cancel(c.sessionID) && c.metrics != nil {
		c.metrics.IncrementRevealCancelled()
	}
}

func (c *Controller) saveSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "session.SaveSnapshot")
	defer span.End()

	start := time.Now()
	err := c.store.Save(ctx, snapshot)
	if c.metrics != nil {
		c.metrics.ObserveSnapshotWrite(start)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Controller) finalizationOutcome(outcome string) {
	if c.metrics != nil {
		c.metrics.IncrementFinalization(outcome)
	}
}

// record queues an audit event for publication after the lock is released.
func (c *Controller) record(event audit.Event) {
	if c.auditPublisher == nil {
		return
	}
	event.SessionID = c.sessionID
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}
	c.outbox = append(c.outbox, event)
}

func (c *Controller) unlockAndFlush(ctx context.Context) {
	events := c.outbox
	c.outbox = nil
	c.mu.Unlock()

	for _, event := range events {
		if err := c.auditPublisher.Emit(ctx, event); err != nil {
			c.logger.WarnContext(ctx, "failed to emit audit event",
				"session_id", c.sessionID.String(),
				"action", event.Action,
				"error", err,
			)
		}
	}
}
