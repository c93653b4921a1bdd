// Package matching drives the two-stage match pipeline (find the best
// résumé, then fetch contacts for it) and the paginated history of
// past analyses.
package matching

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jobreach/jobreach/internal/gateway"
	"github.com/jobreach/jobreach/internal/logger"
)

// ErrNoMatch is returned when feedback is submitted without a current
// match result.
var ErrNoMatch = errors.New("no match result to give feedback on")

// Gateway is the slice of the backend API the orchestrator needs.
type Gateway interface {
	FindMatch(ctx context.Context, userID, jobDescription, personalStory string) (gateway.MatchResult, error)
	GetContacts(ctx context.Context, userID string, matchID int64) ([]gateway.ContactRecord, error)
	SubmitFeedback(ctx context.Context, userID string, matchID int64, score int) error
}

// Phase is the pipeline state. Contact phases imply a match is held:
// a failed contact lookup never discards the stage-one result.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseMatching        Phase = "matching"
	PhaseMatched         Phase = "matched"
	PhaseContactsLoading Phase = "contacts_loading"
	PhaseContactsReady   Phase = "contacts_ready"
	PhaseContactsFailed  Phase = "contacts_failed"
)

// Snapshot is a read-only copy of the pipeline state.
type Snapshot struct {
	Phase       Phase
	Match       *gateway.MatchResult
	Contacts    []gateway.ContactRecord
	ContactsErr string
}

type Orchestrator struct {
	gw  Gateway
	log *zap.Logger

	mu          sync.Mutex
	phase       Phase
	match       *gateway.MatchResult
	contacts    []gateway.ContactRecord
	contactsErr string
	// generation fences stage two: a reset or a newer match bumps it,
	// and a late-arriving contacts response for an older generation is
	// discarded instead of resurrecting cleared state.
	generation   uint64
	contactsDone chan struct{}
}

func New(gw Gateway, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		gw:    gw,
		log:   log,
		phase: PhaseIdle,
	}
}

// FindMatch runs stage one. A blank job description is rejected locally
// without touching the network. On failure the pipeline returns to idle
// with no partial result; on success stage two starts immediately.
func (o *Orchestrator) FindMatch(ctx context.Context, userID, jobDescription, personalStory string) error {
	if strings.TrimSpace(jobDescription) == "" {
		return &gateway.ValidationError{Field: "job description", Reason: "must not be empty"}
	}

	o.mu.Lock()
	o.phase = PhaseMatching
	o.mu.Unlock()

	o.log.Info("finding best resume match",
		zap.String("job_description", logger.TruncateForLog(jobDescription, 120)),
	)

	result, err := o.gw.FindMatch(ctx, userID, jobDescription, personalStory)
	if err != nil {
		o.mu.Lock()
		o.phase = PhaseIdle
		o.match = nil
		o.mu.Unlock()
		return err
	}

	o.mu.Lock()
	o.generation++
	gen := o.generation
	o.match = &result
	o.contacts = nil
	o.contactsErr = ""
	o.phase = PhaseMatched
	o.signalContactsLocked()
	o.contactsDone = make(chan struct{})
	o.mu.Unlock()

	o.log.Info("match found",
		zap.Int64("match_id", result.ID),
		zap.String("resume", result.BestResume.FileName),
		zap.Float64("score", result.BestResume.Score),
	)

	go o.loadContacts(ctx, userID, gen, result.ID)

	return nil
}

// loadContacts is stage two. Its failure is isolated: the matched
// result stays intact and only the contacts section reports the error.
func (o *Orchestrator) loadContacts(ctx context.Context, userID string, gen uint64, matchID int64) {
	o.mu.Lock()
	if o.stale(gen, matchID) {
		o.mu.Unlock()
		return
	}
	o.phase = PhaseContactsLoading
	o.mu.Unlock()

	contacts, err := o.gw.GetContacts(ctx, userID, matchID)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stale(gen, matchID) {
		o.log.Debug("discarding stale contacts response", zap.Int64("match_id", matchID))
		return
	}

	if err != nil {
		o.log.Warn("contact lookup failed", zap.Int64("match_id", matchID), zap.Error(err))
		o.phase = PhaseContactsFailed
		o.contacts = nil
		o.contactsErr = err.Error()
	} else {
		o.phase = PhaseContactsReady
		o.contacts = contacts
		o.contactsErr = ""
	}

	o.signalContactsLocked()
}

// AwaitContacts blocks until stage two settles (or is superseded) or
// ctx is cancelled, and returns the snapshot either way.
func (o *Orchestrator) AwaitContacts(ctx context.Context) Snapshot {
	o.mu.Lock()
	done := o.contactsDone
	o.mu.Unlock()

	if done != nil {
		select {
		case <-ctx.Done():
		case <-done:
		}
	}

	return o.Snapshot()
}

// SubmitFeedback records the user's verdict on the current match. The
// in-memory score is set optimistically before the call and is kept
// even when the call fails: the backend treats feedback as idempotent
// last-write-wins, so divergence heals on the next submission.
func (o *Orchestrator) SubmitFeedback(ctx context.Context, userID string, score int) error {
	if score != 1 && score != -1 {
		return &gateway.ValidationError{Field: "feedback", Reason: "must be 1 or -1"}
	}

	o.mu.Lock()
	if o.match == nil {
		o.mu.Unlock()
		return ErrNoMatch
	}
	matchID := o.match.ID
	next := *o.match
	next.FeedbackScore = score
	o.match = &next
	o.mu.Unlock()

	if err := o.gw.SubmitFeedback(ctx, userID, matchID, score); err != nil {
		o.log.Warn("feedback submission failed", zap.Int64("match_id", matchID), zap.Error(err))
		return err
	}

	return nil
}

// Reset discards the match and contacts unconditionally and returns to
// idle. An in-flight stage-two fetch that resolves later is ignored.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.generation++
	o.phase = PhaseIdle
	o.match = nil
	o.contacts = nil
	o.contactsErr = ""
	o.signalContactsLocked()
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := Snapshot{
		Phase:       o.phase,
		Contacts:    append([]gateway.ContactRecord(nil), o.contacts...),
		ContactsErr: o.contactsErr,
	}
	if o.match != nil {
		match := *o.match
		match.GapAnalysis = append([]string(nil), o.match.GapAnalysis...)
		snap.Match = &match
	}

	return snap
}

// stale reports whether a stage-two result no longer belongs to the
// current pipeline state. Callers hold the lock.
func (o *Orchestrator) stale(gen uint64, matchID int64) bool {
	return o.generation != gen || o.match == nil || o.match.ID != matchID
}

func (o *Orchestrator) signalContactsLocked() {
	if o.contactsDone != nil {
		close(o.contactsDone)
		o.contactsDone = nil
	}
}
