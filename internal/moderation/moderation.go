package moderation

import (
	"github.com/campusboard/timetable-backend/internal/apperr"
	"github.com/campusboard/timetable-backend/internal/logger"
)

// Status is the review state of user-submitted content.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDeclined Status = "DECLINED"
)

// Kind identifies which resource family a piece of content belongs to.
// Each kind can require review independently.
type Kind string

const (
	KindLecturerComment Kind = "lecturer_comment"
	KindEventComment    Kind = "event_comment"
	KindPhoto           Kind = "photo"
)

// Verdict is a reviewer's decision on a PENDING resource.
type Verdict string

const (
	VerdictApprove Verdict = "approve"
	VerdictDecline Verdict = "decline"
)

// Resource is anything the engine can move through the state machine.
// The caller persists the mutated resource; the engine only decides.
type Resource interface {
	Kind() Kind
	ApprovalStatus() Status
	SetApprovalStatus(Status)
	MarkDeleted()
}

// Config carries the per-kind review switches, injected at construction so
// tests can run with either setting.
type Config struct {
	ReviewLecturerComments bool
	ReviewEventComments    bool
	ReviewPhotos           bool
}

func (c Config) reviewRequired(kind Kind) bool {
	switch kind {
	case KindLecturerComment:
		return c.ReviewLecturerComments
	case KindEventComment:
		return c.ReviewEventComments
	case KindPhoto:
		return c.ReviewPhotos
	default:
		return true
	}
}

// Engine applies the PENDING/APPROVED/DECLINED state machine uniformly to
// every moderated resource kind.
type Engine struct {
	cfg Config
	log *logger.Logger
}

func NewEngine(cfg Config, baseLog *logger.Logger) *Engine {
	return &Engine{cfg: cfg, log: baseLog.With("component", "ModerationEngine")}
}

// InitialStatus is the status new content enters with: APPROVED when review
// is disabled for the kind, PENDING otherwise.
func (e *Engine) InitialStatus(kind Kind) Status {
	if e.cfg.reviewRequired(kind) {
		return StatusPending
	}
	return StatusApproved
}

// Review applies a single-shot reviewer decision. Only PENDING resources
// may be reviewed; a declined resource is soft-deleted in the same step so
// the caller can persist both changes as one unit of work.
func (e *Engine) Review(res Resource, verdict Verdict) error {
	if res.ApprovalStatus() != StatusPending {
		return apperr.Forbidden("resource has already been reviewed")
	}
	switch verdict {
	case VerdictApprove:
		res.SetApprovalStatus(StatusApproved)
	case VerdictDecline:
		res.SetApprovalStatus(StatusDeclined)
		res.MarkDeleted()
	default:
		return apperr.Validation("verdict", "must be approve or decline")
	}
	e.log.Info("Resource reviewed", "kind", res.Kind(), "verdict", verdict)
	return nil
}

// EnsureEditable gates author edits: content may only change while PENDING.
func (e *Engine) EnsureEditable(res Resource) error {
	if res.ApprovalStatus() != StatusPending {
		return apperr.Forbidden("approved content can no longer be edited")
	}
	return nil
}
