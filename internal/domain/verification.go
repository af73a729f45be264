package domain

import (
	"context"
	"errors"
	"time"
)

// ErrVerificationMismatch signals a confirm attempt whose email does not match
// the stored verification record.
var ErrVerificationMismatch = errors.New("email does not match the stored verification record")

// PendingItemType names the kind of item awaiting verification.
type PendingItemType string

const (
	PendingBooking PendingItemType = "booking"
	PendingComment PendingItemType = "comment"
)

// PendingItem references a draft created before the submitter's email was
// verified.
type PendingItem struct {
	Type PendingItemType `json:"type"`
	ID   string          `json:"id"`
}

// VerificationRecord is the single per-client verification state. VerifiedAt
// unset means not yet verified; once set the email is treated as permanently
// verified. PendingItems accumulates drafts created before verification and
// is never pruned.
// swagger:model VerificationRecord
type VerificationRecord struct {
	Email        string        `json:"email"`
	VerifiedAt   *time.Time    `json:"verifiedAt,omitempty"`
	PendingItems []PendingItem `json:"pendingItems"`
}

// Verified reports whether the record exists and has a verification instant.
func (r *VerificationRecord) Verified() bool {
	return r != nil && r.VerifiedAt != nil
}

// VerificationRepository loads and saves the whole verification record under
// its single key. Load returns nil (not an error) when the record is absent
// or unparsable; Save rewrites the entire record.
type VerificationRepository interface {
	Load(ctx context.Context) (*VerificationRecord, error)
	Save(ctx context.Context, rec *VerificationRecord) error
}

// SubmissionOutcome is the gate's decision for a submission attempt.
type SubmissionOutcome string

const (
	// OutcomeProceed means the submitter is verified and the item was stored
	// immediately as non-draft.
	OutcomeProceed SubmissionOutcome = "created"
	// OutcomeRequireEmail means no email is on file; nothing was stored and
	// the caller must collect an email first.
	OutcomeRequireEmail SubmissionOutcome = "require_email"
	// OutcomeRequireCode means the item was stored as a draft and a
	// verification code was issued for the email on file.
	OutcomeRequireCode SubmissionOutcome = "pending_verification"
)

// CodeIssuer issues the opaque verification code bound to an email.
type CodeIssuer interface {
	Issue(email string) (string, error)
}

// CodeVerifier checks a verification code and returns the email it was
// issued for.
type CodeVerifier interface {
	Verify(code string) (email string, err error)
}

// VerificationService combines the persisted verification record operations
// with the submission gate.
type VerificationService interface {
	Record(ctx context.Context) (*VerificationRecord, error)
	CurrentEmail(ctx context.Context) (string, error)
	IsVerified(ctx context.Context) (bool, error)
	RecordPendingItem(ctx context.Context, email string, itemType PendingItemType, itemID string) (code string, err error)
	CompleteVerification(ctx context.Context, email string) (bool, error)
	EvaluateSubmission(hasEmail, isVerified bool) SubmissionOutcome
	ConfirmVerification(ctx context.Context, email, code string) (bool, error)
}
