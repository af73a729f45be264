package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"roomrequests/internal/domain"
)

type verificationService struct {
	repo     domain.VerificationRepository
	bookings domain.BookingRepository
	issuer   domain.CodeIssuer
	verifier domain.CodeVerifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewVerificationService creates a VerificationService over the given record
// repository. The booking repository is used to publish drafts when a
// verification is confirmed.
func NewVerificationService(
	repo domain.VerificationRepository,
	bookings domain.BookingRepository,
	issuer domain.CodeIssuer,
	verifier domain.CodeVerifier,
	logger *slog.Logger,
) domain.VerificationService {
	return &verificationService{
		repo:     repo,
		bookings: bookings,
		issuer:   issuer,
		verifier: verifier,
		logger:   logger,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *verificationService) Record(ctx context.Context) (*domain.VerificationRecord, error) {
	rec, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load verification record: %w", err)
	}
	return rec, nil
}

func (s *verificationService) CurrentEmail(ctx context.Context) (string, error) {
	rec, err := s.Record(ctx)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	return rec.Email, nil
}

func (s *verificationService) IsVerified(ctx context.Context) (bool, error) {
	rec, err := s.Record(ctx)
	if err != nil {
		return false, err
	}
	return rec.Verified(), nil
}

// RecordPendingItem creates the record if absent, updates its email, appends
// the pending item reference, persists the whole record, and returns a fresh
// verification code for the email.
func (s *verificationService) RecordPendingItem(ctx context.Context, email string, itemType domain.PendingItemType, itemID string) (string, error) {
	email = normalizeEmail(email)
	rec, err := s.Record(ctx)
	if err != nil {
		return "", err
	}
	if rec == nil {
		rec = &domain.VerificationRecord{Email: email, PendingItems: []domain.PendingItem{}}
	}
	rec.Email = email
	rec.PendingItems = append(rec.PendingItems, domain.PendingItem{Type: itemType, ID: itemID})
	if err := s.repo.Save(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to store pending item: %w", err)
	}
	code, err := s.issuer.Issue(email)
	if err != nil {
		return "", fmt.Errorf("failed to issue verification code: %w", err)
	}
	return code, nil
}

// CompleteVerification returns false when no record exists or the stored
// email does not match. Otherwise it stamps verifiedAt with the current time
// and returns true; re-calling with a matching email restamps it.
func (s *verificationService) CompleteVerification(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	rec, err := s.Record(ctx)
	if err != nil {
		return false, err
	}
	if rec == nil || normalizeEmail(rec.Email) != email {
		return false, nil
	}
	now := s.now()
	rec.VerifiedAt = &now
	if err := s.repo.Save(ctx, rec); err != nil {
		return false, fmt.Errorf("failed to store verification: %w", err)
	}
	return true, nil
}

// EvaluateSubmission decides the outcome of a submission attempt. The order
// of the rules matters: a verified user always proceeds directly.
func (s *verificationService) EvaluateSubmission(hasEmail, isVerified bool) domain.SubmissionOutcome {
	switch {
	case isVerified:
		return domain.OutcomeProceed
	case !hasEmail:
		return domain.OutcomeRequireEmail
	default:
		return domain.OutcomeRequireCode
	}
}

// ConfirmVerification checks that the code was issued for the given email,
// completes the verification, and publishes every pending draft in place.
func (s *verificationService) ConfirmVerification(ctx context.Context, email, code string) (bool, error) {
	email = normalizeEmail(email)
	issuedFor, err := s.verifier.Verify(code)
	if err != nil {
		s.logger.InfoContext(ctx, "verification code rejected", "err", err)
		return false, nil
	}
	if normalizeEmail(issuedFor) != email {
		return false, nil
	}
	ok, err := s.CompleteVerification(ctx, email)
	if err != nil || !ok {
		return ok, err
	}
	if err := s.publishPending(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// publishPending flips the draft flag on every item referenced by the record.
// Items are left in the record; once verifiedAt is set they are inert.
func (s *verificationService) publishPending(ctx context.Context) error {
	rec, err := s.Record(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	for _, item := range rec.PendingItems {
		var publishErr error
		switch item.Type {
		case domain.PendingBooking:
			publishErr = s.bookings.PublishBooking(ctx, item.ID)
		case domain.PendingComment:
			publishErr = s.bookings.PublishComment(ctx, item.ID)
		}
		if publishErr != nil {
			if errors.Is(publishErr, domain.ErrBookingNotFound) || errors.Is(publishErr, domain.ErrCommentNotFound) {
				s.logger.WarnContext(ctx, "pending item no longer exists", "type", item.Type, "id", item.ID)
				continue
			}
			return fmt.Errorf("failed to publish pending %s %s: %w", item.Type, item.ID, publishErr)
		}
	}
	return nil
}
