package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"roomrequests/internal/domain"
	"roomrequests/internal/validator"
)

type bookingService struct {
	repo         domain.BookingRepository
	verification domain.VerificationService
	validator    *validator.BookingValidator
	email        domain.EmailService
	notifier     domain.Notifier
	logger       *slog.Logger
	baseURL      string
	now          func() time.Time
}

// NewBookingService creates a BookingService. The email service may be nil;
// verification emails are then skipped and the code is only returned in the
// submission result.
func NewBookingService(
	repo domain.BookingRepository,
	verification domain.VerificationService,
	bookingValidator *validator.BookingValidator,
	emailService domain.EmailService,
	notifier domain.Notifier,
	logger *slog.Logger,
	baseURL string,
) domain.BookingService {
	return &bookingService{
		repo:         repo,
		verification: verification,
		validator:    bookingValidator,
		email:        emailService,
		notifier:     notifier,
		logger:       logger,
		baseURL:      baseURL,
		now:          time.Now,
	}
}

// Create submits a new booking request through the verification gate. A
// verified submitter gets a stored non-draft booking; an unverified one with
// an email on file gets a draft plus a verification code; with no email
// nothing is stored.
func (s *bookingService) Create(ctx context.Context, requester domain.User, fields domain.NewBookingFields, email string) (*domain.SubmissionResult, error) {
	if err := s.validator.ValidateNewBooking(fields); err != nil {
		s.notifier.Error(ctx, "Please fill in all fields with a valid time range")
		return nil, err
	}

	email, verified, err := s.gateInputs(ctx, email)
	if err != nil {
		return nil, err
	}

	switch outcome := s.verification.EvaluateSubmission(email != "", verified); outcome {
	case domain.OutcomeRequireEmail:
		return &domain.SubmissionResult{Outcome: outcome}, nil

	case domain.OutcomeProceed:
		booking := domain.NewBookingRequest(fields, requester, false, s.now())
		if err := s.repo.Create(ctx, booking); err != nil {
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}
		s.notifier.Success(ctx, "Booking request created successfully")
		return &domain.SubmissionResult{Outcome: outcome, Booking: booking}, nil

	default: // domain.OutcomeRequireCode
		booking := domain.NewBookingRequest(fields, requester, true, s.now())
		if err := s.repo.Create(ctx, booking); err != nil {
			return nil, fmt.Errorf("failed to create draft booking: %w", err)
		}
		code, err := s.verification.RecordPendingItem(ctx, email, domain.PendingBooking, booking.ID)
		if err != nil {
			return nil, err
		}
		s.sendVerificationEmail(ctx, email, code)
		s.notifier.Info(ctx, "Booking request saved as draft. Please verify your email to publish it.")
		return &domain.SubmissionResult{Outcome: outcome, Code: code, Booking: booking}, nil
	}
}

// Get returns the booking with its comments filtered for the viewer. A draft
// belonging to another user is reported as not found.
func (s *bookingService) Get(ctx context.Context, viewer domain.User, id string) (*domain.BookingRequest, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.IsDraft && booking.RequestedBy.ID != viewer.ID {
		return nil, domain.ErrBookingNotFound
	}
	booking.Comments = Visible(viewer, booking.Comments)
	return booking, nil
}

// ListVisible returns the bookings visible to the viewer, in store order,
// with each booking's comments filtered for the viewer as well. A non-empty
// status narrows the list to that status.
func (s *bookingService) ListVisible(ctx context.Context, viewer domain.User, status domain.BookingStatus) ([]*domain.BookingRequest, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	visible := Visible(viewer, all)
	out := make([]*domain.BookingRequest, 0, len(visible))
	for _, b := range visible {
		if status != "" && b.Status != status {
			continue
		}
		b.Comments = Visible(viewer, b.Comments)
		out = append(out, b)
	}
	return out, nil
}

// SetStatus transitions a booking to approved or rejected. Any viewer may do
// this, and re-applying the same status is a no-op beyond the write itself.
func (s *bookingService) SetStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.BookingRequest, error) {
	if status != domain.StatusApproved && status != domain.StatusRejected {
		return nil, domain.ErrInvalidStatus
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == domain.StatusApproved {
		s.notifier.Success(ctx, "Booking approved")
	} else {
		s.notifier.Success(ctx, "Booking rejected")
	}
	return booking, nil
}

// AddComment appends a comment to the booking's thread through the same
// verification gate as Create.
func (s *bookingService) AddComment(ctx context.Context, bookingID string, author domain.User, content, email string) (*domain.SubmissionResult, error) {
	if err := s.validator.ValidateComment(content); err != nil {
		return nil, err
	}
	// The booking must exist before the gate runs so a pending item is never
	// recorded for a comment that cannot be stored.
	if _, err := s.repo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	email, verified, err := s.gateInputs(ctx, email)
	if err != nil {
		return nil, err
	}

	switch outcome := s.verification.EvaluateSubmission(email != "", verified); outcome {
	case domain.OutcomeRequireEmail:
		return &domain.SubmissionResult{Outcome: outcome}, nil

	case domain.OutcomeProceed:
		comment := domain.NewComment(author, content, false, s.now())
		if err := s.repo.AppendComment(ctx, bookingID, comment); err != nil {
			return nil, fmt.Errorf("failed to add comment: %w", err)
		}
		return &domain.SubmissionResult{Outcome: outcome, Comment: comment}, nil

	default: // domain.OutcomeRequireCode
		comment := domain.NewComment(author, content, true, s.now())
		if err := s.repo.AppendComment(ctx, bookingID, comment); err != nil {
			return nil, fmt.Errorf("failed to add draft comment: %w", err)
		}
		code, err := s.verification.RecordPendingItem(ctx, email, domain.PendingComment, comment.ID)
		if err != nil {
			return nil, err
		}
		s.sendVerificationEmail(ctx, email, code)
		s.notifier.Info(ctx, "Comment saved as draft. Please verify your email to publish it.")
		return &domain.SubmissionResult{Outcome: outcome, Code: code, Comment: comment}, nil
	}
}

// gateInputs resolves the effective email (submitted email wins over the one
// on file) and the current verified state.
func (s *bookingService) gateInputs(ctx context.Context, email string) (string, bool, error) {
	verified, err := s.verification.IsVerified(ctx)
	if err != nil {
		return "", false, err
	}
	if email == "" {
		email, err = s.verification.CurrentEmail(ctx)
		if err != nil {
			return "", false, err
		}
	}
	return email, verified, nil
}

// sendVerificationEmail is fire-and-forget; a delivery failure never fails
// the submission, which is already stored as a draft.
func (s *bookingService) sendVerificationEmail(ctx context.Context, email, code string) {
	if s.email == nil {
		return
	}
	verifyURL := fmt.Sprintf("%s/verification/confirm?code=%s&email=%s",
		s.baseURL, url.QueryEscape(code), url.QueryEscape(email))
	data := &domain.VerificationEmailData{Email: email, Code: code, VerifyURL: verifyURL}
	if err := s.email.SendVerificationLink(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "failed to send verification email", "email", email, "err", err)
	}
}
