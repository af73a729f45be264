package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomrequests/internal/domain"
	"roomrequests/internal/repository/memory"
	"roomrequests/internal/validator"
)

// fakeNotifier records notices for assertions.
type fakeNotifier struct {
	successes []string
	infos     []string
	errors    []string
}

func (f *fakeNotifier) Success(ctx context.Context, message string) {
	f.successes = append(f.successes, message)
}
func (f *fakeNotifier) Info(ctx context.Context, message string) {
	f.infos = append(f.infos, message)
}
func (f *fakeNotifier) Error(ctx context.Context, message string) {
	f.errors = append(f.errors, message)
}

type bookingFixture struct {
	svc      domain.BookingService
	repo     domain.BookingRepository
	vrepo    *fakeVerificationRepo
	vsvc     domain.VerificationService
	notifier *fakeNotifier
}

// newBookingFixture wires a real booking service and a real verification
// service over in-memory state, so gate decisions and replay run end to end.
func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	n := 0
	repo := memory.NewBookingRepositoryWithIDs(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	vrepo := &fakeVerificationRepo{}
	vsvc := &verificationService{
		repo:     vrepo,
		bookings: repo,
		issuer:   &fakeCodeIssuer{},
		verifier: &fakeCodeVerifier{},
		logger:   discardLogger(),
		now:      time.Now,
	}
	notifier := &fakeNotifier{}
	svc := NewBookingService(repo, vsvc, validator.NewBookingValidator(), nil, notifier, discardLogger(), "http://localhost:8080")
	return &bookingFixture{svc: svc, repo: repo, vrepo: vrepo, vsvc: vsvc, notifier: notifier}
}

func fields(title string) domain.NewBookingFields {
	return domain.NewBookingFields{
		Title:       title,
		RoomName:    "Conference Room A",
		Description: "Weekly sprint planning session.",
		StartTime:   time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

var (
	john = domain.User{ID: "u1", Name: "John Doe"}
	jane = domain.User{ID: "u2", Name: "Jane Smith"}
)

func TestBookingService_Create_ValidationError(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)

	bad := fields("Bad times")
	bad.StartTime = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	bad.EndTime = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	_, err := fx.svc.Create(ctx, john, bad, "")
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	// Nothing was stored.
	all, err := fx.repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotEmpty(t, fx.notifier.errors)
}

func TestBookingService_Create_Verified(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)
	at := time.Now()
	fx.vrepo.rec = &domain.VerificationRecord{Email: "john@example.com", VerifiedAt: &at}

	res, err := fx.svc.Create(ctx, john, fields("Sprint Planning"), "")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeProceed, res.Outcome)
	require.NotNil(t, res.Booking)
	assert.False(t, res.Booking.IsDraft)
	assert.Equal(t, domain.StatusPending, res.Booking.Status)
	assert.Equal(t, john, res.Booking.RequestedBy)
	assert.Contains(t, fx.notifier.successes, "Booking request created successfully")
}

func TestBookingService_Create_NoEmail(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)

	res, err := fx.svc.Create(ctx, john, fields("Sprint Planning"), "")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRequireEmail, res.Outcome)
	assert.Nil(t, res.Booking)
	assert.Empty(t, res.Code)

	all, err := fx.repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBookingService_Create_UnverifiedWithEmail(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)

	res, err := fx.svc.Create(ctx, john, fields("Sprint Planning"), "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRequireCode, res.Outcome)
	assert.NotEmpty(t, res.Code)
	require.NotNil(t, res.Booking)
	assert.True(t, res.Booking.IsDraft)

	require.NotNil(t, fx.vrepo.rec)
	assert.Equal(t, "john@example.com", fx.vrepo.rec.Email)
	assert.Equal(t, []domain.PendingItem{{Type: domain.PendingBooking, ID: res.Booking.ID}}, fx.vrepo.rec.PendingItems)
}

func TestBookingService_Create_EmailOnFileIsReused(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)
	fx.vrepo.rec = &domain.VerificationRecord{Email: "john@example.com"}

	res, err := fx.svc.Create(ctx, john, fields("Sprint Planning"), "")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRequireCode, res.Outcome)
	assert.NotEmpty(t, res.Code)
}

func TestBookingService_DraftVisibility(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)

	res, err := fx.svc.Create(ctx, john, fields("Draft booking"), "john@example.com")
	require.NoError(t, err)
	id := res.Booking.ID

	// Invisible to another viewer.
	_, err = fx.svc.Get(ctx, jane, id)
	require.ErrorIs(t, err, domain.ErrBookingNotFound)
	list, err := fx.svc.ListVisible(ctx, jane, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	// Visible to the owner.
	got, err := fx.svc.Get(ctx, john, id)
	require.NoError(t, err)
	assert.Equal(t, "Draft booking", got.Title)
	list, err = fx.svc.ListVisible(ctx, john, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestBookingService_CommentScenario(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)
	at := time.Now()

	// A verified user posts the booking everyone comments on.
	fx.vrepo.rec = &domain.VerificationRecord{Email: "jane@example.com", VerifiedAt: &at}
	created, err := fx.svc.Create(ctx, jane, fields("Client Presentation"), "")
	require.NoError(t, err)
	bookingID := created.Booking.ID

	// Fresh client state: John has no email on file and is unverified.
	fx.vrepo.rec = nil

	res, err := fx.svc.AddComment(ctx, bookingID, john, "Looks good", "")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRequireEmail, res.Outcome)

	res, err = fx.svc.AddComment(ctx, bookingID, john, "Looks good", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRequireCode, res.Outcome)
	assert.NotEmpty(t, res.Code)
	commentID := res.Comment.ID

	// Draft comment is hidden from Jane, shown to John.
	got, err := fx.svc.Get(ctx, jane, bookingID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)
	got, err = fx.svc.Get(ctx, john, bookingID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.True(t, got.Comments[0].IsDraft)

	// Confirming the verification publishes the comment for everyone.
	ok, err := fx.vsvc.ConfirmVerification(ctx, "a@b.com", res.Code)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = fx.svc.Get(ctx, jane, bookingID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, commentID, got.Comments[0].ID)
	assert.False(t, got.Comments[0].IsDraft)
}

func TestBookingService_AddComment_UnknownBooking(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)

	_, err := fx.svc.AddComment(ctx, "missing", john, "hello", "a@b.com")
	require.ErrorIs(t, err, domain.ErrBookingNotFound)

	// No pending item was recorded for the failed submission.
	assert.Nil(t, fx.vrepo.rec)
}

func TestBookingService_SetStatus(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)
	at := time.Now()
	fx.vrepo.rec = &domain.VerificationRecord{Email: "john@example.com", VerifiedAt: &at}

	created, err := fx.svc.Create(ctx, john, fields("Sprint Planning"), "")
	require.NoError(t, err)
	id := created.Booking.ID

	_, err = fx.svc.SetStatus(ctx, id, domain.StatusPending)
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	_, err = fx.svc.SetStatus(ctx, "missing", domain.StatusApproved)
	require.ErrorIs(t, err, domain.ErrBookingNotFound)

	got, err := fx.svc.SetStatus(ctx, id, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)

	// Approving twice leaves the booking approved with no duplicate effects.
	got, err = fx.svc.SetStatus(ctx, id, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	all, err := fx.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestBookingService_ListVisible_StatusFilter(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)
	at := time.Now()
	fx.vrepo.rec = &domain.VerificationRecord{Email: "john@example.com", VerifiedAt: &at}

	first, err := fx.svc.Create(ctx, john, fields("first"), "")
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, john, fields("second"), "")
	require.NoError(t, err)

	_, err = fx.svc.SetStatus(ctx, first.Booking.ID, domain.StatusApproved)
	require.NoError(t, err)

	approved, err := fx.svc.ListVisible(ctx, jane, domain.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "first", approved[0].Title)

	pending, err := fx.svc.ListVisible(ctx, jane, domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "second", pending[0].Title)

	all, err := fx.svc.ListVisible(ctx, jane, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
