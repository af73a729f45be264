package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for booking operations.
var (
	ErrBookingNotFound = errors.New("booking request not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidStatus   = errors.New(`status must be "approved" or "rejected"`)
)

// BookingStatus is the review state of a booking request.
type BookingStatus string

const (
	StatusPending  BookingStatus = "pending"
	StatusApproved BookingStatus = "approved"
	StatusRejected BookingStatus = "rejected"
)

// Valid reports whether s is one of the closed set of statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Comment is a remark on a booking request. Comments are appended in
// insertion order and never reordered or deleted.
// swagger:model Comment
type Comment struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsDraft   bool      `json:"is_draft,omitempty"`
}

// Draft implements DraftItem.
func (c Comment) Draft() bool { return c.IsDraft }

// OwnerID implements DraftItem.
func (c Comment) OwnerID() string { return c.User.ID }

// BookingRequest is a request to reserve a room. It is created in pending
// status; IsDraft starts as the inverse of the creator's verified state and
// flips to false exactly once, when the owner's email is verified.
// swagger:model BookingRequest
type BookingRequest struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	RoomName    string        `json:"room_name"`
	Description string        `json:"description"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	RequestedBy User          `json:"requested_by"`
	Status      BookingStatus `json:"status"`
	Comments    []Comment     `json:"comments"`
	CreatedAt   time.Time     `json:"created_at"`
	IsDraft     bool          `json:"is_draft,omitempty"`
}

// Draft implements DraftItem.
func (b BookingRequest) Draft() bool { return b.IsDraft }

// OwnerID implements DraftItem.
func (b BookingRequest) OwnerID() string { return b.RequestedBy.ID }

// DraftItem is anything that can be hidden from other viewers while drafted.
type DraftItem interface {
	Draft() bool
	OwnerID() string
}

// NewBookingFields carries the caller-supplied fields of a new booking request.
type NewBookingFields struct {
	Title       string    `json:"title" validate:"required"`
	RoomName    string    `json:"room_name" validate:"required"`
	Description string    `json:"description" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
}

// NewBookingRequest returns a pending booking request with the given fields.
// ID is set by the repository on create.
func NewBookingRequest(fields NewBookingFields, requester User, isDraft bool, createdAt time.Time) *BookingRequest {
	return &BookingRequest{
		Title:       fields.Title,
		RoomName:    fields.RoomName,
		Description: fields.Description,
		StartTime:   fields.StartTime,
		EndTime:     fields.EndTime,
		RequestedBy: requester,
		Status:      StatusPending,
		Comments:    []Comment{},
		CreatedAt:   createdAt,
		IsDraft:     isDraft,
	}
}

// NewComment returns a comment by the given author. ID is set by the
// repository on append.
func NewComment(author User, content string, isDraft bool, timestamp time.Time) *Comment {
	return &Comment{
		User:      author,
		Content:   content,
		Timestamp: timestamp,
		IsDraft:   isDraft,
	}
}

// BookingRepository owns the collection of booking requests and the comment
// sequences nested in each. Bookings are never deleted.
type BookingRepository interface {
	Create(ctx context.Context, b *BookingRequest) error
	GetByID(ctx context.Context, id string) (*BookingRequest, error)
	List(ctx context.Context) ([]*BookingRequest, error)
	SetStatus(ctx context.Context, id string, status BookingStatus) error
	AppendComment(ctx context.Context, bookingID string, c *Comment) error
	PublishBooking(ctx context.Context, id string) error
	PublishComment(ctx context.Context, commentID string) error
}

// SubmissionResult reports what happened to a gated submission attempt.
type SubmissionResult struct {
	Outcome SubmissionOutcome `json:"outcome"`
	Code    string            `json:"verification_code,omitempty"`
	Booking *BookingRequest   `json:"booking,omitempty"`
	Comment *Comment          `json:"comment,omitempty"`
}

// BookingService defines the business logic for booking requests and their
// comment threads. The email argument on Create and AddComment resolves a
// previous RequireEmail outcome; pass "" when no email was collected.
type BookingService interface {
	Create(ctx context.Context, requester User, fields NewBookingFields, email string) (*SubmissionResult, error)
	Get(ctx context.Context, viewer User, id string) (*BookingRequest, error)
	ListVisible(ctx context.Context, viewer User, status BookingStatus) ([]*BookingRequest, error)
	SetStatus(ctx context.Context, id string, status BookingStatus) (*BookingRequest, error)
	AddComment(ctx context.Context, bookingID string, author User, content, email string) (*SubmissionResult, error)
}
