package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"roomrequests/internal/domain"
)

type bookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.BookingRequest
	order    []string
	newID    func() string
}

// NewBookingRepository returns an in-memory domain.BookingRepository. The
// collection lives for the process lifetime; bookings are never deleted.
func NewBookingRepository() domain.BookingRepository {
	return &bookingRepository{
		bookings: make(map[string]*domain.BookingRequest),
		newID:    uuid.NewString,
	}
}

// NewBookingRepositoryWithIDs is like NewBookingRepository but uses the given
// id generator. Intended for tests that need deterministic ids.
func NewBookingRepositoryWithIDs(newID func() string) domain.BookingRepository {
	return &bookingRepository{
		bookings: make(map[string]*domain.BookingRequest),
		newID:    newID,
	}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.BookingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = r.newID()
	}
	stored := copyBooking(b)
	r.bookings[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.BookingRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

func (r *bookingRepository) List(ctx context.Context) ([]*domain.BookingRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.BookingRequest, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyBooking(r.bookings[id]))
	}
	return out, nil
}

func (r *bookingRepository) SetStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (r *bookingRepository) AppendComment(ctx context.Context, bookingID string, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if c.ID == "" {
		c.ID = r.newID()
	}
	b.Comments = append(b.Comments, *c)
	return nil
}

func (r *bookingRepository) PublishBooking(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.IsDraft = false
	return nil
}

func (r *bookingRepository) PublishComment(ctx context.Context, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		for i := range b.Comments {
			if b.Comments[i].ID == commentID {
				b.Comments[i].IsDraft = false
				return nil
			}
		}
	}
	return domain.ErrCommentNotFound
}

// copyBooking returns a deep copy so callers cannot mutate stored state.
func copyBooking(b *domain.BookingRequest) *domain.BookingRequest {
	cp := *b
	cp.Comments = make([]domain.Comment, len(b.Comments))
	copy(cp.Comments, b.Comments)
	return &cp
}
