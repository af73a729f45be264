package main

import (
	"context"
	"time"

	"roomrequests/internal/domain"
)

// seedDemoData loads a small set of sample bookings so the API has content on
// first run. Enabled with SEED_DEMO_DATA=true.
func seedDemoData(ctx context.Context, repo domain.BookingRepository) error {
	john := domain.User{ID: "1", Name: "John Doe", Email: "john@example.com", IsVerified: true}
	jane := domain.User{ID: "2", Name: "Jane Smith", Email: "jane@example.com", IsVerified: true}
	alex := domain.User{ID: "3", Name: "Alex Johnson", Email: "alex@example.com", IsVerified: true}

	now := time.Now()
	day := 24 * time.Hour

	sprint := domain.NewBookingRequest(domain.NewBookingFields{
		Title:       "Team Sprint Planning",
		RoomName:    "Conference Room A",
		Description: "Planning session for the next sprint with the development team",
		StartTime:   now.Add(day).Truncate(time.Hour),
		EndTime:     now.Add(day).Truncate(time.Hour).Add(2 * time.Hour),
	}, john, false, now.Add(-2*day))
	if err := repo.Create(ctx, sprint); err != nil {
		return err
	}

	presentation := domain.NewBookingRequest(domain.NewBookingFields{
		Title:       "Client Presentation",
		RoomName:    "Meeting Room B",
		Description: "Quarterly review presentation for the key client",
		StartTime:   now.Add(2 * day).Truncate(time.Hour),
		EndTime:     now.Add(2 * day).Truncate(time.Hour).Add(time.Hour),
	}, jane, false, now.Add(-day))
	if err := repo.Create(ctx, presentation); err != nil {
		return err
	}
	if err := repo.SetStatus(ctx, presentation.ID, domain.StatusApproved); err != nil {
		return err
	}
	comment := domain.NewComment(alex, "Room is confirmed, projector will be set up in advance.", false, now.Add(-12*time.Hour))
	if err := repo.AppendComment(ctx, presentation.ID, comment); err != nil {
		return err
	}

	interview := domain.NewBookingRequest(domain.NewBookingFields{
		Title:       "Interview Session",
		RoomName:    "Small Meeting Room",
		Description: "Technical interview for the backend engineer position",
		StartTime:   now.Add(3 * day).Truncate(time.Hour),
		EndTime:     now.Add(3 * day).Truncate(time.Hour).Add(90 * time.Minute),
	}, alex, false, now.Add(-6*time.Hour))
	return repo.Create(ctx, interview)
}
