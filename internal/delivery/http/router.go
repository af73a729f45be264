package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"roomrequests/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(bookingController *controllers.BookingController, verificationController *controllers.VerificationController) *http.ServeMux {
	mux := http.NewServeMux()

	// Bookings
	mux.HandleFunc("POST /bookings", bookingController.Create)
	mux.HandleFunc("GET /bookings", bookingController.List)
	mux.HandleFunc("GET /bookings/{bookingID}", bookingController.Get)
	mux.HandleFunc("PATCH /bookings/{bookingID}/status", bookingController.SetStatus)
	mux.HandleFunc("POST /bookings/{bookingID}/comments", bookingController.AddComment)

	// Verification
	mux.HandleFunc("GET /verification", verificationController.State)
	mux.HandleFunc("POST /verification/confirm", verificationController.Confirm)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
