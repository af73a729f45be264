package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"roomrequests/internal/delivery/http/helpers"
	"roomrequests/internal/delivery/http/middleware"
	"roomrequests/internal/domain"
	"roomrequests/internal/validator"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// CreateBookingRequest is the request body for POST /bookings. Email is
// optional; it resolves a previous require_email outcome for an unverified
// submitter.
type CreateBookingRequest struct {
	Title       string    `json:"title"`
	RoomName    string    `json:"room_name"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Email       string    `json:"email"`
}

// Validate implements Validator.
func (c CreateBookingRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.RoomName) == "" {
		errs = append(errs, "room_name is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		errs = append(errs, "description is required")
	}
	if c.StartTime.IsZero() {
		errs = append(errs, "start_time is required")
	}
	if c.EndTime.IsZero() {
		errs = append(errs, "end_time is required")
	}
	if email := strings.TrimSpace(strings.ToLower(c.Email)); email != "" && !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// SetStatusRequest is the request body for PATCH /bookings/{bookingID}/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (s SetStatusRequest) Validate() []string {
	status := strings.TrimSpace(strings.ToLower(s.Status))
	if status != string(domain.StatusApproved) && status != string(domain.StatusRejected) {
		return []string{`status must be "approved" or "rejected"`}
	}
	return nil
}

// AddCommentRequest is the request body for POST /bookings/{bookingID}/comments.
type AddCommentRequest struct {
	Content string `json:"content"`
	Email   string `json:"email"`
}

// Validate implements Validator.
func (a AddCommentRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.Content) == "" {
		errs = append(errs, "content is required")
	}
	if email := strings.TrimSpace(strings.ToLower(a.Email)); email != "" && !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// SubmissionSuccessResponse is the success envelope for gated submissions.
type SubmissionSuccessResponse struct {
	Data  *domain.SubmissionResult `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// BookingSuccessResponse is the success envelope carrying a single booking.
type BookingSuccessResponse struct {
	Data  *domain.BookingRequest `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// BookingListSuccessResponse is the success envelope for GET /bookings.
type BookingListSuccessResponse struct {
	Data  []*domain.BookingRequest `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// BookingController handles booking request endpoints.
type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

// NewBookingController creates a BookingController with the given logger and
// service.
func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Submit a booking request
// @Description Create a room booking request. A verified submitter gets a stored booking (outcome "created"). An unverified submitter with an email gets a draft and a verification code (outcome "pending_verification"); without an email nothing is stored (outcome "require_email").
// @Tags bookings
// @Accept json
// @Produce json
// @Param body body CreateBookingRequest true "Booking fields"
// @Success 201 {object} controllers.SubmissionSuccessResponse "data contains the created booking"
// @Success 202 {object} controllers.SubmissionSuccessResponse "data contains the draft booking and verification code"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [post]
func (c *BookingController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	requester, _ := middleware.UserFromContext(r.Context())
	fields := domain.NewBookingFields{
		Title:       strings.TrimSpace(req.Title),
		RoomName:    strings.TrimSpace(req.RoomName),
		Description: strings.TrimSpace(req.Description),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	result, err := c.Service.Create(r.Context(), requester, fields, email)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, outcomeStatus(result.Outcome), result)
}

// List godoc
// @Summary List booking requests
// @Description Returns the bookings visible to the caller: every non-draft booking plus the caller's own drafts, comments filtered the same way. Optional status filter: pending, approved, or rejected.
// @Tags bookings
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} controllers.BookingListSuccessResponse "data contains the visible bookings"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [get]
func (c *BookingController) List(w http.ResponseWriter, r *http.Request) {
	status := domain.BookingStatus(strings.TrimSpace(strings.ToLower(r.URL.Query().Get("status"))))
	if status != "" && !status.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "status must be pending, approved, or rejected")
		return
	}
	viewer, _ := middleware.UserFromContext(r.Context())

	bookings, err := c.Service.ListVisible(r.Context(), viewer, status)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, bookings)
}

// Get godoc
// @Summary Get a booking request
// @Description Returns one booking with its comments filtered for the caller. Another user's draft reads as not found.
// @Tags bookings
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Success 200 {object} controllers.BookingSuccessResponse "data contains the booking"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{bookingID} [get]
func (c *BookingController) Get(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.UserFromContext(r.Context())
	booking, err := c.Service.Get(r.Context(), viewer, r.PathValue("bookingID"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}

// SetStatus godoc
// @Summary Approve or reject a booking request
// @Description Transition a booking to approved or rejected. Any caller may do this; re-applying the same status is harmless.
// @Tags bookings
// @Accept json
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Param body body SetStatusRequest true "New status"
// @Success 200 {object} controllers.BookingSuccessResponse "data contains the updated booking"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{bookingID}/status [patch]
func (c *BookingController) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	status := domain.BookingStatus(strings.TrimSpace(strings.ToLower(req.Status)))

	booking, err := c.Service.SetStatus(r.Context(), r.PathValue("bookingID"), status)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}

// AddComment godoc
// @Summary Comment on a booking request
// @Description Append a comment to a booking's thread. Gated the same way as booking creation: unverified submitters get draft comments pending email verification.
// @Tags bookings
// @Accept json
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Param body body AddCommentRequest true "Comment content"
// @Success 201 {object} controllers.SubmissionSuccessResponse "data contains the created comment"
// @Success 202 {object} controllers.SubmissionSuccessResponse "data contains the draft comment and verification code"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{bookingID}/comments [post]
func (c *BookingController) AddComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	author, _ := middleware.UserFromContext(r.Context())
	email := strings.TrimSpace(strings.ToLower(req.Email))

	result, err := c.Service.AddComment(r.Context(), r.PathValue("bookingID"), author, req.Content, email)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, outcomeStatus(result.Outcome), result)
}

// outcomeStatus maps a submission outcome to its HTTP status: created items
// are 201, drafts awaiting verification are 202, and require_email is 200
// because nothing was stored yet.
func outcomeStatus(outcome domain.SubmissionOutcome) int {
	switch outcome {
	case domain.OutcomeProceed:
		return http.StatusCreated
	case domain.OutcomeRequireCode:
		return http.StatusAccepted
	default:
		return http.StatusOK
	}
}

func (c *BookingController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, verrs.Error())
	case errors.Is(err, domain.ErrBookingNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "booking request not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
