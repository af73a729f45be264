package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"roomrequests/internal/delivery/http/helpers"
	"roomrequests/internal/domain"
)

// ConfirmVerificationRequest is the request body for POST /verification/confirm.
// It carries the values from the verification link.
type ConfirmVerificationRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate implements Validator.
func (c ConfirmVerificationRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(c.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if strings.TrimSpace(c.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// VerificationStateResponse reports the current verification record for
// GET /verification.
type VerificationStateResponse struct {
	Email    string `json:"email,omitempty"`
	Verified bool   `json:"verified"`
	Pending  int    `json:"pending_items"`
}

// VerificationSuccessResponse is the success envelope for verification
// endpoints.
type VerificationSuccessResponse struct {
	Data  *VerificationStateResponse `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// VerificationController handles the email verification endpoints.
type VerificationController struct {
	Logger  *slog.Logger
	Service domain.VerificationService
}

// NewVerificationController creates a VerificationController with the given
// logger and service.
func NewVerificationController(logger *slog.Logger, svc domain.VerificationService) *VerificationController {
	return &VerificationController{Logger: logger, Service: svc}
}

// Confirm godoc
// @Summary Confirm an email verification
// @Description Redeem a verification code for an email address. On success every draft recorded for that email is published. Confirming an already verified email succeeds without changes.
// @Tags verification
// @Accept json
// @Produce json
// @Param body body ConfirmVerificationRequest true "Email and verification code"
// @Success 200 {object} controllers.VerificationSuccessResponse "data contains the verification state"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 422 {object} helpers.APIResponse "error.code: verification_mismatch"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /verification/confirm [post]
func (c *VerificationController) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmVerificationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	ok, err := c.Service.ConfirmVerification(r.Context(), email, strings.TrimSpace(req.Code))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "confirm verification failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeVerificationMismatch,
			"verification code does not match this email")
		return
	}
	c.writeState(w, r)
}

// State godoc
// @Summary Get the verification state
// @Description Returns the email on file, whether it is verified, and how many items were recorded while unverified.
// @Tags verification
// @Produce json
// @Success 200 {object} controllers.VerificationSuccessResponse "data contains the verification state"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /verification [get]
func (c *VerificationController) State(w http.ResponseWriter, r *http.Request) {
	c.writeState(w, r)
}

func (c *VerificationController) writeState(w http.ResponseWriter, r *http.Request) {
	rec, err := c.Service.Record(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "load verification record failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	state := &VerificationStateResponse{}
	if rec != nil {
		state.Email = rec.Email
		state.Verified = rec.Verified()
		state.Pending = len(rec.PendingItems)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, state)
}
