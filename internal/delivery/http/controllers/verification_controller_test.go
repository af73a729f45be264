package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roomrequests/internal/delivery/http/helpers"
	"roomrequests/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerificationService implements domain.VerificationService for handler
// tests. Only the methods the controller touches carry behavior.
type fakeVerificationService struct {
	record     *domain.VerificationRecord
	recordErr  error
	confirmOK  bool
	confirmErr error
	lastEmail  string
	lastCode   string
}

func (f *fakeVerificationService) Record(ctx context.Context) (*domain.VerificationRecord, error) {
	return f.record, f.recordErr
}

func (f *fakeVerificationService) CurrentEmail(ctx context.Context) (string, error) {
	if f.record == nil {
		return "", f.recordErr
	}
	return f.record.Email, f.recordErr
}

func (f *fakeVerificationService) IsVerified(ctx context.Context) (bool, error) {
	return f.record.Verified(), f.recordErr
}

func (f *fakeVerificationService) RecordPendingItem(ctx context.Context, email string, itemType domain.PendingItemType, itemID string) (string, error) {
	return "", nil
}

func (f *fakeVerificationService) CompleteVerification(ctx context.Context, email string) (bool, error) {
	return f.confirmOK, f.confirmErr
}

func (f *fakeVerificationService) EvaluateSubmission(hasEmail, isVerified bool) domain.SubmissionOutcome {
	return domain.OutcomeProceed
}

func (f *fakeVerificationService) ConfirmVerification(ctx context.Context, email, code string) (bool, error) {
	f.lastEmail = email
	f.lastCode = code
	return f.confirmOK, f.confirmErr
}

func TestVerificationController_Confirm(t *testing.T) {
	verifiedAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		body         string
		fake         *fakeVerificationService
		wantStatus   int
		wantBodyCode string
		wantVerified bool
	}{
		{
			name: "success publishes pending drafts",
			body: `{"email":"john@example.com","code":"code-123"}`,
			fake: &fakeVerificationService{
				confirmOK: true,
				record: &domain.VerificationRecord{
					Email:        "john@example.com",
					VerifiedAt:   &verifiedAt,
					PendingItems: []domain.PendingItem{{Type: domain.PendingBooking, ID: "b1"}},
				},
			},
			wantStatus:   http.StatusOK,
			wantVerified: true,
		},
		{
			name:         "code for a different email",
			body:         `{"email":"other@example.com","code":"code-123"}`,
			fake:         &fakeVerificationService{confirmOK: false},
			wantStatus:   http.StatusUnprocessableEntity,
			wantBodyCode: helpers.ErrCodeVerificationMismatch,
		},
		{
			name:         "missing code",
			body:         `{"email":"john@example.com"}`,
			fake:         &fakeVerificationService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "malformed email",
			body:         `{"email":"nope","code":"code-123"}`,
			fake:         &fakeVerificationService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "service error",
			body:         `{"email":"john@example.com","code":"code-123"}`,
			fake:         &fakeVerificationService{confirmErr: assert.AnError},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewVerificationController(testLogger(), tt.fake)

			req := httptest.NewRequest(http.MethodPost, "http://test/verification/confirm", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Confirm(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			dataBytes, err := json.Marshal(envelope.Data)
			require.NoError(t, err)
			var state VerificationStateResponse
			require.NoError(t, json.Unmarshal(dataBytes, &state))
			assert.Equal(t, tt.wantVerified, state.Verified)
		})
	}
}

func TestVerificationController_Confirm_NormalizesEmail(t *testing.T) {
	fake := &fakeVerificationService{confirmOK: true, record: &domain.VerificationRecord{Email: "john@example.com"}}
	ctrl := NewVerificationController(testLogger(), fake)

	body := `{"email":" John@Example.COM ","code":" code-123 "}`
	req := httptest.NewRequest(http.MethodPost, "http://test/verification/confirm", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	ctrl.Confirm(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "john@example.com", fake.lastEmail)
	assert.Equal(t, "code-123", fake.lastCode)
}

func TestVerificationController_State(t *testing.T) {
	verifiedAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		fake         *fakeVerificationService
		wantStatus   int
		wantBodyCode string
		wantEmail    string
		wantVerified bool
		wantPending  int
	}{
		{
			name:       "no record yet",
			fake:       &fakeVerificationService{},
			wantStatus: http.StatusOK,
		},
		{
			name: "pending record",
			fake: &fakeVerificationService{record: &domain.VerificationRecord{
				Email:        "john@example.com",
				PendingItems: []domain.PendingItem{{Type: domain.PendingBooking, ID: "b1"}, {Type: domain.PendingComment, ID: "c1"}},
			}},
			wantStatus:  http.StatusOK,
			wantEmail:   "john@example.com",
			wantPending: 2,
		},
		{
			name: "verified record",
			fake: &fakeVerificationService{record: &domain.VerificationRecord{
				Email:      "john@example.com",
				VerifiedAt: &verifiedAt,
			}},
			wantStatus:   http.StatusOK,
			wantEmail:    "john@example.com",
			wantVerified: true,
		},
		{
			name:         "repository error",
			fake:         &fakeVerificationService{recordErr: assert.AnError},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewVerificationController(testLogger(), tt.fake)

			req := httptest.NewRequest(http.MethodGet, "http://test/verification", nil)
			rr := httptest.NewRecorder()

			ctrl.State(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			dataBytes, err := json.Marshal(envelope.Data)
			require.NoError(t, err)
			var state VerificationStateResponse
			require.NoError(t, json.Unmarshal(dataBytes, &state))
			assert.Equal(t, tt.wantEmail, state.Email)
			assert.Equal(t, tt.wantVerified, state.Verified)
			assert.Equal(t, tt.wantPending, state.Pending)
		})
	}
}
