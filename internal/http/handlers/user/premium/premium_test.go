package premium

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/primescope-news/internal/http/middlewarectx"
	"github.com/magabrotheeeer/primescope-news/internal/models"
	"github.com/magabrotheeeer/primescope-news/internal/services/user"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ActivatePremium(ctx context.Context, email string, periodDays int) (time.Time, error) {
	args := m.Called(ctx, email, periodDays)
	return args.Get(0).(time.Time), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(t *testing.T, urlEmail, claimsEmail string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/users/"+urlEmail, bytes.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("email", urlEmail)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	if claimsEmail != "" {
		ctx = context.WithValue(ctx, middlewarectx.Email, claimsEmail)
	}
	return req.WithContext(ctx)
}

func TestPremiumHandler_ServeHTTP(t *testing.T) {
	expiration := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		urlEmail       string
		claimsEmail    string
		requestBody    interface{}
		setupMocks     func(*ServiceMock)
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:        "successful activation",
			urlEmail:    "buyer@example.com",
			claimsEmail: "buyer@example.com",
			requestBody: models.DummyPremium{PeriodDays: 30},
			setupMocks: func(s *ServiceMock) {
				s.On("ActivatePremium", mock.Anything, "buyer@example.com", 30).
					Return(expiration, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "cannot activate premium for another user",
			urlEmail:       "victim@example.com",
			claimsEmail:    "attacker@example.com",
			requestBody:    models.DummyPremium{PeriodDays: 30},
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusForbidden,
			wantError:      "forbidden access",
			wantStatus:     "Error",
		},
		{
			name:           "no claims in context",
			urlEmail:       "buyer@example.com",
			claimsEmail:    "",
			requestBody:    models.DummyPremium{PeriodDays: 30},
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusForbidden,
			wantError:      "forbidden access",
			wantStatus:     "Error",
		},
		{
			name:           "non-positive period",
			urlEmail:       "buyer@example.com",
			claimsEmail:    "buyer@example.com",
			requestBody:    models.DummyPremium{PeriodDays: -5},
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field PeriodDays must be greater than 0",
			wantStatus:     "Error",
		},
		{
			name:        "unknown user",
			urlEmail:    "ghost@example.com",
			claimsEmail: "ghost@example.com",
			requestBody: models.DummyPremium{PeriodDays: 30},
			setupMocks: func(s *ServiceMock) {
				s.On("ActivatePremium", mock.Anything, "ghost@example.com", 30).
					Return(time.Time{}, user.ErrNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMocks(serviceMock)

			handler := New(newNoopLogger(), serviceMock)

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := newRequest(t, tt.urlEmail, tt.claimsEmail, bodyBytes)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
