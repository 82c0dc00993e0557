package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/primescope-news/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, req models.DummyUser) (string, bool, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*ServiceMock)
		wantStatusCode int
		wantData       map[string]any
		wantError      string
		wantStatus     string
	}{
		{
			name: "first login creates user",
			requestBody: models.DummyUser{
				Email: "user@example.com",
				Name:  "user",
			},
			setupMocks: func(s *ServiceMock) {
				s.On("Create", mock.Anything, mock.Anything).Return("uid-1", false, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
			wantData:       map[string]any{"uid": "uid-1", "exists": false},
			wantStatus:     "OK",
		},
		{
			name: "repeated login returns existing uid",
			requestBody: models.DummyUser{
				Email: "user@example.com",
				Name:  "user",
			},
			setupMocks: func(s *ServiceMock) {
				s.On("Create", mock.Anything, mock.Anything).Return("uid-1", true, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantData:       map[string]any{"uid": "uid-1", "exists": true},
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - bad email",
			requestBody: models.DummyUser{
				Email: "not-an-email",
				Name:  "user",
			},
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email must be a valid email",
			wantStatus:     "Error",
		},
		{
			name: "storage error",
			requestBody: models.DummyUser{
				Email: "user@example.com",
				Name:  "user",
			},
			setupMocks: func(s *ServiceMock) {
				s.On("Create", mock.Anything, mock.Anything).
					Return("", false, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not create user",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMocks(serviceMock)

			handler := New(newNoopLogger(), serviceMock)

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

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
			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			}
			serviceMock.AssertExpectations(t)
		})
	}
}
