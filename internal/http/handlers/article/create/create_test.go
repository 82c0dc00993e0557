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

	"github.com/magabrotheeeer/primescope-news/internal/http/middlewarectx"
	"github.com/magabrotheeeer/primescope-news/internal/models"
	"github.com/magabrotheeeer/primescope-news/internal/services/article"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, authorEmail string, req models.DummyArticle) (string, error) {
	args := m.Called(ctx, authorEmail, req)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	validBody := models.DummyArticle{
		Title:       "title",
		Description: "text",
		Publisher:   "Daily",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		contextEmail   string
		setupMocks     func(*ServiceMock)
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:         "successful publish",
			requestBody:  validBody,
			contextEmail: "author@example.com",
			setupMocks: func(s *ServiceMock) {
				s.On("Create", mock.Anything, "author@example.com", mock.Anything).
					Return("7c9e6679-7425-40de-944b-e07fc1f90ae7", nil).Once()
			},
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
		},
		{
			name:         "quota exhausted",
			requestBody:  validBody,
			contextEmail: "author@example.com",
			setupMocks: func(s *ServiceMock) {
				s.On("Create", mock.Anything, "author@example.com", mock.Anything).
					Return("", article.ErrQuotaExceeded).Once()
			},
			wantStatusCode: http.StatusConflict,
			wantError:      "one free article per non-premium user",
			wantStatus:     "Error",
		},
		{
			name:         "author missing from directory",
			requestBody:  validBody,
			contextEmail: "ghost@example.com",
			setupMocks: func(s *ServiceMock) {
				s.On("Create", mock.Anything, "ghost@example.com", mock.Anything).
					Return("", article.ErrAuthorNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      "author not found",
			wantStatus:     "Error",
		},
		{
			name:           "no email in context",
			requestBody:    validBody,
			contextEmail:   "",
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
			wantStatus:     "Error",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			contextEmail:   "author@example.com",
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing title",
			requestBody: models.DummyArticle{
				Description: "text",
				Publisher:   "Daily",
			},
			contextEmail:   "author@example.com",
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Title is a required field",
			wantStatus:     "Error",
		},
		{
			name:         "storage error",
			requestBody:  validBody,
			contextEmail: "author@example.com",
			setupMocks: func(s *ServiceMock) {
				s.On("Create", mock.Anything, "author@example.com", mock.Anything).
					Return("", errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not create article",
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

			req := httptest.NewRequest(http.MethodPost, "/articles", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.contextEmail != "" {
				ctx = context.WithValue(ctx, middlewarectx.Email, tt.contextEmail)
			}
			req = req.WithContext(ctx)

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
