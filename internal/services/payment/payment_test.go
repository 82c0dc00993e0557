package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/primescope-news/internal/models"
	"github.com/magabrotheeeer/primescope-news/internal/paymentprovider"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSubscriptionRecord(ctx context.Context, record models.SubscriptionRecord) (int, error) {
	args := m.Called(ctx, record)
	return args.Int(0), args.Error(1)
}

type MockActivator struct {
	mock.Mock
}

func (m *MockActivator) ActivatePremium(ctx context.Context, email string, periodDays int) (time.Time, error) {
	args := m.Called(ctx, email, periodDays)
	return args.Get(0).(time.Time), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreatePaymentIntent(ctx context.Context, amountCents int, currency string) (*paymentprovider.CreatePaymentIntentResponse, error) {
	args := m.Called(ctx, amountCents, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CreatePaymentIntentResponse), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPaymentService_CreateIntent(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*MockProvider)
		expectedSecret string
		expectedError  bool
	}{
		{
			name: "successful intent",
			setupMocks: func(p *MockProvider) {
				p.On("CreatePaymentIntent", mock.Anything, 499, "usd").
					Return(&paymentprovider.CreatePaymentIntentResponse{
						ID:           "pi_123",
						ClientSecret: "pi_123_secret",
					}, nil).Once()
			},
			expectedSecret: "pi_123_secret",
		},
		{
			name: "provider error",
			setupMocks: func(p *MockProvider) {
				p.On("CreatePaymentIntent", mock.Anything, 499, "usd").
					Return(nil, errors.New("provider unavailable")).Once()
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockProvider)
			tt.setupMocks(provider)

			service := New(new(MockRepository), new(MockActivator), provider, "usd", newNoopLogger())
			secret, err := service.CreateIntent(context.Background(), 499)

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedSecret, secret)
			}
			provider.AssertExpectations(t)
		})
	}
}

func TestPaymentService_Subscribe(t *testing.T) {
	req := models.DummySubscription{PriceCents: 499, PeriodDays: 30}

	t.Run("records purchase then activates premium", func(t *testing.T) {
		repo := new(MockRepository)
		activator := new(MockActivator)
		expiration := time.Now().UTC().Add(30 * 24 * time.Hour)

		repo.On("CreateSubscriptionRecord", mock.Anything, mock.MatchedBy(func(r models.SubscriptionRecord) bool {
			return r.UserEmail == "buyer@example.com" && r.PriceCents == 499
		})).Return(1, nil).Once()
		activator.On("ActivatePremium", mock.Anything, "buyer@example.com", 30).
			Return(expiration, nil).Once()

		service := New(repo, activator, new(MockProvider), "usd", newNoopLogger())
		got, err := service.Subscribe(context.Background(), "buyer@example.com", req)

		require.NoError(t, err)
		assert.Equal(t, expiration, got)
		repo.AssertExpectations(t)
		activator.AssertExpectations(t)
	})

	t.Run("journal error aborts before activation", func(t *testing.T) {
		repo := new(MockRepository)
		activator := new(MockActivator)
		repo.On("CreateSubscriptionRecord", mock.Anything, mock.Anything).
			Return(0, errors.New("db down")).Once()

		service := New(repo, activator, new(MockProvider), "usd", newNoopLogger())
		_, err := service.Subscribe(context.Background(), "buyer@example.com", req)

		require.Error(t, err)
		activator.AssertNotCalled(t, "ActivatePremium", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("activation error propagates", func(t *testing.T) {
		repo := new(MockRepository)
		activator := new(MockActivator)
		repo.On("CreateSubscriptionRecord", mock.Anything, mock.Anything).Return(1, nil).Once()
		activator.On("ActivatePremium", mock.Anything, "buyer@example.com", 30).
			Return(time.Time{}, errors.New("user missing")).Once()

		service := New(repo, activator, new(MockProvider), "usd", newNoopLogger())
		_, err := service.Subscribe(context.Background(), "buyer@example.com", req)
		require.Error(t, err)
	})
}
