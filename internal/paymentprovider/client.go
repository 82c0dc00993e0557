// Package paymentprovider реализует клиент платёжного провайдера Stripe.
// Ядру нужен единственный вызов: создать payment intent на сумму в валюте
// и получить client secret для завершения платежа на стороне клиента.
package paymentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client выполняет запросы к Stripe API.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Stripe.
func NewClient(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     "https://api.stripe.com/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, form url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// CreatePaymentIntent отправляет запрос на создание платежа и возвращает
// client secret, по которому клиент завершает оплату.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountCents int, currency string) (*CreatePaymentIntentResponse, error) {
	const op = "paymentprovider.CreatePaymentIntent"

	form := url.Values{}
	form.Set("amount", strconv.Itoa(amountCents))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := c.newRequest(ctx, http.MethodPost, "/payment_intents", form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", op, errors.New("unexpected status: "+resp.Status))
	}

	var intentResp CreatePaymentIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intentResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &intentResp, nil
}
