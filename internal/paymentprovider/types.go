package paymentprovider

// CreatePaymentIntentResponse ответ Stripe при создании payment intent.
type CreatePaymentIntentResponse struct {
	ID           string `json:"id"`            // Идентификатор платежа
	ClientSecret string `json:"client_secret"` // Секрет для завершения оплаты на клиенте
	Amount       int    `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}
