package paypay

import "time"

// CreatePaymentRequest represents the request body for creating a web payment
type CreatePaymentRequest struct {
	MerchantPaymentID string `json:"merchantPaymentId"`
	Amount            Amount `json:"amount"`
	OrderDescription  string `json:"orderDescription,omitempty"`
	RedirectURL       string `json:"redirectUrl"`
	RedirectType      string `json:"redirectType"`
	UserAgent         string `json:"userAgent,omitempty"`
}

// Amount represents a monetary amount in the smallest currency unit
type Amount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreatePaymentResponse represents the payment created by the PG
type CreatePaymentResponse struct {
	PaymentID  string    `json:"paymentId"`
	PaymentURL string    `json:"url"`
	Deeplink   string    `json:"deeplink,omitempty"`
	ExpiresAt  time.Time `json:"expiryDate"`
}

// PaymentDetailsResponse represents the status of an existing payment
type PaymentDetailsResponse struct {
	PaymentID         string `json:"paymentId"`
	MerchantPaymentID string `json:"merchantPaymentId"`
	Status            string `json:"status"`
	Amount            Amount `json:"amount"`
}

// ErrorResponse represents an error payload returned by the PG
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	ResultInfo struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"resultInfo"`
	Data interface{} `json:"data"`
}
