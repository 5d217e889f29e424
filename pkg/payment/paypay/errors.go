package paypay

import "errors"

var (
	ErrNetworkError   = errors.New("paypay: network error")
	ErrUnauthorized   = errors.New("paypay: unauthorized")
	ErrInvalidRequest = errors.New("paypay: invalid request")
	ErrPaymentFailed  = errors.New("paypay: payment failed")
)
