package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"github.com/ksaito/chocolatte-backend/pkg/payment/paypay"
	"github.com/ksaito/chocolatte-backend/pkg/util"
)

// PaymentInitiation is what the client needs to continue the payment flow
// for a freshly placed order. Which fields are set depends on the method.
type PaymentInitiation struct {
	Method       model.PaymentMethod `json:"method"`
	RedirectURL  string              `json:"redirect_url,omitempty"`  // paypay checkout page
	Token        string              `json:"token,omitempty"`         // card payment token
	Instructions string              `json:"instructions,omitempty"`  // convenience store payment
}

type PaymentService interface {
	InitiatePayment(order *model.Order) (*PaymentInitiation, error)
}

type paymentService struct {
	paypayClient *paypay.Client // nil when PayPay credentials are not configured
}

func NewPaymentService(paypayClient *paypay.Client) PaymentService {
	return &paymentService{paypayClient: paypayClient}
}

// InitiatePayment starts the payment flow for a placed order. Without
// provider credentials the flow falls back to deterministic mock payloads so
// the checkout can be exercised end to end in development.
func (s *paymentService) InitiatePayment(order *model.Order) (*PaymentInitiation, error) {
	logger.Info("Initiating payment", map[string]interface{}{
		"order_id":       order.ID,
		"payment_method": order.PaymentMethod,
		"total_amount":   order.TotalAmount,
	})

	switch order.PaymentMethod {
	case model.PaymentMethodPayPay:
		return s.initiatePayPay(order)
	case model.PaymentMethodCard:
		return &PaymentInitiation{
			Method: model.PaymentMethodCard,
			Token:  fmt.Sprintf("mock_card_token_order_%d", order.ID),
		}, nil
	case model.PaymentMethodConvenience:
		code := util.GeneratePaymentCode(order.ID)
		return &PaymentInitiation{
			Method:       model.PaymentMethodConvenience,
			Instructions: fmt.Sprintf("Pay at any participating convenience store using code: %s (mock)", code),
		}, nil
	default:
		return nil, ErrInvalidPaymentMethod
	}
}

func (s *paymentService) initiatePayPay(order *model.Order) (*PaymentInitiation, error) {
	if s.paypayClient == nil {
		return &PaymentInitiation{
			Method:      model.PaymentMethodPayPay,
			RedirectURL: fmt.Sprintf("https://paypay.example.com/checkout?order=%d&token=mock_paypay_token_123", order.ID),
		}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.paypayClient.CreatePayment(ctx, paypay.CreatePaymentRequest{
		MerchantPaymentID: fmt.Sprintf("order-%d", order.ID),
		Amount: paypay.Amount{
			Amount:   int64(order.TotalAmount),
			Currency: "JPY",
		},
		OrderDescription: fmt.Sprintf("Chocolatte order #%d", order.ID),
	})
	if err != nil {
		logger.Error("PayPay payment creation failed", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("PayPay payment created", map[string]interface{}{
		"order_id":   order.ID,
		"payment_id": resp.PaymentID,
	})
	return &PaymentInitiation{
		Method:      model.PaymentMethodPayPay,
		RedirectURL: resp.PaymentURL,
	}, nil
}
