// Package payment upgrades users to the pro plan after a verified checkout.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
)

// PlanSetter is the part of the profile service payments need.
type PlanSetter interface {
	SetPlan(ctx context.Context, userID domain.UserID, plan domain.Plan) error
}

type Service struct {
	gateway domain.OrderGateway
	secret  []byte
	plans   PlanSetter
	now     func() time.Time
}

func NewService(gateway domain.OrderGateway, keySecret string, plans PlanSetter) *Service {
	return &Service{
		gateway: gateway,
		secret:  []byte(keySecret),
		plans:   plans,
		now:     time.Now,
	}
}

// CreateOrder opens a gateway order. amount is in major currency units.
func (s *Service) CreateOrder(ctx context.Context, amount int64, currency string) (*domain.Order, error) {
	if s.gateway == nil {
		return nil, domain.ErrPaymentsDisabled
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrInvalidInput)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "INR"
	}

	receipt := fmt.Sprintf("receipt_order_%d", s.now().UnixMilli())
	order, err := s.gateway.CreateOrder(ctx, amount*100, currency, receipt)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("create order failed", "error", err)
		return nil, err
	}
	return order, nil
}

// VerifyInput is what the checkout widget hands back after payment.
type VerifyInput struct {
	UserID    domain.UserID `json:"user_id"`
	OrderID   string        `json:"razorpay_order_id"`
	PaymentID string        `json:"razorpay_payment_id"`
	Signature string        `json:"razorpay_signature"`
}

// VerifyPayment checks the gateway signature and upgrades the user to pro.
// A bad signature is ErrForbidden.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyInput) error {
	if len(s.secret) == 0 {
		return domain.ErrPaymentsDisabled
	}
	if in.UserID == "" || in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return fmt.Errorf("payment verification fields: %w", domain.ErrInvalidInput)
	}

	if !s.validSignature(in.OrderID, in.PaymentID, in.Signature) {
		observability.LoggerFromContext(ctx).Warn("payment signature mismatch",
			"user_id", in.UserID,
			"order_id", in.OrderID,
		)
		return fmt.Errorf("payment signature: %w", domain.ErrForbidden)
	}

	if err := s.plans.SetPlan(ctx, in.UserID, domain.PlanPro); err != nil {
		return fmt.Errorf("upgrade plan: %w", err)
	}
	return nil
}

func (s *Service) validSignature(orderID, paymentID, signature string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, Sign(s.secret, orderID, paymentID))
}

// Sign computes the gateway signature of a payment: HMAC-SHA256 over
// "orderID|paymentID".
func Sign(secret []byte, orderID, paymentID string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return mac.Sum(nil)
}
