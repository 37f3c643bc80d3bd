// Package payments creates orders with Razorpay.
package payments

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/PabloGalante/careerai/internal/domain"
)

// orderCreator is the order resource of the Razorpay client.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Gateway struct {
	orders orderCreator
}

func NewGateway(keyID, keySecret string) (*Gateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, domain.ErrPaymentsDisabled
	}
	client := razorpay.NewClient(keyID, keySecret)
	return &Gateway{orders: client.Order}, nil
}

// CreateOrder implements domain.OrderGateway. The Razorpay SDK is not
// context-aware; ctx is only checked before the call.
func (g *Gateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := g.orders.Create(map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay create order: response has no id")
	}

	order := &domain.Order{
		ID:       id,
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}
	// The API echoes amounts as JSON numbers.
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	if cur, ok := body["currency"].(string); ok && cur != "" {
		order.Currency = cur
	}
	return order, nil
}
