package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/careerai/internal/domain"
)

type fakeOrders struct {
	got  map[string]interface{}
	resp map[string]interface{}
	err  error
}

func (f *fakeOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	f.got = data
	return f.resp, f.err
}

var _ domain.OrderGateway = (*Gateway)(nil)

func TestCreateOrder(t *testing.T) {
	fake := &fakeOrders{resp: map[string]interface{}{
		"id":       "order_123",
		"amount":   float64(49900),
		"currency": "INR",
	}}
	g := &Gateway{orders: fake}

	order, err := g.CreateOrder(context.Background(), 49900, "INR", "receipt_order_1")
	require.NoError(t, err)
	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(49900), order.Amount)
	assert.Equal(t, "receipt_order_1", order.Receipt)
	assert.Equal(t, int64(49900), fake.got["amount"])
	assert.Equal(t, "receipt_order_1", fake.got["receipt"])
}

func TestCreateOrderErrors(t *testing.T) {
	boom := errors.New("bad request")
	_, err := (&Gateway{orders: &fakeOrders{err: boom}}).CreateOrder(context.Background(), 100, "INR", "r")
	assert.ErrorIs(t, err, boom)

	_, err = (&Gateway{orders: &fakeOrders{resp: map[string]interface{}{}}}).CreateOrder(context.Background(), 100, "INR", "r")
	assert.Error(t, err)
}

func TestNewGatewayNeedsKeys(t *testing.T) {
	_, err := NewGateway("", "secret")
	assert.ErrorIs(t, err, domain.ErrPaymentsDisabled)
}
