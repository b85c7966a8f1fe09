// Package checkout validates and submits the order exactly once.
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/rollshouse/storefront/internal/address"
	"github.com/rollshouse/storefront/internal/cart"
	"github.com/rollshouse/storefront/internal/events"
	"github.com/rollshouse/storefront/internal/logging"
	"github.com/rollshouse/storefront/pkg/orderclient"
)

var (
	// ErrAddressRequired rejects a submit with no delivery address on file;
	// the caller should send the user to address creation.
	ErrAddressRequired = errors.New("необходимо указать адрес доставки")
	ErrPhoneRequired   = errors.New("необходимо указать номер телефона")
	ErrPhoneInvalid    = errors.New("укажите корректный номер телефона")
	// ErrSubmitInFlight means a submission is already running; the repeated
	// request did nothing.
	ErrSubmitInFlight = errors.New("заказ уже отправляется")
	// ErrServer is the generic fallback when the backend gave no message.
	ErrServer = errors.New("не удалось отправить заказ, проверьте подключение к интернету")
)

type OrderCreator interface {
	Create(ctx context.Context, order orderclient.Order) (*orderclient.Result, error)
}

type Flow struct {
	addresses *address.Book
	cart      *cart.Store
	orders    OrderCreator
	producer  events.Publisher

	submitting atomic.Bool
}

func NewFlow(book *address.Book, cartStore *cart.Store, orders OrderCreator, producer events.Publisher) *Flow {
	return &Flow{
		addresses: book,
		cart:      cartStore,
		orders:    orders,
		producer:  producer,
	}
}

// Submit validates the delivery address and phone, builds the order payload
// from the current cart and sends it once. On a confirmed success the cart is
// cleared; on any failure all client state is left intact for a retry.
func (f *Flow) Submit(ctx context.Context, phone, comment string) (*orderclient.Result, error) {
	defaultAddr, ok := f.addresses.Default()
	if !ok {
		return nil, ErrAddressRequired
	}
	if Digits(phone) == "" {
		return nil, ErrPhoneRequired
	}
	// the mask folds a leading 8 into the country code, so validate its output
	formattedPhone := FormatPhone(phone)
	if !ValidPhone(formattedPhone) {
		return nil, ErrPhoneInvalid
	}

	if !f.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer f.submitting.Store(false)

	items := f.cart.Items()
	orderItems := make([]orderclient.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, orderclient.OrderItem{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	order := orderclient.Order{
		Phone:      formattedPhone,
		Address:    address.Format(defaultAddr),
		Items:      orderItems,
		TotalPrice: f.cart.TotalPrice(),
		Comment:    strings.TrimSpace(comment),
	}

	l := logging.FromContext(ctx).With("handler", "checkout.submit")

	result, err := f.orders.Create(ctx, order)
	if err != nil {
		l.Error("order_submit_error", "error", err)
		var apiErr *orderclient.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return nil, apiErr
		}
		return nil, ErrServer
	}

	// clear-after-confirmed-success: the cart survives every failure path
	f.cart.Clear(ctx)

	event := map[string]interface{}{
		"type":       "order_submitted",
		"address":    order.Address,
		"totalPrice": order.TotalPrice,
		"items":      len(order.Items),
	}
	if err := f.producer.PublishEvent(ctx, events.TopicOrderEvents, "order", event); err != nil {
		l.Warn("order_event_error", "error", err)
	}

	l.Info("order submitted successfully", "totalPrice", order.TotalPrice)
	return result, nil
}

// InFlight reports whether a submission is currently running.
func (f *Flow) InFlight() bool {
	return f.submitting.Load()
}
