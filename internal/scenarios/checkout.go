package scenarios

import (
	"context"
	"net/url"

	"ritzprobe/internal/config"
	"ritzprobe/internal/core"
)

// PayPal order request values.
const (
	paypalAmount   = "25.00"
	paypalCurrency = "USD"
)

// Checkout creates a PayPal order, reads it back, places a cash-on-delivery
// order and lists the user's orders.
func Checkout(env *Env) []core.Step {
	return []core.Step{
		{Name: "PayPal Order Creation", Run: env.createPayPalOrder},
		{Name: "PayPal Order Status", Run: env.paypalOrderStatus},
		{Name: "COD Order Creation", Run: env.createCODOrder},
		{Name: "Get Orders", Run: env.getOrders},
	}
}

func (e *Env) createPayPalOrder(ctx context.Context) (core.Outcome, error) {
	if err := e.ensureProduct(ctx); err != nil {
		if isNetwork(err) {
			return core.Outcome{}, err
		}
		return failed("no product available for checkout", err), nil
	}
	resp, err := e.Session.Post(ctx, "/payments/paypal/create-order", map[string]any{
		"amount":   paypalAmount,
		"currency": paypalCurrency,
		"items": []map[string]any{
			{"product_id": e.State.ProductID, "quantity": 1},
		},
	}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200, 201); err != nil {
		return statusFailure(resp, err), nil
	}
	id := firstString(resp, "id", "data.id", "data.paypalOrderId")
	if id == "" {
		return failed("PayPal order response has no id", resp.ShapeError("missing id, data.id and data.paypalOrderId")), nil
	}
	e.State.PayPalOrderID = id
	return core.Pass("created PayPal order %s for %s %s", id, paypalAmount, paypalCurrency), nil
}

func (e *Env) paypalOrderStatus(ctx context.Context) (core.Outcome, error) {
	if e.State.PayPalOrderID == "" {
		return core.Fail("no PayPal order to look up", nil), nil
	}
	resp, err := e.Session.Get(ctx, "/payments/paypal/order/"+url.PathEscape(e.State.PayPalOrderID), nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	status := firstString(resp, "status", "data.status")
	if status == "" {
		return failed("PayPal order has no status", resp.ShapeError("missing status")), nil
	}
	return core.Pass("PayPal order %s is %s", e.State.PayPalOrderID, status), nil
}

// createCODOrder honours the configured expectation: some deployments reject
// COD orders whose items are not already in the cart.
func (e *Env) createCODOrder(ctx context.Context) (core.Outcome, error) {
	if err := e.ensureProduct(ctx); err != nil {
		if isNetwork(err) {
			return core.Outcome{}, err
		}
		return failed("no product available for checkout", err), nil
	}
	resp, err := e.Session.Post(ctx, "/orders/create", map[string]any{
		"payment_method": "cod",
		"shipping_address": map[string]string{
			"full_name":   TestUserName,
			"phone":       TestUserPhone,
			"line1":       "1 Probe Street",
			"city":        "Testville",
			"postal_code": "000000",
			"country":     "IN",
		},
		"items": []map[string]any{
			{"product_id": e.State.ProductID, "quantity": 1, "price": e.State.ProductPrice},
		},
		"total_amount": e.State.ProductPrice,
	}, nil)
	if err != nil {
		return core.Outcome{}, err
	}

	if e.Config.CODExpect == config.ExpectFail {
		if resp.Success2xx() {
			return failed("COD order was accepted but is expected to fail",
				resp.ShapeError("status %d", resp.StatusCode)), nil
		}
		return core.Pass("COD order rejected as expected (status %d)", resp.StatusCode), nil
	}

	if err := resp.ExpectStatus(200, 201); err != nil {
		return statusFailure(resp, err), nil
	}
	id := firstString(resp, "order_id", "data.id", "data.order_number")
	if id == "" {
		return failed("COD order response has no order id", resp.ShapeError("missing order_id and data.id")), nil
	}
	return core.Pass("created COD order %s", id), nil
}

func (e *Env) getOrders(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, "/orders", nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("order list has no data array", err), nil
	}
	return core.Pass("user has %s", plural(len(items), "order")), nil
}
