package scenarios

import (
	"context"
	"net/url"

	"ritzprobe/internal/core"
)

const paymentMethodsPath = "/profile/payment-methods"

// PaymentMethods runs the saved payment method lifecycle: list, add,
// update and delete.
func PaymentMethods(env *Env) []core.Step {
	return []core.Step{
		{Name: "List Payment Methods", Run: env.listPaymentMethods},
		{Name: "Add Payment Method", Run: env.addPaymentMethod},
		{Name: "Update Payment Method", Run: env.updatePaymentMethod},
		{Name: "Delete Payment Method", Run: env.deletePaymentMethod},
	}
}

func (e *Env) listPaymentMethods(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, paymentMethodsPath, nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("payment method list has no data array", err), nil
	}
	return core.Pass("user has %s", plural(len(items), "payment method")), nil
}

func (e *Env) addPaymentMethod(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Post(ctx, paymentMethodsPath, map[string]any{
		"type":        "card",
		"name":        TestUserName,
		"details":     "Visa ending in 4242",
		"last_four":   "4242",
		"expiry_date": "12/30",
		"is_default":  false,
	}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200, 201); err != nil {
		return statusFailure(resp, err), nil
	}
	id, err := resp.Require("data.id")
	if err != nil {
		return failed("created payment method has no id", err), nil
	}
	e.State.PaymentMethodID = id.String()
	return core.Pass("added payment method %s", e.State.PaymentMethodID), nil
}

func (e *Env) updatePaymentMethod(ctx context.Context) (core.Outcome, error) {
	if e.State.PaymentMethodID == "" {
		return core.Fail("no payment method to update", nil), nil
	}
	const expiry = "01/31"
	resp, err := e.Session.Put(ctx, e.paymentMethodPath(), map[string]any{"expiry_date": expiry}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	if got := resp.Get("data.expiry_date"); got.Exists() && got.String() != expiry {
		return failed("payment method update was not applied",
			resp.ShapeError("data.expiry_date is %q, want %q", got.String(), expiry)), nil
	}
	return core.Pass("payment method %s expiry set to %s", e.State.PaymentMethodID, expiry), nil
}

func (e *Env) deletePaymentMethod(ctx context.Context) (core.Outcome, error) {
	if e.State.PaymentMethodID == "" {
		return core.Fail("no payment method to delete", nil), nil
	}
	resp, err := e.Session.Delete(ctx, e.paymentMethodPath(), nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200, 204); err != nil {
		return statusFailure(resp, err), nil
	}
	removed := e.State.PaymentMethodID
	e.State.PaymentMethodID = ""
	return core.Pass("deleted payment method %s", removed), nil
}

func (e *Env) paymentMethodPath() string {
	return paymentMethodsPath + "/" + url.PathEscape(e.State.PaymentMethodID)
}
