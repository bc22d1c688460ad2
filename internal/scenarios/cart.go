package scenarios

import (
	"context"
	"fmt"
	"net/url"

	"ritzprobe/internal/core"
)

// Cart exercises add, update and remove on the authenticated user's cart.
func Cart(env *Env) []core.Step {
	return []core.Step{
		{Name: "Get Cart", Run: env.getCart},
		{Name: "Add To Cart", Run: env.addToCart},
		{Name: "Update Cart Item", Run: env.updateCartItem},
		{Name: "Remove Cart Item", Run: env.removeCartItem},
	}
}

// ensureProduct discovers a product id when neither the catalog scenario
// nor the configuration supplied one.
func (e *Env) ensureProduct(ctx context.Context) error {
	if e.State.ProductID != "" {
		return nil
	}
	resp, err := e.Session.Get(ctx, "/products", url.Values{"limit": {"1"}}, nil)
	if err != nil {
		return err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return err
	}
	id := resp.Get("data.0.id").String()
	if id == "" {
		return resp.ShapeError("no product to use")
	}
	e.State.ProductID = id
	e.State.ProductName = resp.Get("data.0.name").String()
	e.State.ProductPrice = resp.Get("data.0.price").Float()
	return nil
}

func (e *Env) getCart(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, "/cart", nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	if err := requireSuccess(resp); err != nil {
		return failed("cart response did not report success", err), nil
	}
	n := len(resp.Get("data.items").Array())
	return core.Pass("cart holds %s", plural(n, "item")), nil
}

func (e *Env) addToCart(ctx context.Context) (core.Outcome, error) {
	if err := e.ensureProduct(ctx); err != nil {
		if isNetwork(err) {
			return core.Outcome{}, err
		}
		return failed("no product available for the cart", err), nil
	}
	resp, err := e.Session.Post(ctx, "/cart/add", map[string]any{
		"productId": e.State.ProductID,
		"quantity":  1,
	}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200, 201); err != nil {
		return statusFailure(resp, err), nil
	}
	e.State.CartItemID = firstString(resp, "data.item.id", "data.id", "item.id")
	if e.State.CartItemID == "" {
		e.State.CartItemID = e.findCartItem(ctx)
	}
	if e.State.CartItemID == "" {
		return core.Pass("added product %s (item id not reported)", e.State.ProductID), nil
	}
	return core.Pass("added product %s as item %s", e.State.ProductID, e.State.CartItemID), nil
}

// findCartItem looks up the cart line for the current product.
func (e *Env) findCartItem(ctx context.Context) string {
	resp, err := e.Session.Get(ctx, "/cart", nil, nil)
	if err != nil || !resp.Success2xx() {
		return ""
	}
	for _, item := range resp.Get("data.items").Array() {
		pid := item.Get("product_id").String()
		if pid == "" {
			pid = item.Get("productId").String()
		}
		if pid == e.State.ProductID {
			return item.Get("id").String()
		}
	}
	return ""
}

func (e *Env) updateCartItem(ctx context.Context) (core.Outcome, error) {
	if e.State.CartItemID == "" {
		e.State.CartItemID = e.findCartItem(ctx)
	}
	if e.State.CartItemID == "" {
		return core.Fail("no cart item to update", nil), nil
	}
	resp, err := e.Session.Put(ctx, e.cartItemPath(), map[string]any{"quantity": 2}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	if q := resp.Get("data.quantity"); q.Exists() && q.Int() != 2 {
		return failed("quantity was not updated", resp.ShapeError("data.quantity is %d, want 2", q.Int())), nil
	}
	return core.Pass("item %s quantity set to 2", e.State.CartItemID), nil
}

func (e *Env) removeCartItem(ctx context.Context) (core.Outcome, error) {
	if e.State.CartItemID == "" {
		return core.Fail("no cart item to remove", nil), nil
	}
	resp, err := e.Session.Delete(ctx, e.cartItemPath(), nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200, 204); err != nil {
		return statusFailure(resp, err), nil
	}
	removed := e.State.CartItemID
	e.State.CartItemID = ""
	return core.Pass("removed item %s", removed), nil
}

func (e *Env) cartItemPath() string {
	return fmt.Sprintf("/cart/items/%s", url.PathEscape(e.State.CartItemID))
}
