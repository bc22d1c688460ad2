package scenarios

import (
	"context"
	"net/url"
	"strings"

	"ritzprobe/internal/core"
)

const wishlistPath = "/profile/wishlist"

// Wishlist adds the current product to the wishlist, checks it is listed and
// removes it again.
func Wishlist(env *Env) []core.Step {
	return []core.Step{
		{Name: "Add To Wishlist", Run: env.addToWishlist},
		{Name: "Get Wishlist", Run: env.getWishlist},
		{Name: "Remove From Wishlist", Run: env.removeFromWishlist},
	}
}

func (e *Env) addToWishlist(ctx context.Context) (core.Outcome, error) {
	if err := e.ensureProduct(ctx); err != nil {
		if isNetwork(err) {
			return core.Outcome{}, err
		}
		return failed("no product available for the wishlist", err), nil
	}
	resp, err := e.Session.Post(ctx, wishlistPath, map[string]any{"product_id": e.State.ProductID}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	// A leftover entry from an interrupted run is reported as a duplicate.
	if resp.StatusCode == 400 && strings.Contains(strings.ToLower(resp.Get("message").String()), "already") {
		return core.Pass("product %s already in wishlist", e.State.ProductID), nil
	}
	if err := resp.ExpectStatus(200, 201); err != nil {
		return statusFailure(resp, err), nil
	}
	return core.Pass("added product %s to wishlist", e.State.ProductID), nil
}

func (e *Env) getWishlist(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, wishlistPath, nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("wishlist has no data array", err), nil
	}
	for _, it := range items {
		if it.Get("id").String() == e.State.ProductID || it.Get("product_id").String() == e.State.ProductID {
			return core.Pass("wishlist holds %s including %s", plural(len(items), "item"), e.State.ProductID), nil
		}
	}
	return failed("product missing from wishlist",
		resp.ShapeError("no entry for product %q among %d", e.State.ProductID, len(items))), nil
}

func (e *Env) removeFromWishlist(ctx context.Context) (core.Outcome, error) {
	if e.State.ProductID == "" {
		return core.Fail("no product to remove", nil), nil
	}
	resp, err := e.Session.Delete(ctx, wishlistPath+"/"+url.PathEscape(e.State.ProductID), nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200, 204); err != nil {
		return statusFailure(resp, err), nil
	}
	return core.Pass("removed product %s from wishlist", e.State.ProductID), nil
}
