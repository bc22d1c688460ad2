package scenarios

import (
	"context"
	"net/url"
	"strings"

	"ritzprobe/internal/core"
)

// ReviewText is the body of the review posted by the test user.
const ReviewText = "Automated review posted by the RitZone test user."

// Reviews reads a product's reviews, posts one as the test user, finds it
// among the user's reviews and deletes it.
func Reviews(env *Env) []core.Step {
	return []core.Step{
		{Name: "Product Reviews", Run: env.productReviews},
		{Name: "Submit Review", Run: env.submitReview},
		{Name: "My Reviews", Run: env.myReviews},
		{Name: "Delete Review", Run: env.deleteReview},
	}
}

func (e *Env) productReviews(ctx context.Context) (core.Outcome, error) {
	if err := e.ensureProduct(ctx); err != nil {
		if isNetwork(err) {
			return core.Outcome{}, err
		}
		return failed("no product available for reviews", err), nil
	}
	resp, err := e.Session.Get(ctx, "/reviews/product/"+url.PathEscape(e.State.ProductID), nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("review list has no data array", err), nil
	}
	if avg := resp.Get("stats.averageRating"); avg.Exists() && len(items) > 0 {
		return core.Pass("product %s has %s (average %.1f)", e.State.ProductID, plural(len(items), "review"), avg.Float()), nil
	}
	return core.Pass("product %s has %s", e.State.ProductID, plural(len(items), "review")), nil
}

func (e *Env) submitReview(ctx context.Context) (core.Outcome, error) {
	if e.State.ProductID == "" {
		return core.Fail("no product to review", nil), nil
	}
	resp, err := e.Session.Post(ctx, "/reviews", map[string]any{
		"productId":  e.State.ProductID,
		"rating":     5,
		"reviewText": ReviewText,
	}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if resp.StatusCode == 400 && strings.Contains(strings.ToLower(resp.Get("message").String()), "already") {
		return core.Pass("product %s already reviewed by this user", e.State.ProductID), nil
	}
	if err := resp.ExpectStatus(200, 201); err != nil {
		return statusFailure(resp, err), nil
	}
	id, err := resp.Require("data.id")
	if err != nil {
		return failed("created review has no id", err), nil
	}
	e.State.ReviewID = id.String()
	return core.Pass("posted review %s", e.State.ReviewID), nil
}

func (e *Env) myReviews(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, "/reviews/my-reviews", nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("user review list has no data array", err), nil
	}
	for _, it := range items {
		id := it.Get("id").String()
		if id == e.State.ReviewID || (e.State.ReviewID == "" && it.Get("product_id").String() == e.State.ProductID) {
			e.State.ReviewID = id
			return core.Pass("found review %s among %s", id, plural(len(items), "review")), nil
		}
	}
	return failed("posted review is not listed",
		resp.ShapeError("no review for product %q among %d", e.State.ProductID, len(items))), nil
}

func (e *Env) deleteReview(ctx context.Context) (core.Outcome, error) {
	if e.State.ReviewID == "" {
		return core.Fail("no review to delete", nil), nil
	}
	resp, err := e.Session.Delete(ctx, "/reviews/"+url.PathEscape(e.State.ReviewID), nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200, 204); err != nil {
		return statusFailure(resp, err), nil
	}
	removed := e.State.ReviewID
	e.State.ReviewID = ""
	return core.Pass("deleted review %s", removed), nil
}
