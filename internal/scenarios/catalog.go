package scenarios

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"

	"ritzprobe/internal/core"
)

// Catalog probes the public product endpoints. The first listed product and
// category are kept in State for later scenarios.
func Catalog(env *Env) []core.Step {
	return []core.Step{
		{Name: "Get Products", Run: env.getProducts},
		{Name: "Get Categories", Run: env.getCategories},
		{Name: "Products By Category", Run: env.productsByCategory},
		{Name: "Product Details", Run: env.productDetails},
		{Name: "Search Products", Run: env.searchProducts},
		{Name: "Currency List", Run: env.currencies},
		{Name: "Currency Conversion", Run: env.convertCurrency},
	}
}

func (e *Env) getProducts(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, "/products", url.Values{"limit": {"1"}}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("product list has no data array", err), nil
	}
	if len(items) == 0 {
		return failed("product list is empty", resp.ShapeError("data is empty")), nil
	}
	first := items[0]
	if e.State.ProductID == "" {
		e.State.ProductID = first.Get("id").String()
	}
	e.State.ProductName = first.Get("name").String()
	e.State.ProductPrice = first.Get("price").Float()
	return core.Pass("listed %s (first: %s)", plural(len(items), "product"), first.Get("id").String()), nil
}

func (e *Env) getCategories(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, "/categories", nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("category list has no data array", err), nil
	}
	if len(items) == 0 {
		return failed("category list is empty", resp.ShapeError("data is empty")), nil
	}
	e.State.CategorySlug = items[0].Get("slug").String()
	return core.Pass("listed %s", plural(len(items), "category")), nil
}

func (e *Env) productsByCategory(ctx context.Context) (core.Outcome, error) {
	if e.State.CategorySlug == "" {
		return core.Fail("no category slug discovered", nil), nil
	}
	resp, err := e.Session.Get(ctx, "/products/category/"+url.PathEscape(e.State.CategorySlug), nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("category listing has no data array", err), nil
	}
	return core.Pass("category %s has %s", e.State.CategorySlug, plural(len(items), "product")), nil
}

func (e *Env) productDetails(ctx context.Context) (core.Outcome, error) {
	if e.State.ProductID == "" {
		return core.Fail("no product id discovered", nil), nil
	}
	resp, err := e.Session.Get(ctx, "/products/"+url.PathEscape(e.State.ProductID), nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	id, err := resp.Require("data.id")
	if err != nil {
		return failed("product details have no id", err), nil
	}
	if id.String() != e.State.ProductID {
		return failed("product details returned another product",
			resp.ShapeError("data.id is %q, want %q", id.String(), e.State.ProductID)), nil
	}
	if name := resp.Get("data.name").String(); name != "" {
		e.State.ProductName = name
		return core.Pass("fetched %s", name), nil
	}
	return core.Pass("fetched product %s", e.State.ProductID), nil
}

func (e *Env) searchProducts(ctx context.Context) (core.Outcome, error) {
	q := searchTerm(e.State.ProductName)
	resp, err := e.Session.Get(ctx, "/products/search/"+url.PathEscape(q), nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("search response has no data array", err), nil
	}
	return core.Pass("search %q returned %s", q, plural(len(items), "result")), nil
}

func (e *Env) currencies(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, "/currency/currencies", nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("currency list has no data array", err), nil
	}
	if len(items) == 0 {
		return failed("currency list is empty", resp.ShapeError("data is empty")), nil
	}
	return core.Pass("listed %s", plural(len(items), "currency")), nil
}

func (e *Env) convertCurrency(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Post(ctx, "/currency/convert", map[string]any{
		"amount": 100,
		"from":   "USD",
		"to":     "EUR",
	}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	converted, err := resp.Require("data.converted.amount")
	if err != nil {
		return failed("conversion has no converted amount", err), nil
	}
	if converted.Type != gjson.Number || converted.Float() <= 0 {
		return failed("conversion returned an invalid amount",
			resp.ShapeError("data.converted.amount is %s", converted.Raw)), nil
	}
	if cur := resp.Get("data.converted.currency").String(); cur != "EUR" {
		return failed("conversion returned another currency",
			resp.ShapeError("data.converted.currency is %q, want EUR", cur)), nil
	}
	return core.Pass("100 USD = %s EUR", converted.String()), nil
}
