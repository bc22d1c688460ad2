package scenarios

import (
	"context"
	"net/url"

	"ritzprobe/internal/core"
)

const addressesPath = "/profile/addresses"

// Address values written by the address steps.
const (
	firstStreet   = "1 Harbor Street"
	updatedStreet = "2 Harbor Street"
)

// Addresses lists, creates, updates and deletes a shipping address. The
// address is removed again so reruns start from the same state.
func Addresses(env *Env) []core.Step {
	return []core.Step{
		{Name: "List Addresses", Run: env.listAddresses},
		{Name: "Add Address", Run: env.addAddress},
		{Name: "Update Address", Run: env.updateAddress},
		{Name: "Delete Address", Run: env.deleteAddress},
	}
}

func (e *Env) listAddresses(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, addressesPath, nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	items, err := requireArray(resp, "data")
	if err != nil {
		return failed("address list has no data array", err), nil
	}
	return core.Pass("user has %s", plural(len(items), "address")), nil
}

func (e *Env) addAddress(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Post(ctx, addressesPath, map[string]any{
		"type":       "home",
		"name":       TestUserName,
		"street":     firstStreet,
		"city":       "New York",
		"state":      "NY",
		"zip_code":   "10001",
		"country":    "United States",
		"phone":      TestUserPhone,
		"is_default": false,
	}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200, 201); err != nil {
		return statusFailure(resp, err), nil
	}
	id, err := resp.Require("data.id")
	if err != nil {
		return failed("created address has no id", err), nil
	}
	e.State.AddressID = id.String()
	return core.Pass("added address %s", e.State.AddressID), nil
}

func (e *Env) updateAddress(ctx context.Context) (core.Outcome, error) {
	if e.State.AddressID == "" {
		return core.Fail("no address to update", nil), nil
	}
	resp, err := e.Session.Put(ctx, e.addressPath(), map[string]any{"street": updatedStreet}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	if street := resp.Get("data.street"); street.Exists() && street.String() != updatedStreet {
		return failed("address update was not applied",
			resp.ShapeError("data.street is %q, want %q", street.String(), updatedStreet)), nil
	}
	return core.Pass("address %s street set to %q", e.State.AddressID, updatedStreet), nil
}

func (e *Env) deleteAddress(ctx context.Context) (core.Outcome, error) {
	if e.State.AddressID == "" {
		return core.Fail("no address to delete", nil), nil
	}
	resp, err := e.Session.Delete(ctx, e.addressPath(), nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200, 204); err != nil {
		return statusFailure(resp, err), nil
	}
	removed := e.State.AddressID
	e.State.AddressID = ""
	return core.Pass("deleted address %s", removed), nil
}

func (e *Env) addressPath() string {
	return addressesPath + "/" + url.PathEscape(e.State.AddressID)
}
