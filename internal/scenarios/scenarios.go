// Package scenarios holds the RitZone probes. Each scenario is a list of
// steps; scenarios are grouped into named suites.
package scenarios

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"ritzprobe/internal/auth"
	"ritzprobe/internal/config"
	"ritzprobe/internal/core"
	"ritzprobe/internal/session"
)

// Profile values used when registering the test user.
const (
	TestUserName  = "RitZone Tester"
	TestUserPhone = "+10000000000"
)

// State is data discovered by one step and consumed by a later one.
type State struct {
	ProductID     string
	ProductName   string
	ProductPrice  float64
	CategorySlug  string
	CartItemID    string
	PayPalOrderID string
	UserID        string

	AddressID       string
	PaymentMethodID string
	ReviewID        string

	headers     session.HeaderSnapshot
	savedToken  string
	snapshotted bool
}

// Env is what every scenario step closes over.
type Env struct {
	Config  config.Config
	Session *session.Session
	Auth    *auth.Helper
	Logger  *slog.Logger
	State   *State
}

// NewEnv builds an Env with empty state.
func NewEnv(cfg config.Config, sess *session.Session, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Env{
		Config:  cfg,
		Session: sess,
		Auth:    auth.New(sess, logger),
		Logger:  logger,
		State:   &State{ProductID: cfg.ProductID},
	}
}

// Credentials returns the probe user's credentials. Only generated users are
// registered.
func (e *Env) Credentials() auth.Credentials {
	return auth.Credentials{
		Email:    e.Config.Email,
		Password: e.Config.Password,
		FullName: TestUserName,
		Phone:    TestUserPhone,
		Register: e.Config.GeneratedUser,
	}
}

// Scenario is a named group of steps.
type Scenario struct {
	Name        string
	Description string
	Steps       func(*Env) []core.Step
}

var registry = map[string]Scenario{
	"health":     {Name: "health", Description: "backend reachability", Steps: Health},
	"auth":       {Name: "auth", Description: "registration and login", Steps: Authentication},
	"catalog":    {Name: "catalog", Description: "products, categories, search and currencies", Steps: Catalog},
	"cart":       {Name: "cart", Description: "cart add, update and remove", Steps: Cart},
	"checkout":   {Name: "checkout", Description: "PayPal order, COD order and order history", Steps: Checkout},
	"protection": {Name: "protection", Description: "protected endpoints reject anonymous calls", Steps: Protection},
	"cors":       {Name: "cors", Description: "CORS preflight on the login endpoint", Steps: CORS},
	"profile":    {Name: "profile", Description: "profile read, update and dashboard", Steps: Profile},

	"addresses":       {Name: "addresses", Description: "shipping address create, update and delete", Steps: Addresses},
	"payment-methods": {Name: "payment-methods", Description: "saved payment method create, update and delete", Steps: PaymentMethods},
	"wishlist":        {Name: "wishlist", Description: "wishlist add, list and remove", Steps: Wishlist},
	"reviews":         {Name: "reviews", Description: "product reviews and the user's own reviews", Steps: Reviews},
}

var suites = map[string][]string{
	"smoke":    {"health", "auth", "catalog"},
	"cart":     {"health", "auth", "cart"},
	"checkout": {"health", "auth", "cart", "checkout", "protection", "cors"},
	"profile":  {"health", "auth", "profile", "addresses", "payment-methods", "wishlist", "reviews"},
	"full":     {"health", "auth", "catalog", "cart", "checkout", "protection", "cors", "profile", "addresses", "payment-methods", "wishlist", "reviews"},
}

// Suites returns the suite names in sorted order.
func Suites() []string {
	names := make([]string, 0, len(suites))
	for name := range suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suite returns the scenarios of a suite in execution order.
func Suite(name string) ([]Scenario, error) {
	members, ok := suites[name]
	if !ok {
		return nil, fmt.Errorf("unknown suite %q (available: %s)", name, strings.Join(Suites(), ", "))
	}
	out := make([]Scenario, len(members))
	for i, m := range members {
		out[i] = registry[m]
	}
	return out, nil
}

// Steps flattens a suite into runner steps bound to env.
func Steps(suite string, env *Env) ([]core.Step, error) {
	scs, err := Suite(suite)
	if err != nil {
		return nil, err
	}
	var steps []core.Step
	for _, sc := range scs {
		steps = append(steps, sc.Steps(env)...)
	}
	return steps, nil
}
