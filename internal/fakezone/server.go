// Package fakezone is an in-memory stand-in for the RitZone backend API. It
// serves the endpoints the probe scenarios exercise, so runs can be checked
// end to end without a deployed backend.
package fakezone

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Login response shapes. The names match the probe's recognised shapes.
const (
	ShapeToken           = "token"
	ShapeSession         = "session"
	ShapeAccessToken     = "access_token"
	ShapeDataAccessToken = "data.access_token"
	ShapeDataToken       = "data.token"
	// ShapeNone answers a successful login without any token.
	ShapeNone = "none"
)

// LoginShapes lists every supported shape.
var LoginShapes = []string{ShapeToken, ShapeSession, ShapeAccessToken, ShapeDataAccessToken, ShapeDataToken, ShapeNone}

// Options configures a Server.
type Options struct {
	// LoginShape selects how the login token is wrapped. Default "token".
	LoginShape string
	// OpaqueTokens issues random session tokens instead of JWTs.
	OpaqueTokens bool
	// FixedToken, when set, is returned by every login.
	FixedToken string
	Secret     []byte
	TokenTTL   time.Duration
	// AllowedOrigins limits CORS. Empty allows any origin.
	AllowedOrigins []string
	// CODRequiresCart reproduces the backend issue where COD orders ignore
	// the posted items and fail with "Cart is empty".
	CODRequiresCart bool
	Environment     string
	Logger          *slog.Logger
}

// Request is one request seen by the server.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

// Server serves the fake API.
type Server struct {
	opts   Options
	store  *Store
	tokens *Tokens
	router chi.Router
	logger *slog.Logger

	mu   sync.Mutex
	seen []Request
}

type ctxKey struct{}

// New builds a Server.
func New(opts Options) (*Server, error) {
	if opts.LoginShape == "" {
		opts.LoginShape = ShapeToken
	}
	if !validShape(opts.LoginShape) {
		return nil, fmt.Errorf("unknown login shape %q (want one of %s)", opts.LoginShape, strings.Join(LoginShapes, ", "))
	}
	if opts.Environment == "" {
		opts.Environment = "development"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tokens, err := NewTokens(opts.Secret, opts.TokenTTL, opts.OpaqueTokens, opts.FixedToken)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:   opts,
		store:  NewStore(),
		tokens: tokens,
		logger: logger,
	}
	s.router = s.routes()
	return s, nil
}

func validShape(shape string) bool {
	for _, s := range LoginShapes {
		if s == shape {
			return true
		}
	}
	return false
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store exposes the backing state, mainly for tests.
func (s *Server) Store() *Store {
	return s.store
}

// Seen returns the requests received so far, preflights included.
func (s *Server) Seen() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.seen...)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.record)
	r.Use(s.cors)

	r.Get("/health", s.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
		})
	})

	r.Get("/categories", s.handleCategories)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.handleProducts)
		r.Get("/search/{query}", s.handleSearch)
		r.Get("/category/{slug}", s.handleProductsByCategory)
		r.Get("/{id}", s.handleProduct)
	})
	r.Get("/currency/currencies", s.handleCurrencies)
	r.Post("/currency/convert", s.handleConvert)

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/product/{productId}", s.handleProductReviews)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateReview)
			r.Get("/my-reviews", s.handleMyReviews)
			r.Delete("/{reviewId}", s.handleDeleteReview)
		})
	})

	r.Route("/profile", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/dashboard", s.handleDashboard)

		r.Get("/addresses", s.handleAddresses)
		r.Post("/addresses", s.handleAddAddress)
		r.Put("/addresses/{addressId}", s.handleUpdateAddress)
		r.Delete("/addresses/{addressId}", s.handleDeleteAddress)

		r.Get("/payment-methods", s.handlePaymentMethods)
		r.Post("/payment-methods", s.handleAddPaymentMethod)
		r.Put("/payment-methods/{paymentMethodId}", s.handleUpdatePaymentMethod)
		r.Delete("/payment-methods/{paymentMethodId}", s.handleDeletePaymentMethod)

		r.Get("/wishlist", s.handleWishlist)
		r.Post("/wishlist", s.handleAddToWishlist)
		r.Delete("/wishlist/{productId}", s.handleRemoveFromWishlist)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/cart", s.handleGetCart)
		r.Post("/cart/add", s.handleAddToCart)
		r.Put("/cart/items/{itemId}", s.handleUpdateCartItem)
		r.Delete("/cart/items/{itemId}", s.handleRemoveCartItem)

		r.Post("/payments/paypal/create-order", s.handleCreatePayPalOrder)
		r.Get("/payments/paypal/order/{id}", s.handleGetPayPalOrder)

		r.Post("/orders/create", s.handleCreateOrder)
		r.Get("/orders", s.handleOrders)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "Route not found")
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.seen = append(s.seen, Request{Method: r.Method, Path: r.URL.Path, Authorization: r.Header.Get("Authorization")})
		s.mu.Unlock()

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func (s *Server) originAllowed(origin string) bool {
	if len(s.opts.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range s.opts.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if origin != "" && s.originAllowed(origin) {
				h := w.Header()
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				h.Set("Access-Control-Max-Age", "600")
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			fail(w, http.StatusUnauthorized, "Access token required")
			return
		}
		userID, err := s.tokens.Verify(token)
		if err != nil {
			s.logger.Debug("token rejected", "error", err)
			fail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func ok(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}
