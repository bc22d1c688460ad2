package fakezone

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Endpoints lists the routes served, for startup banners.
var Endpoints = []string{
	"GET    /health",
	"POST   /auth/register",
	"POST   /auth/login",
	"GET    /auth/profile            (auth)",
	"PUT    /auth/profile            (auth)",
	"GET    /products?limit=",
	"GET    /products/{id}",
	"GET    /products/search/{query}",
	"GET    /products/category/{slug}",
	"GET    /categories",
	"GET    /currency/currencies",
	"POST   /currency/convert",
	"GET    /reviews/product/{productId}",
	"POST   /reviews                 (auth)",
	"GET    /reviews/my-reviews      (auth)",
	"DELETE /reviews/{reviewId}      (auth)",
	"GET    /profile/dashboard       (auth)",
	"GET    /profile/addresses       (auth)",
	"POST   /profile/addresses       (auth)",
	"PUT    /profile/addresses/{addressId} (auth)",
	"DELETE /profile/addresses/{addressId} (auth)",
	"GET    /profile/payment-methods (auth)",
	"POST   /profile/payment-methods (auth)",
	"PUT    /profile/payment-methods/{paymentMethodId} (auth)",
	"DELETE /profile/payment-methods/{paymentMethodId} (auth)",
	"GET    /profile/wishlist        (auth)",
	"POST   /profile/wishlist        (auth)",
	"DELETE /profile/wishlist/{productId} (auth)",
	"GET    /cart                    (auth)",
	"POST   /cart/add                (auth)",
	"PUT    /cart/items/{itemId}     (auth)",
	"DELETE /cart/items/{itemId}     (auth)",
	"POST   /payments/paypal/create-order (auth)",
	"GET    /payments/paypal/order/{id}   (auth)",
	"POST   /orders/create           (auth)",
	"GET    /orders                  (auth)",
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) Serve(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}
	s.logger.Info("fakezone listening", "addr", ln.Addr().String(), "login_shape", s.opts.LoginShape)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("fakezone shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
