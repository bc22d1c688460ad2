package fakezone

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	ok(w, http.StatusOK, s.store.Cart(userID(r)))
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ProductID == "" {
		fail(w, http.StatusBadRequest, "productId is required")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	item, cart, err := s.store.AddToCart(userID(r), req.ProductID, req.Quantity)
	if errors.Is(err, ErrNotFound) {
		fail(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Item added to cart",
		"data":    map[string]any{"item": item, "cart": cart},
	})
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartRequest
	if err := decode(r, &req); err != nil || req.Quantity <= 0 {
		fail(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}
	item, err := s.store.UpdateCartItem(userID(r), chi.URLParam(r, "itemId"), req.Quantity)
	if err != nil {
		fail(w, http.StatusNotFound, "Cart item not found")
		return
	}
	ok(w, http.StatusOK, item)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveCartItem(userID(r), chi.URLParam(r, "itemId")); err != nil {
		fail(w, http.StatusNotFound, "Cart item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Item removed from cart"})
}

type paypalOrderRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (s *Server) handleCreatePayPalOrder(w http.ResponseWriter, r *http.Request) {
	var req paypalOrderRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if _, err := strconv.ParseFloat(req.Amount, 64); err != nil {
		fail(w, http.StatusBadRequest, "amount is required")
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	o := s.store.CreatePayPalOrder(userID(r), req.Amount, req.Currency)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      o.ID,
		"status":  o.Status,
		"success": true,
		"data":    o,
	})
}

func (s *Server) handleGetPayPalOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.store.PayPalOrder(userID(r), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusNotFound, "PayPal order not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": o.ID, "status": o.Status, "success": true, "data": o})
}

type orderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	PaymentMethod string      `json:"payment_method"`
	Items         []orderItem `json:"items"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.PaymentMethod == "" {
		fail(w, http.StatusBadRequest, "payment_method is required")
		return
	}

	items := make([]CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		p, err := s.store.Product(it.ProductID)
		if err != nil {
			fail(w, http.StatusBadRequest, "Unknown product "+it.ProductID)
			return
		}
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, CartItem{ProductID: p.ID, Quantity: qty, Price: p.Price})
	}

	order, err := s.store.CreateOrder(userID(r), req.PaymentMethod, items, s.opts.CODRequiresCart)
	if errors.Is(err, ErrCartEmpty) {
		fail(w, http.StatusBadRequest, "Cart is empty")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"order_id": order.ID,
		"data":     order,
	})
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	ok(w, http.StatusOK, s.store.Orders(userID(r)))
}
