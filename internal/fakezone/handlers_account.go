package fakezone

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.UserByID(userID(r))
	if err != nil {
		fail(w, http.StatusNotFound, "User not found")
		return
	}
	stats, recent := s.store.Dashboard(u.ID)
	name := u.FullName
	if name == "" {
		name = "User"
	}
	ok(w, http.StatusOK, map[string]any{
		"user":         map[string]any{"name": name, "memberSince": u.CreatedAt},
		"stats":        stats,
		"recentOrders": recent,
	})
}

type addressRequest struct {
	Type      *string `json:"type"`
	Name      *string `json:"name"`
	Street    *string `json:"street"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	ZipCode   *string `json:"zip_code"`
	Country   *string `json:"country"`
	Phone     *string `json:"phone"`
	IsDefault *bool   `json:"is_default"`
}

func (req addressRequest) apply(a *Address) {
	set(&a.Type, req.Type)
	set(&a.Name, req.Name)
	set(&a.Street, req.Street)
	set(&a.City, req.City)
	set(&a.State, req.State)
	set(&a.ZipCode, req.ZipCode)
	set(&a.Country, req.Country)
	set(&a.Phone, req.Phone)
	set(&a.IsDefault, req.IsDefault)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (s *Server) handleAddresses(w http.ResponseWriter, r *http.Request) {
	ok(w, http.StatusOK, s.store.Addresses(userID(r)))
}

func (s *Server) handleAddAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	for _, v := range []*string{req.Name, req.Street, req.City, req.State, req.ZipCode} {
		if v == nil || *v == "" {
			fail(w, http.StatusBadRequest, "Name, street, city, state, and zip code are required")
			return
		}
	}
	var a Address
	req.apply(&a)
	created(w, "Address added successfully", s.store.AddAddress(userID(r), a))
}

func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	a, err := s.store.UpdateAddress(userID(r), chi.URLParam(r, "addressId"), req.apply)
	if err != nil {
		ownershipFailure(w, err, "Address")
		return
	}
	ok(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAddress(userID(r), chi.URLParam(r, "addressId")); err != nil {
		ownershipFailure(w, err, "Address")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Address deleted successfully"})
}

type paymentMethodRequest struct {
	Type       *string `json:"type"`
	Name       *string `json:"name"`
	Details    *string `json:"details"`
	LastFour   *string `json:"last_four"`
	ExpiryDate *string `json:"expiry_date"`
	IsDefault  *bool   `json:"is_default"`
}

func (req paymentMethodRequest) apply(m *PaymentMethod) {
	set(&m.Type, req.Type)
	set(&m.Name, req.Name)
	set(&m.Details, req.Details)
	set(&m.LastFour, req.LastFour)
	set(&m.ExpiryDate, req.ExpiryDate)
	set(&m.IsDefault, req.IsDefault)
}

func (s *Server) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	ok(w, http.StatusOK, s.store.PaymentMethods(userID(r)))
}

func (s *Server) handleAddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Name == nil || *req.Name == "" || req.Details == nil || *req.Details == "" {
		fail(w, http.StatusBadRequest, "Name and details are required")
		return
	}
	var m PaymentMethod
	req.apply(&m)
	created(w, "Payment method added successfully", s.store.AddPaymentMethod(userID(r), m))
}

func (s *Server) handleUpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	m, err := s.store.UpdatePaymentMethod(userID(r), chi.URLParam(r, "paymentMethodId"), req.apply)
	if err != nil {
		ownershipFailure(w, err, "Payment method")
		return
	}
	ok(w, http.StatusOK, m)
}

func (s *Server) handleDeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePaymentMethod(userID(r), chi.URLParam(r, "paymentMethodId")); err != nil {
		ownershipFailure(w, err, "Payment method")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Payment method deleted successfully"})
}

func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	items, products := s.store.Wishlist(userID(r))
	out := make([]map[string]any, len(items))
	for i, it := range items {
		p := products[i]
		out[i] = map[string]any{
			"id":             p.ID,
			"title":          p.Name,
			"price":          p.Price,
			"inStock":        p.Stock > 0,
			"dateAdded":      it.DateAdded,
			"wishlistItemId": it.ID,
		}
	}
	ok(w, http.StatusOK, out)
}

type wishlistRequest struct {
	ProductID string `json:"product_id"`
}

func (s *Server) handleAddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ProductID == "" {
		fail(w, http.StatusBadRequest, "Product ID is required")
		return
	}
	item, err := s.store.AddToWishlist(userID(r), req.ProductID)
	switch {
	case errors.Is(err, ErrDuplicate):
		fail(w, http.StatusBadRequest, "Product is already in wishlist")
	case errors.Is(err, ErrNotFound):
		fail(w, http.StatusNotFound, "Product not found")
	case err != nil:
		fail(w, http.StatusInternalServerError, err.Error())
	default:
		created(w, "Item added to wishlist successfully", item)
	}
}

func (s *Server) handleRemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	s.store.RemoveFromWishlist(userID(r), chi.URLParam(r, "productId"))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Item removed from wishlist successfully"})
}

func created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": message, "data": data})
}

// ownershipFailure maps store lookup errors for records owned by one user.
func ownershipFailure(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, ErrNotFound):
		fail(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, ErrNotOwner):
		fail(w, http.StatusForbidden, "Unauthorized to modify this "+strings.ToLower(what))
	default:
		fail(w, http.StatusInternalServerError, err.Error())
	}
}
