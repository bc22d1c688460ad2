package fakezone

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	ok(w, http.StatusOK, s.store.Categories())
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil || limit < 0 {
		fail(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	all := s.store.Products(0, nil)
	page := s.store.Products(limit, nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       page,
		"pagination": map[string]any{"total": len(all), "limit": limit},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "query")))
	if q == "" {
		fail(w, http.StatusBadRequest, "Search query is required")
		return
	}
	results := s.store.Products(0, func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q)
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"data":        results,
		"searchQuery": q,
		"pagination":  map[string]any{"totalCount": len(results)},
	})
}

func (s *Server) handleProductsByCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !s.store.HasCategory(slug) {
		fail(w, http.StatusNotFound, "Category not found")
		return
	}
	ok(w, http.StatusOK, s.store.Products(0, func(p Product) bool { return p.Category == slug }))
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Product(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusNotFound, "Product not found")
		return
	}
	ok(w, http.StatusOK, p)
}

// rates are units of each currency per rupee.
var rates = []struct {
	Code   string
	Symbol string
	Rate   float64
}{
	{"INR", "₹", 1},
	{"USD", "$", 0.012},
	{"EUR", "€", 0.011},
}

func rate(code string) (float64, bool) {
	for _, r := range rates {
		if r.Code == code {
			return r.Rate, true
		}
	}
	return 0, false
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	out := make([]map[string]any, len(rates))
	for i, c := range rates {
		out[i] = map[string]any{"code": c.Code, "symbol": c.Symbol, "rate": c.Rate}
	}
	ok(w, http.StatusOK, out)
}

type convertRequest struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Amount must be a positive number")
		return
	}
	if req.Amount == 0 || req.From == "" || req.To == "" {
		fail(w, http.StatusBadRequest, "Missing required parameters: amount, from, to")
		return
	}
	if req.Amount < 0 {
		fail(w, http.StatusBadRequest, "Amount must be a positive number")
		return
	}
	from, okFrom := rate(req.From)
	to, okTo := rate(req.To)
	if !okFrom || !okTo {
		fail(w, http.StatusBadRequest, "Unsupported currency")
		return
	}
	exchange := to / from
	ok(w, http.StatusOK, map[string]any{
		"original":     map[string]any{"amount": req.Amount, "currency": req.From},
		"converted":    map[string]any{"amount": math.Round(req.Amount*exchange*100) / 100, "currency": req.To},
		"exchangeRate": exchange,
	})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
