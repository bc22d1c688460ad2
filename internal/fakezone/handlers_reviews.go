package fakezone

import (
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleProductReviews(w http.ResponseWriter, r *http.Request) {
	reviews, stats := s.store.ProductReviews(chi.URLParam(r, "productId"))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       reviews,
		"pagination": map[string]any{"totalCount": len(reviews)},
		"stats":      stats,
	})
}

func (s *Server) handleMyReviews(w http.ResponseWriter, r *http.Request) {
	reviews := s.store.UserReviews(userID(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       reviews,
		"pagination": map[string]any{"totalCount": len(reviews)},
	})
}

type reviewRequest struct {
	ProductID  string `json:"productId"`
	Rating     any    `json:"rating"`
	ReviewText string `json:"reviewText"`
}

// rating accepts a number or a numeric string, as form posts send strings.
func (req reviewRequest) rating() (int, bool) {
	switch v := req.Rating.(type) {
	case float64:
		return int(v), v == float64(int(v))
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.ProductID == "" || req.Rating == nil || req.ReviewText == "" {
		fail(w, http.StatusBadRequest, "Missing required fields: productId, rating, reviewText")
		return
	}
	rating, valid := req.rating()
	if !valid || rating < 1 || rating > 5 {
		fail(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}
	if n := utf8.RuneCountInString(req.ReviewText); n < 10 || n > 2000 {
		fail(w, http.StatusBadRequest, "Review text must be between 10 and 2000 characters")
		return
	}

	review, err := s.store.CreateReview(userID(r), req.ProductID, rating, req.ReviewText)
	switch {
	case errors.Is(err, ErrDuplicate):
		fail(w, http.StatusBadRequest, "You have already reviewed this product")
	case errors.Is(err, ErrNotFound):
		fail(w, http.StatusBadRequest, "Product not found")
	case err != nil:
		fail(w, http.StatusInternalServerError, err.Error())
	default:
		created(w, "Review created successfully", review)
	}
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteReview(userID(r), chi.URLParam(r, "reviewId")); err != nil {
		ownershipFailure(w, err, "Review")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Review deleted successfully"})
}
