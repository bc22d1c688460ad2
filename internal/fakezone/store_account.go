package fakezone

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	Country   string    `json:"country"`
	Phone     string    `json:"phone"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

type PaymentMethod struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Details    string    `json:"details"`
	LastFour   string    `json:"last_four"`
	ExpiryDate string    `json:"expiry_date"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

type WishlistItem struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	DateAdded time.Time `json:"date_added"`
}

type Review struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ProductID  string    `json:"product_id"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewStats summarises the reviews of one product.
type ReviewStats struct {
	TotalReviews  int     `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
}

// Dashboard is the account overview of one user.
type Dashboard struct {
	TotalOrders     int     `json:"totalOrders"`
	ActiveDelivery  int     `json:"activeDeliveries"`
	CompletedOrders int     `json:"completedOrders"`
	TotalSpent      float64 `json:"totalSpent"`
	CartItems       int     `json:"cartItems"`
	WishlistItems   int     `json:"wishlistItems"`
}

// Addresses lists a user's addresses, default first, then newest first.
func (s *Store) Addresses(userID string) []Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Address{}
	for _, a := range s.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) AddAddress(userID string, a Address) Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.NewString()
	a.UserID = userID
	a.CreatedAt = s.now()
	if a.Type == "" {
		a.Type = "home"
	}
	if a.Country == "" {
		a.Country = "United States"
	}
	s.addresses[a.ID] = &a
	return a
}

// UpdateAddress applies update to an address the user owns.
func (s *Store) UpdateAddress(userID, id string, update func(*Address)) (Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.addresses[id]
	if !ok {
		return Address{}, ErrNotFound
	}
	if a.UserID != userID {
		return Address{}, ErrNotOwner
	}
	update(a)
	return *a, nil
}

func (s *Store) DeleteAddress(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.addresses[id]
	if !ok {
		return ErrNotFound
	}
	if a.UserID != userID {
		return ErrNotOwner
	}
	delete(s.addresses, id)
	return nil
}

// PaymentMethods lists a user's payment methods, default first, then newest
// first.
func (s *Store) PaymentMethods(userID string) []PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []PaymentMethod{}
	for _, m := range s.payments {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) AddPaymentMethod(userID string, m PaymentMethod) PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.NewString()
	m.UserID = userID
	m.CreatedAt = s.now()
	if m.Type == "" {
		m.Type = "card"
	}
	s.payments[m.ID] = &m
	return m
}

func (s *Store) UpdatePaymentMethod(userID, id string, update func(*PaymentMethod)) (PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.payments[id]
	if !ok {
		return PaymentMethod{}, ErrNotFound
	}
	if m.UserID != userID {
		return PaymentMethod{}, ErrNotOwner
	}
	update(m)
	return *m, nil
}

func (s *Store) DeletePaymentMethod(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.payments[id]
	if !ok {
		return ErrNotFound
	}
	if m.UserID != userID {
		return ErrNotOwner
	}
	delete(s.payments, id)
	return nil
}

// Wishlist returns the user's wishlist with the product of each entry,
// newest first. Entries for unknown or inactive products are skipped.
func (s *Store) Wishlist(userID string) ([]WishlistItem, []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := append([]WishlistItem(nil), s.wishlist[userID]...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].DateAdded.After(entries[j].DateAdded) })

	items := make([]WishlistItem, 0, len(entries))
	products := make([]Product, 0, len(entries))
	for _, e := range entries {
		p, err := s.productLocked(e.ProductID)
		if err != nil || !p.IsActive {
			continue
		}
		items = append(items, e)
		products = append(products, p)
	}
	return items, products
}

func (s *Store) AddToWishlist(userID, productID string) (WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.productLocked(productID); err != nil {
		return WishlistItem{}, err
	}
	for _, e := range s.wishlist[userID] {
		if e.ProductID == productID {
			return WishlistItem{}, ErrDuplicate
		}
	}
	item := WishlistItem{ID: uuid.NewString(), ProductID: productID, DateAdded: s.now()}
	s.wishlist[userID] = append(s.wishlist[userID], item)
	return item, nil
}

// RemoveFromWishlist drops a product from the wishlist. Removing a product
// that is not listed is not an error.
func (s *Store) RemoveFromWishlist(userID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.wishlist[userID]
	for i, e := range list {
		if e.ProductID == productID {
			s.wishlist[userID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// CreateReview stores a review. Each user reviews a product at most once.
func (s *Store) CreateReview(userID, productID string, rating int, text string) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.productLocked(productID); err != nil {
		return Review{}, err
	}
	for _, r := range s.reviews {
		if r.UserID == userID && r.ProductID == productID {
			return Review{}, ErrDuplicate
		}
	}
	r := Review{
		ID:         uuid.NewString(),
		UserID:     userID,
		ProductID:  productID,
		Rating:     rating,
		ReviewText: text,
		CreatedAt:  s.now(),
	}
	s.reviews = append(s.reviews, r)
	return r, nil
}

// ProductReviews returns a product's reviews, newest first, with stats.
func (s *Store) ProductReviews(productID string) ([]Review, ReviewStats) {
	return s.filterReviews(func(r Review) bool { return r.ProductID == productID })
}

func (s *Store) UserReviews(userID string) []Review {
	out, _ := s.filterReviews(func(r Review) bool { return r.UserID == userID })
	return out
}

func (s *Store) filterReviews(keep func(Review) bool) ([]Review, ReviewStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Review{}
	var stats ReviewStats
	var sum int
	for _, r := range s.reviews {
		if keep(r) {
			out = append(out, r)
			sum += r.Rating
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	stats.TotalReviews = len(out)
	if len(out) > 0 {
		stats.AverageRating = float64(sum) / float64(len(out))
	}
	return out, stats
}

func (s *Store) DeleteReview(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reviews {
		if r.ID != id {
			continue
		}
		if r.UserID != userID {
			return ErrNotOwner
		}
		s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
		return nil
	}
	return ErrNotFound
}

// Dashboard counts the user's orders, cart lines and wishlist entries.
func (s *Store) Dashboard(userID string) (Dashboard, []Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := append([]Order{}, s.orders[userID]...)
	d := Dashboard{
		TotalOrders:   len(orders),
		CartItems:     len(s.cartLocked(userID).Items),
		WishlistItems: len(s.wishlist[userID]),
	}
	for _, o := range orders {
		switch o.Status {
		case "processing", "shipped":
			d.ActiveDelivery++
		case "delivered":
			d.CompletedOrders++
		}
		d.TotalSpent += o.Total
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	if len(orders) > 3 {
		orders = orders[:3]
	}
	return d, orders
}
