package fakezone

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserExists     = errors.New("user already exists")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrNotFound       = errors.New("not found")
	ErrCartEmpty      = errors.New("cart is empty")
	ErrNotOwner       = errors.New("record belongs to another user")
	ErrDuplicate      = errors.New("already exists")
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	password  string
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock_quantity"`
	IsActive   bool    `json:"is_active"`
	CategoryID string  `json:"category_id"`
}

type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type Order struct {
	ID            string     `json:"id"`
	OrderNumber   string     `json:"order_number"`
	UserID        string     `json:"user_id"`
	PaymentMethod string     `json:"payment_method"`
	Status        string     `json:"status"`
	Items         []CartItem `json:"items"`
	Total         float64    `json:"total_amount"`
	CreatedAt     time.Time  `json:"created_at"`
}

type PayPalOrder struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	userID   string
}

// Store holds all backend state in memory.
type Store struct {
	mu           sync.Mutex
	users        map[string]*User // by email
	categories   []Category
	products     []Product
	carts        map[string]*Cart // by user id
	orders       map[string][]Order
	paypalOrders map[string]*PayPalOrder
	addresses    map[string]*Address // by id
	payments     map[string]*PaymentMethod
	wishlist     map[string][]WishlistItem // by user id
	reviews      []Review
	now          func() time.Time
}

// NewStore returns a store seeded with a small catalog.
func NewStore() *Store {
	s := &Store{
		users:        make(map[string]*User),
		carts:        make(map[string]*Cart),
		orders:       make(map[string][]Order),
		paypalOrders: make(map[string]*PayPalOrder),
		addresses:    make(map[string]*Address),
		payments:     make(map[string]*PaymentMethod),
		wishlist:     make(map[string][]WishlistItem),
		now:          time.Now,
	}
	s.seedCatalog()
	return s
}

func (s *Store) seedCatalog() {
	electronics := Category{ID: uuid.NewString(), Name: "Electronics", Slug: "electronics"}
	fashion := Category{ID: uuid.NewString(), Name: "Fashion", Slug: "fashion"}
	s.categories = []Category{electronics, fashion}

	add := func(name string, cat Category, price float64, stock int) {
		s.products = append(s.products, Product{
			ID:         uuid.NewString(),
			Name:       name,
			Category:   cat.Slug,
			CategoryID: cat.ID,
			Price:      price,
			Stock:      stock,
			IsActive:   true,
		})
	}
	add("Wireless Headphones", electronics, 2499, 40)
	add("Smartphone Stand", electronics, 499, 120)
	add("Cotton Shirt", fashion, 899, 60)
}

func (s *Store) CreateUser(email, password, fullName, phone string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.users[key]; ok {
		return User{}, ErrUserExists
	}
	u := &User{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  fullName,
		Phone:     phone,
		CreatedAt: s.now(),
		password:  password,
	}
	s.users[key] = u
	return *u, nil
}

func (s *Store) Authenticate(email, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.ToLower(email)]
	if !ok || u.password != password {
		return User{}, ErrBadCredentials
	}
	return *u, nil
}

func (s *Store) UserByID(id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return *u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *Store) UpdateProfile(id, fullName, phone string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID != id {
			continue
		}
		if fullName != "" {
			u.FullName = fullName
		}
		if phone != "" {
			u.Phone = phone
		}
		return *u, nil
	}
	return User{}, ErrNotFound
}

func (s *Store) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Category(nil), s.categories...)
}

// Products returns up to limit products matching filter. limit <= 0 means all.
func (s *Store) Products(limit int, filter func(Product) bool) []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if filter != nil && !filter(p) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (s *Store) Product(id string) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productLocked(id)
}

func (s *Store) productLocked(id string) (Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (s *Store) HasCategory(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

func (s *Store) cartLocked(userID string) *Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = &Cart{ID: uuid.NewString(), Items: []CartItem{}}
		s.carts[userID] = c
	}
	return c
}

func (s *Store) Cart(userID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotCart(s.cartLocked(userID))
}

// AddToCart adds quantity of a product, merging with an existing line.
func (s *Store) AddToCart(userID, productID string, quantity int) (CartItem, Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.productLocked(productID)
	if err != nil {
		return CartItem{}, Cart{}, err
	}
	c := s.cartLocked(userID)
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return c.Items[i], snapshotCart(c), nil
		}
	}
	item := CartItem{ID: uuid.NewString(), ProductID: p.ID, Quantity: quantity, Price: p.Price}
	c.Items = append(c.Items, item)
	return item, snapshotCart(c), nil
}

func (s *Store) UpdateCartItem(userID, itemID string, quantity int) (CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartLocked(userID)
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			return c.Items[i], nil
		}
	}
	return CartItem{}, ErrNotFound
}

func (s *Store) RemoveCartItem(userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartLocked(userID)
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) CreatePayPalOrder(userID, amount, currency string) PayPalOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := &PayPalOrder{
		ID:       "PAYPAL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:17]),
		Status:   "CREATED",
		Amount:   amount,
		Currency: currency,
		userID:   userID,
	}
	s.paypalOrders[o.ID] = o
	return *o
}

func (s *Store) PayPalOrder(userID, id string) (PayPalOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.paypalOrders[id]
	if !ok || o.userID != userID {
		return PayPalOrder{}, ErrNotFound
	}
	return *o, nil
}

// CreateOrder places an order from items, or from the cart when cartOnly is
// set. The cart is emptied when it was used.
func (s *Store) CreateOrder(userID, method string, items []CartItem, cartOnly bool) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(userID)
	fromCart := cartOnly || len(items) == 0
	if fromCart {
		if len(c.Items) == 0 {
			return Order{}, ErrCartEmpty
		}
		items = append([]CartItem(nil), c.Items...)
	}

	o := Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		PaymentMethod: method,
		Status:        "pending",
		Items:         items,
		CreatedAt:     s.now(),
	}
	o.OrderNumber = "RZ-" + strings.ToUpper(o.ID[:8])
	for _, it := range items {
		o.Total += it.Price * float64(it.Quantity)
	}
	s.orders[userID] = append(s.orders[userID], o)
	if fromCart {
		c.Items = []CartItem{}
	}
	return o, nil
}

func (s *Store) Orders(userID string) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Order{}, s.orders[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func snapshotCart(c *Cart) Cart {
	out := Cart{ID: c.ID, Items: append([]CartItem{}, c.Items...)}
	for _, it := range out.Items {
		out.Total += it.Price * float64(it.Quantity)
	}
	return out
}
