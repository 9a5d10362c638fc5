package storefront

import (
	"sync"
)

// Session is the client-side state of one shopper: the auth token, the signed-in user and
// the cart. When signed in, every cart mutation pushes the whole cart to the server; the
// local cart is kept even if the push fails and the error is returned.
type Session struct {
	api *Client

	mu    sync.Mutex
	token string
	user  *User
	cart  []CartItem
}

// NewSession creates an anonymous session with an empty cart.
func NewSession(api *Client) *Session {
	return &Session{api: api}
}

// Token returns the bearer token, empty when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Cart returns a copy of the cart lines.
func (s *Session) Cart() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CartItem(nil), s.cart...)
}

// Total is the sum of price times quantity over the cart, without delivery.
func (s *Session) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, item := range s.cart {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// Count is the number of units in the cart.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, item := range s.cart {
		n += item.Quantity
	}
	return n
}

// AddToCart adds item.Quantity units (at least one) of a product. An existing line keeps
// its snapshot and only grows.
func (s *Session) AddToCart(item CartItem) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return s.mutate(func(cart []CartItem) []CartItem {
		for i := range cart {
			if cart[i].ID == item.ID {
				cart[i].Quantity += item.Quantity
				return cart
			}
		}
		return append(cart, item)
	})
}

// SetQuantity sets the quantity of a line. Zero or less removes it.
func (s *Session) SetQuantity(id string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(id)
	}
	return s.mutate(func(cart []CartItem) []CartItem {
		for i := range cart {
			if cart[i].ID == id {
				cart[i].Quantity = quantity
			}
		}
		return cart
	})
}

// Remove drops a line from the cart.
func (s *Session) Remove(id string) error {
	return s.mutate(func(cart []CartItem) []CartItem {
		kept := cart[:0]
		for _, item := range cart {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		return kept
	})
}

// Clear empties the cart.
func (s *Session) Clear() error {
	return s.mutate(func([]CartItem) []CartItem { return nil })
}

// Login signs in and adopts the saved server cart when it has any lines. Otherwise the
// local cart is kept and pushed to the account.
func (s *Session) Login(email, password string) error {
	res, err := s.api.Login(email, password)
	if err != nil {
		return err
	}
	return s.adopt(res)
}

// LoginWithGoogle signs in with a Google ID token, merging carts like Login.
func (s *Session) LoginWithGoogle(idToken string) error {
	res, err := s.api.LoginWithGoogle(idToken)
	if err != nil {
		return err
	}
	return s.adopt(res)
}

func (s *Session) adopt(res *AuthResult) error {
	serverCart, err := s.api.GetCart(res.Token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = res.Token
	user := res.User
	s.user = &user
	if len(serverCart) > 0 {
		s.cart = serverCart
		s.mu.Unlock()
		return nil
	}
	local := append([]CartItem(nil), s.cart...)
	s.mu.Unlock()

	if len(local) == 0 {
		return nil
	}
	return s.api.PutCart(res.Token, local)
}

// Logout resets the token, the user and the cart. The server is notified on a best-effort basis.
func (s *Session) Logout() {
	s.mu.Lock()
	token := s.token
	s.token = ""
	s.user = nil
	s.cart = nil
	s.mu.Unlock()

	if token != "" {
		_ = s.api.Logout(token)
	}
}

// PlaceOrder submits the cart as an order and clears the cart once the order is accepted.
func (s *Session) PlaceOrder(checkout Checkout) (*Order, error) {
	s.mu.Lock()
	token := s.token
	items := append([]CartItem(nil), s.cart...)
	s.mu.Unlock()

	order, err := s.api.PlaceOrder(token, checkout, items)
	if err != nil {
		return nil, err
	}
	if err := s.Clear(); err != nil {
		return order, err
	}
	return order, nil
}

// mutate applies fn to the cart under the lock and then syncs a snapshot when signed in.
func (s *Session) mutate(fn func([]CartItem) []CartItem) error {
	s.mu.Lock()
	s.cart = fn(s.cart)
	token := s.token
	snapshot := append([]CartItem(nil), s.cart...)
	s.mu.Unlock()

	if token == "" {
		return nil
	}
	return s.api.PutCart(token, snapshot)
}
