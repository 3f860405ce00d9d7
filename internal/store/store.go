// Package store keeps per-session client state. Nothing here is persisted;
// a new session starts empty.
package store

import (
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartStore = (*CartStore)(nil)
var _ port.AddressStore = (*AddressStore)(nil)

// A CartStore holds the last known cart. Updates replace it wholesale.
type CartStore struct {
	mu   sync.RWMutex
	cart domain.Cart
	set  bool
}

func NewCartStore() *CartStore {
	return &CartStore{}
}

func (s *CartStore) Cart() (domain.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return domain.Cart{}, false
	}
	return s.cart.Clone(), true
}

func (s *CartStore) SetCart(c domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = c.Clone()
	s.set = true
}

// An AddressStore remembers the shipping address chosen for checkout.
type AddressStore struct {
	mu       sync.RWMutex
	selected string
}

func NewAddressStore() *AddressStore {
	return &AddressStore{}
}

func (s *AddressStore) SelectedAddressID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != ""
}

func (s *AddressStore) SelectAddress(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

func (s *AddressStore) ClearSelectedAddress() {
	s.SelectAddress("")
}
