package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type cartMode int

const (
	cartModeUnknown cartMode = iota
	cartModeAnonymous
	cartModeAuthenticated
)

// CartSnapshot is a consistent read of the cart for presentation.
type CartSnapshot struct {
	Lines         []domain.CartLine `json:"items"`
	Total         float64           `json:"total"`
	ItemCount     int               `json:"itemCount"`
	Loading       bool              `json:"loading"`
	Authenticated bool              `json:"authenticated"`
}

// CartState owns the in-memory cart and decides which realization backs it:
// the cart storage key while anonymous, the remote cart service while an
// identity is resident. Local state is updated first; remote calls are
// best effort and their failures are only logged.
type CartState struct {
	remote  domain.CartService
	store   domain.Storage
	log     *logrus.Logger
	timeout time.Duration

	mu         sync.RWMutex
	cart       *domain.Cart
	mode       cartMode
	ownerID    string
	generation uint64
	loading    bool

	inflight    sync.WaitGroup
	unsubscribe func()
}

// NewCartState subscribes the cart to identity transitions. timeout bounds
// every background remote call.
func NewCartState(auth IdentityNotifier, remote domain.CartService, store domain.Storage, timeout time.Duration, logger *logrus.Logger) *CartState {
	c := &CartState{
		remote:  remote,
		store:   store,
		log:     logger,
		timeout: timeout,
		cart:    domain.NewCart(nil),
		loading: true,
	}
	c.unsubscribe = auth.Subscribe(c.handleIdentityChange)
	return c
}

// Close stops following identity transitions.
func (c *CartState) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

func (c *CartState) handleIdentityChange(prev, next *domain.Identity) {
	if next == nil {
		c.enterAnonymous()
		return
	}
	c.enterAuthenticated(next)
}

func (c *CartState) enterAnonymous() {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous := c.mode
	c.mode = cartModeAnonymous
	c.ownerID = ""
	c.generation++
	c.loading = false

	if previous == cartModeUnknown {
		c.cart = domain.NewCart(c.readLocal())
		c.log.Infof("CartState: Loaded guest cart with %d lines", c.cart.Len())
		return
	}

	c.cart = domain.NewCart(nil)
	if err := c.store.Delete(domain.KeyCart); err != nil {
		c.log.Errorf("CartState: Failed to delete stored cart on logout: %v", err)
	}
	c.log.Info("CartState: Cart cleared after logout")
}

// enterAuthenticated discards the in-memory cart and starts a fresh fetch
// of the remote cart. The guest cart is not merged into the remote one.
func (c *CartState) enterAuthenticated(identity *domain.Identity) {
	c.mu.Lock()
	if c.mode == cartModeAuthenticated && c.ownerID == identity.ID {
		c.mu.Unlock()
		return
	}
	if c.mode == cartModeAnonymous && c.cart.Len() > 0 {
		c.log.Infof("CartState: Discarding guest cart with %d lines, remote cart is authoritative for user %s", c.cart.Len(), identity.ID)
	}
	c.mode = cartModeAuthenticated
	c.ownerID = identity.ID
	c.generation++
	gen := c.generation
	c.cart = domain.NewCart(nil)
	c.loading = true
	c.mu.Unlock()

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		c.loadRemote(ctx, gen)
	}()
}

func (c *CartState) loadRemote(ctx context.Context, gen uint64) {
	remote, err := c.remote.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.log.Debug("CartState: Dropping remote cart fetched for a superseded session")
		return
	}
	c.loading = false
	if err != nil {
		c.log.Errorf("CartState: Cart sync failed: %v", err)
		c.cart = domain.NewCart(nil)
		if delErr := c.store.Delete(domain.KeyCart); delErr != nil {
			c.log.Errorf("CartState: Failed to delete stored cart: %v", delErr)
		}
		return
	}
	c.cart = domain.NewCart(remote.Lines())
	c.persistLocked()
	c.log.Infof("CartState: Remote cart loaded with %d lines", c.cart.Len())
}

// Resync refetches the remote cart and replaces the in-memory cart with it.
// It is a no-op while anonymous. Unlike the login fetch, a failure keeps the
// current cart and is returned to the caller.
func (c *CartState) Resync(ctx context.Context) error {
	c.mu.RLock()
	authed := c.mode == cartModeAuthenticated
	gen := c.generation
	c.mu.RUnlock()
	if !authed {
		return nil
	}

	remote, err := c.remote.Fetch(ctx)
	if err != nil {
		c.log.Warnf("CartState: Resync failed: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.cart = domain.NewCart(remote.Lines())
	c.loading = false
	c.persistLocked()
	c.log.Debugf("CartState: Resynced cart with %d lines", c.cart.Len())
	return nil
}

// RunResync calls Resync every interval until ctx is done. A non-positive
// interval disables it.
func (c *CartState) RunResync(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rctx, cancel := context.WithTimeout(ctx, c.timeout)
			_ = c.Resync(rctx)
			cancel()
		}
	}
}

// AddItem increments the product's line or adds a new one with quantity 1.
func (c *CartState) AddItem(product domain.Product) error {
	if strings.TrimSpace(product.ID) == "" {
		return domain.Invalid("invalid product")
	}

	c.mu.Lock()
	c.cart.Add(product)
	c.persistLocked()
	authed := c.mode == cartModeAuthenticated
	c.mu.Unlock()

	if authed {
		c.propagate("addToCart", func(ctx context.Context) error {
			return c.remote.Add(ctx, product.ID, 1)
		})
	}
	return nil
}

// UpdateQuantity sets the quantity exactly; qty < 1 removes the line.
func (c *CartState) UpdateQuantity(productID string, qty int) {
	if qty < 1 {
		c.RemoveItem(productID)
		return
	}

	c.mu.Lock()
	c.cart.SetQuantity(productID, qty)
	c.persistLocked()
	authed := c.mode == cartModeAuthenticated
	c.mu.Unlock()

	if authed {
		c.propagate("updateQty", func(ctx context.Context) error {
			return c.remote.Update(ctx, productID, qty)
		})
	}
}

func (c *CartState) RemoveItem(productID string) {
	c.mu.Lock()
	c.cart.Remove(productID)
	c.persistLocked()
	authed := c.mode == cartModeAuthenticated
	c.mu.Unlock()

	if authed {
		c.propagate("removeFromCart", func(ctx context.Context) error {
			return c.remote.Remove(ctx, productID)
		})
	}
}

func (c *CartState) Clear() {
	c.mu.Lock()
	c.cart = domain.NewCart(nil)
	if err := c.store.Delete(domain.KeyCart); err != nil {
		c.log.Errorf("CartState: Failed to delete stored cart: %v", err)
	}
	authed := c.mode == cartModeAuthenticated
	c.mu.Unlock()

	if authed {
		c.propagate("clearCart", func(ctx context.Context) error {
			return c.remote.Clear(ctx)
		})
	}
}

// propagate runs a remote cart call in the background. Its outcome is only
// logged; the optimistic local change is never rolled back.
func (c *CartState) propagate(op string, call func(ctx context.Context) error) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if err := call(ctx); err != nil {
			c.log.Errorf("CartState: Backend %s failed: %v", op, err)
			return
		}
		c.log.Debugf("CartState: Backend %s succeeded", op)
	}()
}

// Wait blocks until all background remote calls have finished.
func (c *CartState) Wait() {
	c.inflight.Wait()
}

func (c *CartState) Contains(productID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.Contains(productID)
}

func (c *CartState) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.Total()
}

func (c *CartState) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.ItemCount()
}

func (c *CartState) Lines() []domain.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.Clone()
}

func (c *CartState) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.Len() == 0
}

func (c *CartState) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *CartState) Snapshot() CartSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CartSnapshot{
		Lines:         c.cart.Clone(),
		Total:         c.cart.Total(),
		ItemCount:     c.cart.ItemCount(),
		Loading:       c.loading,
		Authenticated: c.mode == cartModeAuthenticated,
	}
}

func (c *CartState) readLocal() []domain.CartLine {
	raw, found, err := c.store.Get(domain.KeyCart)
	if err != nil {
		c.log.Errorf("CartState: Failed to read stored cart: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		c.log.Warnf("CartState: Stored cart is corrupted, discarding it: %v", err)
		if delErr := c.store.Delete(domain.KeyCart); delErr != nil {
			c.log.Errorf("CartState: Failed to delete corrupted cart: %v", delErr)
		}
		return nil
	}
	return lines
}

// persistLocked mirrors the full cart into storage. c.mu must be held.
func (c *CartState) persistLocked() {
	lines := c.cart.Clone()
	raw, err := json.Marshal(lines)
	if err != nil {
		c.log.Errorf("CartState: Failed to encode cart: %v", err)
		return
	}
	if err := c.store.Set(domain.KeyCart, raw); err != nil {
		c.log.Errorf("CartState: Failed to persist cart: %v", err)
	}
}
