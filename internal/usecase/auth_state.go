package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

// IdentityListener is told about every identity transition. prev and next
// are copies; nil means anonymous.
type IdentityListener func(prev, next *domain.Identity)

// IdentityNotifier is the part of AuthState that CartState depends on.
type IdentityNotifier interface {
	Subscribe(listener IdentityListener) (unsubscribe func())
}

type listenerEntry struct {
	id int
	fn IdentityListener
}

// AuthState is the single source of truth for who is logged in. It owns
// the identity storage key.
type AuthState struct {
	service domain.IdentityService
	store   domain.Storage
	log     *logrus.Logger

	// transition serializes identity changes together with their
	// notifications, so listeners observe them in order and none is missed.
	transition sync.Mutex

	mu           sync.RWMutex
	identity     *domain.Identity
	loading      bool
	listeners    []listenerEntry
	nextListener int
}

func NewAuthState(service domain.IdentityService, store domain.Storage, logger *logrus.Logger) *AuthState {
	return &AuthState{
		service: service,
		store:   store,
		log:     logger,
		loading: true,
	}
}

// Bootstrap adopts the persisted identity, if any. A value that does not
// parse is deleted and the session starts anonymous. Subsequent calls are
// no-ops.
func (a *AuthState) Bootstrap() {
	a.transition.Lock()
	defer a.transition.Unlock()

	a.mu.RLock()
	done := !a.loading
	a.mu.RUnlock()
	if done {
		return
	}

	identity := a.readPersisted()

	a.mu.Lock()
	a.identity = identity
	a.loading = false
	a.mu.Unlock()

	if identity != nil {
		a.log.Infof("AuthState: Restored identity %s (role %s) from storage", identity.ID, identity.Role)
	} else {
		a.log.Info("AuthState: No stored identity, starting anonymous")
	}
	a.notify(nil, identity)
}

func (a *AuthState) readPersisted() *domain.Identity {
	raw, found, err := a.store.Get(domain.KeyIdentity)
	if err != nil {
		a.log.Errorf("AuthState: Failed to read stored identity: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	var identity *domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		a.log.Warnf("AuthState: Stored identity is corrupted, discarding it: %v", err)
		a.deleteKey(domain.KeyIdentity)
		return nil
	}
	if !identity.Complete() {
		a.log.Warn("AuthState: Stored identity has no id or token, discarding it")
		a.deleteKey(domain.KeyIdentity)
		return nil
	}
	return identity
}

func (a *AuthState) Login(ctx context.Context, handle, secret string) (*domain.Identity, error) {
	phone := NormalizePhone(handle)
	if phone == "" || secret == "" {
		return nil, domain.Invalid("Please fill all fields")
	}

	a.log.Infof("AuthState: Attempting login for phone %s", phone)
	identity, err := a.service.Login(ctx, phone, secret)
	if err != nil {
		a.log.Warnf("AuthState: Login failed for phone %s: %v", phone, err)
		return nil, err
	}
	if err := a.adopt(identity); err != nil {
		return nil, err
	}
	a.log.Infof("AuthState: Login successful for user %s (role %s)", identity.ID, identity.Role)
	return copyIdentity(identity), nil
}

func (a *AuthState) Register(ctx context.Context, name, handle, secret string) (*domain.Identity, error) {
	name = strings.TrimSpace(name)
	phone := NormalizePhone(handle)
	if name == "" || phone == "" || secret == "" {
		return nil, domain.Invalid("All fields are required")
	}

	a.log.Infof("AuthState: Attempting registration for phone %s", phone)
	identity, err := a.service.Register(ctx, name, phone, secret)
	if err != nil {
		a.log.Warnf("AuthState: Registration failed for phone %s: %v", phone, err)
		return nil, err
	}
	if err := a.adopt(identity); err != nil {
		return nil, err
	}
	a.log.Infof("AuthState: Registered user %s", identity.ID)
	return copyIdentity(identity), nil
}

func (a *AuthState) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Identity, error) {
	current := a.Current()
	if current == nil || current.Token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if update.IsEmpty() {
		return nil, domain.Invalid("Nothing to update")
	}
	if update.Phone != nil {
		phone := NormalizePhone(*update.Phone)
		update.Phone = &phone
	}

	identity, err := a.service.UpdateProfile(ctx, current.Token, update)
	if err != nil {
		a.log.Warnf("AuthState: Profile update failed for user %s: %v", current.ID, err)
		return nil, err
	}
	if identity != nil && identity.Token == "" && identity.ID == current.ID {
		identity.Token = current.Token
	}
	if err := a.adopt(identity); err != nil {
		return nil, err
	}
	a.log.Infof("AuthState: Profile updated for user %s", identity.ID)
	return copyIdentity(identity), nil
}

func (a *AuthState) ForgotPassword(ctx context.Context, handle string) error {
	phone := NormalizePhone(handle)
	if phone == "" {
		return domain.Invalid("Please enter your phone number")
	}
	if err := a.service.ForgotPassword(ctx, phone); err != nil {
		a.log.Warnf("AuthState: Forgot-password request failed for phone %s: %v", phone, err)
		return err
	}
	a.log.Infof("AuthState: Password reset instructions requested for phone %s", phone)
	return nil
}

func (a *AuthState) ResetPassword(ctx context.Context, resetToken, password, confirm string) error {
	if strings.TrimSpace(resetToken) == "" || password == "" || confirm == "" {
		return domain.Invalid("All fields are required")
	}
	if password != confirm {
		return domain.Invalid("Passwords do not match")
	}
	if err := a.service.ResetPassword(ctx, resetToken, password); err != nil {
		a.log.Warnf("AuthState: Password reset failed: %v", err)
		return err
	}
	a.log.Info("AuthState: Password reset successful")
	return nil
}

// DeleteAccount removes the account remotely and then logs out.
func (a *AuthState) DeleteAccount(ctx context.Context) error {
	current := a.Current()
	if current == nil {
		return domain.ErrNotAuthenticated
	}
	if err := a.service.DeleteAccount(ctx); err != nil {
		a.log.Warnf("AuthState: Account deletion failed for user %s: %v", current.ID, err)
		return err
	}
	a.log.Infof("AuthState: Account %s deleted", current.ID)
	a.Logout()
	return nil
}

// Logout is local only. It clears the identity and the persisted cart.
func (a *AuthState) Logout() {
	a.transition.Lock()
	defer a.transition.Unlock()

	a.mu.Lock()
	prev := a.identity
	a.identity = nil
	a.loading = false
	a.mu.Unlock()

	a.deleteKey(domain.KeyIdentity)
	a.deleteKey(domain.KeyCart)

	if prev != nil {
		a.log.Infof("AuthState: User %s logged out", prev.ID)
	}
	a.notify(prev, nil)
}

// HardLogout reacts to an authentication rejection from the backend. The
// stored identity is always dropped; the full logout transition only runs
// when someone was logged in.
func (a *AuthState) HardLogout() {
	a.mu.RLock()
	resident := a.identity != nil
	a.mu.RUnlock()

	if !resident {
		a.deleteKey(domain.KeyIdentity)
		return
	}
	a.log.Warn("AuthState: Backend rejected the credentials, forcing logout")
	a.Logout()
}

func (a *AuthState) adopt(identity *domain.Identity) error {
	if !identity.Complete() {
		a.log.Error("AuthState: Identity service answered without an id or token, not adopting it")
		return domain.ErrIncompleteIdentity
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	a.transition.Lock()
	defer a.transition.Unlock()

	if err := a.store.Set(domain.KeyIdentity, raw); err != nil {
		a.log.Errorf("AuthState: Failed to persist identity %s: %v", identity.ID, err)
		return fmt.Errorf("failed to persist identity: %w", err)
	}

	next := copyIdentity(identity)
	a.mu.Lock()
	prev := a.identity
	a.identity = next
	a.loading = false
	a.mu.Unlock()

	a.notify(prev, next)
	return nil
}

func (a *AuthState) deleteKey(key string) {
	if err := a.store.Delete(key); err != nil {
		a.log.Errorf("AuthState: Failed to delete stored %s: %v", key, err)
	}
}

// notify must be called with the transition lock held.
func (a *AuthState) notify(prev, next *domain.Identity) {
	a.mu.RLock()
	listeners := make([]listenerEntry, len(a.listeners))
	copy(listeners, a.listeners)
	a.mu.RUnlock()

	for _, l := range listeners {
		l.fn(copyIdentity(prev), copyIdentity(next))
	}
}

// Subscribe registers a listener. When Bootstrap has already completed the
// listener is immediately called with the resident identity, so late
// subscribers start from the current state.
func (a *AuthState) Subscribe(listener IdentityListener) func() {
	a.transition.Lock()
	defer a.transition.Unlock()

	a.mu.Lock()
	a.nextListener++
	id := a.nextListener
	a.listeners = append(a.listeners, listenerEntry{id: id, fn: listener})
	loading := a.loading
	current := copyIdentity(a.identity)
	a.mu.Unlock()

	if !loading {
		listener(nil, current)
	}

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, l := range a.listeners {
			if l.id == id {
				a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
				return
			}
		}
	}
}

func (a *AuthState) Current() *domain.Identity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyIdentity(a.identity)
}

// Snapshot returns the resident identity together with the loading flag.
func (a *AuthState) Snapshot() (*domain.Identity, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyIdentity(a.identity), a.loading
}

// Viewer classifies the resident identity for route authorization.
func (a *AuthState) Viewer() Viewer {
	identity, loading := a.Snapshot()
	return Classify(identity, loading)
}

func (a *AuthState) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

func (a *AuthState) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.identity != nil
}

// Token is the bearer credential of the resident identity, or "".
func (a *AuthState) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.identity == nil {
		return ""
	}
	return a.identity.Token
}

func copyIdentity(i *domain.Identity) *domain.Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
