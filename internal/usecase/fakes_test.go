package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

var errUnreachable = errors.New("backend unreachable")

const timeoutForTests = 2 * time.Second

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeIdentityService struct {
	mu        sync.Mutex
	identity  *domain.Identity
	err       error
	lastPhone string
	updates   []domain.ProfileUpdate
	resets    int
	deleted   bool
}

func (f *fakeIdentityService) Login(_ context.Context, phone, _ string) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPhone = phone
	if f.err != nil {
		return nil, f.err
	}
	return copyIdentity(f.identity), nil
}

func (f *fakeIdentityService) Register(_ context.Context, name, phone, _ string) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPhone = phone
	if f.err != nil {
		return nil, f.err
	}
	id := copyIdentity(f.identity)
	id.Name = name
	return id, nil
}

func (f *fakeIdentityService) UpdateProfile(_ context.Context, _ string, update domain.ProfileUpdate) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	if f.err != nil {
		return nil, f.err
	}
	id := copyIdentity(f.identity)
	if update.Name != nil {
		id.Name = *update.Name
	}
	if update.Phone != nil {
		id.Phone = *update.Phone
	}
	return id, nil
}

func (f *fakeIdentityService) ForgotPassword(_ context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPhone = phone
	return f.err
}

func (f *fakeIdentityService) ResetPassword(context.Context, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return f.err
}

func (f *fakeIdentityService) DeleteAccount(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = true
	return nil
}

type cartCall struct {
	op        string
	productID string
	qty       int
}

type fakeCartService struct {
	mu       sync.Mutex
	remote   *domain.RemoteCart
	fetchErr error
	callErr  error
	// gate, when set, blocks Fetch until it is closed.
	gate    chan struct{}
	fetches int
	calls   []cartCall
}

func (f *fakeCartService) Fetch(ctx context.Context) (*domain.RemoteCart, error) {
	f.mu.Lock()
	f.fetches++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.remote, nil
}

func (f *fakeCartService) record(c cartCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.callErr
}

func (f *fakeCartService) Add(_ context.Context, productID string, qty int) error {
	return f.record(cartCall{op: "add", productID: productID, qty: qty})
}

func (f *fakeCartService) Update(_ context.Context, productID string, qty int) error {
	return f.record(cartCall{op: "update", productID: productID, qty: qty})
}

func (f *fakeCartService) Remove(_ context.Context, productID string) error {
	return f.record(cartCall{op: "remove", productID: productID})
}

func (f *fakeCartService) Clear(context.Context) error {
	return f.record(cartCall{op: "clear"})
}

func (f *fakeCartService) recorded() []cartCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]cartCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeCartService) setRemote(items ...domain.RemoteCartItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remote = &domain.RemoteCart{Items: items}
}

type session struct {
	store    *repository.MemoryStore
	identity *fakeIdentityService
	remote   *fakeCartService
	auth     *AuthState
	cart     *CartState
}

func newSession() *session {
	s := &session{
		store: repository.NewMemoryStore(),
		identity: &fakeIdentityService{identity: &domain.Identity{
			ID: "u1", Name: "Wanjiru", Phone: "254712345678", Role: domain.RoleCustomer, Token: "tok-u1",
		}},
		remote: &fakeCartService{remote: &domain.RemoteCart{}},
	}
	s.auth = NewAuthState(s.identity, s.store, quietLogger())
	s.cart = NewCartState(s.auth, s.remote, s.store, timeoutForTests, quietLogger())
	return s
}

var (
	p1 = domain.Product{ID: "p1", Name: "Tusker", Price: 1000, Image: "p1.png"}
	p2 = domain.Product{ID: "p2", Name: "Pilsner", Price: 500, Images: []string{"p2.png"}}
	p3 = domain.Product{ID: "p3", Name: "Guinness", Price: 300}
)
