package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/openshelf/storefront/internal/auth"
	"github.com/openshelf/storefront/internal/config"
	"github.com/openshelf/storefront/internal/domain"
	"github.com/openshelf/storefront/internal/events"
	"github.com/openshelf/storefront/internal/session"
	apperrors "github.com/openshelf/storefront/pkg/util"
)

func TestMain(m *testing.M) {
	// go-cache runs a janitor per cache until the cache is garbage collected.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

// MockUserRepo is a mock implementation of repository.UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

// stubProvider answers SignOut according to mode.
type stubProvider struct {
	mode  string
	calls atomic.Int32
}

func (p *stubProvider) SignOut(ctx context.Context, _ string) error {
	p.calls.Add(1)
	switch p.mode {
	case "fail":
		return errors.New("idp rejected sign-out")
	case "hang":
		<-ctx.Done()
		return ctx.Err()
	case "panic":
		panic("idp client bug")
	default:
		return nil
	}
}

// failingStore wraps a MemoryStore and fails deletes.
type failingStore struct {
	*session.MemoryStore
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("redis unavailable")
}

func testConfig() config.Config {
	return config.Config{
		Auth:     config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4},
		Identity: config.IdentityConfig{SignOutTimeoutMS: 50},
	}
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	return h
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockUserRepo)
		store := session.NewMemoryStore(time.Hour)
		rec := &recorder{}
		dispatcher := events.NewInMemoryDispatcher()
		dispatcher.Subscribe(events.EventSessionStarted, rec.handle)

		svc := NewAuthService(testConfig(), AuthDependencies{Users: repo, Sessions: store, Dispatcher: dispatcher})
		user := &domain.User{ID: "u-1", Email: "lib@example.com", PasswordHash: hashed(t, "pw"), Role: domain.RoleLibrarian, Active: true}
		repo.On("GetByEmail", ctx, "lib@example.com").Return(user, nil).Once()

		res, err := svc.Login(ctx, "lib@example.com", "pw", "device-7")
		require.NoError(t, err)

		assert.Equal(t, "device-7", res.Session.DeviceID)
		assert.Equal(t, domain.RoleLibrarian, res.Session.Role)
		assert.Equal(t, "lib@example.com", res.Session.SectionEmail)
		assert.Equal(t, res.Session.Token, res.Session.SectionToken)

		stored, err := store.Get(ctx, res.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, res.Session.Token, stored.Token)

		claims, err := svc.TokenManager().ParseToken(res.Session.Token)
		require.NoError(t, err)
		assert.Equal(t, res.Session.ID, claims.SessionID)

		assert.Equal(t, []events.EventType{events.EventSessionStarted}, rec.types())
		repo.AssertExpectations(t)
	})

	t.Run("GeneratesDeviceID", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := NewAuthService(testConfig(), AuthDependencies{Users: repo, Sessions: session.NewMemoryStore(time.Hour)})
		user := &domain.User{ID: "u-2", Email: "c@example.com", PasswordHash: hashed(t, "pw"), Role: domain.RoleCustomer, Active: true}
		repo.On("GetByEmail", ctx, "c@example.com").Return(user, nil).Once()

		res, err := svc.Login(ctx, "c@example.com", "pw", "")
		require.NoError(t, err)
		assert.NotEmpty(t, res.Session.DeviceID)
		assert.Empty(t, res.Session.SectionEmail)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := NewAuthService(testConfig(), AuthDependencies{Users: repo, Sessions: session.NewMemoryStore(time.Hour)})
		repo.On("GetByEmail", ctx, "x@example.com").Return(nil, pgx.ErrNoRows).Once()

		_, err := svc.Login(ctx, "x@example.com", "pw", "")
		assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := NewAuthService(testConfig(), AuthDependencies{Users: repo, Sessions: session.NewMemoryStore(time.Hour)})
		user := &domain.User{ID: "u-1", Email: "a@example.com", PasswordHash: hashed(t, "right"), Role: domain.RoleAdmin, Active: true}
		repo.On("GetByEmail", ctx, "a@example.com").Return(user, nil).Once()

		_, err := svc.Login(ctx, "a@example.com", "wrong", "")
		assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
	})

	t.Run("InactiveUser", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := NewAuthService(testConfig(), AuthDependencies{Users: repo, Sessions: session.NewMemoryStore(time.Hour)})
		user := &domain.User{ID: "u-1", Email: "a@example.com", PasswordHash: hashed(t, "pw"), Role: domain.RoleAdmin, Active: false}
		repo.On("GetByEmail", ctx, "a@example.com").Return(user, nil).Once()

		_, err := svc.Login(ctx, "a@example.com", "pw", "")
		assert.ErrorContains(t, err, "account disabled")
	})

	t.Run("NoAccountStore", func(t *testing.T) {
		svc := NewAuthService(testConfig(), AuthDependencies{Sessions: session.NewMemoryStore(time.Hour)})
		_, err := svc.Login(ctx, "a@example.com", "pw", "")
		assert.Equal(t, "UNAVAILABLE", apperrors.ToDomainError(err).Code)
	})
}

func TestLogoutAlwaysClearsLocalSession(t *testing.T) {
	for _, mode := range []string{"ok", "fail", "hang", "panic"} {
		t.Run(mode, func(t *testing.T) {
			ctx := context.Background()
			store := session.NewMemoryStore(time.Hour)
			provider := &stubProvider{mode: mode}
			rec := &recorder{}
			dispatcher := events.NewInMemoryDispatcher()
			dispatcher.Subscribe(events.EventSessionEnded, rec.handle)

			svc := NewAuthService(testConfig(), AuthDependencies{
				Sessions:   store,
				Provider:   provider,
				Dispatcher: dispatcher,
				Logger:     zap.NewNop(),
			})

			sess := &domain.Session{ID: "s-1", UserID: "u-1", Token: "tok", Role: domain.RoleAdmin}
			require.NoError(t, store.Create(ctx, sess))

			start := time.Now()
			res := svc.Logout(ctx, sess)
			assert.Less(t, time.Since(start), time.Second)

			if mode == "ok" {
				assert.NoError(t, res.RemoteErr)
			} else {
				assert.Error(t, res.RemoteErr)
			}
			assert.NoError(t, res.LocalErr)
			assert.Equal(t, int32(1), provider.calls.Load())

			_, err := store.Get(ctx, "s-1")
			assert.ErrorIs(t, err, session.ErrNotFound)
			assert.Equal(t, []events.EventType{events.EventSessionEnded}, rec.types())
		})
	}
}

func TestLogoutHangReportsDeadline(t *testing.T) {
	svc := NewAuthService(testConfig(), AuthDependencies{
		Sessions: session.NewMemoryStore(time.Hour),
		Provider: &stubProvider{mode: "hang"},
	})

	res := svc.Logout(context.Background(), &domain.Session{ID: "s", Token: "t"})
	assert.ErrorIs(t, res.RemoteErr, context.DeadlineExceeded)
}

func TestLogoutWithCancelledRequestStillDeletes(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	svc := NewAuthService(testConfig(), AuthDependencies{Sessions: store, Provider: &stubProvider{mode: "hang"}})

	sess := &domain.Session{ID: "s-2", Token: "t", Role: domain.RoleCustomer}
	require.NoError(t, store.Create(context.Background(), sess))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := svc.Logout(ctx, sess)
	assert.Error(t, res.RemoteErr)
	assert.NoError(t, res.LocalErr)

	_, err := store.Get(context.Background(), "s-2")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestLogoutReportsStoreFailure(t *testing.T) {
	svc := NewAuthService(testConfig(), AuthDependencies{
		Sessions: failingStore{session.NewMemoryStore(time.Hour)},
	})

	res := svc.Logout(context.Background(), &domain.Session{ID: "s", Token: "t"})
	assert.NoError(t, res.RemoteErr)
	assert.Error(t, res.LocalErr)
}

func TestLogoutWithoutSession(t *testing.T) {
	provider := &stubProvider{}
	svc := NewAuthService(testConfig(), AuthDependencies{Sessions: session.NewMemoryStore(time.Hour), Provider: provider})

	res := svc.Logout(context.Background(), nil)
	assert.NoError(t, res.RemoteErr)
	assert.NoError(t, res.LocalErr)
	assert.Equal(t, int32(0), provider.calls.Load())
}
