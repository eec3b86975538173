package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/auth"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/config"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/events"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/realtime"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/session"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User), nextID: 1}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.byEmail[user.Email] = &copied
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byEmail[user.Email]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.byEmail[user.Email] = &copied
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[domain.NormalizeSubject(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.byEmail))
	for _, user := range r.byEmail {
		users = append(users, *user)
	}
	return users, nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id int64) error {
	for _, user := range r.byEmail {
		if user.ID == id {
			user.Active = false
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *stubUserRepo) seed(t *testing.T, email, password string, role domain.Role, active bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	user := &domain.User{
		Name:         "Test User",
		Email:        domain.NormalizeSubject(email),
		PasswordHash: hash,
		Role:         role,
		Active:       active,
	}
	require.NoError(t, r.Create(context.Background(), user))
	return user
}

type authFixture struct {
	service  *AuthService
	users    *stubUserRepo
	registry *session.Registry
	userSink *realtime.ChannelSink
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := newStubUserRepo()
	registry := session.NewRegistry(session.NewMemoryStore(), config.SessionConfig{
		KeyPrefix:       "cafeteria",
		TTLHours:        24,
		AttributeTTLMin: 60,
	})
	dispatcher := events.NewDispatcher()
	broadcaster := realtime.NewBroadcaster(zap.NewNop(), nil)
	NewRealtimeNotifier(dispatcher, broadcaster, zap.NewNop()).RegisterHandlers()

	userSink := realtime.NewChannelSink(8)
	broadcaster.Subscribe(realtime.TopicUsers, "test-conn", userSink)

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   users,
		Registry:   registry,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})

	return &authFixture{service: svc, users: users, registry: registry, userSink: userSink}
}

func (f *authFixture) nextUserNotification(t *testing.T) realtime.UserNotification {
	t.Helper()
	select {
	case payload := <-f.userSink.C():
		var got realtime.UserNotification
		require.NoError(t, json.Unmarshal(payload, &got))
		return got
	default:
		t.Fatal("expected a users-topic notification")
		return realtime.UserNotification{}
	}
}

func TestLoginHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.users.seed(t, "Alice@Example.com", "s3cret", domain.RoleAdmin, true)

	result, err := f.service.Login(ctx, "Alice@Example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, "alice@example.com", result.User.Email)

	ok, err := f.registry.IsValid(ctx, "alice@example.com", result.Token)
	require.NoError(t, err)
	assert.True(t, ok)

	role, found, err := f.registry.GetAttribute(ctx, "alice@example.com", "role")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ADMIN", role)

	got := f.nextUserNotification(t)
	assert.Equal(t, realtime.TypeUserConnected, got.Type)
	assert.Equal(t, "alice@example.com", got.Username)
	assert.EqualValues(t, 1, got.ActiveUsers)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.users.seed(t, "alice@example.com", "s3cret", domain.RoleClient, true)

	_, err := f.service.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	// Unknown accounts fail the same way as bad passwords.
	_, err = f.service.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	select {
	case <-f.userSink.C():
		t.Fatal("failed login must not announce presence")
	default:
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.users.seed(t, "alice@example.com", "s3cret", domain.RoleClient, false)

	_, err := f.service.Login(ctx, "alice@example.com", "s3cret")
	assert.ErrorIs(t, err, domain.ErrInactiveAccount)
}

func TestReloginSupersedesPreviousToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.users.seed(t, "alice@example.com", "s3cret", domain.RoleClient, true)

	first, err := f.service.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	second, err := f.service.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, err = f.service.VerifyRequestToken(ctx, first.Token)
	assert.ErrorIs(t, err, domain.ErrTokenSuperseded)

	claims, err := f.service.VerifyRequestToken(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)

	// Both logins announce, and the count never double-counts the subject.
	firstNote := f.nextUserNotification(t)
	secondNote := f.nextUserNotification(t)
	assert.EqualValues(t, 1, firstNote.ActiveUsers)
	assert.EqualValues(t, 1, secondNote.ActiveUsers)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.users.seed(t, "alice@example.com", "s3cret", domain.RoleClient, true)

	result, err := f.service.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	f.nextUserNotification(t) // the connect announcement

	require.NoError(t, f.service.Logout(ctx, "alice@example.com"))

	_, err = f.service.VerifyRequestToken(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrTokenSuperseded)

	got := f.nextUserNotification(t)
	assert.Equal(t, realtime.TypeUserDisconnected, got.Type)
	assert.EqualValues(t, 0, got.ActiveUsers)

	// Logging out again is a no-op, but still announces.
	require.NoError(t, f.service.Logout(ctx, "alice@example.com"))
}

func TestRegisterOpensSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	result, err := f.service.Register(ctx, "Bob", "Bob@Example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, result.User.Role)
	assert.Equal(t, "bob@example.com", result.User.Email)
	assert.True(t, result.User.Active)

	ok, err := f.registry.IsValid(ctx, "bob@example.com", result.Token)
	require.NoError(t, err)
	assert.True(t, ok)

	got := f.nextUserNotification(t)
	assert.Equal(t, realtime.TypeUserConnected, got.Type)
	assert.Equal(t, "bob@example.com", got.Username)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.users.seed(t, "bob@example.com", "s3cret", domain.RoleClient, true)

	_, err := f.service.Register(ctx, "Bob", "BOB@example.com", "another")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

type unavailableStore struct {
	session.Store
}

func (unavailableStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func TestVerifyRequestTokenFailsClosedWhenStoreDown(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.users.seed(t, "alice@example.com", "s3cret", domain.RoleClient, true)

	result, err := f.service.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	registry := session.NewRegistry(unavailableStore{Store: session.NewMemoryStore()}, config.SessionConfig{
		KeyPrefix: "cafeteria",
		TTLHours:  24,
	})
	broken := NewAuthService(config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}}, AuthDependencies{
		UserRepo:   f.users,
		Registry:   registry,
		Dispatcher: events.NewDispatcher(),
		Logger:     zap.NewNop(),
	})

	_, err = broken.VerifyRequestToken(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
