package service

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/smallbiznis/karatledger/internal/auth/domain"
	"github.com/smallbiznis/karatledger/internal/auth/password"
	"github.com/smallbiznis/karatledger/internal/auth/repository"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (authdomain.Service, *clock.FakeClock) {
	t.Helper()

	db := testutil.OpenDB(t, &authdomain.User{}, &authdomain.Session{})
	repo, sessionRepo := repository.New(db)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))

	svc := New(Params{
		Log:         zap.NewNop(),
		Repo:        repo,
		SessionRepo: sessionRepo,
		GenID:       testutil.Node(t),
		Cfg:         config.Config{AuthSessionTTL: time.Hour},
		Clock:       clk,
	})
	return svc, clk
}

func register(t *testing.T, svc authdomain.Service, email, role string) *authdomain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Name:     "Meera",
		Email:    email,
		Password: "correct-password",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterValidates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user := register(t, svc, " Meera@Example.com ", "")
	assert.Equal(t, "meera@example.com", user.Email)
	assert.Equal(t, authdomain.RoleStaff, user.Role)
	assert.NotEqual(t, "correct-password", user.PasswordHash)

	_, err := svc.Register(ctx, authdomain.RegisterRequest{Name: "Dup", Email: "meera@example.com", Password: "secret99"})
	assert.ErrorIs(t, err, authdomain.ErrUserExists)
	_, err = svc.Register(ctx, authdomain.RegisterRequest{Name: "Short", Email: "s@example.com", Password: "abc"})
	assert.ErrorIs(t, err, authdomain.ErrWeakPassword)
	_, err = svc.Register(ctx, authdomain.RegisterRequest{Name: "Boss", Email: "b@example.com", Password: "secret99", Role: "owner"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidRole)
	_, err = svc.Register(ctx, authdomain.RegisterRequest{Name: "Nobody", Email: "not-an-email", Password: "secret99"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidEmail)

	again, created, err := svc.EnsureUser(ctx, authdomain.RegisterRequest{Name: "Meera", Email: "meera@example.com", Password: "whatever"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "alice@example.com", "admin")

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-password",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestSessionLifecycle(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	user := register(t, svc, "alice@example.com", "manager")

	result, err := svc.Login(ctx, authdomain.LoginRequest{Email: "alice@example.com", Password: "correct-password"})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)
	assert.True(t, result.ExpiresAt.Equal(clk.Now().Add(time.Hour)))

	principal, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.User.ID)
	assert.Equal(t, authdomain.RoleManager, principal.User.Role)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, authdomain.ErrInvalidSession)

	require.NoError(t, svc.Logout(ctx, result.RawToken))
	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, authdomain.ErrSessionRevoked)

	second, err := svc.Login(ctx, authdomain.LoginRequest{Email: "alice@example.com", Password: "correct-password"})
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)
	_, err = svc.Authenticate(ctx, second.RawToken)
	assert.ErrorIs(t, err, authdomain.ErrSessionExpired)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := register(t, svc, "alice@example.com", "staff")
	before, err := svc.Login(ctx, authdomain.LoginRequest{Email: "alice@example.com", Password: "correct-password"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID.String(), "abc"), authdomain.ErrWeakPassword)
	require.NoError(t, svc.ChangePassword(ctx, user.ID.String(), "new-password"))

	_, err = svc.Authenticate(ctx, before.RawToken)
	assert.ErrorIs(t, err, authdomain.ErrSessionRevoked)

	_, err = svc.Login(ctx, authdomain.LoginRequest{Email: "alice@example.com", Password: "correct-password"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, authdomain.LoginRequest{Email: "alice@example.com", Password: "new-password"})
	require.NoError(t, err)

	me, err := svc.CurrentUser(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Email)
	require.NotNil(t, me.LastLoginAt)
}

func TestLoginUpgradesImportedHash(t *testing.T) {
	db := testutil.OpenDB(t, &authdomain.User{}, &authdomain.Session{})
	repo, sessionRepo := repository.New(db)
	svc := New(Params{
		Log:         zap.NewNop(),
		Repo:        repo,
		SessionRepo: sessionRepo,
		GenID:       testutil.Node(t),
		Cfg:         config.Config{AuthSessionTTL: time.Hour},
		Clock:       clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)),
	})
	ctx := context.Background()
	user := register(t, svc, "ravi@example.com", "accountant")

	legacy, err := bcrypt.GenerateFromPassword([]byte("imported-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.SetPassword(ctx, user.ID, string(legacy), time.Now()))

	_, err = svc.Login(ctx, authdomain.LoginRequest{Email: "ravi@example.com", Password: "imported-pass"})
	require.NoError(t, err)

	stored, err := repo.FindByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.False(t, password.NeedsRehash(stored.PasswordHash))
	assert.True(t, password.Verify("imported-pass", stored.PasswordHash))
}
