package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/metung95-cpu/ajet-stock/internal/config"
	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
)

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	cfg := config.AuthConfig{
		Accounts: []config.AccountConfig{
			{Username: "AZ", Role: "administrator", PasswordHash: hash(t, "5835")},
			{Username: "AZS", Role: "sales_operator", PasswordHash: hash(t, "0983")},
		},
		SessionSecret: "test-secret-0123456789",
		IdleTimeout:   30 * time.Minute,
		TokenTTL:      12 * time.Hour,
	}
	svc, err := NewService(cfg, nil, nil)
	require.NoError(t, err)

	now := time.Now()
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestLogin_NormalizesInput(t *testing.T) {
	svc, _ := newTestService(t)

	sess, token, err := svc.Login(context.Background(), "  azs ", " 0983 ")

	require.NoError(t, err)
	assert.Equal(t, "AZS", sess.Username)
	assert.Equal(t, models.RoleSalesOperator, sess.Role)
	assert.NotEmpty(t, token)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "AZ", "0000")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody", "5835")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_TouchesSession(t *testing.T) {
	svc, now := newTestService(t)
	sess, token, err := svc.Login(context.Background(), "AZ", "5835")
	require.NoError(t, err)

	*now = now.Add(10 * time.Minute)
	got, err := svc.Authenticate(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, models.RoleAdministrator, got.Role)
	assert.Equal(t, *now, got.LastActivity)
}

func TestAuthenticate_IdleExpiry(t *testing.T) {
	svc, now := newTestService(t)
	_, token, err := svc.Login(context.Background(), "AZ", "5835")
	require.NoError(t, err)

	*now = now.Add(31 * time.Minute)
	_, err = svc.Authenticate(context.Background(), token)

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 0, svc.store.Len())
}

func TestAuthenticate_AfterLogout(t *testing.T) {
	svc, _ := newTestService(t)
	sess, token, err := svc.Login(context.Background(), "AZ", "5835")
	require.NoError(t, err)

	svc.Logout(context.Background(), sess.ID)
	_, err = svc.Authenticate(context.Background(), token)

	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthenticate_RejectsForeignTokens(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Authenticate(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, _ := newTestService(t)
	other.secret = []byte("another-secret-9876543210")
	_, token, err := other.Login(context.Background(), "AZ", "5835")
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSweepExpired(t *testing.T) {
	svc, now := newTestService(t)
	_, _, err := svc.Login(context.Background(), "AZ", "5835")
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "AZS", "0983")
	require.NoError(t, err)

	assert.Equal(t, 0, svc.SweepExpired())

	*now = now.Add(time.Hour)
	assert.Equal(t, 2, svc.SweepExpired())
}

func TestNewService_RejectsUnknownRole(t *testing.T) {
	_, err := NewService(config.AuthConfig{
		Accounts: []config.AccountConfig{{Username: "X", Role: "owner", PasswordHash: hash(t, "1")}},
	}, nil, nil)

	assert.Error(t, err)
}

func TestNewService_RejectsPlaintextPassword(t *testing.T) {
	_, err := NewService(config.AuthConfig{
		Accounts: []config.AccountConfig{{Username: "X", Role: "administrator", PasswordHash: "5835"}},
	}, nil, nil)

	assert.Error(t, err)
}

func TestSessionStore_TouchDoesNotRevive(t *testing.T) {
	store := NewSessionStore()
	now := time.Now()
	store.Put(models.Session{ID: "s1", Username: "AZ", LastActivity: now})

	sess, ok := store.Touch("s1", now.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, now.Add(time.Minute), sess.LastActivity)

	store.Delete("s1")
	_, ok = store.Touch("s1", now.Add(2*time.Minute))
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestAuthenticate_ConcurrentLogoutStaysLoggedOut(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess, token, err := svc.Login(ctx, "AZS", "0983")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, _ = svc.Authenticate(ctx, token)
			}
		}()
	}
	svc.Logout(ctx, sess.ID)
	wg.Wait()

	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}
