package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBackend(t *testing.T) (*miniredis.Miniredis, *RedisBackend) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisBackend(client, time.Hour)
}

// login runs Set on a fresh request and returns the issued cookie.
func login(t *testing.T, m *Manager, accountID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/user/login", nil)
	require.NoError(t, m.Handle(rec, req).Set(context.Background(), accountID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, common.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	return cookies[0]
}

func withCookie(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/user/logout", nil)
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func TestManager_Backends(t *testing.T) {
	_, rb := newRedisBackend(t)
	backends := map[string]Backend{
		"jwt":   NewJWTBackend([]byte("secret"), time.Hour),
		"redis": rb,
	}

	for name, b := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(b, time.Hour, false)

			c := login(t, m, "u-1")
			assert.Equal(t, 3600, c.MaxAge)

			id, err := m.Handle(httptest.NewRecorder(), withCookie(c)).AccountID(ctx)
			require.NoError(t, err)
			assert.Equal(t, "u-1", id)

			rec := httptest.NewRecorder()
			require.NoError(t, m.Handle(rec, withCookie(c)).Clear(ctx))
			expired := rec.Result().Cookies()
			require.Len(t, expired, 1)
			assert.Empty(t, expired[0].Value)
			assert.Negative(t, expired[0].MaxAge)

			_, err = m.Handle(httptest.NewRecorder(), withCookie(nil)).AccountID(ctx)
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestClear_WithoutSession(t *testing.T) {
	m := NewManager(NewJWTBackend([]byte("secret"), time.Hour), time.Hour, true)
	rec := httptest.NewRecorder()

	require.NoError(t, m.Handle(rec, withCookie(nil)).Clear(context.Background()))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestRedisBackend_ClearDeletesKey(t *testing.T) {
	mr, b := newRedisBackend(t)
	ctx := context.Background()
	m := NewManager(b, time.Hour, false)

	c := login(t, m, "u-1")
	assert.Len(t, mr.Keys(), 1)
	assert.Equal(t, time.Hour, mr.TTL(redisKeyPrefix+c.Value))

	require.NoError(t, m.Handle(httptest.NewRecorder(), withCookie(c)).Clear(ctx))
	assert.Empty(t, mr.Keys())

	_, err := b.Resolve(ctx, c.Value)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClear_ExpiresCookieWhenRevokeFails(t *testing.T) {
	mr, b := newRedisBackend(t)
	m := NewManager(b, time.Hour, false)

	c := login(t, m, "u-1")
	mr.Close()

	rec := httptest.NewRecorder()
	err := m.Handle(rec, withCookie(c)).Clear(context.Background())
	assert.Error(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, common.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestRedisBackend_Expiry(t *testing.T) {
	mr, b := newRedisBackend(t)
	ctx := context.Background()

	token, err := b.Issue(ctx, "u-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = b.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisBackend_Unreachable(t *testing.T) {
	_, err := NewRedisBackendFromURL(context.Background(), "redis://127.0.0.1:1/0", time.Hour)
	assert.Error(t, err)

	_, err = NewRedisBackendFromURL(context.Background(), "://bad", time.Hour)
	assert.Error(t, err)
}

func TestRedisBackendFromURL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	b, err := NewRedisBackendFromURL(context.Background(), "redis://"+mr.Addr()+"/0", time.Minute)
	require.NoError(t, err)
	defer b.Close()

	token, err := b.Issue(context.Background(), "u-9")
	require.NoError(t, err)
	id, err := b.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-9", id)
}

func TestJWTBackend_Rejects(t *testing.T) {
	ctx := context.Background()
	b := NewJWTBackend([]byte("secret"), time.Hour)

	token, err := b.Issue(ctx, "u-1")
	require.NoError(t, err)

	other := NewJWTBackend([]byte("other"), time.Hour)
	_, err = other.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)

	b.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = b.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = b.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, ErrNoSession)
}
