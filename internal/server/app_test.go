package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/anniv/internal/server/config"
	"github.com/dmitrijs2005/anniv/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.GRPCAddr = "127.0.0.1:0"
	c.DatabaseDSN = filepath.Join(t.TempDir(), "nested", "anniv.db")
	c.BcryptCost = bcrypt.MinCost
	c.LogLevel = "error"
	return c
}

func TestNewApp_SQLite(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	g, err := app.Invites().Create(ctx, models.InviteGrant{Code: "C1", UsesLeft: 3})
	require.NoError(t, err)
	assert.Equal(t, "C1", g.Code)
}

func TestNewApp_UnknownDriver(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDriver = "oracle"

	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	c := testConfig(t)
	c.SessionBackend = config.SessionRedis
	c.RedisURL = "redis://127.0.0.1:1/0"

	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}
