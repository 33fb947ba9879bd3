package server

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInviteCommand(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	var out bytes.Buffer
	args := []string{"-d", "ignored.db", "-code", "C1", "-uses", "2", "-invitee", "a@x.com"}
	require.NoError(t, app.RunInviteCommand(ctx, args, &out))
	assert.Equal(t, "C1", strings.TrimSpace(out.String()))

	g, err := app.repomanager.Invites(app.db).Validate(ctx, "a@x.com", "C1")
	require.NoError(t, err)
	assert.Equal(t, 2, g.UsesLeft)

	err = app.RunInviteCommand(ctx, []string{"-uses", "0"}, &out)
	assert.ErrorIs(t, err, common.ErrInvalidParameters)
}
