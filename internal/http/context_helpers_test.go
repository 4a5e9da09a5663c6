package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/target/crms-console/internal/domain/auth"
)

func TestScopeHelpers(t *testing.T) {
	ctx := context.Background()
	_, ok := SessionFrom(ctx)
	assert.False(t, ok)
	assert.Equal(t, auth.RoleNone, CurrentRole(ctx))
	assert.Equal(t, ctx, WithScope(ctx, nil))

	anon := WithScope(ctx, &RequestScope{ContextID: "c1"})
	_, ok = SessionFrom(anon)
	assert.False(t, ok)

	sess := auth.Session{Username: "alice", Role: auth.RoleAnalyst, Token: "t"}
	in := WithScope(ctx, &RequestScope{ContextID: "c1", Session: sess, LoggedIn: true})
	got, ok := SessionFrom(in)
	assert.True(t, ok)
	assert.Equal(t, sess, got)
	assert.Equal(t, auth.RoleAnalyst, CurrentRole(in))
}
