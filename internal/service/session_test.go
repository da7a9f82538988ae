package service

import (
	"testing"
	"time"

	"blogs/internal/db/dbtest"
	"blogs/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_IssueResolveRevoke(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")
	f.signup(t, "bob")

	a, err := f.sessions.Issue("alice")
	require.NoError(t, err)
	b, err := f.sessions.Issue("bob")
	require.NoError(t, err)

	// 其他用户登录不影响 alice 的会话。
	u, err := f.sessions.Resolve(a)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)

	require.NoError(t, f.sessions.Revoke(a))
	u, err = f.sessions.Resolve(a)
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = f.sessions.Resolve(b)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "bob", u.Username)
}

func TestSessionStore_ResolveAbsent(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"", "unknown", "' OR 1=1 --"} {
		u, err := f.sessions.Resolve(id)
		assert.NoError(t, err)
		assert.Nil(t, u)
	}
}

func TestSessionStore_IssueUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.sessions.Issue("ghost")
	assert.Error(t, err, "foreign key must reject sessions for missing users")
}

func TestSessionStore_TTL(t *testing.T) {
	gdb := dbtest.Open(t)
	sessions := NewSessionStore(gdb, time.Hour)
	users := NewUserService(gdb, sessions)
	_, err := users.CreateUser("alice", "pw")
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	sid, err := sessions.Issue("alice")
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	u, err := sessions.Resolve(sid)
	require.NoError(t, err)
	require.NotNil(t, u)

	now = now.Add(2 * time.Minute)
	u, err = sessions.Resolve(sid)
	require.NoError(t, err)
	assert.Nil(t, u, "expired session must not resolve")

	var n int64
	require.NoError(t, gdb.Model(&models.Session{}).Where("session_id = ?", sid).Count(&n).Error)
	assert.EqualValues(t, 0, n, "expired session row is removed lazily")
}
