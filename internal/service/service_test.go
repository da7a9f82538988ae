package service

import (
	"testing"
	"time"

	"blogs/internal/db/dbtest"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	sessions *SessionStore
	users    *UserService
	posts    *PostService
	profiles *ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	sessions := NewSessionStore(gdb, 0)
	users := NewUserService(gdb, sessions)
	posts := NewPostService(gdb, 10)
	return &fixture{
		sessions: sessions,
		users:    users,
		posts:    posts,
		profiles: NewProfileService(users, posts),
	}
}

// tick 返回每次调用前进一秒的时钟，保证帖子创建时间严格递增。
func tick(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func (f *fixture) signup(t *testing.T, username string) {
	t.Helper()
	_, err := f.users.CreateUser(username, "pw-"+username)
	require.NoError(t, err)
}
