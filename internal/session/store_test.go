package session

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestStore_ZeroValueEmpty(t *testing.T) {
	var s Store
	_, ok := s.Token()
	assert.False(t, ok)
	assert.False(t, s.Active())
}

func TestStore_SetGetClear(t *testing.T) {
	s := New()

	binding := s.Set("opaque-token")
	require.NotEmpty(t, binding)

	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "opaque-token", tok)
	assert.True(t, s.Bound(binding))
	assert.False(t, s.Bound("other"))
	assert.True(t, s.ExpiresAt().IsZero(), "opaque tokens carry no expiry")

	s.Clear()
	_, ok = s.Token()
	assert.False(t, ok)
	assert.False(t, s.Bound(binding))
}

func TestStore_SetEmptyClears(t *testing.T) {
	s := New()
	s.Set("a")
	assert.Equal(t, "", s.Set(""))
	assert.False(t, s.Active())
}

func TestStore_NewBindingPerLogin(t *testing.T) {
	s := New()
	first := s.Set("a")
	second := s.Set("b")
	assert.NotEqual(t, first, second)
	assert.False(t, s.Bound(first), "a new login invalidates the old browser binding")
	assert.True(t, s.Bound(second))
	assert.Equal(t, second, s.Binding())

	s.Clear()
	assert.Equal(t, "", s.Binding())
}

func TestStore_JWTExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewWithClock(func() time.Time { return now })

	s.Set(signed(t, now.Add(time.Hour)))
	assert.True(t, s.Active())
	assert.Equal(t, now.Add(time.Hour).Unix(), s.ExpiresAt().Unix())

	now = now.Add(2 * time.Hour)
	assert.False(t, s.Active(), "expired JWT should no longer be usable")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set("tok")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Token()
		}()
	}
	wg.Wait()
	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok", tok)
}
