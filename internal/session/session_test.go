package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	s := New()

	a := s.Create()
	b := s.Create()
	assert.NotEqual(t, a, b, "tokens are unique")
	assert.True(t, s.Valid(a))
	assert.True(t, s.Valid(b))
	assert.False(t, s.Valid(""))
	assert.False(t, s.Valid("not-a-token"))

	s.Revoke(a)
	assert.False(t, s.Valid(a))
	assert.True(t, s.Valid(b))
}
