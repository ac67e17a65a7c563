package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSession("")
	assert.False(t, s.Authenticated())

	s.SetToken("tok-123")
	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok-123", s.Token())

	s.Clear()
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
}
