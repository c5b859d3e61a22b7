package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalNavigator_RedirectOnce(t *testing.T) {
	var out bytes.Buffer
	nav := newTerminalNavigator("/profile", &out)
	assert.Equal(t, "/profile", nav.CurrentPath())
	assert.False(t, nav.wasRedirected())

	nav.Redirect("/login")
	nav.Redirect("/login")

	assert.Equal(t, "/login", nav.CurrentPath())
	assert.True(t, nav.wasRedirected())
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("session has expired")))

	nav.Enter("/recipes")
	assert.Equal(t, "/recipes", nav.CurrentPath())
}
