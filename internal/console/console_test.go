package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScreen(t *testing.T) {
	s, err := ParseScreen("users")
	require.NoError(t, err)
	assert.Equal(t, ScreenUsers, s)

	s, err = ParseScreen("  Assets ")
	require.NoError(t, err)
	assert.Equal(t, ScreenAssets, s)

	_, err = ParseScreen("dashboard")
	assert.Error(t, err)
}

func TestScreenNamesExcludesNoPermission(t *testing.T) {
	names := ScreenNames()
	assert.Contains(t, names, "users")
	assert.Contains(t, names, "login")
	assert.NotContains(t, names, string(ScreenNoPermission))
}

func TestScreenGuardsCoverAllScreens(t *testing.T) {
	// Every protected resource screen must sit behind a permission
	// guard, not just authentication.
	assert.Equal(t, guardManageUsers, screenGuards[ScreenUsers])
	for _, s := range []Screen{ScreenAssets, ScreenLocations, ScreenTemplates, ScreenInventory} {
		assert.Equal(t, guardManageAssets, screenGuards[s])
	}
	assert.Equal(t, guardAuth, screenGuards[ScreenHome])
	assert.Equal(t, guardAuth, screenGuards[ScreenProfile])
	assert.Equal(t, guardNone, screenGuards[ScreenLogin])
}

func TestNavigatorDoesNotBlock(t *testing.T) {
	nav := NewNavigator()
	// Flood beyond the channel capacity; callers must never block.
	for i := 0; i < 100; i++ {
		nav.NavigateToLogin("authorization failure")
	}

	req := <-nav.Requests()
	assert.Equal(t, ScreenLogin, req.screen)
	assert.Equal(t, "authorization failure", req.reason)
}

func TestNavigatorNoPermission(t *testing.T) {
	nav := NewNavigator()
	nav.NavigateToNoPermission()

	req := <-nav.Requests()
	assert.Equal(t, ScreenNoPermission, req.screen)
}

func TestBuildPrompt(t *testing.T) {
	c := &Console{current: ScreenUsers, useUnicode: true}
	c.authenticated = true
	c.userEmail = "op@plant.example"
	prompt := c.buildPrompt()
	assert.Contains(t, prompt, "op@plant.example")
	assert.Contains(t, prompt, "users")
	assert.NotContains(t, prompt, stateLoginRequired)

	c.authenticated = false
	prompt = c.buildPrompt()
	assert.Contains(t, prompt, stateLoginRequired)
	assert.NotContains(t, prompt, "users")
}
