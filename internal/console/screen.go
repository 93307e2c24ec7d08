package console

import (
	"fmt"
	"sort"
	"strings"
)

// Screen identifies a console destination, mirroring the routes of the
// admin front-end.
type Screen string

const (
	ScreenHome         Screen = "home"
	ScreenLogin        Screen = "login"
	ScreenUsers        Screen = "users"
	ScreenAssets       Screen = "assets"
	ScreenLocations    Screen = "locations"
	ScreenTemplates    Screen = "templates"
	ScreenInventory    Screen = "inventory"
	ScreenProfile      Screen = "profile"
	ScreenNoPermission Screen = "no-permission"
)

// guardKind describes which guard protects a screen.
type guardKind int

const (
	guardNone guardKind = iota
	guardAuth
	guardManageUsers
	guardManageAssets
)

// screenGuards maps each navigable screen to its guard. Login and the
// no-permission screen are unguarded entry/exit points.
var screenGuards = map[Screen]guardKind{
	ScreenHome:         guardAuth,
	ScreenLogin:        guardNone,
	ScreenUsers:        guardManageUsers,
	ScreenAssets:       guardManageAssets,
	ScreenLocations:    guardManageAssets,
	ScreenTemplates:    guardManageAssets,
	ScreenInventory:    guardManageAssets,
	ScreenProfile:      guardAuth,
	ScreenNoPermission: guardNone,
}

// ParseScreen resolves user input to a screen name.
func ParseScreen(name string) (Screen, error) {
	s := Screen(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := screenGuards[s]; !ok {
		return "", fmt.Errorf("unknown screen %q (available: %s)", name, strings.Join(ScreenNames(), ", "))
	}
	return s, nil
}

// ScreenNames lists the navigable screens in stable order.
func ScreenNames() []string {
	names := make([]string, 0, len(screenGuards))
	for s := range screenGuards {
		if s == ScreenNoPermission {
			continue
		}
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}
