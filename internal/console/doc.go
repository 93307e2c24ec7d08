// Package console implements the interactive solarops console: a
// readline loop with screens mirroring the admin front-end (users,
// assets, locations, templates, inventory, profile).
//
// Screen navigation goes through the guards. The console's Navigator
// turns redirect requests from guards, the session and the HTTP
// transport into screen switches, so a mid-session 401 lands the user
// on the login screen no matter which screen issued the request.
package console
