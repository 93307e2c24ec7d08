package console

// navRequest is a redirect raised by a guard, the session or the HTTP
// transport.
type navRequest struct {
	screen Screen
	reason string
}

// Navigator translates redirect requests into console screen switches.
// Requests are delivered over a buffered channel to the console loop;
// callers never block, and a request raised while another is pending is
// dropped (the destination would be the same screen anyway).
type Navigator struct {
	requests chan navRequest
}

// NewNavigator creates a console navigator.
func NewNavigator() *Navigator {
	return &Navigator{requests: make(chan navRequest, 8)}
}

// NavigateToLogin implements api.Navigator.
func (n *Navigator) NavigateToLogin(reason string) {
	select {
	case n.requests <- navRequest{screen: ScreenLogin, reason: reason}:
	default:
	}
}

// NavigateToNoPermission implements api.Navigator.
func (n *Navigator) NavigateToNoPermission() {
	select {
	case n.requests <- navRequest{screen: ScreenNoPermission}:
	default:
	}
}

// Requests exposes the pending redirects to the console loop.
func (n *Navigator) Requests() <-chan navRequest {
	return n.requests
}
