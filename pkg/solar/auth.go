package solar

// TokenResponse is the payload returned by the password-grant login
// endpoint.
type TokenResponse struct {
	// AccessToken is the bearer token used for authorization.
	AccessToken string `json:"access_token"`

	// TokenType is typically "bearer".
	TokenType string `json:"token_type"`
}

// ResetPasswordRequest is the body for the reset-password endpoint.
// The token comes from the password-recovery email.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Message is a generic informational response ({"message": ...}) used by
// the password-recovery and reset-password endpoints.
type Message struct {
	Message string `json:"message"`
}

// PermissionSet describes what the authenticated user is allowed to do.
// It is fetched fresh on every permission-guard evaluation; the client
// never caches it.
type PermissionSet struct {
	CanManageUsers  bool `json:"can_manage_users"`
	CanManageAssets bool `json:"can_manage_assets"`
	CanViewReports  bool `json:"can_view_reports"`
}

// Has reports whether the named permission flag is granted. Unknown
// permission names are denied.
func (p PermissionSet) Has(name string) bool {
	switch name {
	case PermissionManageUsers:
		return p.CanManageUsers
	case PermissionManageAssets:
		return p.CanManageAssets
	case PermissionViewReports:
		return p.CanViewReports
	default:
		return false
	}
}

// Permission names understood by PermissionSet.Has.
const (
	PermissionManageUsers  = "can_manage_users"
	PermissionManageAssets = "can_manage_assets"
	PermissionViewReports  = "can_view_reports"
)
