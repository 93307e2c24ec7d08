package solar

import "time"

// UserRole is the administrative role assigned to a user account.
type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleManager    UserRole = "manager"
	RoleUser       UserRole = "user"
)

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusPending   UserStatus = "pending"
	StatusSuspended UserStatus = "suspended"
)

// User is the authenticated principal and the subject of the user
// administration screens. The session core only cares about existence;
// the richer fields feed the CLI output.
type User struct {
	ID         int        `json:"id"`
	Email      string     `json:"email"`
	IsActive   bool       `json:"is_active"`
	Role       UserRole   `json:"role,omitempty"`
	Status     UserStatus `json:"status,omitempty"`
	Department string     `json:"department,omitempty"`
	CreatedAt  time.Time  `json:"created_at,omitzero"`
	UpdatedAt  time.Time  `json:"updated_at,omitzero"`
}

// UserCreate is the body for creating a user (admin only).
type UserCreate struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Role       UserRole `json:"role"`
	Department string   `json:"department,omitempty"`
}

// UserUpdate is the body for updating a user profile. Nil fields are
// left unchanged.
type UserUpdate struct {
	Email      *string `json:"email,omitempty"`
	Department *string `json:"department,omitempty"`
}

// UserRoleUpdate changes a user's role and optionally their status.
type UserRoleUpdate struct {
	Role   UserRole    `json:"role"`
	Status *UserStatus `json:"status,omitempty"`
}

// UserPasswordChange is the body for the change-password endpoint.
type UserPasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserResponse is the envelope returned by user mutation endpoints.
type UserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    User   `json:"data"`
}

// UserListResponse is the envelope returned by the user list endpoint.
type UserListResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    []User `json:"data"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// UserListParams are the query parameters accepted by the user list
// endpoint. Zero values are omitted from the request.
type UserListParams struct {
	Skip       int
	Limit      int
	Role       UserRole
	Status     UserStatus
	Search     string
	Department string
}

// DistributionEntry is one bucket of a grouped count in UserStats.
type DistributionEntry struct {
	Role       string `json:"role,omitempty"`
	Status     string `json:"status,omitempty"`
	Department string `json:"department,omitempty"`
	Count      int    `json:"count"`
}

// UserStats is the summary returned by the user statistics endpoint.
type UserStats struct {
	TotalUsers             int                 `json:"total_users"`
	ActiveUsers            int                 `json:"active_users"`
	InactiveUsers          int                 `json:"inactive_users"`
	RoleDistribution       []DistributionEntry `json:"role_distribution"`
	StatusDistribution     []DistributionEntry `json:"status_distribution"`
	DepartmentDistribution []DistributionEntry `json:"department_distribution"`
}
