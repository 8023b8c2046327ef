package actor

import "fmt"

// Role is the closed set of roles the workflow understands. Anything else
// must fail at construction time, never fall through a default branch.
type Role string

const (
	RoleSupplier          Role = "SUPPLIER"
	RoleCategoryManager   Role = "CATEGORY_MANAGER"
	RoleDepartmentManager Role = "DMP_MANAGER"
	RoleAdmin             Role = "ADMIN"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleSupplier, RoleCategoryManager, RoleDepartmentManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a raw claim value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// GetAllRoles returns all valid roles.
func GetAllRoles() []Role {
	return []Role{
		RoleSupplier,
		RoleCategoryManager,
		RoleDepartmentManager,
		RoleAdmin,
	}
}

// Actor is the authenticated identity supplied by the session provider.
// The core trusts these fields, it never mints or refreshes them.
type Actor struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	Category string `json:"category,omitempty"`
	INN      string `json:"inn,omitempty"`
}
