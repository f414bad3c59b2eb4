package enums

import "fmt"

// Role represents a user's permission level.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleModerator Role = "moderator"
)

var validRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleModerator,
}

// roleRanks orders the roles: admin outranks manager outranks moderator.
var roleRanks = map[Role]int{
	RoleAdmin:     3,
	RoleManager:   2,
	RoleModerator: 1,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the role's position in the hierarchy, 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether the role ranks at or above required.
func (r Role) AtLeast(required Role) bool {
	return r.Rank() >= required.Rank() && required.IsValid()
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// Roles returns the enumerated role set.
func Roles() []Role {
	return append([]Role(nil), validRoles...)
}
