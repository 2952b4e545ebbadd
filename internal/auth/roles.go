package auth

// Role is a winery staff role carried in the app_role claim.
type Role string

const (
	RoleViewer    Role = "viewer"
	RoleWinemaker Role = "winemaker"
	RoleAdmin     Role = "admin"
)

// Higher ranks include the permissions of lower ones.
var roleRanks = map[Role]int{
	RoleViewer:    1,
	RoleWinemaker: 2,
	RoleAdmin:     3,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// NormalizeRole maps an app_role claim to a Role. Tokens issued before the
// claim existed carry none and read as viewer.
func NormalizeRole(value string) (Role, bool) {
	if value == "" {
		return RoleViewer, true
	}
	role := Role(value)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// RoleAtLeast reports whether role grants everything required does.
func RoleAtLeast(role Role, required Role) bool {
	return role.Valid() && roleRanks[role] >= roleRanks[required]
}
