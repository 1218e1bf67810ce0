package enums

// UserRole captures what a dashboard user may act on. SUPERADMIN spans all
// restaurants; OWNER and STAFF are bound to one.
type UserRole string

const (
	UserRoleSuperadmin UserRole = "SUPERADMIN"
	UserRoleOwner      UserRole = "OWNER"
	UserRoleStaff      UserRole = "STAFF"
)

var userRoles = closedSet[UserRole]{
	label:  "user role",
	values: []UserRole{UserRoleSuperadmin, UserRoleOwner, UserRoleStaff},
}

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool { return userRoles.contains(r) }

func ParseUserRole(value string) (UserRole, error) { return userRoles.parse(value) }
