package domain

type Role string

const (
	RoleCustomer      Role = "Customer"
	RoleAgent         Role = "Agent"
	RoleAdministrator Role = "Administrator"
)

// CanOverrideOwnership reports whether the role may read or cancel
// bookings that belong to other users.
func (r Role) CanOverrideOwnership() bool {
	return r == RoleAgent || r == RoleAdministrator
}

// CanManageInventory reports whether the role may add, update or delete
// flights.
func (r Role) CanManageInventory() bool {
	return r == RoleAgent || r == RoleAdministrator
}

type User struct {
	ID       int64
	Username string
	Email    string
	Phone    string
	Role     Role
}
