// Package authorization defines the role model shared by the ticket and
// token lifecycle cores. The role set mirrors the MSP operating model:
// platform staff (superadmin, admin, technician) work tickets, client-side
// roles (client_admin, solicitante) raise and follow them.
package authorization

type UserRole string

const (
	RoleSuperadmin  UserRole = "superadmin"
	RoleAdmin       UserRole = "admin"
	RoleTechnician  UserRole = "technician"
	RoleClientAdmin UserRole = "client_admin"
	RoleSolicitante UserRole = "solicitante"
)

var validRoles = map[UserRole]bool{
	RoleSuperadmin:  true,
	RoleAdmin:       true,
	RoleTechnician:  true,
	RoleClientAdmin: true,
	RoleSolicitante: true,
}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	return validRoles[r]
}

func (r UserRole) IsSuperadmin() bool {
	return r == RoleSuperadmin
}

// IsStaff reports whether the role belongs to the MSP side of the house.
// Staff roles may work tickets and drive status transitions.
func (r UserRole) IsStaff() bool {
	return r == RoleSuperadmin || r == RoleAdmin || r == RoleTechnician
}

// IsClientSide reports whether the role belongs to a client organization.
func (r UserRole) IsClientSide() bool {
	return r == RoleClientAdmin || r == RoleSolicitante
}

// CanAssignTickets reports whether the role may assign or reassign tickets.
// Client-side roles are read-only with respect to assignment.
func (r UserRole) CanAssignTickets() bool {
	return r.IsStaff()
}

// CanBeAssignee reports whether a user holding this role may appear as a
// ticket's assigned technician.
func (r UserRole) CanBeAssignee() bool {
	return r.IsStaff()
}

// CanCancelTickets reports whether the role may apply the administrative
// cancellation override.
func (r UserRole) CanCancelTickets() bool {
	return r == RoleSuperadmin || r == RoleAdmin
}

// CanManageTokens reports whether the role may issue or deactivate agent
// installation tokens. Tokens are field-operations credentials, so this is
// superadmin and technician, not admin.
func (r UserRole) CanManageTokens() bool {
	return r == RoleSuperadmin || r == RoleTechnician
}

// CanDeleteTokens reports whether the role may hard-delete an installation
// token. Deactivation is enough for day-to-day revocation, so deletion is
// reserved for superadmin.
func (r UserRole) CanDeleteTokens() bool {
	return r == RoleSuperadmin
}

func ParseUserRole(s string) (UserRole, bool) {
	role := UserRole(s)
	return role, role.IsValid()
}

// Actor is the acting principal for an operation: who is doing it and with
// which role. Built by the auth middleware from verified token claims.
type Actor struct {
	UserID uint
	Role   UserRole
}
