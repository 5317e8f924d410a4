// Package directory defines the ports to the client/site/user directory.
// The helpdesk core consumes these as opaque collaborators; persistence
// and querying of clients, sites and users live elsewhere.
package directory

import (
	"context"

	"helpdesk/internal/shared/authorization"
)

// User is the directory's view of a principal, enough to authorize
// assignment decisions.
type User struct {
	ID       uint
	Name     string
	Email    string
	Role     authorization.UserRole
	ClientID uint
	Active   bool
}

// CanBeAssigned reports whether the user may appear as a ticket assignee.
func (u *User) CanBeAssigned() bool {
	return u.Active && u.Role.CanBeAssignee()
}

// UserDirectory resolves users by ID.
type UserDirectory interface {
	GetByID(ctx context.Context, userID uint) (*User, error)
}

// ClientDirectory answers client/site scope questions. A site always
// belongs to exactly one client.
type ClientDirectory interface {
	SiteBelongsToClient(ctx context.Context, clientID, siteID uint) (bool, error)
}
