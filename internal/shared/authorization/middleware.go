package authorization

import (
	"github.com/gin-gonic/gin"
)

// ContextKeyUserID and ContextKeyUserRole are the gin context keys set by
// the auth middleware after token verification.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// ActorFromContext rebuilds the acting principal from the gin context.
// Returns false when the auth middleware has not run.
func ActorFromContext(c *gin.Context) (Actor, bool) {
	userID, ok := c.Get(ContextKeyUserID)
	if !ok {
		return Actor{}, false
	}
	id, ok := userID.(uint)
	if !ok {
		return Actor{}, false
	}
	role, ok := ParseUserRole(c.GetString(ContextKeyUserRole))
	if !ok {
		return Actor{}, false
	}
	return Actor{UserID: id, Role: role}, true
}

// RequireStaff rejects requests from client-side roles.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := ParseUserRole(c.GetString(ContextKeyUserRole))
		if !ok || !role.IsStaff() {
			c.JSON(403, gin.H{
				"error": "staff access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperadmin rejects everyone but superadmin.
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := ParseUserRole(c.GetString(ContextKeyUserRole))
		if !ok || !role.IsSuperadmin() {
			c.JSON(403, gin.H{
				"error": "superadmin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
