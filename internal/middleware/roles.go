package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/models"
)

// permissions maps each mutating operation to the roles allowed to call it.
// Ownership checks (a customer touching their own booking) stay in the
// handlers; this table only covers role-level access.
var permissions = map[string][]models.UserRole{
	"bookings:update-status":  {models.RoleAdmin, models.RoleOperator},
	"admin:list-bookings":     {models.RoleAdmin},
	"admin:assign-operator":   {models.RoleAdmin},
	"admin:stats":             {models.RoleAdmin},
	"admin:revenue-analytics": {models.RoleAdmin},
	"admin:list-users":        {models.RoleAdmin},
	"admin:toggle-user":       {models.RoleAdmin},
	"services:create":         {models.RoleAdmin},
	"services:update":         {models.RoleAdmin},
	"services:delete":         {models.RoleAdmin},
}

// Allowed reports whether the role may perform the operation
func Allowed(operation string, role models.UserRole) bool {
	for _, allowed := range permissions[operation] {
		if allowed == role {
			return true
		}
	}
	return false
}

// RequirePermission guards a route with the permission table. Assumes
// AuthMiddleware already set userRole on the context.
func RequirePermission(operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("userRole")
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Role not found on context"})
			return
		}

		if !Allowed(operation, models.UserRole(role)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}
