package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/np-nandanpatil/vehicle-breakdown-assistance/internal/services"
)

// WebSocketHandler upgrades the connection for live booking updates
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("userRole")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}
