package employee

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RoleMiddleware(RoleAdmin), h.GetRoster)
		employees.PATCH("/:id/role", middleware.RoleMiddleware(RoleAdmin), h.UpdateRole)
		employees.GET("/me", h.GetMe)
		employees.PUT("/me", h.UpdateMe)
	}
}
