package attendance

import (
	"go-attendance/internal/employee"
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.POST("/check-in", middleware.RoleMiddleware(employee.RoleEmployee), h.CheckIn)
		attendances.GET("/today", middleware.RoleMiddleware(employee.RoleEmployee), h.GetToday)
		attendances.GET("/me", middleware.RoleMiddleware(employee.RoleEmployee), h.GetMonthly)
		attendances.GET("", middleware.RoleMiddleware(employee.RoleAdmin), h.GetAll)
		attendances.PATCH("/:id/verify", middleware.RoleMiddleware(employee.RoleAdmin), h.Verify)
	}
}
