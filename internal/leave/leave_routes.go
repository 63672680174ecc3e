package leave

import (
	"go-attendance/internal/employee"
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, submitGuards ...gin.HandlerFunc) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		submit := []gin.HandlerFunc{middleware.RoleMiddleware(employee.RoleEmployee)}
		submit = append(submit, submitGuards...)
		submit = append(submit, h.Submit)
		leaves.POST("", submit...)

		leaves.GET("/me", middleware.RoleMiddleware(employee.RoleEmployee), h.GetMine)
		leaves.GET("", middleware.RoleMiddleware(employee.RoleAdmin), h.GetAll)
		leaves.PATCH("/:id/status", middleware.RoleMiddleware(employee.RoleAdmin), h.UpdateStatus)
	}
}
