package holiday

import (
	"go-attendance/internal/employee"
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", h.GetAll)
		holidays.POST("", middleware.RoleMiddleware(employee.RoleAdmin), h.Create)
		holidays.DELETE("/:id", middleware.RoleMiddleware(employee.RoleAdmin), h.Delete)
	}
}
