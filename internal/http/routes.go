package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())

	r.GET("/api/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/api/auth", RateLimit(h))
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/google", h.GoogleLogin)
	}

	api := r.Group("/api", Auth(h))
	{
		api.GET("/users/me", h.Me)
		api.PATCH("/users/me", h.UpdateMe)

		api.GET("/customers", h.ListCustomers)
		api.POST("/customers", h.CreateCustomer)
		api.GET("/customers/:id", h.GetCustomer)
		api.PATCH("/customers/:id", h.PatchCustomer)
		api.DELETE("/customers/:id", h.DeleteCustomer)

		api.GET("/interactions", h.ListInteractions)
		api.POST("/interactions", h.CreateInteraction)
		api.GET("/interactions/:id", h.GetInteraction)
		api.DELETE("/interactions/:id", h.DeleteInteraction)

		api.GET("/schedules", h.ListSchedules)
		api.POST("/schedules", h.CreateSchedule)
		api.GET("/schedules/:id", h.GetSchedule)
		api.PATCH("/schedules/:id", h.PatchSchedule)
		api.DELETE("/schedules/:id", h.DeleteSchedule)

		api.GET("/course-plans", h.ListCoursePlans)
		api.POST("/course-plans", h.CreateCoursePlan)
		api.GET("/course-plans/:id", h.GetCoursePlan)
		api.DELETE("/course-plans/:id", h.DeleteCoursePlan)

		api.Any("/ai/*path", h.AIProxy)
	}

	return r
}
