package routes

import (
	"net/http"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/controllers"
	"github.com/Asus75000/sae-prof/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups every HTTP controller
type Controllers struct {
	Auth             *controllers.AuthController
	Member           *controllers.MemberController
	Category         *controllers.CategoryController
	SportEvent       *controllers.SportEventController
	AssociationEvent *controllers.AssociationEventController
	Registration     *controllers.RegistrationController
	Stats            *controllers.StatsController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	// Visitors may browse; a token, when present, unlocks private events.
	public := v1.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		authGroup := public.Group("/auth")
		authGroup.POST("/register", ctrl.Auth.Register)
		authGroup.POST("/login", ctrl.Auth.Login)

		public.GET("/categories", ctrl.Category.List)
		public.GET("/sport-events", ctrl.SportEvent.List)
		public.GET("/sport-events/:id", ctrl.SportEvent.Get)
		public.GET("/association-events", ctrl.AssociationEvent.List)
		public.GET("/association-events/:id", ctrl.AssociationEvent.Get)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.RequireAuth())
	{
		me := authenticated.Group("/me")
		me.GET("", ctrl.Member.GetProfile)
		me.PUT("", ctrl.Member.UpdateProfile)
		me.POST("/adherent", ctrl.Member.BecomeAdherent)
		me.GET("/registrations", ctrl.Registration.ListMine)

		authenticated.POST("/sport-events/:id/registrations", ctrl.Registration.EnrollSlots)
		authenticated.DELETE("/sport-events/:id/registrations", ctrl.Registration.UnenrollSportEvent)
		authenticated.DELETE("/time-slots/:slotId/registration", ctrl.Registration.UnenrollSlot)
		authenticated.POST("/association-events/:id/registrations", ctrl.Registration.EnrollAssociationEvent)
		authenticated.DELETE("/association-events/:id/registrations", ctrl.Registration.UnenrollAssociationEvent)
	}

	// --- Management routes (managers and administrators) ---
	manage := authenticated.Group("")
	manage.Use(middleware.RequirePermission(auth.PermManageEvents))
	{
		manage.POST("/categories", ctrl.Category.Create)
		manage.PUT("/categories/:id", ctrl.Category.Update)
		manage.DELETE("/categories/:id", ctrl.Category.Delete)

		manage.POST("/sport-events", ctrl.SportEvent.Create)
		manage.PUT("/sport-events/:id", ctrl.SportEvent.Update)
		manage.DELETE("/sport-events/:id", ctrl.SportEvent.Delete)
		manage.GET("/sport-events/:id/time-slots", ctrl.SportEvent.ListSlots)
		manage.POST("/sport-events/:id/time-slots", ctrl.SportEvent.CreateSlot)
		manage.PUT("/time-slots/:slotId", ctrl.SportEvent.UpdateSlot)
		manage.DELETE("/time-slots/:slotId", ctrl.SportEvent.DeleteSlot)

		manage.POST("/association-events", ctrl.AssociationEvent.Create)
		manage.PUT("/association-events/:id", ctrl.AssociationEvent.Update)
		manage.DELETE("/association-events/:id", ctrl.AssociationEvent.Delete)

		manage.GET("/time-slots/:slotId/volunteers", ctrl.Registration.ListSlotVolunteers)
		manage.PUT("/time-slots/:slotId/volunteers/:memberId/presence", ctrl.Registration.SetPresence)
		manage.GET("/association-events/:id/participants", ctrl.Registration.ListParticipants)

		manage.GET("/admin/stats", ctrl.Stats.Dashboard)
	}

	// --- Administrator routes ---
	admin := authenticated.Group("/admin/members")
	admin.Use(middleware.RequirePermission(auth.PermManageMembers))
	{
		admin.GET("", ctrl.Member.ListMembers)
		admin.GET("/:id", ctrl.Member.GetMember)
		admin.POST("/:id/approve", ctrl.Member.Approve)
		admin.POST("/:id/reject", ctrl.Member.Reject)
		admin.POST("/:id/toggle-manager", ctrl.Member.ToggleManager)
		admin.POST("/:id/adherent", ctrl.Member.PromoteAdherent)
	}
}
