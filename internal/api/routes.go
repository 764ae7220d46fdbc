package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/service"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth       service.AuthService
	Profile    service.ProfileService
	Uploads    service.UploadService
	Analysis   service.AnalysisService
	Workout    service.WorkoutService
	Diet       service.DietService
	Coach      service.CoachService
	Progress   service.ProgressService
	Access     service.AccessService
	Membership service.MembershipService
	Freemium   service.FreemiumService
}

func SetupRoutes(router *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	profileHandler := NewProfileHandler(svc.Profile)
	uploadHandler := NewUploadHandler(svc.Uploads)
	analysisHandler := NewAnalysisHandler(svc.Analysis, svc.Uploads)
	workoutHandler := NewWorkoutHandler(svc.Workout)
	dietHandler := NewDietHandler(svc.Diet, svc.Uploads)
	coachHandler := NewCoachHandler(svc.Coach)
	progressHandler := NewProgressHandler(svc.Progress)
	accessHandler := NewAccessHandler(svc.Access)
	membershipHandler := NewMembershipHandler(svc.Membership)
	freemiumHandler := NewFreemiumHandler(svc.Freemium)

	authMiddleware := AuthMiddleware(svc.Auth)

	ping := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	}
	router.GET("/ping", ping)

	apiV1 := router.Group("/api/v1")
	apiV1.GET("/ping", ping)
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/google", authHandler.LoginWithGoogle)
			authGroup.POST("/password-reset", authHandler.RequestPasswordReset)
			authGroup.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
		}

		// Entry scanning happens at the door, outside any member session.
		apiV1.POST("/qr/scan", accessHandler.Scan)

		freemiumGroup := apiV1.Group("/freemium")
		{
			freemiumGroup.POST("/bmi", freemiumHandler.BMI)
			freemiumGroup.GET("/status", freemiumHandler.Status)
			freemiumGroup.POST("/analyze", freemiumHandler.Analyze)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/me", profileHandler.Me)
		protected.PATCH("/me/profile", profileHandler.UpdateProfile)
		protected.POST("/me/password", profileHandler.ChangePassword)

		protected.GET("/qr", accessHandler.QRImage)
		protected.GET("/qr/payload", accessHandler.QRPayload)

		protected.POST("/uploads", uploadHandler.CreateUpload)

		pages := protected.Group("/pages")
		{
			pages.GET("/dashboard", membershipHandler.Dashboard)
			pages.GET("/body-analysis", analysisHandler.Page)
			pages.GET("/workout-program", workoutHandler.Page)
			pages.GET("/diet-plan", dietHandler.Page)
			pages.GET("/coach-plan", coachHandler.Page)
			pages.GET("/membership", membershipHandler.Page)
		}

		bodyGroup := protected.Group("/body-analysis")
		{
			bodyGroup.POST("/photos", analysisHandler.StagePhoto)
			bodyGroup.POST("/analyze", analysisHandler.Analyze)
			bodyGroup.DELETE("", analysisHandler.Reset)
		}

		workoutGroup := protected.Group("/workout-program")
		{
			workoutGroup.PATCH("/days/:day/exercises/:exerciseId/toggle", workoutHandler.ToggleExercise)
			workoutGroup.PUT("/days/:day/exercises/:exerciseId/notes", workoutHandler.SaveNotes)
			workoutGroup.GET("/pdf", workoutHandler.ExportPDF)
		}

		dietGroup := protected.Group("/diet-plan")
		{
			dietGroup.POST("/analyze", dietHandler.Analyze)
			dietGroup.DELETE("", dietHandler.Reset)
			dietGroup.GET("/pdf", dietHandler.ExportPDF)
		}

		protected.POST("/coach-plan", coachHandler.Generate)

		protected.GET("/progress", progressHandler.List)
		protected.POST("/progress", progressHandler.Add)

		protected.POST("/membership/cancel", membershipHandler.Cancel)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.PUT("/members/:userId/plan", membershipHandler.ChangePlan)
		}
	}
}
