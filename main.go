package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/Taraweeh/controllers"
	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/middlewares"
	"github.com/Taraweeh/services"
)

func init() {
	initializers.LoadEnv()
	initializers.InitLogger()
	initializers.ConnectDB()
	initializers.EnsureLegacyAdmin()
	initializers.RegisterValidators()
	services.InitCache()
	services.InitFirebase()
	services.InitEmailService()
	services.InitAudioService()
}

func main() {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger)
	router.Use(middlewares.Metrics)
	router.Use(middlewares.SecurityHeaders)

	perRoute := func(n int) gin.HandlerFunc {
		return middlewares.PerMinute(n, middlewares.RouteClientKey)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/sitemap.xml", controllers.Sitemap)
	router.POST("/report-error", perRoute(3), controllers.ReportError)

	// legacy back office
	router.POST("/login", perRoute(5), controllers.AdminLogin)
	router.POST("/admin/upload-audio", middlewares.CheckLegacyAdmin, controllers.LegacyUploadAudio)

	api := router.Group("/api")
	api.Use(middlewares.PerMinute(200, middlewares.ClientKey))
	{
		// public routes
		api.GET("/mosques", controllers.GetMosques)
		api.GET("/mosques/search", perRoute(30), controllers.SearchMosques)
		api.GET("/mosques/nearby", perRoute(20), controllers.NearbyMosques)
		api.GET("/mosques/:mosque_id", controllers.GetMosque)
		api.GET("/locations", controllers.GetLocations)
		api.GET("/areas", controllers.GetAreas)
		api.GET("/leaderboard", controllers.GetLeaderboard)
		api.GET("/imams/search", perRoute(30), controllers.SearchImams)
		api.GET("/u/:username", controllers.PublicProfile)
		api.GET("/u/:username/tracker", controllers.PublicTracker)
		api.POST("/report-error", perRoute(3), controllers.ReportError)

		api.POST("/transfers/:transfer_id/approve", middlewares.CheckLegacyAdmin, controllers.LegacyApproveTransfer)
		api.POST("/transfers/:transfer_id/reject", middlewares.CheckLegacyAdmin, controllers.LegacyRejectTransfer)
	}

	auth := api.Group("/")
	auth.Use(middlewares.CheckAuth)
	{
		auth.POST("/auth/register", perRoute(5), controllers.Register)
		auth.GET("/auth/me", controllers.Me)

		// favorites
		auth.GET("/user/favorites", controllers.GetFavorites)
		auth.PUT("/user/favorites", controllers.SetFavorites)
		auth.POST("/user/favorites/:mosque_id", controllers.AddFavorite)
		auth.DELETE("/user/favorites/:mosque_id", controllers.RemoveFavorite)

		// attendance tracker
		auth.GET("/user/tracker", controllers.GetTracker)
		auth.POST("/user/tracker/:night", controllers.MarkNight)
		auth.DELETE("/user/tracker/:night", controllers.UnmarkNight)

		auth.POST("/user/push-token", controllers.StorePushToken)

		// transfers
		auth.POST("/transfers", perRoute(10), controllers.SubmitTransfer)
		auth.DELETE("/transfers/:transfer_id", controllers.CancelTransfer)
		auth.GET("/user/transfers", controllers.GetUserTransfers)

		// community requests
		auth.POST("/requests", perRoute(10), controllers.SubmitRequest)
		auth.GET("/requests/my", controllers.GetMyRequests)
		auth.GET("/requests/check-duplicate", controllers.CheckDuplicate)
		auth.DELETE("/requests/:request_id", controllers.CancelRequest)
	}

	admin := auth.Group("/admin")
	admin.Use(middlewares.CheckAdmin)
	{
		admin.GET("/stats", controllers.AdminStats)

		admin.GET("/mosques", controllers.AdminListMosques)
		admin.POST("/mosques", controllers.AdminCreateMosque)
		admin.GET("/mosques/:mosque_id", controllers.AdminGetMosque)
		admin.PUT("/mosques/:mosque_id", controllers.AdminUpdateMosque)
		admin.DELETE("/mosques/:mosque_id", controllers.AdminDeleteMosque)

		admin.GET("/imams", controllers.AdminListImams)
		admin.POST("/imams", controllers.AdminCreateImam)
		admin.GET("/imams/:imam_id", controllers.AdminGetImam)
		admin.PUT("/imams/:imam_id", controllers.AdminUpdateImam)
		admin.DELETE("/imams/:imam_id", controllers.AdminDeleteImam)

		admin.GET("/users", controllers.AdminListUsers)
		admin.PUT("/users/:user_id/role", controllers.UpdateUserRole)
		admin.PUT("/users/:user_id/trust-level", controllers.UpdateUserTrustLevel)

		admin.GET("/transfers", controllers.AdminListTransfers)
		admin.POST("/transfers/:transfer_id/approve", controllers.AdminApproveTransfer)
		admin.POST("/transfers/:transfer_id/reject", controllers.AdminRejectTransfer)

		admin.GET("/requests", controllers.AdminListRequests)
		admin.GET("/requests/:request_id", controllers.AdminGetRequest)
		admin.POST("/requests/:request_id/approve", controllers.AdminApproveRequest)
		admin.POST("/requests/:request_id/reject", controllers.AdminRejectRequest)
		admin.POST("/requests/:request_id/needs-info", controllers.AdminRequestInfo)

		admin.POST("/audio/extract", perRoute(10), controllers.ExtractAudio)
		admin.GET("/audio/temp/:temp_id", controllers.GetTempAudio)
		admin.POST("/audio/upload-file", perRoute(10), controllers.UploadAudioFile)
		admin.POST("/audio/trim-upload", controllers.TrimUploadAudio)
	}

	port := initializers.Getenv("PORT", "5002")
	log.Info().Str("port", port).Msg("starting server")
	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
