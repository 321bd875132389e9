package main

import (
	"recipe-catalog-backend/config"
	"recipe-catalog-backend/database"
	"recipe-catalog-backend/handlers"
	"recipe-catalog-backend/logger"
	"recipe-catalog-backend/middleware"
	"recipe-catalog-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables; a missing .env file is fine.
	_ = godotenv.Load()

	logger.Initialize()
	defer logger.Close()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	if err := database.Seed(db, cfg); err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}

	// Wire services
	gate := services.NewAccessGate()
	audit := services.NewAuditService(db, logger.Logger)
	defer audit.Close()
	taxonomy := services.NewTaxonomyService()

	authService := services.NewAuthService(db, audit)
	catalogService := services.NewCatalogService(db, gate)
	recipeService := services.NewRecipeService(db, gate, taxonomy)
	interactionService := services.NewInteractionService(db, gate)
	moderationService := services.NewModerationService(db, gate)
	userAdminService := services.NewUserAdminService(db, gate, audit)
	metaService := services.NewMetaService(db, gate, audit)

	// Wire handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecret)
	recipeHandler := handlers.NewRecipeHandler(recipeService, catalogService)
	interactionHandler := handlers.NewInteractionHandler(interactionService, catalogService, moderationService)
	metaHandler := handlers.NewMetaHandler(metaService)
	userAdminHandler := handlers.NewUserAdminHandler(userAdminService, cfg.ResetPassword)
	uploadHandler, err := handlers.NewUploadHandler(cfg.UploadDir)
	if err != nil {
		logger.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Serve uploaded files
	router.GET("/uploads/:filename", uploadHandler.ServeUpload)

	// Public routes
	public := router.Group("/api")
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)

		public.GET("/recipes", recipeHandler.List)
		public.GET("/recipes/:id", middleware.OptionalAuthMiddleware(cfg.JWTSecret), recipeHandler.Get)
		public.GET("/recipes/:id/comments", interactionHandler.ListComments)
		public.GET("/recipes/:id/ratings/summary", middleware.OptionalAuthMiddleware(cfg.JWTSecret), interactionHandler.RatingSummary)

		public.GET("/categories", metaHandler.ListCategories)
		public.GET("/categories/:id", metaHandler.GetCategory)
		public.GET("/tags", metaHandler.ListTags)
		public.GET("/ingredients", metaHandler.ListIngredients)
		public.GET("/ingredients/:id", metaHandler.GetIngredient)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		// Recipes
		protected.GET("/recipes/mine", recipeHandler.ListMine)
		protected.POST("/recipes", recipeHandler.Create)
		protected.PUT("/recipes/:id", recipeHandler.Update)
		protected.DELETE("/recipes/:id", recipeHandler.Delete)
		protected.POST("/upload", uploadHandler.UploadImage)

		// Ratings
		protected.POST("/recipes/:id/ratings", interactionHandler.Rate)
		protected.PUT("/ratings/:id", interactionHandler.UpdateRating)
		protected.DELETE("/ratings/:id", interactionHandler.DeleteRating)

		// Comments
		protected.POST("/recipes/:id/comments", interactionHandler.AddComment)
		protected.PUT("/comments/:id", interactionHandler.UpdateComment)
		protected.DELETE("/comments/:id", interactionHandler.DeleteComment)

		// Favorites
		protected.GET("/favorites", interactionHandler.ListFavorites)
		protected.POST("/recipes/:id/favorite", interactionHandler.ToggleFavorite)
		protected.GET("/recipes/:id/favorite", interactionHandler.CheckFavorite)

		// Reports and moderation
		protected.POST("/reports", interactionHandler.CreateReport)
		protected.GET("/reports", interactionHandler.ListReports)
		protected.POST("/reports/:id/resolve", interactionHandler.ResolveReport)
		protected.POST("/reports/:id/remove", interactionHandler.RemoveReported)

		// Vocabulary management
		protected.POST("/categories", metaHandler.CreateCategory)
		protected.PUT("/categories/:id", metaHandler.UpdateCategory)
		protected.DELETE("/categories/:id", metaHandler.DeleteCategory)
		protected.POST("/tags", metaHandler.CreateTag)
		protected.PUT("/tags/:id", metaHandler.UpdateTag)
		protected.DELETE("/tags/:id", metaHandler.DeleteTag)
		protected.POST("/ingredients", metaHandler.CreateIngredient)
		protected.PUT("/ingredients/:id", metaHandler.UpdateIngredient)
		protected.DELETE("/ingredients/:id", metaHandler.DeleteIngredient)

		// User administration
		protected.GET("/admin/users", userAdminHandler.List)
		protected.GET("/admin/users/:id", userAdminHandler.Get)
		protected.PUT("/admin/users/:id", userAdminHandler.Update)
		protected.PUT("/admin/users/:id/role", userAdminHandler.SetRole)
		protected.POST("/admin/users/:id/reset-password", userAdminHandler.ResetUserPassword)
		protected.DELETE("/admin/users/:id", userAdminHandler.Delete)
	}

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
