package api

import (
	"net/http"

	"smartrecipe/internal/auth"
	"smartrecipe/internal/chatbot"
	"smartrecipe/internal/config"
	"smartrecipe/internal/handlers"
	"smartrecipe/internal/logger"
	"smartrecipe/internal/metrics"
	"smartrecipe/internal/websocket"

	"github.com/gin-gonic/gin"
)

// Services carries everything the routes need. The repositories are usually
// the database ones; tests substitute in-memory stores.
type Services struct {
	Users      handlers.UserStore
	Recipes    handlers.RecipeStore
	Grocery    handlers.GroceryStore
	Memories   handlers.MemoryStore
	DB         handlers.Pinger
	Recognizer handlers.ImageRecognizer
	Limiter    *chatbot.RateLimiter
	Hub        *websocket.Hub
}

func SetupRouter(svc Services, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware(), metrics.Middleware(), corsMiddleware(cfg.CORS.AllowedOrigins))

	jwtManager := auth.NewJWTManager(cfg.JWT)

	authHandler := handlers.NewAuthHandler(svc.Users, jwtManager)
	userHandler := handlers.NewUserHandler(svc.Recipes)
	recipeHandler := handlers.NewRecipeHandler(svc.Recipes, svc.Hub)
	groceryHandler := handlers.NewGroceryHandler(svc.Grocery, svc.Hub)
	memoryHandler := handlers.NewMemoryHandler(svc.Memories)
	chatbotHandler := handlers.NewChatbotHandler(svc.Limiter, cfg.Chatbot.ResponseDelay)
	generatorHandler := handlers.NewRecipeGeneratorHandler(svc.Recognizer, cfg.Upload.MaxBytes)
	wsHandler := handlers.NewWebSocketHandler(svc.Hub, cfg.CORS.AllowedOrigins)
	healthHandler := handlers.NewHealthHandler(svc.DB)

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", metrics.Handler())

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/users", authHandler.Register)
		api.POST("/auth", authHandler.Login)
		api.POST("/auth/forgot-password", authHandler.ForgotPassword)
		api.GET("/recipes/community", recipeHandler.GetCommunityRecipes)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(jwtManager))
	{
		protected.GET("/auth", authHandler.Me)
		protected.GET("/users/likes", userHandler.GetLikes)

		recipes := protected.Group("/recipes")
		{
			recipes.GET("/user", recipeHandler.GetUserRecipes)
			recipes.GET("/saved", recipeHandler.GetSavedRecipes)
			recipes.POST("", recipeHandler.CreateRecipe)
			recipes.POST("/generate", recipeHandler.GenerateRecipe)
			recipes.GET("/:id", recipeHandler.GetRecipe)
			recipes.PUT("/:id", recipeHandler.UpdateRecipe)
			recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
			recipes.PUT("/save/:id", recipeHandler.SaveRecipe)
			recipes.DELETE("/saved/:id", recipeHandler.UnsaveRecipe)
			recipes.PUT("/like/:id", recipeHandler.LikeRecipe)
			recipes.PUT("/unlike/:id", recipeHandler.UnlikeRecipe)
			recipes.POST("/comment/:id", recipeHandler.AddComment)
		}

		grocery := protected.Group("/grocery")
		{
			grocery.GET("", groceryHandler.GetLists)
			grocery.GET("/suggestions", groceryHandler.GetSuggestions)
			grocery.POST("", groceryHandler.CreateList)
			grocery.PUT("/:id", groceryHandler.UpdateList)
			grocery.DELETE("/:id", groceryHandler.DeleteList)
			grocery.POST("/add-item/:id", groceryHandler.AddItem)
			grocery.PUT("/toggle-item/:id/:item_id", groceryHandler.ToggleItem)
			grocery.DELETE("/remove-item/:id/:item_id", groceryHandler.RemoveItem)
		}

		memories := protected.Group("/memories")
		{
			memories.GET("", memoryHandler.GetMemories)
			memories.POST("", memoryHandler.CreateMemory)
			memories.PUT("/:id", memoryHandler.UpdateMemory)
			memories.DELETE("/:id", memoryHandler.DeleteMemory)
		}

		protected.POST("/chatbot", chatbotHandler.Chat)
		protected.POST("/recipe-generator/upload", generatorHandler.Upload)

		protected.GET("/ws", wsHandler.HandleWebSocket)
		protected.GET("/ws/online", wsHandler.GetOnlineUsers)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		if origin := c.Request.Header.Get("Origin"); allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Length, Content-Type, Authorization, "+auth.TokenHeader)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
