package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartrecipe/internal/auth"
	"smartrecipe/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testUser stands in for the JWT middleware: the X-User header becomes the
// authenticated user id.
func testUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-User"); id != "" {
			auth.SetUserID(c, id)
		}
		c.Next()
	}
}

type testEnv struct {
	store       *fakeStore
	broadcaster *fakeBroadcaster
	jwt         *auth.JWTManager
	router      *gin.Engine
}

func newTestEnv() *testEnv {
	env := &testEnv{
		store:       newFakeStore(),
		broadcaster: &fakeBroadcaster{},
		jwt:         auth.NewJWTManager(config.JWTConfig{Secret: "test-secret", ExpiresIn: "1h"}),
	}

	authHandler := NewAuthHandler(env.store, env.jwt)
	userHandler := NewUserHandler(env.store)
	recipeHandler := NewRecipeHandler(env.store, env.broadcaster)
	groceryHandler := NewGroceryHandler(env.store, env.broadcaster)
	memoryHandler := NewMemoryHandler(env.store)

	r := gin.New()
	r.Use(testUser())
	api := r.Group("/api")
	api.POST("/users", authHandler.Register)
	api.GET("/users/likes", userHandler.GetLikes)
	api.POST("/auth", authHandler.Login)
	api.GET("/auth", authHandler.Me)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)

	recipes := api.Group("/recipes")
	recipes.GET("/community", recipeHandler.GetCommunityRecipes)
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

	grocery := api.Group("/grocery")
	grocery.GET("", groceryHandler.GetLists)
	grocery.GET("/suggestions", groceryHandler.GetSuggestions)
	grocery.POST("", groceryHandler.CreateList)
	grocery.PUT("/:id", groceryHandler.UpdateList)
	grocery.DELETE("/:id", groceryHandler.DeleteList)
	grocery.POST("/add-item/:id", groceryHandler.AddItem)
	grocery.PUT("/toggle-item/:id/:item_id", groceryHandler.ToggleItem)
	grocery.DELETE("/remove-item/:id/:item_id", groceryHandler.RemoveItem)

	memories := api.Group("/memories")
	memories.GET("", memoryHandler.GetMemories)
	memories.POST("", memoryHandler.CreateMemory)
	memories.PUT("/:id", memoryHandler.UpdateMemory)
	memories.DELETE("/:id", memoryHandler.DeleteMemory)

	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, e.router, method, path, user, body)
}

func serve(t *testing.T, r http.Handler, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]interface{}](t, w)["error"].(string)
}

// register creates a user through the API and returns its id.
func (e *testEnv) register(t *testing.T, name string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/users", "", gin.H{
		"name": name, "email": name + "@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}](t, w).User.ID
}
