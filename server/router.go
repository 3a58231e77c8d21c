package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "trending-videos/interfaces/http"
	"trending-videos/interfaces/middleware"
	"trending-videos/usecase"
)

func InitiateRouter(
	listingHandler httpHandler.IListingHandler,
	sessions *usecase.SessionRegistry,
	sessionTTL time.Duration,
	allowOrigins []string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")
	api.Use(middleware.Session(sessions, sessionTTL))

	api.GET("/trending", listingHandler.GetTrending)
	api.GET("/categories", listingHandler.GetCategories)
	api.GET("/categories/:categoryId/trending", listingHandler.GetCategoryTrending)
	api.GET("/search", listingHandler.Search)
	api.POST("/refresh", listingHandler.Refresh)

	return router
}
