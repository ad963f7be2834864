package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the API endpoints onto a gin engine.
func NewRouter(api *API) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	square := router.Group("/api/square")
	square.GET("/from-image-url", api.FromImageURL)
	square.GET("/from-product-id", api.FromProductID)
	square.GET("/from-xml-url", api.FromXMLURL)

	return router
}
