package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vivekkumar9751/smart-doc-assistant/controllers"
)

// SetupDocumentRoutes registers the document assistant endpoints.
func SetupDocumentRoutes(router *gin.Engine, dc *controllers.DocumentController) {
	router.POST("/upload", dc.Upload)
	router.GET("/doc", dc.GetDocument)
	router.POST("/ask", dc.Ask)
	router.GET("/challenge", dc.Challenge)
	router.POST("/evaluate", dc.Evaluate)

	router.GET("/health", dc.Health)
	router.GET("/health/llm", dc.HealthLLM)
}
