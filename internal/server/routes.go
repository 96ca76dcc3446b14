package server

import (
	"github.com/OFFIS-RIT/compass/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Parser routes
	apiRoutes.POST("/diagrams/parse", routes.ParseDiagramHandler)
	apiRoutes.GET("/diagrams/types", routes.GetSupportedHandler)
	apiRoutes.GET("/schema", routes.GetSchemaHandler)

	// Similarity routes
	apiRoutes.POST("/similarity/diagrams", routes.DiagramSimilarityHandler)
	apiRoutes.POST("/similarity/elements", routes.ElementSimilarityHandler)

	// Classification routes
	apiRoutes.POST("/classifications", routes.ClassifyElementsHandler)
	apiRoutes.GET("/exercises/:exercise_id/submissions/:submission_id/elements/:element_id/classification", routes.GetClassificationHandler)
	apiRoutes.DELETE("/exercises/:exercise_id/submissions/:submission_id/classifications", routes.ForgetSubmissionHandler)

	// Submission storage and batch comparison routes
	apiRoutes.PUT("/exercises/:exercise_id/submissions/:submission_id", routes.PutSubmissionHandler)
	apiRoutes.POST("/comparisons", routes.EnqueueComparisonHandler)
}
