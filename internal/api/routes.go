package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/povarna/generative-ai-agents/support-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/query").
			To(handler.Query).
			Doc("Process a customer support query through the safety gate and the model").
			Metadata(restfulspec.KeyOpenAPITags, []string{"query"}).
			Reads(models.QueryRequest{}).
			Writes(models.QueryResult{}).
			Returns(200, "OK", models.QueryResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/assess").
			To(handler.Assess).
			Doc("Classify input safety without invoking the model").
			Metadata(restfulspec.KeyOpenAPITags, []string{"assess"}).
			Reads(AssessRequest{}).
			Writes(models.SafetyResult{}).
			Returns(200, "OK", models.SafetyResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
