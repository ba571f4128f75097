package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/saqibullah/diagnosify/config"
)

// NewRouter wires the handlers. maxUpload caps multipart request bodies.
func NewRouter(h *Handler, cfg config.ServerConfig, maxUpload int64) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.FrontendURL)))
	r.MaxMultipartMemory = maxUpload

	limit := limitBody(maxUpload)

	r.GET("/health", h.Health)
	r.POST("/predict/:diseaseType", h.Predict)
	r.POST("/upload-dataset", limit, h.UploadDataset)
	r.POST("/extract/:diseaseType", limit, h.Extract)
	r.GET("/datasets", h.ListDatasets)
	r.GET("/datasets/:id", h.GetDataset)

	return r
}

func corsConfig(frontendURL string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"POST", "GET", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}
	if frontendURL == "" || frontendURL == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{frontendURL}
	}
	return cfg
}

func limitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}
