package http

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-panel/internal/http/middleware"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// NewRouter builds the engine. limiters run on the table page, the session
// form and /api, before authentication.
func NewRouter(
	handler *Handler,
	tokens middleware.TokenParser,
	environment string,
	corsOrigins []string,
	log zerolog.Logger,
	limiters ...gin.HandlerFunc,
) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		cors.New(corsConfig(corsOrigins)),
	)
	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl")))

	handler.Register(router, Guards{
		Limit: limiters,
		Page:  middleware.PageAuth(tokens),
		API:   middleware.Auth(tokens),
	})
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
