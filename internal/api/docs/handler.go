// Package docs serves Swagger UI for the gateway's OpenAPI description.
package docs

import (
	"net/http"

	apidocs "github.com/futig/rag-client/docs"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const openAPIPath = "/docs/swagger.yaml"

// RegisterRoutes mounts the UI under /docs and the raw YAML next to it.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", http.RedirectHandler("/docs/index.html", http.StatusFound).ServeHTTP)
	r.Get(openAPIPath, serveOpenAPI)
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL(openAPIPath),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))
}

func serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(apidocs.SwaggerYAML)
}
