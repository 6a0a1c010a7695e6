package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the trivia service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>arkdex-trivia — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the trivia endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "arkdex-trivia", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "TriviaItem": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "text": { "type": "string" },
          "sub_items": { "type": "array", "items": { "type": "string" } }
        }
      },
      "TriviaDocument": {
        "type": "object",
        "required": ["name", "trivia_items", "url"],
        "properties": {
          "name": { "type": "string" },
          "trivia_items": { "type": "array", "items": { "$ref": "#/components/schemas/TriviaItem" } },
          "url": { "type": "string" }
        }
      }
    }
  },
  "paths": {
    "/api/operators": {
      "get": { "summary": "List operators with stored trivia", "responses": { "200": { "description": "sorted operator names" } } }
    },
    "/api/operators/{name}/trivia": {
      "get": { "summary": "Get stored trivia for an operator", "responses": { "200": { "description": "trivia document" }, "404": { "description": "unknown operator" } } },
      "put": {
        "summary": "Store or replace trivia for an operator",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/TriviaDocument" } } } },
        "responses": { "200": { "description": "stored" }, "400": { "description": "invalid document" } }
      },
      "delete": { "summary": "Delete stored trivia", "responses": { "204": { "description": "deleted" }, "404": { "description": "unknown operator" } } }
    },
    "/api/operators/{name}/scrape": {
      "post": { "summary": "Scrape trivia from the wiki and store it", "responses": { "200": { "description": "scraped document" }, "404": { "description": "wiki page not found" }, "502": { "description": "scrape failed" }, "503": { "description": "scraper not configured" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
