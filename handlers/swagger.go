package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers Swagger/OpenAPI endpoints for the toy service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>toy-factory Swagger</title>
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

// OpenAPI document for the toy routes and the operational endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "toy-factory", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Toy": {
        "type": "object",
        "properties": {
          "_id": { "type": "string" },
          "name": { "type": "string" },
          "description": { "type": "string", "minLength": 10 },
          "price": { "type": "number", "minimum": 0 },
          "inStock": { "type": "boolean", "default": true },
          "created": { "type": "string", "format": "date-time" }
        }
      },
      "ToyInput": {
        "type": "object",
        "required": ["name", "description", "price"],
        "properties": {
          "name": { "type": "string" },
          "description": { "type": "string", "minLength": 10 },
          "quantity": { "description": "any JSON value, accepted and not stored" },
          "price": { "type": "number", "minimum": 0 },
          "inStock": { "type": "boolean" },
          "created": { "type": "string", "format": "date-time" }
        }
      },
      "Error": { "type": "object", "properties": { "error": { "type": "string" } } }
    }
  },
  "paths": {
    "/toys": {
      "get": {
        "summary": "List all toys",
        "responses": {
          "200": { "description": "all toys", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/Toy" } } } } },
          "500": { "description": "store failure", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Error" } } } }
        }
      },
      "post": {
        "summary": "Create a toy",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ToyInput" } } } },
        "responses": {
          "201": { "description": "created toy", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Toy" } } } },
          "400": { "description": "body is not JSON" },
          "500": { "description": "schema violation, duplicate name or store failure" }
        }
      }
    },
    "/toys/search": {
      "get": {
        "summary": "Case-insensitive substring search on name; all toys when name is empty",
        "parameters": [ { "name": "name", "in": "query", "schema": { "type": "string" } } ],
        "responses": {
          "200": { "description": "matching toys (possibly empty)" },
          "500": { "description": "store failure" }
        }
      }
    },
    "/toys/{toyId}": {
      "put": {
        "summary": "Overwrite the fields present in the body",
        "parameters": [ { "name": "toyId", "in": "path", "required": true, "schema": { "type": "string" } } ],
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ToyInput" } } } },
        "responses": {
          "200": { "description": "updated toy" },
          "400": { "description": "body is not JSON" },
          "500": { "description": "unknown id, schema violation, duplicate name or store failure" }
        }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "exposition format" } } } }
  }
}`
