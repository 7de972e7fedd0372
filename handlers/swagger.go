package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the feed service.
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
    <title>spilno — Swagger</title>
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

// Minimal OpenAPI document describing the public feed and auth endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "spilno-backend", "version": "v0.1.0" },
  "paths": {
    "/publications": {
      "get": { "summary": "List all publications", "responses": { "200": { "description": "array of publications" } } },
      "post": { "summary": "Create a publication", "requestBody": { "content": { "application/json": { "schema": {"type":"object"} } } }, "responses": { "201": { "description": "created publication with id" } } }
    },
    "/publications/user": {
      "get": { "summary": "List publications filtered by userId query", "parameters": [{"name":"userId","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "array of publications" } } }
    },
    "/publications/{id}": {
      "put": { "summary": "Merge fields into a publication", "responses": { "200": { "description": "updated" }, "404": { "description": "publication not found" } } },
      "delete": { "summary": "Delete a publication (idempotent)", "responses": { "200": { "description": "deleted" } } }
    },
    "/publications/{id}/comments": {
      "post": { "summary": "Add a comment", "responses": { "201": { "description": "created comment with id" } } },
      "get": { "summary": "List comments newest-first by createdAt", "responses": { "200": { "description": "array of comments" } } }
    },
    "/publications/{id}/likes": {
      "post": { "summary": "Like a publication (upsert per userId)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"userId":{"type":"string"}}} } } }, "responses": { "201": { "description": "like recorded" } } }
    },
    "/publications/{id}/likes/count": {
      "get": { "summary": "Count likes", "responses": { "200": { "description": "{count}" } } }
    },
    "/publications/{id}/likes/{userId}": {
      "get": { "summary": "Check whether a user liked the publication", "responses": { "200": { "description": "{hasLiked}" } } },
      "delete": { "summary": "Remove a like (idempotent)", "responses": { "200": { "description": "like removed" } } }
    },
    "/api/signup": {
      "post": { "summary": "Create an account and return a session token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}} } } }, "responses": { "201": { "description": "token and user" }, "400": { "description": "missing fields or email in use" } } }
    },
    "/api/login": {
      "post": { "summary": "Resolve an account and return a session token", "responses": { "200": { "description": "token and user" }, "401": { "description": "invalid email or password" } } }
    },
    "/api/logout": {
      "post": { "summary": "Revoke all tokens of the authenticated user", "responses": { "200": { "description": "logged out" }, "401": { "description": "unauthorized" } } }
    },
    "/api/user": {
      "get": { "summary": "Get the authenticated user", "responses": { "200": { "description": "user" }, "401": { "description": "unauthorized" } } }
    },
    "/api/refresh": {
      "post": { "summary": "Rotate a refresh token and mint a new session token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}} } } }, "responses": { "200": { "description": "idToken, refreshToken, expiresIn" }, "401": { "description": "invalid refresh token" } } }
    },
    "/api/token": {
      "post": { "summary": "Exchange a custom token for a session token (keyed by web API key)", "responses": { "200": { "description": "idToken, refreshToken, expiresIn" }, "401": { "description": "invalid key or custom token" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
