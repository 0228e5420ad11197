// Package docs registers the OpenAPI document served at /swagger.
// Regenerate the template with `swag init -g cmd/api/main.go -o internal/docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "User registered"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login user", "responses": {"200": {"description": "User authenticated"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Logout", "responses": {"204": {"description": "Signed out"}}}},
        "/profile": {
            "get": {"tags": ["user"], "summary": "Get user profile", "responses": {"200": {"description": "User profile"}}},
            "put": {"tags": ["user"], "summary": "Update user profile", "responses": {"200": {"description": "Updated profile"}}}
        },
        "/status": {"get": {"tags": ["user"], "summary": "Data context status", "responses": {"200": {"description": "OK"}}}},
        "/budgets": {
            "get": {"tags": ["budgets"], "summary": "List budgets", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["budgets"], "summary": "Create a budget", "responses": {"201": {"description": "Created"}}}
        },
        "/budgets/active": {"put": {"tags": ["budgets"], "summary": "Switch active budget", "responses": {"204": {"description": "Switched"}}}},
        "/budgets/join": {"post": {"tags": ["budgets"], "summary": "Join a budget", "responses": {"501": {"description": "Not implemented"}}}},
        "/budgets/code/{code}": {"get": {"tags": ["budgets"], "summary": "Find a budget by code", "responses": {"501": {"description": "Not implemented"}}}},
        "/budgets/{id}": {
            "put": {"tags": ["budgets"], "summary": "Rename a budget", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["budgets"], "summary": "Delete a budget", "responses": {"204": {"description": "Deleted"}}}
        },
        "/budgets/{id}/membership": {"delete": {"tags": ["budgets"], "summary": "Leave a shared budget", "responses": {"501": {"description": "Not implemented"}}}},
        "/entries": {
            "get": {"tags": ["entries"], "summary": "List entries", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["entries"], "summary": "Create an entry", "responses": {"201": {"description": "Created"}}}
        },
        "/entries/{id}": {
            "put": {"tags": ["entries"], "summary": "Update an entry", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["entries"], "summary": "Delete an entry", "responses": {"204": {"description": "Deleted"}}}
        },
        "/summary": {"get": {"tags": ["entries"], "summary": "Active budget summary", "responses": {"200": {"description": "OK"}}}},
        "/categories": {
            "get": {"tags": ["categories"], "summary": "List categories", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["categories"], "summary": "Create a category", "responses": {"201": {"description": "Created"}}}
        },
        "/categories/{id}": {
            "put": {"tags": ["categories"], "summary": "Update a category", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["categories"], "summary": "Delete a category", "responses": {"204": {"description": "Deleted"}}}
        },
        "/export": {"get": {"tags": ["transfer"], "summary": "Export user data", "responses": {"200": {"description": "OK"}}}},
        "/import": {"post": {"tags": ["transfer"], "summary": "Import user data", "responses": {"204": {"description": "Imported"}}}},
        "/settings": {
            "get": {"tags": ["settings"], "summary": "Get settings", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["settings"], "summary": "Update settings", "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "PlannerFinanças API",
	Description:      "Local API over the budget data context: budgets, entries, categories and backups, synced to the hosted store when it is reachable.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
