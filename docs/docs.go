// Package docs registers the OpenAPI document served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Scoracle"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Returns basic health status and timestamp.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/health/cache": {
            "get": {
                "description": "Returns odds response cache statistics for the active backend.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Cache health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/health/db": {
            "get": {
                "description": "Verifies Postgres connectivity.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Database health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/players": {
            "get": {
                "description": "Aggregates every bookmaker's quotes for one game and market into a 0-100 score per player, highest first.",
                "produces": ["application/json"],
                "tags": ["props"],
                "summary": "Score player props",
                "parameters": [
                    {"type": "string", "description": "Odds provider event ID", "name": "eventId", "in": "query", "required": true},
                    {"type": "string", "default": "player_anytime_td", "description": "Market key", "name": "market", "in": "query"},
                    {"enum": ["preseason"], "type": "string", "description": "Schedule", "name": "mode", "in": "query"},
                    {"type": "string", "default": "us,us2", "description": "Bookmaker regions", "name": "regions", "in": "query"},
                    {"type": "string", "description": "Comma-separated bookmaker keys or titles", "name": "books", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "304": {"description": "Not Modified"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/markets/{key}": {
            "get": {
                "description": "Returns how a market key is valued.",
                "produces": ["application/json"],
                "tags": ["props"],
                "summary": "Classify market",
                "parameters": [
                    {"type": "string", "description": "Market key", "name": "key", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/odds-debug": {
            "get": {
                "description": "Fetches one event's odds uncached and summarizes what came back.",
                "produces": ["application/json"],
                "tags": ["debug"],
                "summary": "Debug odds request",
                "parameters": [
                    {"type": "string", "description": "Odds provider event ID", "name": "eventId", "in": "query", "required": true},
                    {"enum": ["preseason"], "type": "string", "description": "Schedule", "name": "mode", "in": "query"},
                    {"type": "string", "default": "us,us2,eu,uk", "description": "Bookmaker regions", "name": "regions", "in": "query"},
                    {"type": "string", "default": "spreads,totals,player_anytime_td", "description": "Comma-separated market keys", "name": "markets", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/games": {
            "get": {
                "description": "Lists games with home spread, total, and implied team points.",
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "List games",
                "parameters": [
                    {"enum": ["preseason"], "type": "string", "description": "Schedule", "name": "mode", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/first-event": {
            "get": {
                "description": "Returns the earliest preseason event ID and up to ten example matchups.",
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "First preseason game",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/find-props": {
            "get": {
                "description": "Returns the first event in kickoff order offering any player_ market.",
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Find player props",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/v1/matchup": {
            "post": {
                "description": "Blends defense, role, Vegas, trend, and red-zone inputs into a 0-100 score.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matchup"],
                "summary": "Score a matchup",
                "parameters": [
                    {"description": "Matchup inputs", "name": "inputs", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/subscribe": {
            "post": {
                "description": "Records an email for Pro access.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["waitlist"],
                "summary": "Join the waitlist",
                "parameters": [
                    {"description": "Email", "name": "body", "in": "body", "required": true, "schema": {"type": "object", "properties": {"email": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "detail": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Scoracle Props API",
	Description:      "NFL player prop scoring: multi-book odds normalized into 0-100 scores with explanations, plus a matchup blender.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
