// Package docs holds the Swagger description of the fxtrades API served under /swagger.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/fxtrades"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/trades": {
            "post": {
                "description": "Validates, maps and stores each line of the body; malformed lines are skipped",
                "consumes": ["text/plain"],
                "produces": ["application/json"],
                "tags": ["trades"],
                "summary": "Ingest trade lines",
                "parameters": [
                    {
                        "description": "One trade per line, e.g. USDEUR,100,45.98",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "string"}
                    }
                ],
                "responses": {
                    "200": {"description": "Success", "schema": {"$ref": "#/definitions/dto.IngestResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "413": {"description": "Body too large", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Always returns OK if the service is running",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Returns ready if the trade database is reachable",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error_details": {"type": "string", "example": "insert trade 3: constraint failed"},
                "message": {"type": "string", "example": "failed to persist trades"},
                "timestamp": {"type": "string", "example": "2025-09-18T10:00:00Z"}
            }
        },
        "dto.IngestResponse": {
            "type": "object",
            "properties": {
                "lines": {"type": "integer", "example": 4},
                "persisted": {"type": "integer", "example": 2},
                "skipped": {"type": "integer", "example": 2}
            }
        }
    },
    "tags": [
        {"description": "Trade ingestion", "name": "trades"},
        {"description": "Liveness and readiness probes", "name": "health"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "fxtrades API",
	Description:      "FX trade line ingestion service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
