// Package docs registers the Swagger specification served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/activity": {
            "post": {
                "tags": ["activity"],
                "summary": "Record a single activity fact",
                "parameters": [{"name": "fact", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}}
            }
        },
        "/activity/bulk": {
            "post": {
                "tags": ["activity"],
                "summary": "Record multiple activity facts",
                "parameters": [{"name": "facts", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}}
            }
        },
        "/analytics/retention/monthly": {
            "get": {
                "tags": ["analytics"],
                "summary": "Monthly retention summary",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/analytics/churn/monthly": {
            "get": {
                "tags": ["analytics"],
                "summary": "Monthly churn summary",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "count_final_month", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/analytics/lifecycle": {
            "get": {
                "tags": ["analytics"],
                "summary": "Lifecycle status breakdown",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/analytics/retention": {
            "get": {
                "tags": ["analytics"],
                "summary": "Retention between two months",
                "parameters": [
                    {"name": "start_month", "in": "query", "type": "string", "required": true},
                    {"name": "target_month", "in": "query", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/analytics/churn": {
            "get": {
                "tags": ["analytics"],
                "summary": "Churn at a reference month",
                "parameters": [
                    {"name": "reference_month", "in": "query", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Churn Analytics Service API",
	Description:      "API for recording user activity and querying retention, churn and lifecycle metrics",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
