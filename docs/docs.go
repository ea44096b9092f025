// Package docs registers the OpenAPI document served at /swagger/. It follows the
// layout swag init emits; keep it in step with the godoc annotations on the controllers.
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
        "/events/confirmed-requests": {
            "get": {
                "description": "Returns the number of CONFIRMED requests per event. Unknown ids and events without confirmed requests are omitted.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Confirmed request counts",
                "parameters": [
                    {"type": "string", "description": "Comma separated event IDs", "name": "ids", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "data maps event id to confirmed count", "schema": {"$ref": "#/definitions/controllers.ConfirmedCountsSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "data.status: ok", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/users/{userID}/requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns every request made by the user, oldest first.",
                "produces": ["application/json"],
                "tags": ["requests"],
                "summary": "List a user's participation requests",
                "parameters": [
                    {"type": "integer", "description": "Requester ID", "name": "userID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data contains the requests", "schema": {"$ref": "#/definitions/controllers.RequestListSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a participation request. It is CONFIRMED when the event does not moderate requests or has no participant limit, PENDING otherwise.",
                "produces": ["application/json"],
                "tags": ["requests"],
                "summary": "Request participation in an event",
                "parameters": [
                    {"type": "integer", "description": "Requester ID", "name": "userID", "in": "path", "required": true},
                    {"type": "integer", "description": "Event ID", "name": "eventId", "in": "query", "required": true}
                ],
                "responses": {
                    "201": {"description": "data contains the created request", "schema": {"$ref": "#/definitions/controllers.RequestSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "409": {"description": "error.code: duplicate_request, self_participation_forbidden, event_not_published or capacity_exceeded", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/users/{userID}/requests/{requestID}/cancel": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Moves a PENDING or CONFIRMED request to CANCELED. Requests of other users are returned unchanged.",
                "produces": ["application/json"],
                "tags": ["requests"],
                "summary": "Cancel own participation request",
                "parameters": [
                    {"type": "integer", "description": "Requester ID", "name": "userID", "in": "path", "required": true},
                    {"type": "integer", "description": "Request ID", "name": "requestID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "data contains the request", "schema": {"$ref": "#/definitions/controllers.RequestSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.ConfirmedCountsSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "object", "additionalProperties": {"type": "integer"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ParticipationRequestDTO": {
            "type": "object",
            "properties": {
                "created": {"type": "string"},
                "event": {"type": "integer"},
                "id": {"type": "integer"},
                "requester": {"type": "integer"},
                "status": {"type": "string"}
            }
        },
        "controllers.RequestListSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/controllers.ParticipationRequestDTO"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.RequestSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.ParticipationRequestDTO"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Explore With Me participation API",
	Description:      "Participation requests for capacity-limited events.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
