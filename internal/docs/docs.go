// Package docs registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with `swag init -g cmd/server/main.go -o internal/docs` after
// changing handler annotations.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Owner login",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LoginResponse"}},
                    "401": {"description": "invalid username or password"}
                }
            }
        },
        "/public/forms/{formId}": {
            "get": {
                "tags": ["respondent"],
                "summary": "Rendered published form",
                "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "not found"}}
            }
        },
        "/public/forms/{formId}/sessions": {
            "post": {
                "tags": ["respondent"],
                "summary": "Start a session",
                "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "404": {"description": "not found"}}
            }
        },
        "/sessions/{sessionId}": {
            "get": {
                "tags": ["respondent"],
                "summary": "Session state",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{sessionId}/answers/{questionId}": {
            "put": {
                "tags": ["respondent"],
                "summary": "Set an answer",
                "description": "Body is {\"value\": \"text\"} or {\"value\": [\"a\", \"b\"]} for multi-choice questions.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "sessionId", "in": "path", "required": true},
                    {"type": "string", "name": "questionId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "bad answer"}, "409": {"description": "session not editable"}}
            }
        },
        "/sessions/{sessionId}/advance": {
            "post": {
                "tags": ["respondent"],
                "summary": "Move to a section",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "current section has errors"}}
            }
        },
        "/sessions/{sessionId}/submit": {
            "post": {
                "tags": ["respondent"],
                "summary": "Submit the session",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "not on the last section, in progress or already submitted"},
                    "422": {"description": "last section has errors"},
                    "502": {"description": "store failed, retryable"}
                }
            }
        },
        "/sessions/{sessionId}/reset": {
            "post": {
                "tags": ["respondent"],
                "summary": "Start over",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/forms": {
            "get": {"tags": ["forms"], "summary": "List forms", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["forms"], "summary": "Create a form", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "invalid definition"}}}
        },
        "/forms/import": {
            "post": {"tags": ["forms"], "summary": "Import a form document", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/forms/{formId}": {
            "get": {"tags": ["forms"], "summary": "Get a form", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["forms"], "summary": "Replace a form", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["forms"], "summary": "Delete a form and its responses", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/forms/{formId}/publish": {
            "post": {"tags": ["forms"], "summary": "Publish", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/forms/{formId}/unpublish": {
            "post": {"tags": ["forms"], "summary": "Unpublish", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/forms/{formId}/responses": {
            "get": {"tags": ["responses"], "summary": "List responses", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/forms/{formId}/responses/{responseId}": {
            "get": {"tags": ["responses"], "summary": "Get a response", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}, {"type": "string", "name": "responseId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/forms/{formId}/analytics": {
            "get": {"tags": ["responses"], "summary": "Response analytics", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "formId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "model.LoginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "model.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "ownerId": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Formsmith API",
	Description:      "Form builder and response collection API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
