// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/resolve": {
            "post": {
                "tags": ["resolution"],
                "summary": "Resolve executors",
                "description": "Returns the eligible executors of an ability in priority order.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/v1/schema/parse": {
            "post": {
                "tags": ["schema"],
                "summary": "Parse input schema",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/requests/build": {
            "post": {
                "tags": ["requests"],
                "summary": "Build provider request",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "No eligible executor"}}
            }
        },
        "/v1/workflows/validate": {
            "post": {
                "tags": ["workflows"],
                "summary": "Validate workflow node mapping",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/results/normalize": {
            "post": {
                "tags": ["results"],
                "summary": "Normalize provider result",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/abilities": {
            "get": {
                "tags": ["abilities"],
                "summary": "List abilities",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/abilities/{id}/executors": {
            "get": {
                "tags": ["abilities"],
                "summary": "Eligible executors of an ability",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "ability id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/abilities/{id}/issues": {
            "get": {
                "tags": ["abilities"],
                "summary": "Configuration issues of an ability",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "ability id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/abilities/{id}/invocations": {
            "get": {
                "tags": ["abilities"],
                "summary": "Recent invocations of an ability",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "ability id", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "maximum number of records", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "501": {"description": "Invocation log not queryable"}}
            }
        },
        "/v1/abilities/{id}/invoke": {
            "post": {
                "tags": ["abilities"],
                "summary": "Invoke an ability",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "ability id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "502": {"description": "Provider error"}, "504": {"description": "Provider timeout"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "abilityctl API",
	Description:      "Capability resolution and invocation normalization engine.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
