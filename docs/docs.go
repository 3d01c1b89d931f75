// Package docs holds the swagger document served at /swagger/.
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
        "/chat/process": {
            "post": {
                "tags": ["chat"],
                "summary": "Process a question",
                "description": "Contextualize, validate, generate SQL, execute it and synthesize a natural-language answer"
            }
        },
        "/chat/contextualize": {
            "post": {
                "tags": ["chat"],
                "summary": "Contextualize a question"
            }
        },
        "/chat/validate": {
            "post": {
                "tags": ["chat"],
                "summary": "Validate a question"
            }
        },
        "/chat/sql": {
            "post": {
                "tags": ["chat"],
                "summary": "Generate SQL"
            }
        },
        "/chat/response": {
            "post": {
                "tags": ["chat"],
                "summary": "Synthesize a response"
            }
        },
        "/excluded-terms": {
            "get": {
                "tags": ["excluded-terms"],
                "summary": "List excluded terms"
            },
            "post": {
                "tags": ["excluded-terms"],
                "summary": "Create an excluded term"
            }
        },
        "/excluded-terms/{id}": {
            "put": {
                "tags": ["excluded-terms"],
                "summary": "Update an excluded term"
            },
            "delete": {
                "tags": ["excluded-terms"],
                "summary": "Delete an excluded term"
            }
        },
        "/conversations": {
            "get": {
                "tags": ["conversations"],
                "summary": "List conversations"
            }
        },
        "/conversations/search": {
            "get": {
                "tags": ["conversations"],
                "summary": "Search conversations"
            }
        },
        "/conversations/{id}": {
            "get": {
                "tags": ["conversations"],
                "summary": "Get a conversation"
            },
            "delete": {
                "tags": ["conversations"],
                "summary": "Delete a conversation"
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Music Chat Pipeline API",
	Description:      "Conversational question pipeline over a music catalog",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
