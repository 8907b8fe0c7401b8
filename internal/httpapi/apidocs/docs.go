// Package apidocs holds the OpenAPI description of the preview server,
// registered with swag so http-swagger can serve it.
package apidocs

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
        "/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Loop status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        },
        "/snapshot.jpg": {
            "get": {
                "produces": ["image/jpeg"],
                "summary": "Latest annotated frame",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/stream.mjpg": {
            "get": {
                "produces": ["multipart/x-mixed-replace"],
                "summary": "Live preview",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/monitor/start": {
            "post": {
                "produces": ["application/json"],
                "summary": "Start monitoring",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ActionResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/monitor/stop": {
            "post": {
                "produces": ["application/json"],
                "summary": "Stop monitoring",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ActionResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ActionResponse": {
            "type": "object",
            "properties": {"result": {"type": "string", "example": "started"}}
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 409},
                "error": {"type": "string", "example": "monitor already running"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "example": "streaming"},
                "message": {"type": "string", "example": "Monitoring..."},
                "running": {"type": "boolean"},
                "person_count": {"type": "integer"},
                "reconnects": {"type": "integer"},
                "frames_read": {"type": "integer"},
                "frames_analyzed": {"type": "integer"},
                "slot_drops": {"type": "integer"},
                "last_analysis_unix": {"type": "integer"},
                "last_alert_unix": {"type": "integer"},
                "last_error": {"type": "string"},
                "uptime_seconds": {"type": "integer"},
                "server_time_unix": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "camwatch API",
	Description:      "Preview server of the camera person-detection loop.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
