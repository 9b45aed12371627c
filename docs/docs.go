// Package docs registers the Swagger document served at /swagger/.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Issue a driver token",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.IssueTokenRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/destinations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Search destinations",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/speed/{pct}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Speed slider info",
                "parameters": [
                    {"type": "integer", "description": "Speed percentage (0-50)", "name": "pct", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SpeedDisplay"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/trips": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Trips"],
                "summary": "Plan a trip",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.PlanTripRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.TripResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/trips/{trip_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Trips"],
                "summary": "Get a trip",
                "parameters": [
                    {"type": "string", "description": "Trip ID", "name": "trip_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TripResponse"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/trips/{trip_id}/speed": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Trips"],
                "summary": "Change the speed boost",
                "parameters": [
                    {"type": "string", "description": "Trip ID", "name": "trip_id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateSpeedRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TripResponse"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/trips/{trip_id}/drive": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Drive"],
                "summary": "Current drive state",
                "parameters": [
                    {"type": "string", "description": "Trip ID", "name": "trip_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DriveSnapshot"}},
                    "409": {"description": "Conflict", "schema": {"type": "object"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Drive"],
                "summary": "Start navigation",
                "parameters": [
                    {"type": "string", "description": "Trip ID", "name": "trip_id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.DriveStart"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}},
                    "409": {"description": "Conflict", "schema": {"type": "object"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Drive"],
                "summary": "Stop navigation",
                "parameters": [
                    {"type": "string", "description": "Trip ID", "name": "trip_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DriveSnapshot"}},
                    "409": {"description": "Conflict", "schema": {"type": "object"}}
                }
            }
        },
        "/ws/trips/{trip_id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Drive"],
                "summary": "Stream drive snapshots",
                "description": "WebSocket. Sends the current snapshot, then one per tick. Browsers may pass the token as ?access_token=.",
                "parameters": [
                    {"type": "string", "description": "Trip ID", "name": "trip_id", "in": "path", "required": true}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            }
        }
    },
    "definitions": {
        "dto.IssueTokenRequest": {
            "type": "object",
            "properties": {"driver_name": {"type": "string"}}
        },
        "dto.PlanTripRequest": {
            "type": "object",
            "properties": {
                "destination": {"type": "string"},
                "speed_percentage": {"type": "integer"}
            }
        },
        "dto.UpdateSpeedRequest": {
            "type": "object",
            "properties": {"speed_percentage": {"type": "integer"}}
        },
        "dto.TripResponse": {
            "type": "object",
            "properties": {
                "trip": {"$ref": "#/definitions/models.Trip"},
                "summary": {"$ref": "#/definitions/models.TripSummary"}
            }
        },
        "models.Trip": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "driver_id": {"type": "string"},
                "destination_name": {"type": "string"},
                "address": {"type": "string"},
                "distance_miles": {"type": "number"},
                "speed_percentage": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.TripMetrics": {
            "type": "object",
            "properties": {
                "base_speed_limit_mph": {"type": "number"},
                "effective_speed_mph": {"type": "number"},
                "base_eta_minutes": {"type": "number"},
                "boosted_eta_minutes": {"type": "number"},
                "time_saved_minutes": {"type": "number"}
            }
        },
        "models.SpeedDisplay": {
            "type": "object",
            "properties": {
                "speed_percentage": {"type": "integer"},
                "label": {"type": "string"},
                "tier": {"type": "string", "enum": ["normal", "danger", "extreme"]},
                "gauge_rotation_deg": {"type": "number"},
                "warning": {"type": "boolean"}
            }
        },
        "models.TripSummary": {
            "type": "object",
            "properties": {
                "metrics": {"$ref": "#/definitions/models.TripMetrics"},
                "display": {"$ref": "#/definitions/models.SpeedDisplay"},
                "base_eta": {"type": "string"},
                "boosted_eta": {"type": "string"},
                "time_saved": {"type": "string"}
            }
        },
        "models.Location": {
            "type": "object",
            "properties": {
                "lon": {"type": "number"},
                "lat": {"type": "number"}
            }
        },
        "models.Instruction": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "leg_miles": {"type": "number"}
            }
        },
        "models.DriveSnapshot": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["IDLE", "RUNNING", "ARRIVED", "STOPPED"]},
                "target_speed_mph": {"type": "number"},
                "current_speed_mph": {"type": "number"},
                "distance_miles": {"type": "number"},
                "remaining_distance_miles": {"type": "number"},
                "remaining_time_minutes": {"type": "number"},
                "remaining_time": {"type": "string"},
                "elapsed_seconds": {"type": "integer"},
                "progress": {"type": "number"},
                "current_instruction_index": {"type": "integer"},
                "instruction": {"$ref": "#/definitions/models.Instruction"},
                "position": {"$ref": "#/definitions/models.Location"},
                "heading_deg": {"type": "number"}
            }
        },
        "models.Drive": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "trip_id": {"type": "string"},
                "target_speed_mph": {"type": "number"},
                "distance_miles": {"type": "number"},
                "speed_percentage": {"type": "integer"},
                "status": {"type": "string"},
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"}
            }
        },
        "models.DriveStart": {
            "type": "object",
            "properties": {
                "drive": {"$ref": "#/definitions/models.Drive"},
                "title": {"type": "string"},
                "message": {"type": "string"},
                "snapshot": {"$ref": "#/definitions/models.DriveSnapshot"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the token from POST /auth/token.",
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fastlane Navigation API",
	Description:      "Trip planning with a speed boost, drive simulation, snapshot streaming and drive events.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
