package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Mergington High School Activities API",
        "description": "View and sign up for extracurricular activities",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Teacher login sessions"},
        {"name": "Activities", "description": "Activity catalogue and rosters"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A backing store is unreachable"}
                }
            }
        },
        "/api/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate teacher",
                "description": "Sets the HttpOnly session_token cookie on success",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Logged in", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/APIError"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current teacher",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Logged out", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/api/auth/check": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Check session",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Session status", "schema": {"$ref": "#/definitions/AuthStatus"}}
                }
            }
        },
        "/activities": {
            "get": {
                "tags": ["Activities"],
                "summary": "List activities",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Activities keyed by name",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {"$ref": "#/definitions/Activity"}
                        }
                    }
                }
            }
        },
        "/activities/{name}/signup": {
            "post": {
                "tags": ["Activities"],
                "summary": "Sign up a student",
                "description": "Requires a teacher session cookie",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "name", "type": "string", "required": true},
                    {"in": "query", "name": "email", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Signed up", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Already signed up", "schema": {"$ref": "#/definitions/APIError"}},
                    "401": {"description": "No teacher session", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Activity not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/activities/{name}/unregister": {
            "delete": {
                "tags": ["Activities"],
                "summary": "Unregister a student",
                "description": "Requires a teacher session cookie",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "name", "type": "string", "required": true},
                    {"in": "query", "name": "email", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Unregistered", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Not signed up", "schema": {"$ref": "#/definitions/APIError"}},
                    "401": {"description": "No teacher session", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Activity not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/activities/{name}/roster": {
            "get": {
                "tags": ["Activities"],
                "summary": "Download an activity roster",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "path", "name": "name", "type": "string", "required": true},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Roster file", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/APIError"}},
                    "401": {"description": "No teacher session", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "Activity not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "UserInfo": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/UserInfo"}
            }
        },
        "AuthStatus": {
            "type": "object",
            "properties": {
                "authenticated": {"type": "boolean"},
                "user": {"$ref": "#/definitions/UserInfo"}
            }
        },
        "Activity": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "schedule": {"type": "string"},
                "max_participants": {"type": "integer"},
                "participants": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "detail": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
