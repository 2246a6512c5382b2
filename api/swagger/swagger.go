package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Absensi API",
        "description": "Teacher and student attendance recap for a senior high school",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "SessionCookie": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "tags": [
        {"name": "Auth", "description": "Session login and profile"},
        {"name": "Attendance", "description": "Teacher check-in and student sessions"},
        {"name": "Recap", "description": "Semester attendance recaps and exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in and receive a session cookie",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Clear the session cookie",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user with filtered menu",
                "security": [{"SessionCookie": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher-attendance/check-in": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record today's check-in for the logged-in teacher",
                "security": [{"SessionCookie": []}],
                "responses": {
                    "200": {"description": "Already checked in today", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Checked in", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student-attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Fetch the session roster for a schedule and date",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"name": "scheduleId", "in": "query", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Attendance"],
                "summary": "Upsert the sick, leave and absent lists of a session",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentSessionRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/recap/teachers": {
            "get": {
                "tags": ["Recap"],
                "summary": "Teacher attendance recap for the active semester",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"name": "teacherId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No active semester", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/recap/teachers/export": {
            "get": {
                "tags": ["Recap"],
                "summary": "Download the teacher recap",
                "security": [{"SessionCookie": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/recap/classes/{id}/students": {
            "get": {
                "tags": ["Recap"],
                "summary": "Student attendance recap of a class",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/recap/classes/{id}/students/export": {
            "get": {
                "tags": ["Recap"],
                "summary": "Download the student recap of a class",
                "security": [{"SessionCookie": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "StudentSessionRequest": {
            "type": "object",
            "required": ["schedule_id", "date"],
            "properties": {
                "schedule_id": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "sick": {"type": "array", "items": {"type": "string"}},
                "leave": {"type": "array", "items": {"type": "string"}},
                "absent": {"type": "array", "items": {"type": "string"}},
                "notes": {"type": "string"}
            }
        },
        "RecapSummary": {
            "type": "object",
            "properties": {
                "person_id": {"type": "string"},
                "name": {"type": "string"},
                "total": {"type": "integer"},
                "present": {"type": "integer"},
                "late": {"type": "integer"},
                "absent": {"type": "integer"},
                "today": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
