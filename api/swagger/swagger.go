package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Payment Portal API",
        "description": "Monthly payment portals, proof-of-payment submissions and data sheet exports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Portals", "description": "Monthly payment collection campaigns"},
        {"name": "Submissions", "description": "Proof-of-payment records and approval"},
        {"name": "DataSheets", "description": "CSV, XLSX and PDF exports"}
    ],
    "paths": {
        "/portals": {
            "get": {
                "tags": ["Portals"],
                "summary": "List payment portals",
                "parameters": [
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "isPublished", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Portals"],
                "summary": "Create payment portal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePortalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/portals/bulk-visibility": {
            "patch": {
                "tags": ["Portals"],
                "summary": "Publish or hide several portals",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkVisibilityRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/portals/{id}": {
            "get": {
                "tags": ["Portals"],
                "summary": "Get payment portal",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "patch": {
                "tags": ["Portals"],
                "summary": "Update payment portal",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePortalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/portals/{id}/submissions": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit proof of payment to a portal",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubmissionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/submissions": {
            "get": {
                "tags": ["Submissions"],
                "summary": "List payment submissions",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string", "format": "uuid"},
                    {"name": "portalId", "in": "query", "type": "string", "format": "uuid"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["PENDING", "APPROVED", "REJECTED"]},
                    {"name": "fromDate", "in": "query", "type": "string", "format": "date"},
                    {"name": "toDate", "in": "query", "type": "string", "format": "date"},
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/submissions/{id}": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Get payment submission",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/submissions/{id}/status": {
            "patch": {
                "tags": ["Submissions"],
                "summary": "Approve, reject or reset a submission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSubmissionStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/data-sheets/export": {
            "get": {
                "tags": ["DataSheets"],
                "summary": "Export submissions",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "type", "in": "query", "required": true, "type": "string", "enum": ["APPROVED", "REJECTED", "PENDING", "ALL"]},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["CSV", "XLSX", "PDF"]},
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "columns", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "csv"},
                    {"name": "submissionIds", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "csv"}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreatePortalRequest": {
            "type": "object",
            "required": ["month", "year", "name", "displayName"],
            "properties": {
                "month": {"type": "integer", "minimum": 1, "maximum": 12},
                "year": {"type": "integer", "minimum": 2000},
                "name": {"type": "string", "maxLength": 100},
                "displayName": {"type": "string", "maxLength": 200},
                "isPublished": {"type": "boolean"}
            }
        },
        "UpdatePortalRequest": {
            "type": "object",
            "properties": {
                "displayName": {"type": "string", "maxLength": 200},
                "isPublished": {"type": "boolean"},
                "visibility": {"type": "string", "enum": ["PUBLISHED", "HIDDEN"]}
            }
        },
        "BulkVisibilityRequest": {
            "type": "object",
            "required": ["portalIds", "isPublished"],
            "properties": {
                "portalIds": {"type": "array", "items": {"type": "string", "format": "uuid"}},
                "isPublished": {"type": "boolean"}
            }
        },
        "UploadedFileRef": {
            "type": "object",
            "required": ["fileId", "fileName", "fileType"],
            "properties": {
                "fileId": {"type": "string", "format": "uuid"},
                "fileName": {"type": "string"},
                "fileType": {"type": "string"}
            }
        },
        "CreateSubmissionRequest": {
            "type": "object",
            "required": ["studentId", "portalNameConfirmation", "files"],
            "properties": {
                "studentId": {"type": "string", "format": "uuid"},
                "portalNameConfirmation": {"type": "string"},
                "files": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/UploadedFileRef"}}
            }
        },
        "UpdateSubmissionStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["PENDING", "APPROVED", "REJECTED"]},
                "rejectionReason": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "timestamp": {"type": "string", "format": "date-time"}
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
        "Envelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
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
