// Package docs holds the OpenAPI description served at /swagger.
// Regenerate it from the handler annotations after changing routes.
//
//go:generate swag init -g cmd/ledger_backend/main.go -o cmd/docs -d ../..
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
        "/temples": {
            "post": {
                "summary": "Register a temple",
                "description": "Creates a temple (tenant) and optionally seeds the default chart of accounts",
                "tags": [
                    "temples"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple details",
                        "name": "temple",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "500": {
                        "description": "Failed to create temple",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "get": {
                "summary": "List temples",
                "tags": [
                    "temples"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}": {
            "get": {
                "summary": "Get a temple",
                "tags": [
                    "temples"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Temple not found",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/accounts": {
            "post": {
                "summary": "Create a new account",
                "description": "Adds an account to the temple's chart of accounts",
                "tags": [
                    "accounts"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account details",
                        "name": "account",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid input format or validation error",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Duplicate account code",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "500": {
                        "description": "Failed to create account",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "get": {
                "summary": "List the chart of accounts",
                "description": "Flat list ordered by code",
                "tags": [
                    "accounts"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/accounts/by-code/{code}": {
            "get": {
                "summary": "Get an account by code",
                "tags": [
                    "accounts"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account code",
                        "name": "code",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/accounts/hierarchy": {
            "get": {
                "summary": "Get the account hierarchy",
                "description": "Nested chart of accounts, siblings ordered by code",
                "tags": [
                    "accounts"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "type": "object"
                            }
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/accounts/seed": {
            "post": {
                "summary": "Install the default chart of accounts",
                "description": "Existing codes are left untouched",
                "tags": [
                    "accounts"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/accounts/{accountID}": {
            "get": {
                "summary": "Get an account by ID",
                "tags": [
                    "accounts"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account ID",
                        "name": "accountID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "put": {
                "summary": "Update an account",
                "description": "Code and type can only change while no line references the account",
                "tags": [
                    "accounts"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account ID",
                        "name": "accountID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Fields to update",
                        "name": "account",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Account already used",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Delete an unused account",
                "tags": [
                    "accounts"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account ID",
                        "name": "accountID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Account has transactions",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/accounts/{accountID}/deactivate": {
            "post": {
                "summary": "Deactivate an account",
                "tags": [
                    "accounts"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account ID",
                        "name": "accountID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/accounts/{accountID}/has-transactions": {
            "get": {
                "summary": "Check whether an account has been used",
                "tags": [
                    "accounts"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account ID",
                        "name": "accountID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/entries": {
            "post": {
                "summary": "Post a journal entry",
                "description": "Posts a balanced double-entry voucher and links it into the temple's hash chain",
                "tags": [
                    "entries"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Entry with its lines",
                        "name": "entry",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid or unbalanced entry",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Entry date falls in a closed period",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "500": {
                        "description": "Failed to create entry",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "get": {
                "summary": "List journal entries",
                "description": "Newest first, paginated with nextToken",
                "tags": [
                    "entries"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    },
                    {
                        "description": "Token from the previous page",
                        "name": "nextToken",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid query",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/entries/{entryID}": {
            "get": {
                "summary": "Get a journal entry with its lines",
                "tags": [
                    "entries"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Entry ID",
                        "name": "entryID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Entry not found",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/entries/{entryID}/correct": {
            "post": {
                "summary": "Correct a journal entry",
                "description": "Reverses the entry and posts the corrected replacement atomically",
                "tags": [
                    "entries"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Entry ID",
                        "name": "entryID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Replacement lines",
                        "name": "correction",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid or unbalanced entry",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Entry not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Entry already reversed or period closed",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/entries/{entryID}/reverse": {
            "post": {
                "summary": "Reverse a journal entry",
                "description": "Posts a mirrored entry and marks the original as reversed",
                "tags": [
                    "entries"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Entry ID",
                        "name": "entryID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Reversal reason and date",
                        "name": "reversal",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Entry not found",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Entry already reversed or period closed",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/integrity/verify": {
            "get": {
                "summary": "Verify the hash chain",
                "description": "Recomputes every entry hash in chain order. A break is reported in the body, not as an error status.",
                "tags": [
                    "integrity"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/integrity/verify-audit": {
            "get": {
                "summary": "Verify the audit mirror",
                "description": "Compares the audit log copy of each entry hash against the ledger",
                "tags": [
                    "integrity"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/periods/close-month": {
            "post": {
                "summary": "Close a month",
                "description": "Locks the month against further postings and records its income and expenditure",
                "tags": [
                    "periods"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Last day of the month",
                        "name": "closing",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Not a month end, or month not over",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Month already closed",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/periods/close-year": {
            "post": {
                "summary": "Close a fiscal year",
                "description": "Requires every month of the year to be closed. Transfers the surplus or deficit to the fund account.",
                "tags": [
                    "periods"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Fiscal year",
                        "name": "closing",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Months still open, or year already closed",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/periods/closings": {
            "get": {
                "summary": "List period closings",
                "tags": [
                    "periods"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Fiscal year, all when omitted",
                        "name": "fiscalYear",
                        "in": "query",
                        "required": false,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/reports/balance-sheet": {
            "get": {
                "summary": "Balance sheet",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD, defaults to today",
                        "name": "asOf",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/reports/bank-book": {
            "get": {
                "summary": "Bank book",
                "description": "All bank accounts, or one when accountID is given",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Bank account ID",
                        "name": "accountID",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD",
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD",
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/reports/cash-book": {
            "get": {
                "summary": "Cash book",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD",
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD",
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/reports/day-book": {
            "get": {
                "summary": "Day book",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD",
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD",
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/reports/ledger/{accountID}": {
            "get": {
                "summary": "Account ledger",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account ID",
                        "name": "accountID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD, defaults to the first of the month",
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD, defaults to today",
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid date range",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/reports/profit-and-loss": {
            "get": {
                "summary": "Income and expenditure statement",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD",
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD",
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/reports/trial-balance": {
            "get": {
                "summary": "Trial balance",
                "description": "Net balance of every account as of a date. Imbalance is reported, not rejected.",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD, defaults to today",
                        "name": "asOf",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid date",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/statements": {
            "post": {
                "summary": "Import a bank statement",
                "description": "Stores the statement rows for a bank account and recomputes running balances",
                "tags": [
                    "reconciliation"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Statement rows",
                        "name": "statement",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid statement",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Bank account not found",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            },
            "get": {
                "summary": "List imported statements",
                "tags": [
                    "reconciliation"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Restrict to one bank account",
                        "name": "accountID",
                        "in": "query",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/statements/upload": {
            "post": {
                "summary": "Upload a bank statement file",
                "description": "Parses a CSV export in the given format and imports its rows",
                "tags": [
                    "reconciliation"
                ],
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Statement file",
                        "name": "file",
                        "in": "formData",
                        "required": true,
                        "type": "file"
                    },
                    {
                        "description": "Bank account ID",
                        "name": "accountID",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Parser name",
                        "name": "format",
                        "in": "formData",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD",
                        "name": "periodStart",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "YYYY-MM-DD",
                        "name": "periodEnd",
                        "in": "formData",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Opening balance",
                        "name": "openingBalance",
                        "in": "formData",
                        "required": false,
                        "type": "string"
                    },
                    {
                        "description": "Closing balance",
                        "name": "closingBalance",
                        "in": "formData",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Invalid file or form",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/statements/{statementID}": {
            "get": {
                "summary": "Get a statement with its rows",
                "tags": [
                    "reconciliation"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Statement ID",
                        "name": "statementID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Statement not found",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/statements/{statementID}/auto-match": {
            "post": {
                "summary": "Auto-match a statement",
                "description": "Pairs unmatched rows with unreconciled lines of equal amount and side inside the date window",
                "tags": [
                    "reconciliation"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Statement ID",
                        "name": "statementID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/statements/{statementID}/complete": {
            "post": {
                "summary": "Complete a reconciliation",
                "tags": [
                    "reconciliation"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Statement ID",
                        "name": "statementID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Difference is outside the tolerance",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/statements/{statementID}/match": {
            "post": {
                "summary": "Match a statement row to a journal line",
                "tags": [
                    "reconciliation"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Statement ID",
                        "name": "statementID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Row and line",
                        "name": "match",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "409": {
                        "description": "Already matched or amounts differ",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/statements/{statementID}/summary": {
            "get": {
                "summary": "Reconciliation summary",
                "description": "Book balance against bank balance with the reconciling items",
                "tags": [
                    "reconciliation"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Statement ID",
                        "name": "statementID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        },
        "/temples/{templeID}/statements/{statementID}/unmatch": {
            "post": {
                "summary": "Clear a match",
                "tags": [
                    "reconciliation"
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "description": "Temple ID",
                        "name": "templeID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Statement ID",
                        "name": "statementID",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Row to clear",
                        "name": "unmatch",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "409": {
                        "description": "Statement already completed",
                        "schema": {
                            "type": "object"
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [
        {
            "BearerAuth": []
        }
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Temple Ledger API",
	Description:      "Double-entry accounting core for temples: chart of accounts, hash-chained journal, reports, bank reconciliation and period closing.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
