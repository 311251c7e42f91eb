// Package docs Competition Service API.
//
// Распределение покупательной силы ячеек по рынкам (модель Хаффа с учётом
// конкуренции филиалов одной сети) для нулевого и планового варианта.
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
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Проверка состояния сервиса",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/projects/{project_id}/competition/{setting}": {
            "post": {
                "description": "Распределяет покупательную силу ячеек по рынкам для нулевого или планового варианта. Результат кешируется до инвалидации.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Competition"],
                "summary": "Расчёт оборота рынков",
                "parameters": [
                    {"type": "string", "description": "ID проекта (UUID)", "name": "project_id", "in": "path", "required": true},
                    {"enum": ["nullfall", "planfall"], "type": "string", "description": "Вариант", "name": "setting", "in": "path", "required": true},
                    {"description": "Параметры ответа", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/dto.CalculateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/utils.SuccessResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.CompetitionResponse"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/projects/{project_id}/competition/cache": {
            "delete": {
                "description": "Удаляет закешированные матрицы потоков и статистику проекта",
                "produces": ["application/json"],
                "tags": ["Competition"],
                "summary": "Сброс кеша расчёта",
                "parameters": [
                    {"type": "string", "description": "ID проекта (UUID)", "name": "project_id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/projects/{project_id}/reports/revenue": {
            "get": {
                "description": "Сравнивает оборот каждого рынка в нулевом и плановом варианте",
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Изменение оборота рынков",
                "parameters": [
                    {"type": "string", "description": "ID проекта (UUID)", "name": "project_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/utils.SuccessResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.RevenueReportResponse"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/projects/{project_id}/reports/centrality": {
            "get": {
                "description": "Отношение оборота рынков муниципалитета к покупательной силе его ячеек в обоих вариантах",
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Центральность муниципалитетов",
                "parameters": [
                    {"type": "string", "description": "ID проекта (UUID)", "name": "project_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/utils.SuccessResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.CentralityReportResponse"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/projects/{project_id}/markets/{market_id}/catchment": {
            "get": {
                "description": "Ячейки, из которых рынок получает оборот, как GeoJSON FeatureCollection",
                "produces": ["application/geo+json"],
                "tags": ["Reports"],
                "summary": "Зона охвата рынка",
                "parameters": [
                    {"type": "string", "description": "ID проекта (UUID)", "name": "project_id", "in": "path", "required": true},
                    {"type": "integer", "description": "ID рынка", "name": "market_id", "in": "path", "required": true},
                    {"enum": ["nullfall", "planfall"], "type": "string", "default": "planfall", "description": "Вариант", "name": "setting", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "GeoJSON FeatureCollection", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/projects/{project_id}/stats": {
            "get": {
                "description": "Число рынков по уровням, планируемые и закрываемые рынки, ячейки, покупательная сила, расстояния",
                "produces": ["application/json"],
                "tags": ["Statistics"],
                "summary": "Статистика входных данных проекта",
                "parameters": [
                    {"type": "string", "description": "ID проекта (UUID)", "name": "project_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/utils.SuccessResponse"}, {"type": "object", "properties": {"data": {"type": "object"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CalculateRequest": {
            "type": "object",
            "properties": {
                "include_matrix": {"type": "boolean"}
            }
        },
        "dto.MarketRevenue": {
            "type": "object",
            "properties": {
                "market_id": {"type": "integer"},
                "name": {"type": "string"},
                "chain_id": {"type": "integer"},
                "business_type": {"type": "integer"},
                "revenue": {"type": "string", "example": "731.06"},
                "share": {"type": "string", "example": "0.7311"}
            }
        },
        "dto.CompetitionResponse": {
            "type": "object",
            "properties": {
                "project_id": {"type": "string", "format": "uuid"},
                "setting": {"type": "string", "enum": ["nullfall", "planfall"]},
                "total_revenue": {"type": "string"},
                "total_purchasing_power": {"type": "string"},
                "market_count": {"type": "integer"},
                "cell_count": {"type": "integer"},
                "markets": {"type": "array", "items": {"$ref": "#/definitions/dto.MarketRevenue"}}
            }
        },
        "dto.RevenueChange": {
            "type": "object",
            "properties": {
                "market_id": {"type": "integer"},
                "name": {"type": "string"},
                "chain_id": {"type": "integer"},
                "status": {"type": "string", "enum": ["existing", "planned", "closing"]},
                "nullfall": {"type": "string"},
                "planfall": {"type": "string"},
                "absolute_change": {"type": "string"},
                "relative_change_pct": {"type": "string"}
            }
        },
        "dto.RevenueReportResponse": {
            "type": "object",
            "properties": {
                "project_id": {"type": "string", "format": "uuid"},
                "total_nullfall": {"type": "string"},
                "total_planfall": {"type": "string"},
                "markets": {"type": "array", "items": {"$ref": "#/definitions/dto.RevenueChange"}}
            }
        },
        "dto.Centrality": {
            "type": "object",
            "properties": {
                "municipality_code": {"type": "string"},
                "nullfall_revenue": {"type": "string"},
                "planfall_revenue": {"type": "string"},
                "nullfall_purchasing_power": {"type": "string"},
                "planfall_purchasing_power": {"type": "string"},
                "nullfall_centrality": {"type": "string"},
                "planfall_centrality": {"type": "string"}
            }
        },
        "dto.CentralityReportResponse": {
            "type": "object",
            "properties": {
                "project_id": {"type": "string", "format": "uuid"},
                "municipalities": {"type": "array", "items": {"$ref": "#/definitions/dto.Centrality"}}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        },
        "utils.Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "cached": {"type": "boolean"},
                "time_ms": {"type": "number"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/utils.Meta"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Competition Service API",
	Description:      "Расчёт оборота рынков в нулевом и плановом варианте",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
