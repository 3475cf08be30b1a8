package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/addressbook/addressbook-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// schemaFields are the Swagger 2.0 parameter keys that move under "schema"
var schemaFields = []string{"type", "format", "enum", "default", "minimum", "maximum", "items"}

// rewriteRefs recursively rewrites $ref from #/definitions/ to #/components/schemas/
func rewriteRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			result[key] = rewriteRefs(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = rewriteRefs(item)
		}
		return result
	default:
		return data
	}
}

// convertOperation converts one Swagger 2.0 operation. Query, path and header
// parameters get a schema; formData parameters are gathered into a
// multipart/form-data request body.
func convertOperation(op map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(op))
	for key, value := range op {
		switch key {
		case "parameters", "consumes", "produces":
		case "responses":
			result[key] = convertResponses(value)
		default:
			result[key] = rewriteRefs(value)
		}
	}

	params, _ := op["parameters"].([]interface{})
	var converted []interface{}
	formProps := make(map[string]interface{})
	var formRequired []string

	for _, raw := range params {
		param, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := param["name"].(string)

		if param["in"] == "formData" {
			prop := make(map[string]interface{})
			if param["type"] == "file" {
				prop["type"] = "string"
				prop["format"] = "binary"
			} else {
				for _, field := range schemaFields {
					if val, ok := param[field]; ok {
						prop[field] = val
					}
				}
			}
			if desc, ok := param["description"]; ok {
				prop["description"] = desc
			}
			formProps[name] = prop
			if required, _ := param["required"].(bool); required {
				formRequired = append(formRequired, name)
			}
			continue
		}

		out := make(map[string]interface{})
		for _, field := range []string{"name", "in", "description", "required"} {
			if val, ok := param[field]; ok {
				out[field] = val
			}
		}
		schema := make(map[string]interface{})
		for _, field := range schemaFields {
			if val, ok := param[field]; ok {
				schema[field] = rewriteRefs(val)
			}
		}
		if len(schema) > 0 {
			out["schema"] = schema
		}
		converted = append(converted, out)
	}

	if len(converted) > 0 {
		result["parameters"] = converted
	}
	if len(formProps) > 0 {
		schema := map[string]interface{}{
			"type":       "object",
			"properties": formProps,
		}
		if len(formRequired) > 0 {
			schema["required"] = formRequired
		}
		result["requestBody"] = map[string]interface{}{
			"content": map[string]interface{}{
				"multipart/form-data": map[string]interface{}{"schema": schema},
			},
		}
	}

	return result
}

// convertResponses moves each response schema under content/application/json
func convertResponses(data interface{}) interface{} {
	responses, ok := data.(map[string]interface{})
	if !ok {
		return rewriteRefs(data)
	}

	result := make(map[string]interface{}, len(responses))
	for code, raw := range responses {
		resp, ok := raw.(map[string]interface{})
		if !ok {
			result[code] = raw
			continue
		}
		out := map[string]interface{}{"description": resp["description"]}
		if out["description"] == nil {
			out["description"] = ""
		}
		if schema, ok := resp["schema"]; ok {
			out["content"] = map[string]interface{}{
				"application/json": map[string]interface{}{"schema": rewriteRefs(schema)},
			}
		}
		result[code] = out
	}
	return result
}

// ServeOpenAPI3Spec serves the swagger spec converted to OpenAPI 3.0
func ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return Failure(c, "failed to read swagger doc")
	}

	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return Failure(c, "failed to parse swagger doc")
	}

	info, _ := swagger2["info"].(map[string]interface{})

	paths := make(map[string]interface{})
	rawPaths, _ := swagger2["paths"].(map[string]interface{})
	for path, rawItem := range rawPaths {
		item, ok := rawItem.(map[string]interface{})
		if !ok {
			continue
		}
		converted := make(map[string]interface{}, len(item))
		for method, rawOp := range item {
			if op, ok := rawOp.(map[string]interface{}); ok {
				converted[method] = convertOperation(op)
			}
		}
		paths[path] = converted
	}

	components := map[string]interface{}{
		"securitySchemes": map[string]interface{}{
			"BearerAuth": map[string]interface{}{
				"type":         "http",
				"scheme":       "bearer",
				"bearerFormat": "JWT",
			},
		},
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = rewriteRefs(definitions)
	}

	return c.JSON(http.StatusOK, OpenAPI3Spec{
		OpenAPI: "3.0.3",
		Info:    info,
		Servers: []Server{
			{URL: c.Scheme() + "://" + c.Request().Host, Description: "This server"},
		},
		Paths:      paths,
		Components: components,
	})
}
