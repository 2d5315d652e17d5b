package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// SchemaFor generates a tool input schema from the struct tags of T.
//
//	type args struct {
//	    Query string `json:"query" jsonschema:"required,description=Search text"`
//	    Limit int    `json:"limit,omitempty" jsonschema:"description=Max results,default=10"`
//	}
func SchemaFor[T any]() map[string]interface{} {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
		AllowAdditionalProperties:  true,
	}

	data, err := json.Marshal(reflector.Reflect(new(T)))
	if err != nil {
		return emptySchema()
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return emptySchema()
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": raw["properties"],
	}
	if schema["properties"] == nil {
		schema["properties"] = map[string]interface{}{}
	}
	if required, ok := raw["required"]; ok {
		schema["required"] = required
	}
	return schema
}

func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}
