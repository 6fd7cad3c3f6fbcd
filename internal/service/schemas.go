package service

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

// Per-intent JSON schemas. Unknown properties are allowed; optional fields may be null.
const (
	replySchema     = `{"type": "string", "pattern": "\\S"}`
	nullableString  = `{"type": ["string", "null"]}`
	searchSchemaDoc = `{
  "type": "object",
  "required": ["type", "reply"],
  "properties": {
    "type": {"enum": ["SEARCH"]},
    "reply": ` + replySchema + `,
    "filters": {
      "type": ["object", "null"],
      "properties": {
        "type": {"enum": ["sale", "rent", "land", null]},
        "location": ` + nullableString + `,
        "maxPrice": {"type": ["number", "null"], "minimum": 0},
        "category": ` + nullableString + `
      }
    }
  }
}`
	postSchemaDoc = `{
  "type": "object",
  "required": ["type", "reply"],
  "properties": {
    "type": {"enum": ["POST"]},
    "reply": ` + replySchema + `
  }
}`
	leadDataSchemaDoc = `{
  "type": "object",
  "required": ["type", "data", "reply"],
  "properties": {
    "type": {"enum": ["LEAD_DATA"]},
    "reply": ` + replySchema + `,
    "data": {
      "type": "object",
      "properties": {
        "name": ` + nullableString + `,
        "phone": ` + nullableString + `,
        "requirements": ` + nullableString + `,
        "location": ` + nullableString + `
      }
    }
  }
}`
	chatSchemaDoc = `{
  "type": "object",
  "required": ["type", "reply"],
  "properties": {
    "type": {"enum": ["CHAT"]},
    "reply": ` + replySchema + `
  }
}`
)

var intentSchemas = map[model.IntentType]*gojsonschema.Schema{
	model.IntentSearch:   mustCompileSchema(model.IntentSearch, searchSchemaDoc),
	model.IntentPost:     mustCompileSchema(model.IntentPost, postSchemaDoc),
	model.IntentLeadData: mustCompileSchema(model.IntentLeadData, leadDataSchemaDoc),
	model.IntentChat:     mustCompileSchema(model.IntentChat, chatSchemaDoc),
}

func mustCompileSchema(intent model.IntentType, doc string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("invalid %s schema: %v", intent, err))
	}
	return schema
}
