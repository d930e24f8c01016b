package file

// JSON Schemas applied to catalog documents before unmarshalling. Structural
// problems are rejected at load so the engine can assume well-formed
// configuration at resolution time.

const templateSchema = `{
	"type": "object",
	"required": ["name", "product_code", "event_code", "trigger_types", "status"],
	"properties": {
		"id": {"type": "string"},
		"name": {"type": "string", "minLength": 3},
		"product_code": {"type": "string", "minLength": 1},
		"event_code": {"type": "string", "minLength": 1},
		"trigger_types": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "enum": ["Manual", "ClientPortal"]}
		},
		"status": {"type": "string", "enum": ["active", "inactive"]},
		"stages": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "order"],
				"properties": {
					"id": {"type": "string"},
					"name": {"type": "string", "minLength": 1},
					"order": {"type": "integer", "minimum": 0},
					"fields": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["field_id", "pane", "section", "order"],
							"properties": {
								"field_id": {"type": "string", "minLength": 1},
								"pane": {"type": "string", "minLength": 1},
								"section": {"type": "string", "minLength": 1},
								"order": {"type": "integer", "minimum": 0}
							}
						}
					}
				}
			}
		}
	}
}`

const fieldActionsSchema = `{
	"type": "object",
	"required": ["field_id"],
	"properties": {
		"field_id": {"type": "string", "minLength": 1},
		"is_computed": {"type": "boolean"},
		"computed_formula": {"type": "string"},
		"dropdown_filter_source": {"type": "string"},
		"triggers": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["when_value"],
				"properties": {
					"when_value": {"type": "array", "minItems": 1, "items": {"type": "string"}},
					"show_fields": {"type": "array", "items": {"type": "string"}},
					"hide_fields": {"type": "array", "items": {"type": "string"}},
					"filter_dropdowns": {
						"type": "object",
						"additionalProperties": {"type": "array", "items": {"type": "string"}}
					}
				}
			}
		}
	}
}`
