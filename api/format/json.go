package format

import (
	"encoding/json"

	"github.com/morikuni/failure/v2"
	"github.com/tidwall/gjson"
)

// ParseJSON extracts the top-level members of a JSON object.
func ParseJSON(body string) (Fields, error) {
	if !gjson.Valid(body) {
		return Fields{}, failure.New(ErrParse,
			failure.Message("Response body is not valid JSON"),
			failure.Context{"format": JSON.String()},
		)
	}

	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return Fields{}, failure.New(ErrParse,
			failure.Message("JSON response must be an object"),
			failure.Context{"format": JSON.String(), "type": doc.Type.String()},
		)
	}

	var b fieldsBuilder
	doc.ForEach(func(key, value gjson.Result) bool {
		b.set(key.String(), jsonValue(value))
		return true
	})
	return b.build(), nil
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		// source digits, so large integers and exponents survive
		return json.Number(v.Raw)
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Null:
		return nil
	default:
		// nested objects and arrays stay as raw JSON
		return json.RawMessage(v.Raw)
	}
}
