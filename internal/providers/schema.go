package providers

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// MustSchema compiles a JSON schema literal. It panics on an invalid schema, so it
// is meant for package-level variables.
func MustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("providers: invalid response schema: %v", err))
	}
	return schema
}

// ValidateResponse checks a response body against a schema. Violations are
// reported as ErrMalformedResponse.
func ValidateResponse(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return Malformed("response is not valid JSON: %v", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return Malformed("%s", strings.Join(msgs, "; "))
}
