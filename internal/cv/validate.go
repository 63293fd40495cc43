package cv

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hpungsan/folio/internal/errors"
)

//go:embed cv.schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Validate checks d against the CV JSON schema. Absent sequences fail, so
// callers validate normalized documents.
func Validate(d Document) error {
	data, err := json.Marshal(d)
	if err != nil {
		return errors.NewInternal(err)
	}
	return ValidateJSON(data)
}

// ValidateJSON checks raw JSON against the CV schema.
func ValidateJSON(data []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("cv is not valid JSON: %v", err))
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	fErr := errors.NewInvalidRequest("cv schema validation failed: " + strings.Join(msgs, "; "))
	fErr.Details = map[string]any{"violations": msgs}
	return fErr
}
