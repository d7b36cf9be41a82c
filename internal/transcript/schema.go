package transcript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrUnsupportedShape is returned when a JSON transcript picks a known layout
// but its contents do not fit it.
var ErrUnsupportedShape = errors.New("unsupported transcript shape")

// textEntry is an object whose optional "text" member must be a string.
const textEntry = `{"type":"object","properties":{"text":{"type":"string"}}}`

var (
	segmentsShape = mustSchema(`{"type":"object","required":["segments"],"properties":{"segments":{"type":"array","items":` + textEntry + `}}}`)
	itemsShape    = mustSchema(`{"type":"object","required":["items"],"properties":{"items":{"type":"array","items":` + textEntry + `}}}`)
	listShape     = mustSchema(`{"type":"array","items":` + textEntry + `}`)
)

func mustSchema(def string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(def))
	if err != nil {
		panic(fmt.Sprintf("transcript: bad schema %s: %v", def, err))
	}
	return schema
}

// conform validates doc against schema and folds every violation into one error.
func conform(schema *gojsonschema.Schema, doc any, layout string) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate %s transcript: %w", layout, err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%w (%s): %s", ErrUnsupportedShape, layout, strings.Join(errs, ", "))
}
