package loader

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/quarry-games/pentad/internal/ir"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

func datapackSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compiling datapack schema: %w", err)
			return
		}
		schemaValue = v.LookupPath(cue.ParsePath("#Datapack"))
		if err := schemaValue.Err(); err != nil {
			schemaErr = fmt.Errorf("looking up #Datapack: %w", err)
		}
	})
	return schemaValue, schemaErr
}

// ValidateDocument checks a raw datapack JSON document against the
// embedded CUE schema.
func ValidateDocument(raw []byte) error {
	schema, err := datapackSchema()
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract("datapack.json", raw)
	if err != nil {
		return &LoadError{Code: ErrCodeBadDocument, Message: fmt.Sprintf("invalid JSON: %v", err)}
	}

	value := schema.Context().BuildExpr(expr)
	if err := value.Err(); err != nil {
		return &LoadError{Code: ErrCodeBadDocument, Message: err.Error()}
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeBadDocument, Message: err.Error()}
	}
	return nil
}

// ParseDocument validates raw JSON against the schema and decodes it
// into a datapack document, running structural validation as well.
func ParseDocument(raw []byte) (*ir.DatapackDoc, error) {
	if err := ValidateDocument(raw); err != nil {
		return nil, err
	}

	var doc ir.DatapackDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeBadDocument, Message: err.Error()}
	}

	if errs := doc.Validate(); len(errs) > 0 {
		return nil, &LoadError{
			Code:    ErrCodeBadDocument,
			Message: errs[0].Error(),
			Pack:    doc.Name,
		}
	}
	return &doc, nil
}
