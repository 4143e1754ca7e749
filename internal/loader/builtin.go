package loader

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/quarry-games/pentad/internal/ir"
)

//go:embed datapacks/*.json
var builtinFS embed.FS

// BuiltinDocs parses the datapacks shipped with the engine. The
// built-in set always contains the Pente baseline pack.
func BuiltinDocs() ([]*ir.DatapackDoc, error) {
	entries, err := fs.ReadDir(builtinFS, "datapacks")
	if err != nil {
		return nil, fmt.Errorf("reading built-in datapacks: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	docs := make([]*ir.DatapackDoc, 0, len(names))
	for _, name := range names {
		raw, err := builtinFS.ReadFile("datapacks/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading built-in datapack %s: %w", name, err)
		}
		doc, err := ParseDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("built-in datapack %s: %w", name, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadBuiltin loads the built-in Pente baseline ruleset.
func LoadBuiltin() (*ir.Ruleset, error) {
	docs, err := BuiltinDocs()
	if err != nil {
		return nil, err
	}
	return Load(docs, "pente")
}
