package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/quarry-games/pentad/internal/ir"
	"github.com/quarry-games/pentad/internal/loader"
)

// gatherPacks returns the built-in datapacks plus every JSON document
// in dir (when set). A directory pack with the same name as a built-in
// replaces it.
func gatherPacks(dir string) ([]*ir.DatapackDoc, error) {
	docs, err := loader.BuiltinDocs()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return docs, nil
	}

	extra, err := readPackDir(dir)
	if err != nil {
		return nil, err
	}
	for _, doc := range extra {
		idx := slices.IndexFunc(docs, func(d *ir.DatapackDoc) bool { return d.Name == doc.Name })
		if idx >= 0 {
			docs[idx] = doc
		} else {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// loadRuleset merges the gathered documents into a ruleset for the
// requested pack names.
func loadRuleset(docs []*ir.DatapackDoc, names []string) (*ir.Ruleset, error) {
	return loader.Load(docs, names...)
}

// readPackDir parses every *.json file in dir as a datapack document,
// in name order.
func readPackDir(dir string) ([]*ir.DatapackDoc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading datapack directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	var docs []*ir.DatapackDoc
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		doc, err := loader.ParseDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
