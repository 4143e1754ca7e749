package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) *Result {
	t.Helper()

	result, err := Run(sc)
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}
	for _, failure := range result.Failures {
		t.Errorf("scenario %s: %s", sc.Name, failure)
	}

	actual, err := json.MarshalIndent(&result.Trace, "", "  ")
	if err != nil {
		t.Fatalf("marshaling trace: %v", err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, sc.Name, actual)
	return result
}
