package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func runGolden(t *testing.T, name string) {
	t.Helper()
	sc, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
	require.NoError(t, err)
	RunWithGolden(t, sc)
}

func TestGolden_Capture(t *testing.T) {
	runGolden(t, "capture")
}

func TestGolden_FiveInARow(t *testing.T) {
	runGolden(t, "five_in_a_row")
}
