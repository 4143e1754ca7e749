package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "saves.db")
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "play")
	assert.Contains(t, names, "validate")
	assert.Contains(t, names, "saves")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := `{"name": "mini", "scores": [{"name": "mini.points"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mini.json"), []byte(good), 0o644))

	out, err := runCommand(t, "", "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   mini.json (mini)")
	assert.Contains(t, out, "ok   merged load")
}

func TestValidateCommand_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	bad := `{"name": "", "rules": []}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(bad), 0o644))

	out, err := runCommand(t, "", "validate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL bad.json")
}

func TestValidateCommand_CrossPackFailure(t *testing.T) {
	dir := t.TempDir()
	// Schema-valid on its own, but depends on an absent pack.
	orphan := `{"name": "orphan", "dependencies": ["ghost"]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orphan.json"), []byte(orphan), 0o644))

	out, err := runCommand(t, "", "validate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL merged load")
}

func TestValidateCommand_EmptyDir(t *testing.T) {
	_, err := runCommand(t, "", "validate", t.TempDir())
	assert.Error(t, err)
}

func TestPlayCommand_QuitImmediately(t *testing.T) {
	out, err := runCommand(t, "quit\n", "--db", tempDB(t), "play")
	require.NoError(t, err)
	assert.Contains(t, out, "Playing Pente")
	assert.Contains(t, out, "Player X to move>")
}

func TestPlayCommand_MovesAndScores(t *testing.T) {
	stdin := "3 3\nscores\nquit\n"
	out, err := runCommand(t, stdin, "--db", tempDB(t), "play")
	require.NoError(t, err)
	// After player X moves, player O is prompted and scores print.
	assert.Contains(t, out, "Player O to move>")
	assert.Contains(t, out, "Captured stones:")
}

func TestPlayCommand_RejectsIllegalInput(t *testing.T) {
	stdin := "3 3\n3 3\nquit\n"
	out, err := runCommand(t, stdin, "--db", tempDB(t), "play")
	require.NoError(t, err)
	assert.Contains(t, out, "CELL_OCCUPIED")
}

func TestSavesCommands_EmptyList(t *testing.T) {
	out, err := runCommand(t, "", "--db", tempDB(t), "saves", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no saved games")
}

func TestPlaySaveThenListAndDelete(t *testing.T) {
	db := tempDB(t)

	out, err := runCommand(t, "3 3\nsave test game\nquit\n", "--db", db, "play")
	require.NoError(t, err)
	require.Contains(t, out, "saved as ")

	line := out[strings.Index(out, "saved as "):]
	id := strings.Fields(strings.Split(line, "\n")[0])[2]

	out, err = runCommand(t, "", "--db", db, "saves", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "test game")

	out, err = runCommand(t, "", "--db", db, "saves", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"active_player":1`)

	out, err = runCommand(t, "", "--db", db, "saves", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
}

func TestPlayCommand_Resume(t *testing.T) {
	db := tempDB(t)

	out, err := runCommand(t, "0 0\nsave checkpoint\nquit\n", "--db", db, "play")
	require.NoError(t, err)
	id := strings.Fields(strings.Split(out[strings.Index(out, "saved as "):], "\n")[0])[2]

	out, err = runCommand(t, "quit\n", "--db", db, "play", "--resume", id)
	require.NoError(t, err)
	// Player O is on move in the resumed game.
	assert.Contains(t, out, "Player O to move>")
}
