package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios validate engine behavior by loading datapacks, playing a
// sequence of moves, and asserting on the resulting state.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files use it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Packs lists the datapack names to request. Defaults to ["pente"].
	Packs []string `yaml:"packs,omitempty"`

	// Documents holds inline datapack JSON documents, merged with the
	// built-in packs before loading. A document with a built-in's name
	// replaces it.
	Documents []string `yaml:"documents,omitempty"`

	// Players is the player count. Defaults to 2.
	Players int `yaml:"players,omitempty"`

	// Setup pre-places stones before the first move, without running
	// the turn pipeline.
	Setup []SetupStone `yaml:"setup,omitempty"`

	// Moves is the sequence of turns to play.
	Moves []MoveStep `yaml:"moves"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// SetupStone pre-places one stone.
type SetupStone struct {
	At     []int `yaml:"at"`
	Player int   `yaml:"player"`
}

// MoveStep plays one move. When Illegal is set the move must be
// rejected, and the game continues from the unchanged state.
type MoveStep struct {
	At      []int `yaml:"at"`
	Illegal bool  `yaml:"illegal,omitempty"`
}

// Assertion validates the final state. Type selects the check:
//
//	score          player's score for memo equals value
//	cell           cell at coordinates holds player (or empty)
//	winner         the game is won by player
//	no_winner      the game has no winner
//	active_player  the player on move
type Assertion struct {
	Type   string `yaml:"type"`
	Player int    `yaml:"player,omitempty"`
	Memo   string `yaml:"memo,omitempty"`
	Value  int64  `yaml:"value,omitempty"`
	At     []int  `yaml:"at,omitempty"`
	Empty  bool   `yaml:"empty,omitempty"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(sc.Moves) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one move is required", sc.Name)
	}
	if sc.Players == 0 {
		sc.Players = 2
	}
	if len(sc.Packs) == 0 {
		sc.Packs = []string{"pente"}
	}
	return &sc, nil
}
