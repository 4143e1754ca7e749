package ir

// DatapackDoc is the parsed form of a datapack JSON document, prior to
// resolution. Field names follow the datapack format.
type DatapackDoc struct {
	Name         string           `json:"name"`
	DisplayName  string           `json:"display_name,omitempty"`
	Dependencies []string         `json:"dependencies,omitempty"`
	LoadAfter    []string         `json:"load_after,omitempty"`
	Scores       []ScoreDoc       `json:"scores,omitempty"`
	Restrictions []RestrictionDoc `json:"restrictions,omitempty"`
	Rules        []RuleDoc        `json:"rules,omitempty"`
	Board        *BoardDoc        `json:"board,omitempty"`
}

// ScoreDoc declares a score counter under a qualified name.
type ScoreDoc struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Threshold   *int64 `json:"threshold,omitempty"`
}

// ConditionDoc is the document form of a condition. Type selects the
// variant: "score" uses PlayerIndex/Memo, "coords" uses Axes.
type ConditionDoc struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"player_index,omitempty"`
	Memo        string `json:"memo,omitempty"`
	Axes        []int  `json:"axes,omitempty"`
	Minimum     *int64 `json:"minimum,omitempty"`
	Maximum     *int64 `json:"maximum,omitempty"`
}

// RestrictionDoc is the document form of a restriction. Type selects the
// variant: "pattern" or "disjunction". Top-level restrictions carry a
// qualified Name; nested ones must not.
type RestrictionDoc struct {
	Type         string             `json:"type"`
	Name         string             `json:"name,omitempty"`
	Pattern      string             `json:"pattern,omitempty"`
	Conditions   []ConditionDoc     `json:"conditions,omitempty"`
	ActivePlayer *int               `json:"active_player,omitempty"`
	Negate       bool               `json:"negate,omitempty"`
	Conjunctions [][]RestrictionDoc `json:"conjunctions,omitempty"`
}

// ScoreActionDoc is the document form of a score action.
type ScoreActionDoc struct {
	PlayerIndex int    `json:"player_index"`
	Memo        string `json:"memo"`
	Operation   string `json:"operation"`
	Value       int64  `json:"value"`
}

// BoardActionDoc is the document form of a board action.
type BoardActionDoc struct {
	PlayerIndex   int `json:"player_index"`
	LocationIndex int `json:"location_index"`
}

// RuleDoc is the document form of a rule.
type RuleDoc struct {
	Name           string           `json:"name"`
	Priority       string           `json:"priority,omitempty"`
	Pattern        string           `json:"pattern"`
	MultimatchMode string           `json:"multimatch_mode,omitempty"`
	Conditions     []ConditionDoc   `json:"conditions,omitempty"`
	ScoreActions   []ScoreActionDoc `json:"score_actions,omitempty"`
	BoardActions   []BoardActionDoc `json:"board_actions,omitempty"`
	ActivePlayer   *int             `json:"active_player,omitempty"`
}

// BoardDoc declares board metadata. Topology other than "stop" is
// reserved and rejected at load.
type BoardDoc struct {
	Dimensions []int  `json:"dimensions,omitempty"`
	Topology   string `json:"topology,omitempty"`
}

// SaveDoc is the serialized form of a game state.
//
// Board is a nested integer array matching the board dimensionality,
// with -1 for empty cells. Scores maps each qualified memo to an array
// of per-player values. ActivePlayer -1 means the game is terminal.
type SaveDoc struct {
	Board        any                `json:"board"`
	Scores       map[string][]int64 `json:"scores"`
	ActivePlayer int                `json:"active_player"`
	NumPlayers   int                `json:"num_players"`
	Datapacks    []string           `json:"datapacks"`
}
