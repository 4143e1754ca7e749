package loader

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/quarry-games/pentad/internal/ir"
)

// defaultDimensions is the board shape used when no included pack
// declares one.
var defaultDimensions = []int{19, 19}

// Load merges datapack documents into an immutable ruleset.
//
// The available set may hold more packs than get loaded: names selects
// the requested packs, and the dependency closure pulls in the rest.
// With no names, every available pack is requested.
//
// Loading the same available set with the same names yields the same
// ruleset regardless of slice order: the topological sort breaks ties
// by pack name.
func Load(available []*ir.DatapackDoc, names ...string) (*ir.Ruleset, error) {
	byName := make(map[string]*ir.DatapackDoc, len(available))
	for _, doc := range available {
		if _, dup := byName[doc.Name]; dup {
			return nil, &LoadError{
				Code:    ErrCodeDuplicatePack,
				Message: "two documents share this pack name",
				Pack:    doc.Name,
			}
		}
		byName[doc.Name] = doc
	}

	requested := names
	if len(requested) == 0 {
		requested = make([]string, 0, len(available))
		for _, doc := range available {
			requested = append(requested, doc.Name)
		}
	}

	included, err := closure(byName, requested)
	if err != nil {
		return nil, err
	}
	for _, name := range included {
		if errs := byName[name].Validate(); len(errs) > 0 {
			msgs := make([]string, len(errs))
			for i, e := range errs {
				msgs[i] = e.Error()
			}
			return nil, &LoadError{
				Code:    ErrCodeBadDocument,
				Message: strings.Join(msgs, "; "),
				Pack:    name,
			}
		}
	}

	order, err := sortPacks(byName, included)
	if err != nil {
		return nil, err
	}

	rs, err := resolve(byName, order, requested)
	if err != nil {
		return nil, err
	}

	slog.Info("datapacks loaded",
		"packs", rs.Packs,
		"scores", len(rs.Scores),
		"restrictions", len(rs.Restrictions),
		"rules", len(rs.Rules),
		"dimensions", rs.Dimensions)
	return rs, nil
}

// closure returns the requested packs plus every transitive dependency,
// failing on a dependency absent from the available set. load_after
// names never pull a pack in.
func closure(byName map[string]*ir.DatapackDoc, requested []string) ([]string, error) {
	var included []string
	seen := make(map[string]bool)

	var include func(name, wantedBy string) error
	include = func(name, wantedBy string) error {
		if seen[name] {
			return nil
		}
		doc, ok := byName[name]
		if !ok {
			return &LoadError{
				Code:    ErrCodeMissingDependency,
				Message: fmt.Sprintf("datapack %q is not available", name),
				Pack:    wantedBy,
			}
		}
		seen[name] = true
		included = append(included, name)
		for _, dep := range doc.Dependencies {
			if err := include(dep, name); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range requested {
		if err := include(name, ""); err != nil {
			return nil, err
		}
	}
	return included, nil
}

// sortPacks orders the included packs topologically. Edges run from a
// dependency (or load_after target) to the pack that names it, so
// prerequisites load first. Among ready packs the lexicographically
// smallest name loads next, which makes the order input-independent.
func sortPacks(byName map[string]*ir.DatapackDoc, included []string) ([]string, error) {
	inClosure := make(map[string]bool, len(included))
	for _, name := range included {
		inClosure[name] = true
	}

	successors := make(map[string][]string, len(included))
	indegree := make(map[string]int, len(included))
	for _, name := range included {
		indegree[name] += 0
		doc := byName[name]
		for _, dep := range doc.Dependencies {
			successors[dep] = append(successors[dep], name)
			indegree[name]++
		}
		for _, after := range doc.LoadAfter {
			// A load_after on an absent pack is ignored.
			if !inClosure[after] {
				continue
			}
			successors[after] = append(successors[after], name)
			indegree[name]++
		}
	}

	var ready []string
	for _, name := range included {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	slices.Sort(ready)

	order := make([]string, 0, len(included))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		for _, succ := range successors[name] {
			indegree[succ]--
			if indegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
		slices.Sort(ready)
	}

	if len(order) != len(included) {
		var stuck []string
		for name, deg := range indegree {
			if deg > 0 {
				stuck = append(stuck, name)
			}
		}
		slices.Sort(stuck)
		return nil, &LoadError{
			Code:    ErrCodeDependencyCycle,
			Message: fmt.Sprintf("dependency cycle among %v", stuck),
		}
	}
	return order, nil
}

// ruleEntry carries a registered rule with its registration-time order
// keys. An override replaces the rule payload but keeps the keys, so
// the entry's position in priority and load order never moves.
type ruleEntry struct {
	rule     ir.Rule
	priority ir.Priority
	seq      int
}

type resolver struct {
	scores   []ir.ScoreSpec
	scoreIdx map[ir.QualifiedName]int

	restrNames []ir.QualifiedName
	restrs     []ir.Restriction
	restrIdx   map[ir.QualifiedName]int

	rules   []ruleEntry
	ruleIdx map[ir.QualifiedName]int
}

// resolve runs the registration pass over the sorted packs and builds
// the final ruleset.
func resolve(byName map[string]*ir.DatapackDoc, order, requested []string) (*ir.Ruleset, error) {
	r := &resolver{
		scoreIdx: make(map[ir.QualifiedName]int),
		restrIdx: make(map[ir.QualifiedName]int),
		ruleIdx:  make(map[ir.QualifiedName]int),
	}

	seq := 0
	for _, packName := range order {
		doc := byName[packName]

		for i := range doc.Scores {
			spec := compileScore(&doc.Scores[i])
			if err := r.registerScore(packName, spec); err != nil {
				return nil, err
			}
		}

		for i := range doc.Restrictions {
			restr, err := compileRestriction(&doc.Restrictions[i], packName)
			if err != nil {
				return nil, err
			}
			if err := r.registerRestriction(packName, ir.QualifiedName(doc.Restrictions[i].Name), restr); err != nil {
				return nil, err
			}
		}

		for i := range doc.Rules {
			rule, err := compileRule(&doc.Rules[i], packName)
			if err != nil {
				return nil, err
			}
			if err := r.registerRule(packName, rule, seq); err != nil {
				return nil, err
			}
			seq++
		}
	}

	if err := r.validateReferences(); err != nil {
		return nil, err
	}

	dims, err := boardDimensions(byName, order)
	if err != nil {
		return nil, err
	}

	// Stable sort keeps registration order within a priority bucket:
	// datapack load order, then declaration order.
	sorted := slices.Clone(r.rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})
	rules := make([]ir.Rule, len(sorted))
	for i, entry := range sorted {
		rules[i] = entry.rule
	}

	return &ir.Ruleset{
		Packs:        order,
		DisplayName:  displayName(byName, order, requested),
		Dimensions:   dims,
		Scores:       r.scores,
		Restrictions: r.restrs,
		Rules:        rules,
	}, nil
}

// checkName validates qualification and reports whether the feature is
// an override (owned by a pack other than the registering one).
func checkName(pack string, name ir.QualifiedName) (override bool, err error) {
	if err := name.Validate(); err != nil {
		return false, &LoadError{
			Code:    ErrCodeUnqualifiedName,
			Message: err.Error(),
			Pack:    pack,
			Feature: string(name),
		}
	}
	return name.Owner() != pack, nil
}

func duplicateRegistration(pack string, name ir.QualifiedName) error {
	return &LoadError{
		Code:    ErrCodeDuplicateRegistration,
		Message: "qualified name registered twice by its owner",
		Pack:    pack,
		Feature: string(name),
	}
}

func (r *resolver) registerScore(pack string, spec ir.ScoreSpec) error {
	override, err := checkName(pack, spec.Memo)
	if err != nil {
		return err
	}
	idx, exists := r.scoreIdx[spec.Memo]
	if override {
		if !exists {
			slog.Debug("override skipped: owner never registered",
				"pack", pack, "feature", string(spec.Memo))
			return nil
		}
		r.scores[idx] = spec
		return nil
	}
	if exists {
		return duplicateRegistration(pack, spec.Memo)
	}
	r.scoreIdx[spec.Memo] = len(r.scores)
	r.scores = append(r.scores, spec)
	return nil
}

func (r *resolver) registerRestriction(pack string, name ir.QualifiedName, restr ir.Restriction) error {
	override, err := checkName(pack, name)
	if err != nil {
		return err
	}
	idx, exists := r.restrIdx[name]
	if override {
		if !exists {
			slog.Debug("override skipped: owner never registered",
				"pack", pack, "feature", string(name))
			return nil
		}
		r.restrs[idx] = restr
		return nil
	}
	if exists {
		return duplicateRegistration(pack, name)
	}
	r.restrIdx[name] = len(r.restrs)
	r.restrNames = append(r.restrNames, name)
	r.restrs = append(r.restrs, restr)
	return nil
}

func (r *resolver) registerRule(pack string, rule ir.Rule, seq int) error {
	override, err := checkName(pack, rule.Name)
	if err != nil {
		return err
	}
	idx, exists := r.ruleIdx[rule.Name]
	if override {
		if !exists {
			slog.Debug("override skipped: owner never registered",
				"pack", pack, "feature", string(rule.Name))
			return nil
		}
		// Payload replaced in place; the registered priority and
		// sequence keep the entry's position in execution order.
		kept := r.rules[idx]
		rule.Priority = kept.priority
		r.rules[idx] = ruleEntry{rule: rule, priority: kept.priority, seq: kept.seq}
		return nil
	}
	if exists {
		return duplicateRegistration(pack, rule.Name)
	}
	r.ruleIdx[rule.Name] = len(r.rules)
	r.rules = append(r.rules, ruleEntry{rule: rule, priority: rule.Priority, seq: seq})
	return nil
}

// validateReferences checks every memo referenced by score conditions
// and score actions against the final score table.
func (r *resolver) validateReferences() error {
	check := func(memo ir.QualifiedName, feature ir.QualifiedName) error {
		if _, ok := r.scoreIdx[memo]; !ok {
			return &LoadError{
				Code:    ErrCodeUnresolvedMemo,
				Message: fmt.Sprintf("score %q is not registered", string(memo)),
				Feature: string(feature),
			}
		}
		return nil
	}

	checkConditions := func(conds []ir.Condition, feature ir.QualifiedName) error {
		for _, cond := range conds {
			if sc, ok := cond.(ir.ScoreCondition); ok {
				if err := check(sc.Memo, feature); err != nil {
					return err
				}
			}
		}
		return nil
	}

	var checkRestriction func(restr ir.Restriction, feature ir.QualifiedName) error
	checkRestriction = func(restr ir.Restriction, feature ir.QualifiedName) error {
		switch restr := restr.(type) {
		case *ir.PatternRestriction:
			return checkConditions(restr.Conditions, feature)
		case *ir.DisjunctionRestriction:
			for _, conj := range restr.Conjunctions {
				for _, sub := range conj {
					if err := checkRestriction(sub, feature); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	for i, name := range r.restrNames {
		if err := checkRestriction(r.restrs[i], name); err != nil {
			return err
		}
	}
	for _, entry := range r.rules {
		if err := checkConditions(entry.rule.Conditions, entry.rule.Name); err != nil {
			return err
		}
		for _, a := range entry.rule.ScoreActions {
			if err := check(a.Memo, entry.rule.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// boardDimensions applies last-writer-wins over the sorted packs,
// rejecting declarations that change the dimension count.
func boardDimensions(byName map[string]*ir.DatapackDoc, order []string) ([]int, error) {
	var dims []int
	var declaredBy string
	for _, name := range order {
		doc := byName[name]
		if doc.Board == nil || len(doc.Board.Dimensions) == 0 {
			continue
		}
		next := doc.Board.Dimensions
		if dims != nil && len(next) != len(dims) {
			return nil, &LoadError{
				Code: ErrCodeDimensionMismatch,
				Message: fmt.Sprintf("board has %d dimensions, but %q declared %d",
					len(next), declaredBy, len(dims)),
				Pack: name,
			}
		}
		dims = slices.Clone(next)
		declaredBy = name
	}
	if dims == nil {
		dims = slices.Clone(defaultDimensions)
	}
	return dims, nil
}

// displayName joins the display names of the explicitly requested
// packs, in load order.
func displayName(byName map[string]*ir.DatapackDoc, order, requested []string) string {
	wanted := make(map[string]bool, len(requested))
	for _, name := range requested {
		wanted[name] = true
	}
	var parts []string
	for _, name := range order {
		if !wanted[name] {
			continue
		}
		doc := byName[name]
		if doc.DisplayName != "" {
			parts = append(parts, doc.DisplayName)
		} else {
			parts = append(parts, doc.Name)
		}
	}
	return strings.Join(parts, ", ")
}
