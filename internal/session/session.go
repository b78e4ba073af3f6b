// Package session holds the editing state between the UI and the record
// store: which teams are selected, which field edits are staged, and
// whether anything is dirty. Nothing here touches the database until Save.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"cfsedit/internal/logging"
	"cfsedit/internal/store"
	"cfsedit/internal/types"
)

var (
	// ErrNoSelection means an edit or save was attempted with nothing selected.
	ErrNoSelection = errors.New("no team selected")

	// ErrInvalidValue means a staged value failed validation. The wrapped
	// message names the field and the rule.
	ErrInvalidValue = errors.New("invalid value")

	// ErrBusy means a save is in flight and the selection cannot change
	// until it finishes.
	ErrBusy = errors.New("save in progress")
)

// Founding-year bounds accepted by validation.
const (
	MinFoundYear = 1800
	MaxFoundYear = 2100
)

// Session tracks selection and staged edits over one open store.
type Session struct {
	store *store.Store

	mu       sync.Mutex
	saving   bool
	selected []int64
	loaded   map[int64]types.Team
	pending  map[int64]types.Changes
	leagues  map[int64]bool
}

// New creates an empty session over the store.
func New(st *store.Store) *Session {
	return &Session{
		store:   st,
		loaded:  make(map[int64]types.Team),
		pending: make(map[int64]types.Changes),
	}
}

// Store returns the underlying record store.
func (s *Session) Store() *store.Store {
	return s.store
}

// Select makes a single team current, discarding any previous selection.
// Staged edits for other teams are dropped; edits for this team survive a
// re-select.
func (s *Session) Select(ctx context.Context, id int64) (types.Team, error) {
	team, err := s.store.GetTeam(ctx, id)
	if err != nil {
		return types.Team{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return types.Team{}, ErrBusy
	}
	s.selected = []int64{id}
	s.loaded = map[int64]types.Team{id: team}
	for pid := range s.pending {
		if pid != id {
			delete(s.pending, pid)
		}
	}

	logging.SessionDebug("Selected team %d", id)
	return team, nil
}

// SelectMany makes a set of teams current for batch editing. Every
// identifier must resolve; a single unknown identifier fails the whole
// selection so a batch never silently shrinks.
func (s *Session) SelectMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return ErrNoSelection
	}

	loaded := make(map[int64]types.Team, len(ids))
	for _, id := range ids {
		team, err := s.store.GetTeam(ctx, id)
		if err != nil {
			return err
		}
		loaded[id] = team
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrBusy
	}
	s.selected = append([]int64(nil), ids...)
	sort.Slice(s.selected, func(i, j int) bool { return s.selected[i] < s.selected[j] })
	s.loaded = loaded
	s.pending = make(map[int64]types.Changes)

	logging.Session("Selected %d teams for batch edit", len(ids))
	return nil
}

// Selected returns the selected team identifiers in ascending order.
func (s *Session) Selected() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.selected...)
}

// Current returns the single selected team with staged edits applied, for
// rendering the detail form. False when zero or many teams are selected.
func (s *Session) Current() (types.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) != 1 {
		return types.Team{}, false
	}
	id := s.selected[0]
	team := s.loaded[id]
	if ch, ok := s.pending[id]; ok {
		team = ch.Applied(team)
	}
	return team, true
}

// SetField parses and stages a value for one field across the whole
// selection. Values come in as the raw text the form holds; numeric fields
// are parsed and validated here, so a failed edit stages nothing anywhere.
func (s *Session) SetField(field types.Field, raw string) error {
	value, err := parseField(field, raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) == 0 {
		return ErrNoSelection
	}
	if field == types.FieldReputation && !s.store.HasReputation() {
		return fmt.Errorf("%w: reputation is not in this save version", ErrInvalidValue)
	}
	if field == types.FieldLeague {
		if id, ok := value.(int64); ok && !s.leagueExistsLocked(id) {
			return fmt.Errorf("%w: no league with id %d", ErrInvalidValue, id)
		}
	}

	for _, id := range s.selected {
		s.stageLocked(id, field, value)
	}
	logging.SessionDebug("Staged %s for %d team(s)", field, len(s.selected))
	return nil
}

// ModifierMode says how a batch modifier combines with each team's value.
type ModifierMode int

const (
	// ModifierSet replaces the value outright.
	ModifierSet ModifierMode = iota
	// ModifierAdd adds a (possibly negative) absolute amount.
	ModifierAdd
	// ModifierPercent scales by a percentage, e.g. +10 or -25.
	ModifierPercent
)

// Modifier is one batch adjustment to a numeric field.
type Modifier struct {
	Mode  ModifierMode
	Value int64
}

// ApplyModifier stages a numeric adjustment per selected team, computed
// against each team's own current value. Results clamp at zero rather
// than going negative.
func (s *Session) ApplyModifier(field types.Field, mod Modifier) error {
	if !types.NumericFields[field] {
		return fmt.Errorf("%w: %s is not numeric", ErrInvalidValue, field)
	}
	if field == types.FieldFoundYear && mod.Mode != ModifierSet {
		return fmt.Errorf("%w: founding year only supports direct set", ErrInvalidValue)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) == 0 {
		return ErrNoSelection
	}
	if field == types.FieldReputation && !s.store.HasReputation() {
		return fmt.Errorf("%w: reputation is not in this save version", ErrInvalidValue)
	}

	for _, id := range s.selected {
		base := s.currentValueLocked(id, field)
		var v int64
		switch mod.Mode {
		case ModifierSet:
			v = mod.Value
		case ModifierAdd:
			v = base + mod.Value
		case ModifierPercent:
			v = base + base*mod.Value/100
		}
		if v < 0 {
			v = 0
		}
		if field == types.FieldFoundYear && (v < MinFoundYear || v > MaxFoundYear) {
			return fmt.Errorf("%w: founding year must be %d-%d", ErrInvalidValue, MinFoundYear, MaxFoundYear)
		}
		if field == types.FieldLeague && !s.leagueExistsLocked(v) {
			return fmt.Errorf("%w: no league with id %d", ErrInvalidValue, v)
		}
		s.stageLocked(id, field, v)
	}

	logging.Session("Staged %s modifier for %d team(s)", field, len(s.selected))
	return nil
}

func (s *Session) stageLocked(id int64, field types.Field, value any) {
	ch, ok := s.pending[id]
	if !ok {
		ch = make(types.Changes)
		s.pending[id] = ch
	}
	ch[field] = value
}

// leagueExistsLocked checks a league id against the save's league table,
// loading the table once per session. When the table cannot be read the
// check passes and the save surfaces whatever the database rejects.
func (s *Session) leagueExistsLocked(id int64) bool {
	if s.leagues == nil {
		leagues, err := s.store.Leagues(context.Background())
		if err != nil {
			return true
		}
		s.leagues = make(map[int64]bool, len(leagues))
		for _, l := range leagues {
			s.leagues[l.ID] = true
		}
	}
	return s.leagues[id]
}

func (s *Session) currentValueLocked(id int64, field types.Field) int64 {
	team := s.loaded[id]
	if ch, ok := s.pending[id]; ok {
		team = ch.Applied(team)
	}
	switch field {
	case types.FieldWealth:
		return team.Wealth
	case types.FieldFoundYear:
		return team.FoundYear
	case types.FieldSupporters:
		return team.SupporterCount
	case types.FieldReputation:
		return team.Reputation
	case types.FieldLeague:
		return team.LeagueID
	}
	return 0
}

// Dirty reports whether any staged edits await a save.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// Discard drops every staged edit, keeping the selection.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) > 0 {
		logging.Session("Discarded staged edits for %d team(s)", len(s.pending))
	}
	s.pending = make(map[int64]types.Changes)
}

// Save flushes staged edits to the store, each team independently. Teams
// that fail keep their staged edits so the user can retry or discard;
// successful teams are reloaded into the session snapshot.
func (s *Session) Save(ctx context.Context) (store.BatchResult, error) {
	timer := logging.StartTimer(logging.CategorySession, "Save")
	defer timer.Stop()

	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return store.BatchResult{}, nil
	}
	batch := make(map[int64]types.Changes, len(s.pending))
	for id, ch := range s.pending {
		batch[id] = ch.Clone()
	}
	s.saving = true
	s.mu.Unlock()

	result := s.store.UpdateTeams(ctx, batch)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	for _, id := range result.Applied {
		delete(s.pending, id)
		if team, err := s.store.GetTeam(ctx, id); err == nil {
			s.loaded[id] = team
		}
	}

	if !result.Ok() {
		return result, fmt.Errorf("saved %d of %d teams", len(result.Applied), len(batch))
	}
	logging.Session("Saved %d team(s)", len(result.Applied))
	return result, nil
}

// SaveStaff validates and persists one staff record. Staff writes bypass
// the team staging area; they commit immediately.
func (s *Session) SaveStaff(ctx context.Context, st types.Staff) error {
	if strings.TrimSpace(st.Name) == "" {
		return fmt.Errorf("%w: staff name must not be empty", ErrInvalidValue)
	}
	if st.Fame < 0 {
		return fmt.Errorf("%w: fame must not be negative", ErrInvalidValue)
	}
	if ability, err := st.Ability(); err == nil && ability < 0 {
		return fmt.Errorf("%w: ability must not be negative", ErrInvalidValue)
	}
	return s.store.UpdateStaff(ctx, st)
}

// parseField converts form text into the typed value a field stores,
// enforcing the validation rules.
func parseField(field types.Field, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	if types.NumericFields[field] {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a whole number", ErrInvalidValue, field)
		}
		switch field {
		case types.FieldFoundYear:
			if n < MinFoundYear || n > MaxFoundYear {
				return nil, fmt.Errorf("%w: founding year must be %d-%d", ErrInvalidValue, MinFoundYear, MaxFoundYear)
			}
		default:
			if n < 0 {
				return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalidValue, field)
			}
		}
		return n, nil
	}

	if field == types.FieldName && raw == "" {
		return nil, fmt.Errorf("%w: team name must not be empty", ErrInvalidValue)
	}
	return raw, nil
}
