package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// GoalLoader reads a previously persisted goal set.
type GoalLoader interface {
	LoadGoals() ([]models.Goal, error)
}

// GoalStore owns the authoritative goal collection. There is a single
// backing slice; the current-period view is a filter over it, so the two
// can never disagree.
//
// Every mutation builds a new slice, hands it to the persister when one is
// configured, and only then swaps it in. A failed save leaves the store
// exactly as it was.
type GoalStore struct {
	mu        sync.Mutex
	goals     []models.Goal
	persister GoalPersister
	now       func() time.Time
}

// NewGoalStore creates an empty store. persister may be nil for a purely
// in-memory store.
func NewGoalStore(persister GoalPersister) *GoalStore {
	return &GoalStore{persister: persister, now: time.Now}
}

// LoadGoalStore creates a store seeded from loader.
func LoadGoalStore(loader GoalLoader, persister GoalPersister) (*GoalStore, error) {
	goals, err := loader.LoadGoals()
	if err != nil {
		return nil, fmt.Errorf("loading goal store: %w", err)
	}
	s := NewGoalStore(persister)
	for _, g := range goals {
		s.goals = append(s.goals, g.Clone())
	}
	return s, nil
}

// SetClock overrides the clock used by AvailableGoals.
func (s *GoalStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Add appends goal to the store.
func (s *GoalStore) Add(goal models.Goal) error {
	const op = "adding goal"
	if goal.ID == "" {
		return models.InvalidArgument(op, "goal id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(goal.ID) >= 0 {
		return models.InvalidArgument(op, "goal %s already exists", goal.ID)
	}
	next := s.snapshot()
	next = append(next, goal.Clone())
	return s.commit(op, next)
}

// AllGoals returns a copy of every goal in insertion order.
func (s *GoalStore) AllGoals() []models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// AvailableGoals returns the goals that are still open and whose window
// contains today.
func (s *GoalStore) AvailableGoals() []models.Goal {
	s.mu.Lock()
	today := s.now()
	s.mu.Unlock()
	return s.AvailableGoalsOn(today)
}

// AvailableGoalsOn is AvailableGoals evaluated for an explicit day.
func (s *GoalStore) AvailableGoalsOn(day time.Time) []models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Goal
	for i := range s.goals {
		if s.goals[i].AvailableOn(day) {
			out = append(out, s.goals[i].Clone())
		}
	}
	return out
}

// GoalsTargeting returns the goals whose target task is taskID.
func (s *GoalStore) GoalsTargeting(taskID models.TaskID) []models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Goal
	for i := range s.goals {
		if s.goals[i].Targets(taskID) {
			out = append(out, s.goals[i].Clone())
		}
	}
	return out
}

// Get returns a copy of the goal with id, or false when absent.
func (s *GoalStore) Get(id models.GoalID) (models.Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Goal{}, false
	}
	return s.goals[i].Clone(), true
}

// Remove deletes the goal with id. Removing an absent goal is a no-op and
// reports false.
func (s *GoalStore) Remove(id models.GoalID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := make([]models.Goal, 0, len(s.goals)-1)
	next = append(next, s.goals[:i]...)
	next = append(next, s.goals[i+1:]...)
	if err := s.commit("removing goal", next); err != nil {
		return false, err
	}
	return true, nil
}

// RecordCompletionAndClean counts one completion of the goal's target task
// at completionDate. It does nothing when completionDate is nil or the goal
// is absent. The returned bool reports whether progress changed; a goal
// that reaches its frequency leaves the available view in the same step.
func (s *GoalStore) RecordCompletionAndClean(id models.GoalID, completionDate *time.Time) (models.Goal, bool, error) {
	if completionDate == nil {
		return models.Goal{}, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Goal{}, false, nil
	}
	next := s.snapshot()
	if !next[i].RecordProgress(*completionDate) {
		return next[i], false, nil
	}
	if err := s.commit("recording goal progress", next); err != nil {
		return models.Goal{}, false, err
	}
	return s.goals[i].Clone(), true, nil
}

// UndoProgress reverses one completion of the goal, never below zero.
func (s *GoalStore) UndoProgress(id models.GoalID) (models.Goal, bool, error) {
	const op = "undoing goal progress"
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Goal{}, false, models.NotFound(op, "goal %s not found", id)
	}
	next := s.snapshot()
	if !next[i].UndoProgress() {
		return next[i], false, nil
	}
	if err := s.commit(op, next); err != nil {
		return models.Goal{}, false, err
	}
	return s.goals[i].Clone(), true, nil
}

// UpdateEach applies fn to a copy of every goal and commits the result
// when fn reports at least one change. It returns copies of the changed goals.
func (s *GoalStore) UpdateEach(fn func(g *models.Goal) bool) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snapshot()
	var changed []models.Goal
	for i := range next {
		if fn(&next[i]) {
			changed = append(changed, next[i].Clone())
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}
	if err := s.commit("updating goals", next); err != nil {
		return nil, err
	}
	return changed, nil
}

// RemoveWhere deletes every goal matching pred and returns the removed goals.
func (s *GoalStore) RemoveWhere(pred func(g models.Goal) bool) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Goal, 0, len(s.goals))
	var removed []models.Goal
	for i := range s.goals {
		if pred(s.goals[i].Clone()) {
			removed = append(removed, s.goals[i].Clone())
			continue
		}
		next = append(next, s.goals[i].Clone())
	}
	if len(removed) == 0 {
		return nil, nil
	}
	if err := s.commit("removing goals", next); err != nil {
		return nil, err
	}
	return removed, nil
}

// Len returns the number of goals held.
func (s *GoalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.goals)
}

// snapshot returns deep copies of the current goals. Caller holds mu.
func (s *GoalStore) snapshot() []models.Goal {
	out := make([]models.Goal, len(s.goals))
	for i := range s.goals {
		out[i] = s.goals[i].Clone()
	}
	return out
}

func (s *GoalStore) indexOf(id models.GoalID) int {
	for i := range s.goals {
		if s.goals[i].ID == id {
			return i
		}
	}
	return -1
}

// commit persists next and swaps it in. Caller holds mu.
func (s *GoalStore) commit(op string, next []models.Goal) error {
	if s.persister != nil {
		if err := s.persister.SaveGoals(next); err != nil {
			return fmt.Errorf("%s: saving goals: %w", op, err)
		}
	}
	s.goals = next
	return nil
}
