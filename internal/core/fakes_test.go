package core

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// inMemoryTasks implements TaskStore for testing. failCategoryUpdateOn makes
// UpdateTaskCategory fail for the given id.
type inMemoryTasks struct {
	order                []models.TaskID
	tasks                map[models.TaskID]models.Task
	failCategoryUpdateOn models.TaskID
	treeDeletes          int
}

func newInMemoryTasks() *inMemoryTasks {
	return &inMemoryTasks{tasks: make(map[models.TaskID]models.Task)}
}

func (s *inMemoryTasks) AddTask(task models.Task) error {
	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("task %s already exists", task.ID)
	}
	s.order = append(s.order, task.ID)
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *inMemoryTasks) GetTask(id models.TaskID) (*models.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	t = t.Clone()
	return &t, nil
}

func (s *inMemoryTasks) ListTasks(scope models.Scope) ([]models.Task, error) {
	var out []models.Task
	for _, id := range s.order {
		t, ok := s.tasks[id]
		if ok && t.Scope() == scope {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (s *inMemoryTasks) TasksByCategory(categoryID models.CategoryID) ([]models.Task, error) {
	var out []models.Task
	for _, id := range s.order {
		t, ok := s.tasks[id]
		if ok && t.Info.CategoryID == categoryID {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (s *inMemoryTasks) UpdateTaskCategory(id models.TaskID, categoryID models.CategoryID) error {
	if id == s.failCategoryUpdateOn {
		return fmt.Errorf("disk full")
	}
	t, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("task %s not found", id)
	}
	t.Info = t.Info.WithCategory(categoryID)
	s.tasks[id] = t
	return nil
}

func (s *inMemoryTasks) SaveTask(task models.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return fmt.Errorf("task %s not found", task.ID)
	}
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *inMemoryTasks) TodayInstances(templateID models.TaskID) ([]models.Task, error) {
	var out []models.Task
	for _, id := range s.order {
		t, ok := s.tasks[id]
		if ok && t.TemplateID == templateID {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (s *inMemoryTasks) DeleteTaskTree(id models.TaskID) (int, error) {
	s.treeDeletes++
	removed := 0
	for tid, t := range s.tasks {
		if tid == id || t.TemplateID == id {
			delete(s.tasks, tid)
			removed++
		}
	}
	return removed, nil
}

// inMemoryCategories implements CategoryStore for testing.
type inMemoryCategories struct {
	order      []models.CategoryID
	categories map[models.CategoryID]models.Category
}

func newInMemoryCategories() *inMemoryCategories {
	return &inMemoryCategories{categories: make(map[models.CategoryID]models.Category)}
}

func (s *inMemoryCategories) AddCategory(c models.Category) error {
	s.order = append(s.order, c.ID)
	s.categories[c.ID] = c
	return nil
}

func (s *inMemoryCategories) GetCategory(id models.CategoryID) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *inMemoryCategories) ListCategories() ([]models.Category, error) {
	var out []models.Category
	for _, id := range s.order {
		if c, ok := s.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *inMemoryCategories) Count() (int, error) { return len(s.categories), nil }

func (s *inMemoryCategories) UpdateCategory(c models.Category) error {
	if _, ok := s.categories[c.ID]; !ok {
		return fmt.Errorf("category %s not found", c.ID)
	}
	s.categories[c.ID] = c
	return nil
}

func (s *inMemoryCategories) DeleteCategory(id models.CategoryID) error {
	delete(s.categories, id)
	return nil
}

func (s *inMemoryCategories) NameTaken(name string, excludeID models.CategoryID) (bool, error) {
	for id, c := range s.categories {
		if id != excludeID && models.SameName(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// inMemoryEvents implements EventStore for testing.
type inMemoryEvents struct {
	order  []models.EventID
	events map[models.EventID]models.Event
}

func newInMemoryEvents() *inMemoryEvents {
	return &inMemoryEvents{events: make(map[models.EventID]models.Event)}
}

func (s *inMemoryEvents) AddEvent(e models.Event) error {
	s.order = append(s.order, e.ID)
	s.events[e.ID] = e.Clone()
	return nil
}

func (s *inMemoryEvents) ListEvents() ([]models.Event, error) {
	var out []models.Event
	for _, id := range s.order {
		if e, ok := s.events[id]; ok {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (s *inMemoryEvents) EventsByCategory(categoryID models.CategoryID) ([]models.Event, error) {
	var out []models.Event
	for _, id := range s.order {
		if e, ok := s.events[id]; ok && e.Info.CategoryID == categoryID {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (s *inMemoryEvents) ClearEventCategory(id models.EventID) error {
	e, ok := s.events[id]
	if !ok {
		return fmt.Errorf("event %s not found", id)
	}
	e.Info = e.Info.WithCategory("")
	s.events[id] = e
	return nil
}

// recordingLogger captures logged events.
type recordingLogger struct {
	entries []loggedEvent
}

type loggedEvent struct {
	Level string
	Type  string
	Data  map[string]any
}

func (l *recordingLogger) LogEvent(level, eventType string, data map[string]any) error {
	l.entries = append(l.entries, loggedEvent{Level: level, Type: eventType, Data: data})
	return nil
}

func (l *recordingLogger) count(eventType string) int {
	n := 0
	for _, e := range l.entries {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// switchablePersister records saves and fails while fail is set.
type switchablePersister struct {
	fail  bool
	saves int
	last  []models.Goal
}

func (p *switchablePersister) SaveGoals(goals []models.Goal) error {
	if p.fail {
		return fmt.Errorf("write failed")
	}
	p.saves++
	p.last = goals
	return nil
}

// recordingNotifier captures achievement notifications.
type recordingNotifier struct {
	err   error
	calls [][]models.Goal
}

func (n *recordingNotifier) NotifyAchieved(goals []models.Goal) error {
	n.calls = append(n.calls, goals)
	return n.err
}

// --- builders ---

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func at(s string) time.Time {
	d, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return d
}

func testTask(name string, categoryID models.CategoryID) models.Task {
	return models.Task{
		ID:       models.NewTaskID(),
		Info:     models.Info{Name: name, CategoryID: categoryID, CreatedDate: day("2025-01-01")},
		Dates:    models.BeginAndDueDates{Begin: day("2025-01-01")},
		Priority: models.PriorityMedium,
	}
}

func testGoal(name string, target models.TaskID, begin, due string, freq int) models.Goal {
	b, d := day(begin), day(due)
	g, err := models.NewGoal(models.GoalParams{
		Info:         models.Info{Name: name, CreatedDate: b},
		TargetTaskID: target,
		Window:       models.BeginAndDueDates{Begin: b, Due: &d},
		Period:       models.PeriodWeek,
		Frequency:    freq,
	})
	if err != nil {
		panic(err)
	}
	return *g
}
