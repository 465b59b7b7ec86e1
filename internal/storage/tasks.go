package storage

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/valter-silva-au/dayplan/pkg/models"
)

// TaskFile is the top-level structure of tasks.yaml.
type TaskFile struct {
	Version   string        `yaml:"version"`
	Available []models.Task `yaml:"available"`
	Today     []models.Task `yaml:"today"`
}

func (f TaskFile) clone() TaskFile {
	out := TaskFile{Version: f.Version}
	out.Available = make([]models.Task, len(f.Available))
	for i := range f.Available {
		out.Available[i] = f.Available[i].Clone()
	}
	out.Today = make([]models.Task, len(f.Today))
	for i := range f.Today {
		out.Today[i] = f.Today[i].Clone()
	}
	return out
}

// find returns the list holding id and the index within it.
func (f *TaskFile) find(id models.TaskID) (*[]models.Task, int) {
	for i := range f.Available {
		if f.Available[i].ID == id {
			return &f.Available, i
		}
	}
	for i := range f.Today {
		if f.Today[i].ID == id {
			return &f.Today, i
		}
	}
	return nil, -1
}

// TaskStore keeps templates and today instances in tasks.yaml.
type TaskStore struct {
	mu   sync.Mutex
	path string
	data TaskFile
}

// NewTaskStore loads tasks.yaml from basePath. A missing file yields an
// empty store.
func NewTaskStore(basePath string) (*TaskStore, error) {
	s := &TaskStore{
		path: filepath.Join(basePath, "tasks.yaml"),
		data: TaskFile{Version: fileVersion},
	}
	if _, err := readYAML(s.path, &s.data); err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return s, nil
}

func (s *TaskStore) AddTask(task models.Task) error {
	if task.ID == "" {
		return fmt.Errorf("adding task: ID must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if list, _ := s.data.find(task.ID); list != nil {
		return fmt.Errorf("adding task: task %s already exists", task.ID)
	}
	next := s.data.clone()
	if task.TemplateID == "" {
		next.Available = append(next.Available, task.Clone())
	} else {
		if list, _ := next.find(task.TemplateID); list == nil {
			return fmt.Errorf("adding task: template %s not found", task.TemplateID)
		}
		next.Today = append(next.Today, task.Clone())
	}
	return s.commit("adding task", next)
}

// GetTask resolves id in either scope. It returns (nil, nil) when absent.
func (s *TaskStore) GetTask(id models.TaskID) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, i := s.data.find(id)
	if list == nil {
		return nil, nil
	}
	t := (*list)[i].Clone()
	return &t, nil
}

func (s *TaskStore) ListTasks(scope models.Scope) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var src []models.Task
	switch scope {
	case models.ScopeAvailable:
		src = s.data.Available
	case models.ScopeToday:
		src = s.data.Today
	default:
		return nil, fmt.Errorf("listing tasks: unknown scope %q", scope)
	}
	out := make([]models.Task, len(src))
	for i := range src {
		out[i] = src[i].Clone()
	}
	return out, nil
}

// TasksByCategory returns tasks in both scopes referencing categoryID.
func (s *TaskStore) TasksByCategory(categoryID models.CategoryID) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, list := range [][]models.Task{s.data.Available, s.data.Today} {
		for i := range list {
			if list[i].Info.CategoryID == categoryID {
				out = append(out, list[i].Clone())
			}
		}
	}
	return out, nil
}

func (s *TaskStore) UpdateTaskCategory(id models.TaskID, categoryID models.CategoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data.clone()
	list, i := next.find(id)
	if list == nil {
		return fmt.Errorf("updating task category: task %s not found", id)
	}
	(*list)[i].Info = (*list)[i].Info.WithCategory(categoryID)
	return s.commit("updating task category", next)
}

// SaveTask replaces the stored task with the same id.
func (s *TaskStore) SaveTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data.clone()
	list, i := next.find(task.ID)
	if list == nil {
		return fmt.Errorf("saving task: task %s not found", task.ID)
	}
	if (*list)[i].TemplateID != task.TemplateID {
		return fmt.Errorf("saving task: task %s cannot change scope", task.ID)
	}
	(*list)[i] = task.Clone()
	return s.commit("saving task", next)
}

func (s *TaskStore) TodayInstances(templateID models.TaskID) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for i := range s.data.Today {
		if s.data.Today[i].TemplateID == templateID {
			out = append(out, s.data.Today[i].Clone())
		}
	}
	return out, nil
}

// DeleteTaskTree removes id and every today instance derived from it with a
// single file write.
func (s *TaskStore) DeleteTaskTree(id models.TaskID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list, _ := s.data.find(id); list == nil {
		return 0, fmt.Errorf("deleting task: task %s not found", id)
	}
	next := TaskFile{Version: s.data.Version}
	removed := 0
	for _, t := range s.data.Available {
		if t.ID == id {
			removed++
			continue
		}
		next.Available = append(next.Available, t.Clone())
	}
	for _, t := range s.data.Today {
		if t.ID == id || t.TemplateID == id {
			removed++
			continue
		}
		next.Today = append(next.Today, t.Clone())
	}
	if err := s.commit("deleting task", next); err != nil {
		return 0, err
	}
	return removed, nil
}

// commit writes next to disk and swaps it in. Caller holds mu.
func (s *TaskStore) commit(op string, next TaskFile) error {
	if next.Version == "" {
		next.Version = fileVersion
	}
	if err := writeYAML(s.path, &next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.data = next
	return nil
}
