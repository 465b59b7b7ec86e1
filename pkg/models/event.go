package models

// Event is a dated calendar entry. The engine only cares about its
// category reference.
type Event struct {
	ID    EventID          `yaml:"id"`
	Info  Info             `yaml:"info"`
	Dates BeginAndDueDates `yaml:"dates"`
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	e.Dates = e.Dates.clone()
	return e
}
