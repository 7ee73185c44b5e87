package bot

import "fmt"

// Registry holds the registered dialogs. Pattern dialogs are checked in
// registration order before any intent routing.
type Registry struct {
	dialogs map[string]*Dialog
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{dialogs: make(map[string]*Dialog)}
}

// Register adds a dialog. Names must be unique and every dialog needs at
// least one step.
func (r *Registry) Register(d *Dialog) error {
	if d.Name == "" {
		return fmt.Errorf("dialog name is required")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("dialog %q has no steps", d.Name)
	}
	if _, exists := r.dialogs[d.Name]; exists {
		return fmt.Errorf("dialog %q already registered", d.Name)
	}
	r.dialogs[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// MustRegister registers a dialog and panics on error. Registration happens
// once at startup; a broken registration is a programming error.
func (r *Registry) MustRegister(d *Dialog) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Get returns a registered dialog by name, or nil.
func (r *Registry) Get(name string) *Dialog {
	return r.dialogs[name]
}

// MatchPattern returns the first registered dialog whose pattern matches
// the raw utterance.
func (r *Registry) MatchPattern(utterance string) *Dialog {
	for _, name := range r.order {
		d := r.dialogs[name]
		if d.Pattern != nil && d.Pattern.MatchString(utterance) {
			return d
		}
	}
	return nil
}

// MatchIntent returns the dialog registered for the given intent label, or
// nil.
func (r *Registry) MatchIntent(intent string) *Dialog {
	if intent == "" {
		return nil
	}
	for _, name := range r.order {
		d := r.dialogs[name]
		if d.Trigger == intent {
			return d
		}
	}
	return nil
}
