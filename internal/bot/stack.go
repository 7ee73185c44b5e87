package bot

// DialogInstance is one entry on a conversation's dialog stack. Step only
// moves forward; replacement destroys the instance and creates a fresh one
// at step zero. Prompt is non-nil while the instance is suspended awaiting
// a reply.
type DialogInstance struct {
	Name   string                 `json:"name"`
	Step   int                    `json:"step"`
	Data   map[string]interface{} `json:"data"`
	Prompt *PromptRequest         `json:"prompt,omitempty"`
}

// State is the durable per-conversation dialog stack, JSON-serialized into
// the conversation store between turns. The most recent entry is active.
type State struct {
	Stack []DialogInstance `json:"stack,omitempty"`
}

// Active returns the top-of-stack instance, or nil when the conversation is
// idle.
func (st *State) Active() *DialogInstance {
	if len(st.Stack) == 0 {
		return nil
	}
	return &st.Stack[len(st.Stack)-1]
}

// Push creates a fresh instance for the named dialog and makes it active.
func (st *State) Push(name string) *DialogInstance {
	st.Stack = append(st.Stack, DialogInstance{
		Name: name,
		Data: make(map[string]interface{}),
	})
	return st.Active()
}

// Pop destroys the active instance; control returns to the next-from-top
// instance if one exists.
func (st *State) Pop() {
	if len(st.Stack) > 0 {
		st.Stack = st.Stack[:len(st.Stack)-1]
	}
}

// Idle reports whether no dialog is active.
func (st *State) Idle() bool {
	return len(st.Stack) == 0
}
