// Package engine hosts Boop-style transformation scripts in a goja runtime.
//
// A Context compiles one top-level script, keeps its main function, and can
// then be executed any number of times. Each Execute call hands main a fresh
// payload object, records everything the script did in a Status, and
// Resolve turns that Status into a single Action for the caller to apply.
//
// A Context owns its goja runtime and is not safe for concurrent use; run
// one Context per goroutine when parallelism is needed.
package engine

// ActionKind describes which replacement (if any) the caller should apply.
type ActionKind int

const (
	ActionNone             ActionKind = iota // Script made no changes
	ActionInsert                             // insert() was called at least once
	ActionReplaceFull                        // replace the whole document
	ActionReplaceSelection                   // replace the selected range
)

func (k ActionKind) String() string {
	switch k {
	case ActionInsert:
		return "insert"
	case ActionReplaceFull:
		return "replace-full"
	case ActionReplaceSelection:
		return "replace-selection"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name.
func (k ActionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Action is the single replacement instruction derived from a Status.
type Action struct {
	Kind       ActionKind `json:"kind"`
	Text       string     `json:"text,omitempty"`       // Valid for ActionReplaceFull and ActionReplaceSelection
	Insertions []string   `json:"insertions,omitempty"` // Valid for ActionInsert, in call order
}

// NoOp is the Action for a script that changed nothing.
var NoOp = Action{Kind: ActionNone}

// Insert returns an ActionInsert carrying fragments.
func Insert(fragments []string) Action {
	return Action{Kind: ActionInsert, Insertions: fragments}
}

// ReplaceFull returns an ActionReplaceFull carrying text.
func ReplaceFull(text string) Action {
	return Action{Kind: ActionReplaceFull, Text: text}
}

// ReplaceSelection returns an ActionReplaceSelection carrying text.
func ReplaceSelection(text string) Action {
	return Action{Kind: ActionReplaceSelection, Text: text}
}
