package engine

import "codeberg.org/sigterm-de/boopkit/internal/logging"

// Status records what one Execute call did. It is reset at the start of
// every call; a Status returned from Execute is a snapshot the caller owns.
type Status struct {
	// IsTextSelected is true iff a non-empty selection was supplied.
	IsTextSelected bool

	info      *string
	err       *string
	exception *string

	Insertions []string
	FullText   Dirty[string]
	Text       Dirty[string]
	Selection  Dirty[string]
}

// reset prepares s for a call with the given document and optional
// selection.
func (s *Status) reset(fullText string, selection *string) {
	s.info = nil
	s.err = nil
	s.exception = nil
	s.Insertions = nil

	s.FullText.Reset(fullText)
	if selection != nil {
		s.Text.Reset(*selection)
		s.Selection.Reset(*selection)
	} else {
		s.Text.Reset(fullText)
		s.Selection.Reset("")
	}
	s.IsTextSelected = selection != nil && *selection != ""
}

// snapshot returns a copy that shares no mutable state with s.
func (s *Status) snapshot() Status {
	out := *s
	if s.Insertions != nil {
		out.Insertions = append([]string(nil), s.Insertions...)
	}
	return out
}

// PostInfo overwrites the info message.
func (s *Status) PostInfo(msg string) { s.info = &msg }

// PostError overwrites the error message.
func (s *Status) PostError(msg string) { s.err = &msg }

// Insert appends fragment to the insertion list.
func (s *Status) Insert(fragment string) {
	s.Insertions = append(s.Insertions, fragment)
}

func (s *Status) recordException(msg string) { s.exception = &msg }

// InfoMessage returns the last postInfo() value, if any.
func (s Status) InfoMessage() (string, bool) { return deref(s.info) }

// ErrorMessage returns the last postError() value, if any.
func (s Status) ErrorMessage() (string, bool) { return deref(s.err) }

// Exception returns the message of an exception thrown out of main, if any.
// Side effects applied before the throw are still part of the Status.
func (s Status) Exception() (string, bool) { return deref(s.exception) }

func deref(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

// Resolve converts s into one Action. First match wins:
//
//  1. insert() called           → Insert(insertions)
//  2. fullText written          → ReplaceFull(fullText)
//  3. selection written         → ReplaceSelection(selection)
//  4. text written, selection   → ReplaceSelection(text)
//  5. text written, no selection → ReplaceFull(text)
//  6. nothing written           → NoOp
func (s Status) Resolve() Action {
	switch {
	case len(s.Insertions) > 0:
		logging.Log(logging.DEBUG, "", "found insertion")
		return Insert(append([]string(nil), s.Insertions...))
	case s.FullText.Changed():
		logging.Log(logging.DEBUG, "", "found fullText replacement")
		return ReplaceFull(s.FullText.Get())
	case s.Selection.Changed():
		logging.Log(logging.DEBUG, "", "found selection replacement")
		return ReplaceSelection(s.Selection.Get())
	case s.IsTextSelected && s.Text.Changed():
		logging.Log(logging.DEBUG, "", "found text (with selection) replacement")
		return ReplaceSelection(s.Text.Get())
	case s.Text.Changed():
		logging.Log(logging.DEBUG, "", "found text (without selection) replacement")
		return ReplaceFull(s.Text.Get())
	default:
		return NoOp
	}
}
