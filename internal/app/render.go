package app

import (
	"strings"

	"codeberg.org/sigterm-de/boopkit/internal/engine"
)

// Render applies act to fullText the way an editor would, with the cursor
// at the end of the document when nothing is selected. A selection is
// located by its first occurrence in fullText.
func Render(act engine.Action, fullText string, selection *string) string {
	switch act.Kind {
	case engine.ActionReplaceFull:
		return act.Text
	case engine.ActionReplaceSelection:
		return replaceSelection(fullText, selection, act.Text)
	case engine.ActionInsert:
		return replaceSelection(fullText, selection, strings.Join(act.Insertions, ""))
	default:
		return fullText
	}
}

func replaceSelection(fullText string, selection *string, with string) string {
	if selection != nil && *selection != "" && strings.Contains(fullText, *selection) {
		return strings.Replace(fullText, *selection, with, 1)
	}
	return fullText + with
}
