// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/service"
)

// descIndent lines up a task's description under its title.
// Width of "%4d  [x] " is ten columns.
const descIndent = "          "

// FormatTask formats a numbered task line with a completion checkbox.
// Format: "{N:>4}  [x] {TITLE}\n" with a following indented description
// line when the task has one.
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s\n", num, mark, normalizeText(task.Title))
	if strings.TrimSpace(task.Description) != "" {
		fmt.Fprintf(w, "%s%s\n", descIndent, normalizeText(task.Description))
	}
}

// FormatTaskLong is FormatTask plus the creation date.
func FormatTaskLong(w io.Writer, num int, task service.Task) {
	FormatTask(w, num, task)
	if created := task.CreationTime(); !created.IsZero() {
		fmt.Fprintf(w, "%screated %s\n", descIndent, created.Format("2006-01-02"))
	}
}

// FormatProfile formats the authenticated user's profile.
func FormatProfile(w io.Writer, profile service.UserProfile) {
	fmt.Fprintf(w, "%s (%s)\n", profile.DisplayName(), profile.Username)
}

// normalizeText normalizes task text for single-line display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.TrimSpace(s) == "" {
		return "(untitled)"
	}
	return s
}
