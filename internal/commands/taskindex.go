package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// ErrIndexRequired indicates no task number was provided.
var ErrIndexRequired = errors.New("task number required")

// ParseTaskIndex parses a 1-based task number from args.
// The number refers to a position in the current list output.
func ParseTaskIndex(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrIndexRequired
	}

	first := args[0]
	if !isAllDigits(first) {
		return 0, fmt.Errorf("invalid task number: %s", first)
	}

	num, err := strconv.Atoi(first)
	if err != nil || num < 1 {
		return 0, fmt.Errorf("invalid task number: %s", first)
	}
	return num, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
