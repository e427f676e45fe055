package services

import (
	"fmt"
	"strconv"
	"strings"
)

// Human-readable identifier prefixes
const (
	RollNumberPrefix = "STU"
	EmployeeIDPrefix = "EMP"
)

// identifierRetries bounds the unique-constraint retry loop when two
// account creations race for the same next identifier.
const identifierRetries = 3

// nextSequential returns the identifier following last for the given
// prefix. Suffixes start at 1 and are zero-padded to three digits; wider
// suffixes keep their width once the padding is outgrown.
func nextSequential(prefix, last string) (string, error) {
	if last == "" {
		return fmt.Sprintf("%s%03d", prefix, 1), nil
	}

	suffix := strings.TrimPrefix(last, prefix)
	if suffix == last || suffix == "" {
		return "", fmt.Errorf("malformed identifier %q for prefix %s", last, prefix)
	}

	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", fmt.Errorf("malformed identifier %q for prefix %s: %w", last, prefix, err)
	}

	return fmt.Sprintf("%s%03d", prefix, n+1), nil
}

// NextRollNumber computes the roll number following the given one
func NextRollNumber(last string) (string, error) {
	return nextSequential(RollNumberPrefix, last)
}

// NextEmployeeID computes the employee ID following the given one
func NextEmployeeID(last string) (string, error) {
	return nextSequential(EmployeeIDPrefix, last)
}
