package pricing

import (
	"strings"

	"funpass/entities"
)

// ValidationResult classifies the text of a price field while it is being
// typed.
type ValidationResult int

const (
	// Valid text parses to a non-negative price and can be committed.
	Valid ValidationResult = iota
	// IntermediateInvalid text is accepted into the field but cannot be
	// committed yet, e.g. "" or "-5".
	IntermediateInvalid
	// Invalid text is refused; the field keeps its previous value.
	Invalid
)

func (r ValidationResult) String() string {
	switch r {
	case Valid:
		return "valid"
	case IntermediateInvalid:
		return "in_progress"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Classify applies the keystroke rule to the full text a field would hold
// after the keystroke. Commas are grouping separators and are ignored.
func Classify(raw string) ValidationResult {
	cleaned := strings.ReplaceAll(raw, ",", "")
	if cleaned == "" {
		return IntermediateInvalid
	}
	if !acceptableKeystrokes(cleaned) {
		return Invalid
	}
	if _, err := entities.ParsePrice(cleaned); err != nil {
		return IntermediateInvalid
	}
	return Valid
}

// digits, one optional leading minus, at most one decimal point, and at
// least one digit overall
func acceptableKeystrokes(s string) bool {
	digits, points := 0, 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			points++
		case r == '-' && i == 0:
		default:
			return false
		}
	}
	return points <= 1 && digits > 0
}
