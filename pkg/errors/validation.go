package errors

import (
	"unicode"
)

// maxIdentifierLen matches the PostgreSQL NAMEDATALEN limit.
const maxIdentifierLen = 63

// ValidateIdentifier validates a SQL identifier such as a table name before
// it is interpolated into a query. Only ASCII letters, digits, underscores
// and a single schema separator dot are accepted, and the first character of
// each part must not be a digit.
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if len(name) > 2*maxIdentifierLen+1 {
		return New(ErrCodeInvalidInput, "identifier too long: %q", name)
	}

	dots := 0
	partLen := 0
	for i, r := range name {
		switch {
		case r == '.':
			dots++
			if dots > 1 || partLen == 0 || i == len(name)-1 {
				return New(ErrCodeInvalidInput, "invalid identifier: %q", name)
			}
			partLen = 0
			continue
		case r > unicode.MaxASCII:
			return New(ErrCodeInvalidInput, "identifier must be ASCII: %q", name)
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r):
			if partLen == 0 {
				return New(ErrCodeInvalidInput, "identifier part starts with a digit: %q", name)
			}
		default:
			return New(ErrCodeInvalidInput, "identifier contains invalid character %q: %q", r, name)
		}
		partLen++
		if partLen > maxIdentifierLen {
			return New(ErrCodeInvalidInput, "identifier too long: %q", name)
		}
	}
	return nil
}
