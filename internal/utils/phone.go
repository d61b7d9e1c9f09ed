package utils

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone folds a user-supplied phone + country code into E.164 form
// ("+<digits>"). countryCode may be empty when phone already carries a
// leading "+". Separators and parentheses are tolerated and stripped.
func NormalizePhone(phone, countryCode string) (string, error) {
	digits := strings.Builder{}
	hasPlus := false
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '+' && i == 0:
			hasPlus = true
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separator, ignore
		default:
			return "", ErrInvalidPhone
		}
	}
	national := digits.String()
	if national == "" {
		return "", ErrInvalidPhone
	}

	cc := strings.TrimSpace(countryCode)
	cc = strings.TrimPrefix(cc, "+")
	for _, r := range cc {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}

	var full string
	switch {
	case hasPlus:
		// phone already international; countryCode is ignored
		full = national
	case cc != "":
		full = cc + national
	default:
		return "", ErrInvalidPhone
	}

	// E.164: country code + subscriber, max 15 digits
	if len(full) < 8 || len(full) > 15 {
		return "", ErrInvalidPhone
	}
	return "+" + full, nil
}
