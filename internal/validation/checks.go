package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	emailaddress "github.com/mcnijman/go-emailaddress"
	"github.com/shopspring/decimal"
)

// String requires the field to be submitted. Empty values pass.
func String(msg string) Check {
	return func(raw string, present bool) (any, string) {
		if !present {
			return nil, msg
		}
		return raw, ""
	}
}

// NonBlank requires the field to be submitted with a non-whitespace value.
func NonBlank(msg string) Check {
	return func(raw string, present bool) (any, string) {
		if !present || strings.TrimSpace(raw) == "" {
			return nil, msg
		}
		return raw, ""
	}
}

// PositiveDecimal coerces the value to a decimal that must be strictly
// greater than zero. A blank value coerces to zero.
func PositiveDecimal(msg string) Check {
	return func(raw string, present bool) (any, string) {
		s := strings.TrimSpace(raw)
		if s == "" {
			return nil, msg
		}
		d, err := decimal.NewFromString(s)
		if err != nil || !d.IsPositive() {
			return nil, msg
		}
		return d, ""
	}
}

// Enum requires the value to be exactly one of allowed.
func Enum(msg string, allowed ...string) Check {
	return func(raw string, present bool) (any, string) {
		if present {
			for _, a := range allowed {
				if raw == a {
					return raw, ""
				}
			}
		}
		return nil, msg
	}
}

// ISODate requires a calendar day in YYYY-MM-DD form.
func ISODate(layout, msg string) Check {
	return func(raw string, present bool) (any, string) {
		if !present {
			return nil, msg
		}
		if _, err := time.Parse(layout, raw); err != nil {
			return nil, msg
		}
		return raw, ""
	}
}

// Email requires a syntactically valid email address.
func Email(msg string) Check {
	return func(raw string, present bool) (any, string) {
		if !present || raw == "" || raw != strings.TrimSpace(raw) {
			return nil, msg
		}
		if _, err := emailaddress.Parse(raw); err != nil {
			return nil, msg
		}
		return raw, ""
	}
}

// MinLength requires at least n characters.
func MinLength(n int, msg string) Check {
	return func(raw string, present bool) (any, string) {
		if !present || utf8.RuneCountInString(raw) < n {
			return nil, msg
		}
		return raw, ""
	}
}
