// Package validation holds the form rules shared by the registration wizard,
// booking forms and partner listing submissions. Every rule returns "" when the
// value is valid and a human-readable message otherwise.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	EmailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	PhonePattern   = regexp.MustCompile(`^[6-9]\d{9}$`)
	PincodePattern = regexp.MustCompile(`^\d{6}$`)
	PANPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	GSTPattern     = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	DatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

const (
	MinRate  = 100
	MaxRate  = 50000
	MinPrice = 500
	MaxPrice = 1000000
)

// Rule validates one raw field value.
type Rule func(string) string

func Required(label string) Rule {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return label + " is required"
		}
		return ""
	}
}

func Email(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Email is required"
	}
	if !EmailPattern.MatchString(strings.TrimSpace(v)) {
		return "Please enter a valid email address"
	}
	return ""
}

// Phone accepts 10-digit Indian mobile numbers starting with 6-9.
func Phone(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Phone number is required"
	}
	if !PhonePattern.MatchString(strings.TrimSpace(v)) {
		return "Please enter a valid 10-digit mobile number"
	}
	return ""
}

func Pincode(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Pincode is required"
	}
	if !PincodePattern.MatchString(strings.TrimSpace(v)) {
		return "Pincode must be exactly 6 digits"
	}
	return ""
}

func PAN(v string) string {
	if !PANPattern.MatchString(v) {
		return "Please enter a valid PAN number (e.g. ABCDE1234F)"
	}
	return ""
}

func GST(v string) string {
	if !GSTPattern.MatchString(v) {
		return "Please enter a valid 15-character GST number"
	}
	return ""
}

func HotelName(v string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	switch {
	case n == 0:
		return "Hotel name is required"
	case n < 3:
		return "Hotel name must be at least 3 characters"
	case n > 100:
		return "Hotel name must be less than 100 characters"
	}
	return ""
}

// Password requires 8+ characters with upper, lower and a digit.
func Password(v string) string {
	if v == "" {
		return "Password is required"
	}
	if utf8.RuneCountInString(v) < 8 {
		return "Password must be at least 8 characters"
	}
	var upper, lower, digit bool
	for _, r := range v {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "Password must contain uppercase, lowercase and a number"
	}
	return ""
}

// Price accepts whole rupee amounts in [500, 1000000].
func Price(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return "Price is required"
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "Price must be a whole number"
	}
	if n < MinPrice || n > MaxPrice {
		return "Price must be between ₹500 and ₹10,00,000"
	}
	return ""
}

// RateRange checks an optional nightly rate; blank passes.
func RateRange(label string) Rule {
	return func(v string) string {
		s := strings.TrimSpace(v)
		if s == "" {
			return ""
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return label + " must be a number"
		}
		if f < MinRate || f > MaxRate {
			return label + " must be between ₹100 and ₹50,000"
		}
		return ""
	}
}

// Optional skips r when the value is blank.
func Optional(r Rule) Rule {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return ""
		}
		return r(v)
	}
}

// Equals compares against another field's value.
func Equals(other, msg string) Rule {
	return func(v string) string {
		if v != other {
			return msg
		}
		return ""
	}
}

// ValidateForm runs each field's rules in order and keeps the first failure.
// rules values may be a Rule, a func(string) string, or a []Rule.
func ValidateForm(data map[string]string, rules map[string]any) map[string]string {
	errs := map[string]string{}
	for field, spec := range rules {
		for _, r := range asRules(spec) {
			if msg := r(data[field]); msg != "" {
				errs[field] = msg
				break
			}
		}
	}
	return errs
}

func asRules(spec any) []Rule {
	switch r := spec.(type) {
	case Rule:
		return []Rule{r}
	case func(string) string:
		return []Rule{r}
	case []Rule:
		return r
	}
	return nil
}
