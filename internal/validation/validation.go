// Package validation holds the per-field checks run before any duplicate
// detection. Every check returns a Result; the first failing Result wins.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"github.com/ynmsafety/ynmops/internal/dedupe"
)

const (
	DefaultNameMaxLen = 160
	NotesMaxLen       = 200
	PhoneDigits       = 10
)

// Units is the fixed enumeration of product unit codes.
var Units = []string{"nos", "m", "km", "kg", "ton", "set", "box", "ltr", "sqm", "rmt"}

const (
	namePunctuation  = "&.,-'()/"
	notesPunctuation = ".,-/()&:;'\"%+#"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("bizname", func(fl validator.FieldLevel) bool {
		return allowed(fl.Field().String(), namePunctuation, false)
	})
	_ = v.RegisterValidation("notes", func(fl validator.FieldLevel) bool {
		return allowed(fl.Field().String(), notesPunctuation, true)
	})
	return v
}

// Result is the outcome of one check.
type Result struct {
	Valid   bool
	Field   string
	Message string
}

func pass() Result { return Result{Valid: true} }

func fail(field, format string, args ...any) Result {
	return Result{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Check defers a validation until Run reaches it.
type Check func() Result

// Run evaluates checks in order and returns the first failure, or a valid
// Result when all pass.
func Run(checks ...Check) Result {
	for _, check := range checks {
		if r := check(); !r.Valid {
			return r
		}
	}
	return pass()
}

// First returns the first invalid result.
func First(results ...Result) Result {
	for _, r := range results {
		if !r.Valid {
			return r
		}
	}
	return pass()
}

// Name checks a business name.
func Name(field, value string, maxLen int) Result {
	if maxLen <= 0 {
		maxLen = DefaultNameMaxLen
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fail(field, "%s is required", field)
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return fail(field, "%s must be at most %d characters", field, maxLen)
	}
	if err := validate.Var(trimmed, "bizname"); err != nil {
		return fail(field, "%s contains invalid characters", field)
	}
	return pass()
}

// Phone requires exactly ten digits.
func Phone(field, value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fail(field, "%s is required", field)
	}
	if err := validate.Var(trimmed, fmt.Sprintf("number,len=%d", PhoneDigits)); err != nil {
		return fail(field, "%s must be a %d digit number", field, PhoneDigits)
	}
	return pass()
}

// Email accepts an empty value; anything else must be a valid address.
func Email(field, value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pass()
	}
	if err := validate.Var(trimmed, "email"); err != nil {
		return fail(field, "%s must be a valid email address", field)
	}
	return pass()
}

// NumberRule constrains a numeric field.
type NumberRule struct {
	AllowNegative bool
	// Positive requires a value strictly greater than zero.
	Positive bool
	// Min is an inclusive lower bound; zero means none.
	Min float64
}

// Number checks that raw parses as a number and satisfies rule. JSON numbers
// and numeric strings are both accepted.
func Number(field string, raw any, rule NumberRule) Result {
	n, err := Float(raw)
	if err != nil {
		return fail(field, "%s must be a valid number", field)
	}
	if !rule.AllowNegative && n < 0 {
		return fail(field, "%s cannot be negative", field)
	}
	if rule.Positive && n <= 0 {
		return fail(field, "%s must be greater than 0", field)
	}
	if rule.Min != 0 && n < rule.Min {
		return fail(field, "%s must be at least %g", field, rule.Min)
	}
	return pass()
}

// Float converts raw to a finite float64.
func Float(raw any) (float64, error) {
	if raw == nil {
		return 0, fmt.Errorf("missing number")
	}
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
		if raw == "" {
			return 0, fmt.Errorf("missing number")
		}
	}
	if _, ok := raw.(bool); ok {
		return 0, fmt.Errorf("not a number: %v", raw)
	}
	n, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number: %v", raw)
	}
	return n, nil
}

// Unit checks value against Units, ignoring case.
func Unit(value string) Result {
	u := strings.ToLower(strings.TrimSpace(value))
	if u == "" {
		return fail("unit", "unit is required")
	}
	if err := validate.Var(u, "oneof="+strings.Join(Units, " ")); err != nil {
		return fail("unit", "unit must be one of: %s", strings.Join(Units, ", "))
	}
	return pass()
}

// Notes checks optional free text.
func Notes(field, value string) Result {
	if utf8.RuneCountInString(value) > NotesMaxLen {
		return fail(field, "%s must be at most %d characters", field, NotesMaxLen)
	}
	if value == "" {
		return pass()
	}
	if err := validate.Var(value, "notes"); err != nil {
		return fail(field, "%s contains invalid characters", field)
	}
	return pass()
}

// Text requires a non-empty value of bounded length.
func Text(field, value string, maxLen int) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fail(field, "%s is required", field)
	}
	if maxLen > 0 && utf8.RuneCountInString(trimmed) > maxLen {
		return fail(field, "%s must be at most %d characters", field, maxLen)
	}
	return pass()
}

// Distinct requires two values to differ ignoring case and spacing.
func Distinct(fieldA, a, fieldB, b string) Result {
	if dedupe.Normalize(a) == dedupe.Normalize(b) {
		return fail(fieldB, "%s and %s must be different", fieldA, fieldB)
	}
	return pass()
}

// NonEmpty requires at least one element.
func NonEmpty(field string, n int) Result {
	if n == 0 {
		return fail(field, "at least one %s is required", field)
	}
	return pass()
}

func allowed(s, punctuation string, anySpace bool) bool {
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case r == ' ':
		case anySpace && unicode.IsSpace(r):
		case strings.ContainsRune(punctuation, r):
		default:
			return false
		}
	}
	return true
}
