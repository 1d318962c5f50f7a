package validate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/tair/product-catalog/pkg/apperror"
)

const (
	// FailedMessage is the top-level message of body validation errors
	FailedMessage = "Validation failed"
	// QueryFailedMessage is the top-level message of query string validation errors
	QueryFailedMessage = "Query validation failed"
)

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

// Engine returns the shared validator. Field names in errors are the json
// names, or the Go field name with a lower-case first letter.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(fieldName)
		if err := engine.RegisterValidation("decimals", maxDecimals); err != nil {
			panic(err)
		}
	})
	return engine
}

// RegisterType makes fields of the given types validate as the value fn returns.
// fn returning nil skips the field under omitempty. Call it from init.
func RegisterType(fn validator.CustomTypeFunc, types ...interface{}) {
	Engine().RegisterCustomTypeFunc(fn, types...)
}

// Validator collects violations so a request reports all of them at once
type Validator struct {
	violations []string
}

// New creates an empty validator
func New() *Validator {
	return &Validator{}
}

// Addf records a violation
func (v *Validator) Addf(format string, args ...interface{}) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

// Required records a violation when a mandatory field is absent
func (v *Validator) Required(field string, present bool) bool {
	if !present {
		v.Addf("%q is required", field)
	}
	return present
}

// Struct checks the validate tags of s, recording the first failed rule of every field
func (v *Validator) Struct(s interface{}) {
	v.collect("", Engine().Struct(s))
}

// Var checks a single value against tag, reporting failures under field
func (v *Validator) Var(field string, value interface{}, tag string) {
	v.collect(field, Engine().Var(value, tag))
}

func (v *Validator) collect(field string, err error) {
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// nil or non-struct input: a programming error, like a malformed tag
		panic(err)
	}

	for _, fe := range fieldErrs {
		label := field
		if label == "" {
			label = namespaceLabel(fe.Namespace())
		}
		v.violations = append(v.violations, message(label, fe))
	}
}

// Violations returns the collected messages
func (v *Validator) Violations() []string {
	return v.violations
}

// Err returns nil when nothing was recorded, otherwise a validation error
// whose details hold every violation in the order they were found.
func (v *Validator) Err() error {
	return v.ErrWithMessage(FailedMessage)
}

// ErrWithMessage is Err with a different top-level message
func (v *Validator) ErrWithMessage(message string) error {
	if len(v.violations) == 0 {
		return nil
	}
	return apperror.Validation(message, v.violations...)
}

// ParseNumber parses a decimal query parameter. NaN and infinities are rejected.
func ParseNumber(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ParseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date (UTC midnight)
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// message renders a failed rule the way API clients already parse them
func message(label string, fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", label)
	case "min":
		if fe.Kind() == reflect.String {
			if s, _ := fe.Value().(string); s == "" {
				return fmt.Sprintf("%q is not allowed to be empty", label)
			}
			return fmt.Sprintf("%q length must be at least %s characters long", label, param)
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", label, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", label, param)
		}
		return fmt.Sprintf("%q must be less than or equal to %s", label, param)
	case "gt":
		if param == "0" {
			return fmt.Sprintf("%q must be a positive number", label)
		}
		return fmt.Sprintf("%q must be greater than %s", label, param)
	case "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", label, param)
	case "lte":
		return fmt.Sprintf("%q must be less than or equal to %s", label, param)
	case "url", "uri":
		return fmt.Sprintf("%q must be a valid uri", label)
	case "email":
		return fmt.Sprintf("%q must be a valid email", label)
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", label, strings.Join(strings.Fields(param), ", "))
	case "decimals":
		return fmt.Sprintf("%q must have no more than %s decimal places", label, param)
	default:
		return fmt.Sprintf("%q is invalid", label)
	}
}

// maxDecimals implements decimals=N: a finite number with at most N decimal places
func maxDecimals(fl validator.FieldLevel) bool {
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		panic(fmt.Sprintf("bad decimals parameter %q", fl.Param()))
	}

	var f float64
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f = fl.Field().Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}

	d := decimal.NewFromFloat(f)
	return d.Equal(d.Round(int32(places)))
}

func fieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name != "" {
		return name
	}

	r, size := utf8.DecodeRuneInString(f.Name)
	return string(unicode.ToLower(r)) + f.Name[size:]
}

// namespaceLabel drops the top-level struct name: "ProductInput.variants[0].size" -> "variants[0].size"
func namespaceLabel(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
