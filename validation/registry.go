package validation

import (
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/spf13/cast"
)

const phoneNumberMessage = "Phone number can only consist of numbers and + and [space]"

var phoneNumberRegex = regexp.MustCompile(`^[0-9+ ]+$`)

// Check is an additional predicate evaluated for values of one type.
type Check struct {
	Message   string
	Predicate func(value interface{}) bool
}

// Registry maps type tags to their type specific checks. A Registry is never
// mutated after construction.
type Registry struct {
	checks map[TypeTag][]Check
}

func NewRegistry(checks map[TypeTag][]Check) Registry {
	r := Registry{checks: make(map[TypeTag][]Check, len(checks))}
	for tag, list := range checks {
		r.checks[tag] = append([]Check(nil), list...)
	}
	return r
}

// Checks returns the checks registered for tag in registration order.
func (r Registry) Checks(tag TypeTag) []Check {
	return append([]Check(nil), r.checks[tag]...)
}

// With returns a copy of the registry with checks appended for tag.
func (r Registry) With(tag TypeTag, checks ...Check) Registry {
	next := NewRegistry(r.checks)
	next.checks[tag] = append(next.checks[tag], checks...)
	return next
}

func phoneNumberCheck() Check {
	return Check{
		Message: phoneNumberMessage,
		Predicate: func(value interface{}) bool {
			return phoneNumberRegex.MatchString(cast.ToString(value))
		},
	}
}

// DefaultRegistry only checks phone numbers.
func DefaultRegistry() Registry {
	return NewRegistry(map[TypeTag][]Check{
		PhoneNumber: {phoneNumberCheck()},
	})
}

// FormatRegistry extends DefaultRegistry with format checks for e-mail
// addresses, URLs and hex colors.
func FormatRegistry() Registry {
	formats := validator.New()
	uni := ut.New(en.New(), en.New())
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(formats, trans)

	return DefaultRegistry().
		With(Email, formatCheck(formats, trans, "email")).
		With(URL, formatCheck(formats, trans, "url")).
		With(Color, formatCheck(formats, trans, "hexcolor"))
}

func formatCheck(formats *validator.Validate, trans ut.Translator, tag string) Check {
	message, err := trans.T(tag, "Value")
	if err != nil {
		message = "Value is not a valid " + tag
	}
	return Check{
		Message: message,
		Predicate: func(value interface{}) bool {
			return formats.Var(cast.ToString(value), tag) == nil
		},
	}
}
