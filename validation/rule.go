package validation

import (
	"reflect"

	"github.com/mitchellh/mapstructure"

	e "github.com/dhis2/d2-data-apis/errors"
	"github.com/dhis2/d2-data-apis/types"
)

// Rule declares the constraints a value has to satisfy. Nil bounds and a nil
// Required flag mean "not set".
type Rule struct {
	Type     TypeTag  `json:"type"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Required *bool    `json:"required,omitempty"`
}

func NewRule(tag TypeTag) Rule {
	return Rule{Type: tag}
}

func (r Rule) WithMin(min float64) Rule {
	r.Min = &min
	return r
}

func (r Rule) WithMax(max float64) Rule {
	r.Max = &max
	return r
}

func (r Rule) WithRequired(required bool) Rule {
	r.Required = &required
	return r
}

// Optional reports whether the rule was explicitly marked as not required.
func (r Rule) Optional() bool {
	return r.Required != nil && !*r.Required
}

type ruleDescriptor struct {
	Type         string      `mapstructure:"type"`
	PropertyType string      `mapstructure:"propertyType"`
	Min          interface{} `mapstructure:"min"`
	Max          interface{} `mapstructure:"max"`
	Required     interface{} `mapstructure:"required"`
}

// DecodeRule builds a rule from a descriptor mapping such as a property of a
// schema document. Both "type" and "propertyType" keys are understood; bounds
// that are not numbers and a required flag that is not a boolean are ignored.
// A descriptor that is not a mapping is a *errors.TypeError.
func DecodeRule(descriptor interface{}) (Rule, error) {
	if descriptor == nil || reflect.Indirect(reflect.ValueOf(descriptor)).Kind() != reflect.Map {
		return Rule{}, e.NewTypeError("rule descriptor must be a mapping, got %T", descriptor)
	}

	var raw ruleDescriptor
	if err := mapstructure.Decode(descriptor, &raw); err != nil {
		return Rule{}, e.NewTypeError("unable to decode rule descriptor: %s", err)
	}

	rule := Rule{Type: TypeTag(raw.Type)}
	if rule.Type == "" {
		rule.Type = TypeTag(raw.PropertyType)
	}
	if types.IsNumber(raw.Min) {
		rule = rule.WithMin(mustNumber(raw.Min))
	}
	if types.IsNumber(raw.Max) {
		rule = rule.WithMax(mustNumber(raw.Max))
	}
	if required, ok := raw.Required.(bool); ok {
		rule = rule.WithRequired(required)
	}
	return rule, nil
}

func mustNumber(value interface{}) float64 {
	f, _ := types.ToNumber(value)
	return f
}
