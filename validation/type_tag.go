package validation

import "github.com/dhis2/d2-data-apis/types"

// TypeTag is the value type declared by a rule.
type TypeTag string

const (
	Integer     TypeTag = "INTEGER"
	Number      TypeTag = "NUMBER"
	Collection  TypeTag = "COLLECTION"
	PhoneNumber TypeTag = "PHONENUMBER"
	Email       TypeTag = "EMAIL"
	URL         TypeTag = "URL"
	Color       TypeTag = "COLOR"
	Password    TypeTag = "PASSWORD"
	Identifier  TypeTag = "IDENTIFIER"
	Text        TypeTag = "TEXT"
	Complex     TypeTag = "COMPLEX"
	Date        TypeTag = "DATE"
	Reference   TypeTag = "REFERENCE"
	Boolean     TypeTag = "BOOLEAN"
	Constant    TypeTag = "CONSTANT"
)

type typeCheck func(value interface{}) bool

func accept(interface{}) bool { return true }

func isNumeric(value interface{}) bool {
	_, ok := types.ToNumber(value)
	return ok
}

// typeChecks holds exactly one entry per TypeTag.
var typeChecks = map[TypeTag]typeCheck{
	Integer:     types.IsInteger,
	Number:      isNumeric,
	Collection:  types.IsSequence,
	PhoneNumber: types.IsString,
	Email:       types.IsString,
	URL:         types.IsString,
	Color:       types.IsString,
	Password:    types.IsString,
	Identifier:  types.IsString,
	Text:        types.IsString,
	Complex:     types.IsMapping,
	Date:        accept,
	Reference:   accept,
	Boolean:     accept,
	Constant:    accept,
}

// TypeTags returns every known tag in declaration order.
func TypeTags() []TypeTag {
	return []TypeTag{
		Integer, Number, Collection,
		PhoneNumber, Email, URL, Color, Password, Identifier, Text,
		Complex,
		Date, Reference, Boolean, Constant,
	}
}

// Known reports whether t is one of the declared tags.
func (t TypeTag) Known() bool {
	_, ok := typeChecks[t]
	return ok
}

func (t TypeTag) String() string {
	return string(t)
}
