package config

import "github.com/iancoleman/strcase"

type NamingConvention interface {
	// ToPropertyName converts a Go field or snake_case name to the server's property name
	ToPropertyName(name string) string
	// ToSchemaName converts a type name to the server's schema name
	ToSchemaName(name string) string
}

type defaultNaming struct {
}

func NewDefaultNaming() NamingConvention {
	return &defaultNaming{}
}

func (n *defaultNaming) ToPropertyName(name string) string {
	return strcase.ToLowerCamel(name)
}

func (n *defaultNaming) ToSchemaName(name string) string {
	return strcase.ToLowerCamel(name)
}
