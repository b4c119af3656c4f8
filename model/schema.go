package model

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/dhis2/d2-data-apis/api"
	e "github.com/dhis2/d2-data-apis/errors"
	"github.com/dhis2/d2-data-apis/validation"
)

// Property is a field declared by a schema.
type Property struct {
	Name string
	// Owner is set for properties persisted with the model; other properties
	// are computed by the server or owned by the other side of a reference.
	Owner bool
	Rule  validation.Rule
}

// Schema describes a model type.
type Schema struct {
	Name       string
	Plural     string
	Properties []Property
}

// Property returns the property with the given name.
func (s *Schema) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

type schemaDocument struct {
	Name       string                   `mapstructure:"name"`
	Plural     string                   `mapstructure:"plural"`
	Properties []map[string]interface{} `mapstructure:"properties"`
}

type propertyDocument struct {
	Name      string `mapstructure:"name"`
	FieldName string `mapstructure:"fieldName"`
	Owner     bool   `mapstructure:"owner"`
}

// DecodeSchema builds a schema from a decoded schema document.
func DecodeSchema(document map[string]interface{}) (*Schema, error) {
	var doc schemaDocument
	if err := mapstructure.WeakDecode(document, &doc); err != nil {
		return nil, e.NewTypeError("unable to decode schema: %s", err)
	}

	schema := &Schema{Name: doc.Name, Plural: doc.Plural}
	for _, raw := range doc.Properties {
		var prop propertyDocument
		if err := mapstructure.WeakDecode(raw, &prop); err != nil {
			return nil, e.NewTypeError("unable to decode property of schema '%s': %s", doc.Name, err)
		}

		rule, err := validation.DecodeRule(raw)
		if err != nil {
			return nil, err
		}

		name := prop.FieldName
		if name == "" {
			name = prop.Name
		}
		schema.Properties = append(schema.Properties, Property{Name: name, Owner: prop.Owner, Rule: rule})
	}
	return schema, nil
}

// FetchSchema loads the schema with the given name from the server.
func FetchSchema(ctx context.Context, client api.Client, name string) (*Schema, error) {
	body, err := client.Get(ctx, "schemas/"+name+".json", nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch schema '%s': %w", name, err)
	}

	var document map[string]interface{}
	if err := body.Decode(&document); err != nil {
		return nil, fmt.Errorf("unable to decode schema '%s': %w", name, err)
	}
	return DecodeSchema(document)
}
