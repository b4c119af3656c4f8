package model

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/dhis2/d2-data-apis/api"
	"github.com/dhis2/d2-data-apis/config"
	"github.com/dhis2/d2-data-apis/types"
	"github.com/dhis2/d2-data-apis/validation"
)

var ErrMissingEndpoint = errors.New("model schema has no plural name to save to")

// Model is an instance of a schema holding property values by name.
type Model struct {
	schema *Schema
	values types.Params
}

var _ validation.SchemaModel = (*Model)(nil)

func New(schema *Schema) *Model {
	return &Model{schema: schema, values: types.Params{}}
}

// FromStruct creates a model from the exported fields of v. Field names are
// converted to property names with the default naming convention. A nil
// schema is replaced by one without properties named after the type of v,
// e.g. DataElement becomes "dataElement".
func FromStruct(schema *Schema, v interface{}) (*Model, error) {
	return FromStructWithNaming(schema, v, config.NewDefaultNaming())
}

func FromStructWithNaming(schema *Schema, v interface{}, naming config.NamingConvention) (*Model, error) {
	fields := map[string]interface{}{}
	if err := mapstructure.Decode(v, &fields); err != nil {
		return nil, fmt.Errorf("unable to read fields of %T: %w", v, err)
	}

	if schema == nil {
		schema = &Schema{}
		if rv := reflect.Indirect(reflect.ValueOf(v)); rv.IsValid() {
			schema.Name = naming.ToSchemaName(rv.Type().Name())
		}
	}
	m := New(schema)
	for name, value := range fields {
		m.values[naming.ToPropertyName(name)] = value
	}
	return m, nil
}

// SchemaName returns the name of the model's schema, or "" when it has none.
func (m *Model) SchemaName() string {
	if m == nil || m.schema == nil {
		return ""
	}
	return m.schema.Name
}

func (m *Model) Get(name string) (interface{}, bool) {
	value, ok := m.values[name]
	return value, ok
}

func (m *Model) Set(name string, value interface{}) *Model {
	if m.values == nil {
		m.values = types.Params{}
	}
	m.values[name] = value
	return m
}

func (m *Model) ID() string {
	id, _ := m.values["id"].(string)
	return id
}

// Owned returns the values of the properties the model owns.
func (m *Model) Owned() types.Params {
	owned := types.Params{}
	if m == nil || m.schema == nil {
		return owned
	}
	for _, prop := range m.schema.Properties {
		if !prop.Owner {
			continue
		}
		if value, ok := m.values[prop.Name]; ok {
			owned[prop.Name] = value
		}
	}
	return owned
}

// Validate checks every owned property against its rule and returns the
// failing results keyed by property name.
func (m *Model) Validate(engine *validation.Engine) map[string]validation.Result {
	failures := map[string]validation.Result{}
	if m.schema == nil {
		return failures
	}
	for _, prop := range m.schema.Properties {
		if !prop.Owner {
			continue
		}
		result := engine.Validate(prop.Rule, m.values[prop.Name])
		if !result.Status {
			failures[prop.Name] = result
		}
	}
	return failures
}

// Save persists the owned properties, creating the model when it has no id.
func (m *Model) Save(ctx context.Context, client api.Client) (api.Body, error) {
	if m.schema == nil || m.schema.Plural == "" {
		return nil, ErrMissingEndpoint
	}
	if id := m.ID(); id != "" {
		return client.Put(ctx, m.schema.Plural+"/"+id, m.Owned())
	}
	return client.Post(ctx, m.schema.Plural, m.Owned())
}
