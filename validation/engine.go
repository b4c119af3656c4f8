package validation

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cast"

	"github.com/dhis2/d2-data-apis/api"
	"github.com/dhis2/d2-data-apis/log"
	"github.com/dhis2/d2-data-apis/types"
)

const (
	invalidTypeMessage = "This is not a valid type"
	minValueMessage    = "Value needs to be larger than or equal to "
	maxValueMessage    = "Value needs to be smaller than or equal to "
	minLengthMessage   = "Value needs to be longer than or equal to "
	maxLengthMessage   = "Value needs to be shorter than or equal to "

	schemasPath = "schemas/"
)

// ErrMissingSchemaName is returned by ValidateAgainstSchema for models
// without a schema name. No request is sent in that case.
var ErrMissingSchemaName = errors.New("model has no schema name to validate against")

// SchemaModel is a model that can be validated by the server.
type SchemaModel interface {
	SchemaName() string
	// Owned returns the properties the model owns, keyed by property name.
	Owned() types.Params
}

// Engine validates values against rules. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	logger   log.Logger
	client   api.Client
	registry Registry
}

type Option func(*Engine)

func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithClient(client api.Client) Option {
	return func(e *Engine) {
		e.client = client
	}
}

func WithRegistry(registry Registry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// New creates an engine. Collaborators not passed as options fall back to a
// production logger and DefaultRegistry. Without WithClient the engine uses
// api.Default() at the time of each request, so api.Configure may be called
// after the engine was created.
func New(opts ...Option) *Engine {
	engine := &Engine{registry: DefaultRegistry()}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.logger == nil {
		engine.logger = log.NewProductionLogger()
	}
	return engine
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns the process-wide engine, creating it on first use.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// Validate checks value against rule. An optional rule with an absent value
// always passes; otherwise the type, numeric bounds, length bounds and type
// specific checks all run and every failure is reported.
func (e *Engine) Validate(rule Rule, value interface{}) Result {
	result := newResult()
	if rule.Optional() && types.IsFalsy(value) {
		return result
	}

	e.checkType(rule, value, &result)
	checkNumericBounds(rule, value, &result)
	checkLengthBounds(rule, value, &result)
	e.checkTypeSpecific(rule, value, &result)

	return result
}

func (e *Engine) checkType(rule Rule, value interface{}, result *Result) {
	check, ok := typeChecks[rule.Type]
	if !ok {
		e.logger.Warn("no type check for unknown type", "type", rule.Type.String())
		result.fail(invalidTypeMessage, value)
		return
	}
	if !check(value) {
		result.fail(invalidTypeMessage, value)
	}
}

func checkNumericBounds(rule Rule, value interface{}, result *Result) {
	number, ok := types.ToNumber(value)
	if !ok {
		return
	}
	if rule.Min != nil && number < *rule.Min {
		result.fail(minValueMessage+cast.ToString(*rule.Min), value)
	}
	if rule.Max != nil && number > *rule.Max {
		result.fail(maxValueMessage+cast.ToString(*rule.Max), value)
	}
}

func checkLengthBounds(rule Rule, value interface{}, result *Result) {
	length, ok := types.Length(value)
	if !ok {
		return
	}
	if rule.Min != nil && types.IsIntegral(*rule.Min) && float64(length) < *rule.Min {
		result.fail(minLengthMessage+cast.ToString(*rule.Min), value)
	}
	if rule.Max != nil && types.IsIntegral(*rule.Max) && float64(length) > *rule.Max {
		result.fail(maxLengthMessage+cast.ToString(*rule.Max), value)
	}
}

func (e *Engine) checkTypeSpecific(rule Rule, value interface{}, result *Result) {
	for _, check := range e.registry.checks[rule.Type] {
		if !check.Predicate(value) {
			result.fail(check.Message, value)
		}
	}
}

// ValidateAgainstSchema posts the owned properties of model to the server's
// schema validation endpoint and returns the response unmodified.
func (e *Engine) ValidateAgainstSchema(ctx context.Context, model SchemaModel) (api.Body, error) {
	if model == nil || model.SchemaName() == "" {
		return nil, ErrMissingSchemaName
	}
	return e.apiClient().Post(ctx, schemasPath+model.SchemaName(), model.Owned())
}

func (e *Engine) apiClient() api.Client {
	if e.client != nil {
		return e.client
	}
	return api.Default()
}
