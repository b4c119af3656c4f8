package analytics

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/dhis2/d2-data-apis/api"
	"github.com/dhis2/d2-data-apis/types"
)

type Format string

const (
	JSON Format = "json"
	XML  Format = "xml"
	CSV  Format = "csv"
)

const (
	aggregatePath = "analytics"
	debugSQLPath  = "analytics/debug/sql.json"
	rawDataPath   = "analytics/rawData"

	dimensionParam = "dimension"
	filterParam    = "filter"
)

var ErrUnsupportedFormat = errors.New("unsupported analytics response format")

// Query accumulates dimensions, filters and parameters for an analytics
// request. The zero value is usable and sends its requests through
// api.Default(). A Query may be shared between goroutines; when terminal
// operations run concurrently their parameter overrides are merged in
// whichever order they acquire the query, the last one winning.
type Query struct {
	client api.Client

	mu         sync.Mutex
	dimensions []string
	filters    []string
	params     types.Params
}

// New creates a query sent through client, or through api.Default() when
// client is nil.
func New(client api.Client) *Query {
	return &Query{
		client:     client,
		dimensions: make([]string, 0),
		filters:    make([]string, 0),
		params:     types.Params{},
	}
}

// AddDimension adds a dimension such as "dx:fbfJHSPpUQD;cYeuwXTCPkU".
// An empty dimension is ignored.
func (q *Query) AddDimension(dimension string) *Query {
	if dimension == "" {
		return q
	}
	return q.AddDimensions(dimension)
}

func (q *Query) AddDimensions(dimensions ...string) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dimensions = appendNonEmpty(q.dimensions, dimensions)
	return q
}

// AddFilter adds a filter such as "ou:ImspTQPwCqd". An empty filter is ignored.
func (q *Query) AddFilter(filter string) *Query {
	if filter == "" {
		return q
	}
	return q.AddFilters(filter)
}

func (q *Query) AddFilters(filters ...string) *Query {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.filters = appendNonEmpty(q.filters, filters)
	return q
}

// AddParameters merges params into the query parameters. Later values
// replace earlier ones with the same name.
func (q *Query) AddParameters(params types.Params) *Query {
	if len(params) == 0 {
		return q
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.mergeParams(params)
	return q
}

// AddDataDimension adds a "dx" dimension with the given items. The helpers
// below do nothing when called without items.
func (q *Query) AddDataDimension(items ...string) *Query {
	return q.addItems(q.AddDimension, DataDimension, items)
}

func (q *Query) AddPeriodDimension(items ...string) *Query {
	return q.addItems(q.AddDimension, PeriodDimension, items)
}

func (q *Query) AddOrgUnitDimension(items ...string) *Query {
	return q.addItems(q.AddDimension, OrgUnitDimension, items)
}

func (q *Query) AddDataFilter(items ...string) *Query {
	return q.addItems(q.AddFilter, DataDimension, items)
}

func (q *Query) AddPeriodFilter(items ...string) *Query {
	return q.addItems(q.AddFilter, PeriodDimension, items)
}

func (q *Query) AddOrgUnitFilter(items ...string) *Query {
	return q.addItems(q.AddFilter, OrgUnitDimension, items)
}

func (q *Query) addItems(add func(string) *Query, id string, items []string) *Query {
	if len(items) == 0 {
		return q
	}
	return add(Dimension(id, items...))
}

func (q *Query) Dimensions() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string{}, q.dimensions...)
}

func (q *Query) Filters() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string{}, q.filters...)
}

func (q *Query) Params() types.Params {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.params.Clone()
}

// Clone returns an independent copy of the query using the same client.
func (q *Query) Clone() *Query {
	q.mu.Lock()
	defer q.mu.Unlock()
	return &Query{
		client:     q.client,
		dimensions: append([]string{}, q.dimensions...),
		filters:    append([]string{}, q.filters...),
		params:     q.params.Clone(),
	}
}

// GetDataValueSet fetches aggregated data. The override parameters are merged
// into the query before the request is sent and stay on the query.
func (q *Query) GetDataValueSet(ctx context.Context, format Format, override types.Params) (api.Body, error) {
	format, err := resolveFormat(format)
	if err != nil {
		return nil, err
	}
	return q.get(ctx, aggregatePath+"."+string(format), override)
}

// GetDebugSQL fetches the SQL the server would run for the query. The
// response is always JSON.
func (q *Query) GetDebugSQL(ctx context.Context, override types.Params) (api.Body, error) {
	return q.get(ctx, debugSQLPath, override)
}

// GetRawData fetches the raw, non-aggregated data for the query.
func (q *Query) GetRawData(ctx context.Context, format Format, override types.Params) (api.Body, error) {
	format, err := resolveFormat(format)
	if err != nil {
		return nil, err
	}
	return q.get(ctx, rawDataPath+"."+string(format), override)
}

// Values returns the query string for the query merged with override,
// without changing the query.
func (q *Query) Values(override types.Params) url.Values {
	q.mu.Lock()
	defer q.mu.Unlock()
	params := q.params.Clone()
	params.Merge(override)
	return q.values(params)
}

func (q *Query) get(ctx context.Context, path string, override types.Params) (api.Body, error) {
	q.mu.Lock()
	q.mergeParams(override)
	values := q.values(q.params)
	client := q.client
	q.mu.Unlock()

	if client == nil {
		client = api.Default()
	}
	return client.Get(ctx, path, values)
}

// mergeParams must be called with q.mu held.
func (q *Query) mergeParams(params types.Params) {
	if q.params == nil {
		q.params = types.Params{}
	}
	q.params.Merge(params)
}

// values must be called with q.mu held.
func (q *Query) values(params types.Params) url.Values {
	values := url.Values{}
	for _, d := range q.dimensions {
		values.Add(dimensionParam, d)
	}
	for _, f := range q.filters {
		values.Add(filterParam, f)
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, v := range types.ToQueryValues(params[name]) {
			values.Add(name, v)
		}
	}
	return values
}

func resolveFormat(format Format) (Format, error) {
	switch Format(strings.ToLower(string(format))) {
	case "":
		return JSON, nil
	case JSON:
		return JSON, nil
	case XML:
		return XML, nil
	case CSV:
		return CSV, nil
	}
	return "", fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, format)
}

func appendNonEmpty(list []string, values []string) []string {
	for _, v := range values {
		if v != "" {
			list = append(list, v)
		}
	}
	return list
}
