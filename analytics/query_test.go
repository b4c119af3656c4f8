package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dhis2/d2-data-apis/api"
	"github.com/dhis2/d2-data-apis/types"
)

func TestQueryValues(t *testing.T) {
	tests := []struct {
		name     string
		query    *Query
		override types.Params
		want     string
	}{
		{
			name:  "empty",
			query: New(nil),
			want:  "",
		},
		{
			name: "dimensions and filters keep their order",
			query: New(nil).
				AddDimension("pe:LAST_12_MONTHS").
				AddDimensions("dx:fbfJHSPpUQD", "ou:ImspTQPwCqd;LEVEL-2").
				AddFilters("co"),
			want: "dimension=pe%3ALAST_12_MONTHS&dimension=dx%3AfbfJHSPpUQD&dimension=ou%3AImspTQPwCqd%3BLEVEL-2&filter=co",
		},
		{
			name: "later parameters win",
			query: New(nil).
				AddParameters(types.Params{"aggregationType": "SUM", "skipMeta": false}).
				AddParameters(types.Params{"aggregationType": "AVERAGE"}),
			want: "aggregationType=AVERAGE&skipMeta=false",
		},
		{
			name:     "override wins",
			query:    New(nil).AddParameters(types.Params{"hierarchyMeta": false}),
			override: types.Params{"hierarchyMeta": true, "columns": []string{"dx", "ou"}},
			want:     "columns=dx&columns=ou&hierarchyMeta=true",
		},
		{
			name:     "nil parameters are skipped",
			query:    New(nil),
			override: types.Params{"startDate": nil, "endDate": "2024-12-31"},
			want:     "endDate=2024-12-31",
		},
	}

	dmp := diffmatchpatch.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.query.Values(tt.override).Encode()
			if tt.want != got {
				diffs := dmp.DiffMain(tt.want, got, false)
				t.Errorf("Values() got = '%v', want '%v'\n%s", got, tt.want, dmp.DiffPrettyText(diffs))
			}
		})
	}
}

func TestQueryValuesDoesNotMutate(t *testing.T) {
	q := New(nil).AddParameters(types.Params{"displayProperty": "NAME"})
	q.Values(types.Params{"displayProperty": "SHORTNAME"})
	assert.Equal(t, types.Params{"displayProperty": "NAME"}, q.Params())
}

func TestQueryNoOps(t *testing.T) {
	q := New(nil).
		AddDimension("").
		AddDimensions().
		AddFilter("").
		AddFilters().
		AddParameters(nil).
		AddDataDimension().
		AddOrgUnitFilter()

	assert.Empty(t, q.Dimensions())
	assert.Empty(t, q.Filters())
	assert.Empty(t, q.Params())
}

func TestQueryHelpers(t *testing.T) {
	q := New(nil).
		AddDataDimension("fbfJHSPpUQD").
		AddPeriodDimension("2024Q1", "2024Q2").
		AddOrgUnitDimension("ImspTQPwCqd").
		AddDataFilter("cYeuwXTCPkU").
		AddPeriodFilter("2024").
		AddOrgUnitFilter("LEVEL-2")

	assert.Equal(t, []string{"dx:fbfJHSPpUQD", "pe:2024Q1;2024Q2", "ou:ImspTQPwCqd"}, q.Dimensions())
	assert.Equal(t, []string{"dx:cYeuwXTCPkU", "pe:2024", "ou:LEVEL-2"}, q.Filters())
	assert.Equal(t, "co", Dimension(CategoryOptionComboDimension))
}

func TestQueryClone(t *testing.T) {
	q := New(nil).AddDimension("dx:fbfJHSPpUQD").AddParameters(types.Params{"skipMeta": true})
	clone := q.Clone().AddDimension("pe:2024").AddParameters(types.Params{"skipMeta": false})

	assert.Equal(t, []string{"dx:fbfJHSPpUQD"}, q.Dimensions())
	assert.Equal(t, types.Params{"skipMeta": true}, q.Params())
	assert.Equal(t, []string{"dx:fbfJHSPpUQD", "pe:2024"}, clone.Dimensions())
}

func TestQueryTerminalPaths(t *testing.T) {
	client := api.NewClientMock()
	body := api.Body(`{}`)
	client.On("Get", mock.Anything, "analytics.xml", mock.Anything).Return(body, nil)
	client.On("Get", mock.Anything, "analytics/debug/sql.json", mock.Anything).Return(body, nil)
	client.On("Get", mock.Anything, "analytics/rawData.json", mock.Anything).Return(body, nil)

	q := New(client).AddDimension("dx:fbfJHSPpUQD")
	ctx := context.Background()

	_, err := q.GetDataValueSet(ctx, "XML", nil)
	assert.NoError(t, err)
	_, err = q.GetDebugSQL(ctx, nil)
	assert.NoError(t, err)
	_, err = q.GetRawData(ctx, "", nil)
	assert.NoError(t, err)

	client.AssertExpectations(t)
}

func TestQueryConcurrentTerminalCalls(t *testing.T) {
	client := api.NewClientMock()
	client.On("Get", mock.Anything, "analytics.json", mock.Anything).Return(api.Body(`{}`), nil)

	q := New(client)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.AddDimension("dx:fbfJHSPpUQD")
			_, _ = q.GetDataValueSet(context.Background(), JSON, types.Params{"page": i})
		}(i)
	}
	wg.Wait()

	assert.Len(t, q.Dimensions(), 20)
	assert.Contains(t, q.Params(), "page")
	client.AssertNumberOfCalls(t, "Get", 20)
}

func TestZeroValueQuery(t *testing.T) {
	client := api.NewClientMock()
	client.On("Get", mock.Anything, "analytics.json", mock.Anything).Return(api.Body(`{}`), nil)
	client.On("Get", mock.Anything, "analytics/debug/sql.json", mock.Anything).Return(nil, errors.New("unavailable"))
	api.SetDefault(client)
	defer api.SetDefault(nil)

	var q Query
	q.AddDimension("dx:fbfJHSPpUQD").AddParameters(types.Params{"skipMeta": true})
	assert.Equal(t, "dimension=dx%3AfbfJHSPpUQD&skipMeta=true", q.Values(nil).Encode())

	_, err := q.GetDataValueSet(context.Background(), JSON, types.Params{"displayProperty": "NAME"})
	assert.NoError(t, err)
	assert.Equal(t, types.Params{"skipMeta": true, "displayProperty": "NAME"}, q.Params())

	var fresh Query
	body, err := fresh.GetDebugSQL(context.Background(), types.Params{"columns": "dx"})
	assert.EqualError(t, err, "unavailable")
	assert.Nil(t, body)
	assert.Equal(t, types.Params{"columns": "dx"}, fresh.Params())
	client.AssertExpectations(t)
}
