package analytics

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	e "github.com/dhis2/d2-data-apis/errors"
	"github.com/dhis2/d2-data-apis/internal/testutil/rest"
	"github.com/dhis2/d2-data-apis/types"
)

const aggregateResponse = `{"headers":[{"name":"dx"},{"name":"pe"},{"name":"value"}],"rows":[["fbfJHSPpUQD","202401","42"]]}`

var _ = Describe("Query", func() {
	var (
		server *rest.Server
		query  *Query
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = rest.NewServer().
			RespondJSON(http.MethodGet, "/analytics.json", http.StatusOK, aggregateResponse).
			Respond(http.MethodGet, "/analytics.xml", http.StatusOK, "application/xml", "<grid/>").
			RespondJSON(http.MethodGet, "/analytics/debug/sql.json", http.StatusOK, `"select * from analytics"`).
			Respond(http.MethodGet, "/analytics/rawData.csv", http.StatusOK, "text/csv", "dx,pe,value\n").
			RespondJSON(http.MethodGet, "/analytics/rawData.json", http.StatusConflict, `{"status":"ERROR"}`)
		query = New(server.Client()).
			AddDataDimension("fbfJHSPpUQD", "cYeuwXTCPkU").
			AddPeriodDimension("LAST_12_MONTHS").
			AddOrgUnitFilter("ImspTQPwCqd").
			AddParameters(types.Params{"displayProperty": "NAME"})
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("GetDataValueSet()", func() {
		It("Should send dimensions, filters and parameters", func() {
			body, err := query.GetDataValueSet(ctx, JSON, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(body.String()).To(Equal(aggregateResponse))

			req := server.LastRequest()
			Expect(req.Path).To(Equal("/api/analytics.json"))
			Expect(req.Query["dimension"]).To(Equal([]string{"dx:fbfJHSPpUQD;cYeuwXTCPkU", "pe:LAST_12_MONTHS"}))
			Expect(req.Query["filter"]).To(Equal([]string{"ou:ImspTQPwCqd"}))
			Expect(req.Query.Get("displayProperty")).To(Equal("NAME"))
			Expect(req.Username).To(Equal("admin"))
		})

		It("Should pass xml through verbatim", func() {
			body, err := query.GetDataValueSet(ctx, XML, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(body.String()).To(Equal("<grid/>"))
		})

		It("Should merge the override into the stored parameters", func() {
			_, err := query.GetDataValueSet(ctx, "", types.Params{"displayProperty": "SHORTNAME", "skipMeta": true})
			Expect(err).ToNot(HaveOccurred())

			req := server.LastRequest()
			Expect(req.Query.Get("displayProperty")).To(Equal("SHORTNAME"))
			Expect(req.Query.Get("skipMeta")).To(Equal("true"))
			Expect(query.Params()).To(Equal(types.Params{"displayProperty": "SHORTNAME", "skipMeta": true}))
		})

		It("Should reject unknown formats without a request", func() {
			_, err := query.GetDataValueSet(ctx, "pdf", nil)
			Expect(errors.Is(err, ErrUnsupportedFormat)).To(BeTrue())
			Expect(server.Requests()).To(BeEmpty())
		})
	})

	Describe("GetDebugSQL()", func() {
		It("Should always request json", func() {
			body, err := query.GetDebugSQL(ctx, types.Params{"columns": []string{"dx", "pe"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(body.String()).To(Equal(`"select * from analytics"`))

			req := server.LastRequest()
			Expect(req.Path).To(Equal("/api/analytics/debug/sql.json"))
			Expect(req.Query["columns"]).To(Equal([]string{"dx", "pe"}))
		})
	})

	Describe("GetRawData()", func() {
		It("Should request the given format", func() {
			body, err := query.GetRawData(ctx, CSV, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(body.String()).To(Equal("dx,pe,value\n"))
			Expect(server.LastRequest().Path).To(Equal("/api/analytics/rawData.csv"))
		})

		It("Should propagate server errors", func() {
			_, err := query.GetRawData(ctx, JSON, nil)
			Expect(err).To(HaveOccurred())

			responseErr, ok := err.(*e.ResponseError)
			Expect(ok).To(BeTrue())
			Expect(responseErr.StatusCode).To(Equal(http.StatusConflict))
		})
	})
})
