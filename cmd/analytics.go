package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dhis2/d2-data-apis/analytics"
	"github.com/dhis2/d2-data-apis/api"
	"github.com/dhis2/d2-data-apis/types"
)

func newAnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics --dimension [DIMENSION] [--filter FILTER] [OPTIONS]",
		Short: "Run an analytics query and print the response",
		Args:  cobra.NoArgs,
		RunE:  runAnalytics,
	}

	flags := cmd.Flags()
	flags.StringSliceP("dimension", "d", nil, "dimension, e.g. dx:fbfJHSPpUQD;cYeuwXTCPkU")
	flags.StringSliceP("filter", "f", nil, "filter, e.g. ou:ImspTQPwCqd")
	flags.StringToStringP("param", "P", nil, "additional query parameter as name=value")
	flags.String("format", string(analytics.JSON), "response format: json, xml or csv")
	flags.Bool("raw", false, "fetch raw data instead of aggregated data")
	flags.Bool("debug-sql", false, "print the SQL the server would run instead of the data")

	_ = viper.BindPFlag("dimension", flags.Lookup("dimension"))
	_ = viper.BindPFlag("filter", flags.Lookup("filter"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))

	return cmd
}

func runAnalytics(cmd *cobra.Command, _ []string) error {
	dimensions, err := getStringSlice("dimension")
	if err != nil {
		return err
	}
	if len(dimensions) == 0 {
		return fmt.Errorf("at least one dimension is required")
	}
	filters, err := getStringSlice("filter")
	if err != nil {
		return err
	}

	params, err := cmd.Flags().GetStringToString("param")
	if err != nil {
		return err
	}
	override := types.Params{}
	for name, value := range params {
		override[name] = value
	}

	client, err := createClient()
	if err != nil {
		return err
	}

	query := analytics.New(client).
		AddDimensions(dimensions...).
		AddFilters(filters...)

	format := analytics.Format(viper.GetString("format"))
	raw, _ := cmd.Flags().GetBool("raw")
	debugSQL, _ := cmd.Flags().GetBool("debug-sql")

	ctx := cmd.Context()
	var body api.Body
	switch {
	case debugSQL:
		body, err = query.GetDebugSQL(ctx, override)
	case raw:
		body, err = query.GetRawData(ctx, format, override)
	default:
		body, err = query.GetDataValueSet(ctx, format, override)
	}
	if err != nil {
		logger.Error("analytics request failed", "dimensions", dimensions, "filters", filters, "error", err)
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return err
}
