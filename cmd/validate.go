package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dhis2/d2-data-apis/model"
	"github.com/dhis2/d2-data-apis/validation"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate --type TYPE [--min MIN] [--max MAX] [--required] VALUE",
		Short: "Validate a value against a rule",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	flags := cmd.Flags()
	flags.StringP("type", "t", string(validation.Text), "value type, e.g. INTEGER, NUMBER, TEXT, PHONENUMBER")
	flags.Float64("min", 0, "minimum value or length")
	flags.Float64("max", 0, "maximum value or length")
	flags.Bool("required", true, "whether a value is required")
	flags.Bool("json", false, "decode VALUE as JSON instead of using it as text")
	flags.Bool("formats", false, "also check e-mail, URL and color formats")

	return cmd
}

func ruleFromFlags(cmd *cobra.Command) validation.Rule {
	flags := cmd.Flags()
	tag, _ := flags.GetString("type")
	rule := validation.NewRule(validation.TypeTag(tag))
	if flags.Changed("min") {
		lower, _ := flags.GetFloat64("min")
		rule = rule.WithMin(lower)
	}
	if flags.Changed("max") {
		upper, _ := flags.GetFloat64("max")
		rule = rule.WithMax(upper)
	}
	if flags.Changed("required") {
		required, _ := flags.GetBool("required")
		rule = rule.WithRequired(required)
	}
	return rule
}

func runValidate(cmd *cobra.Command, args []string) error {
	var value interface{} = args[0]
	if decode, _ := cmd.Flags().GetBool("json"); decode {
		if err := json.Unmarshal([]byte(args[0]), &value); err != nil {
			return fmt.Errorf("value is not valid JSON: %w", err)
		}
	}

	registry := validation.DefaultRegistry()
	if formats, _ := cmd.Flags().GetBool("formats"); formats {
		registry = validation.FormatRegistry()
	}

	engine := validation.New(validation.WithLogger(logger), validation.WithRegistry(registry))
	result := engine.Validate(ruleFromFlags(cmd), value)

	if err := printJSON(cmd, result); err != nil {
		return err
	}
	return result.Err()
}

func newSchemaValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema-validate SCHEMA FILE",
		Short: "Validate a JSON model file against a schema on the server",
		Args:  cobra.ExactArgs(2),
		RunE:  runSchemaValidate,
	}
	cmd.Flags().Bool("local", false, "validate the owned properties locally before asking the server")
	return cmd
}

func runSchemaValidate(cmd *cobra.Command, args []string) error {
	schemaName, file := args[0], args[1]

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var values map[string]interface{}
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("unable to decode '%s': %w", file, err)
	}

	client, err := createClient()
	if err != nil {
		return err
	}

	schema, err := model.FetchSchema(cmd.Context(), client, schemaName)
	if err != nil {
		return err
	}
	m := model.New(schema)
	for name, value := range values {
		m.Set(name, value)
	}

	engine := validation.New(validation.WithLogger(logger), validation.WithClient(client))

	if local, _ := cmd.Flags().GetBool("local"); local {
		if failures := m.Validate(engine); len(failures) > 0 {
			if err := printJSON(cmd, failures); err != nil {
				return err
			}
			return fmt.Errorf("%d properties failed local validation", len(failures))
		}
	}

	body, err := engine.ValidateAgainstSchema(cmd.Context(), m)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), body.String())
	return err
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
