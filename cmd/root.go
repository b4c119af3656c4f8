package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	log2 "log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dhis2/d2-data-apis/api"
	"github.com/dhis2/d2-data-apis/config"
	"github.com/dhis2/d2-data-apis/log"
)

var cfgFile string
var logger log.Logger

var rootCmd = &cobra.Command{
	Use:          "d2",
	Short:        "Command line client for the analytics and metadata REST API",
	SilenceUsage: true,
}

// Execute runs the d2 command line
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger).Named("d2")

	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.StringP("base-url", "b", config.DefaultBaseURL, "base URL of the server, without the api path")
	flags.StringP("username", "u", "", "username used for basic authentication")
	flags.StringP("password", "p", "", "password used for basic authentication")
	flags.Duration("timeout", config.DefaultTimeout, "request timeout")
	flags.Bool("request-logging", false, "enable request logging")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			_ = viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	rootCmd.AddCommand(newAnalyticsCmd(), newValidateCmd(), newSchemaValidateCmd())

	cobra.OnInitialize(initialize)

	// Environment variables prefixed with "D2_" can override settings e.g. "D2_BASE_URL"
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initialize() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		}
	}
}

func clientConfig() *config.ClientConfig {
	return config.NewConfigWithLogger(logger, viper.GetString("base-url")).
		WithUsername(viper.GetString("username")).
		WithPassword(viper.GetString("password")).
		WithTimeout(viper.GetDuration("timeout")).
		WithRequestLogging(viper.GetBool("request-logging"))
}

func createClient() (*api.HTTPClient, error) {
	return api.NewHTTPClient(clientConfig())
}

func getStringSlice(key string) ([]string, error) {
	value := viper.GetStringSlice(key)
	slice, err := toStringSlice(value)
	if err != nil {
		return nil, fmt.Errorf("invalid string slice value for setting '%s': %w", key, err)
	}
	return slice, nil
}

func toStringSlice(slice []string) ([]string, error) {
	result := make([]string, 0)
	for _, entry := range slice {
		stringReader := strings.NewReader(entry)
		csvReader := csv.NewReader(stringReader)
		split, err := csvReader.Read()
		if err != nil {
			return nil, err
		}
		for _, part := range split {
			if part != "" { // Don't add empty values
				result = append(result, part)
			}
		}
	}
	return result, nil
}
