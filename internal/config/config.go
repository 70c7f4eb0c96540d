package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "storecli/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "STORE"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/store-report.log"`
}

// InputConfig describes the source file of order lines
type InputConfig struct {
	Path       string `yaml:"path" envconfig:"PATH"`
	Format     string `yaml:"format" envconfig:"FORMAT" default:"auto"`
	Sheet      string `yaml:"sheet" envconfig:"SHEET"`
	Encoding   string `yaml:"encoding" envconfig:"ENCODING" default:"utf-8"`
	DateLayout string `yaml:"date_layout" envconfig:"DATE_LAYOUT" default:"2/1/2006"`
}

// ReportConfig parameterizes the metric families of a report run
type ReportConfig struct {
	TopN                int `yaml:"top_n" envconfig:"TOP_N" default:"10"`
	GrowthBaseYear      int `yaml:"growth_base_year" envconfig:"GROWTH_BASE_YEAR" default:"2015"`
	GrowthTargetYear    int `yaml:"growth_target_year" envconfig:"GROWTH_TARGET_YEAR" default:"2018"`
	MaxRejectionSamples int `yaml:"max_rejection_samples" envconfig:"MAX_REJECTION_SAMPLES" default:"50"`
}

// OutputConfig controls where and how report tables are written
type OutputConfig struct {
	Dir     string   `yaml:"dir" envconfig:"DIR" default:"reports"`
	Formats []string `yaml:"formats" envconfig:"FORMATS" default:"csv,json"`
}

// TelemetryConfig controls tracing and metrics export
type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"none"`
	PushgatewayURL string `yaml:"pushgateway_url" envconfig:"PUSHGATEWAY_URL"`
	JobName        string `yaml:"job_name" envconfig:"JOB_NAME" default:"store-report"`
}

// Load loads configuration from defaults, an optional YAML file and environment
// variables. Environment variables take precedence over the file.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("load config from env", err)
	}

	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError("load config from file", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// A file value replaces the env-or-default value unless the matching
// environment variable is explicitly set.
func mergeConfigs(fileConfig, envConfig Config) Config {
	// Logging
	fromFile("LOGGING_LEVEL", fileConfig.Logging.Level, &envConfig.Logging.Level)
	fromFile("LOGGING_FORMAT", fileConfig.Logging.Format, &envConfig.Logging.Format)
	fromFile("LOGGING_OUTPUT", fileConfig.Logging.Output, &envConfig.Logging.Output)
	fromFile("LOGGING_FILE_PATH", fileConfig.Logging.FilePath, &envConfig.Logging.FilePath)

	// Input
	fromFile("INPUT_PATH", fileConfig.Input.Path, &envConfig.Input.Path)
	fromFile("INPUT_FORMAT", fileConfig.Input.Format, &envConfig.Input.Format)
	fromFile("INPUT_SHEET", fileConfig.Input.Sheet, &envConfig.Input.Sheet)
	fromFile("INPUT_ENCODING", fileConfig.Input.Encoding, &envConfig.Input.Encoding)
	fromFile("INPUT_DATE_LAYOUT", fileConfig.Input.DateLayout, &envConfig.Input.DateLayout)

	// Report
	fromFile("REPORT_TOP_N", fileConfig.Report.TopN, &envConfig.Report.TopN)
	fromFile("REPORT_GROWTH_BASE_YEAR", fileConfig.Report.GrowthBaseYear, &envConfig.Report.GrowthBaseYear)
	fromFile("REPORT_GROWTH_TARGET_YEAR", fileConfig.Report.GrowthTargetYear, &envConfig.Report.GrowthTargetYear)
	fromFile("REPORT_MAX_REJECTION_SAMPLES", fileConfig.Report.MaxRejectionSamples, &envConfig.Report.MaxRejectionSamples)

	// Output
	fromFile("OUTPUT_DIR", fileConfig.Output.Dir, &envConfig.Output.Dir)
	if !envSet("OUTPUT_FORMATS") && len(fileConfig.Output.Formats) > 0 {
		envConfig.Output.Formats = fileConfig.Output.Formats
	}

	// Telemetry
	fromFile("TELEMETRY_TRACE_EXPORTER", fileConfig.Telemetry.TraceExporter, &envConfig.Telemetry.TraceExporter)
	fromFile("TELEMETRY_METRIC_EXPORTER", fileConfig.Telemetry.MetricExporter, &envConfig.Telemetry.MetricExporter)
	fromFile("TELEMETRY_PUSHGATEWAY_URL", fileConfig.Telemetry.PushgatewayURL, &envConfig.Telemetry.PushgatewayURL)
	fromFile("TELEMETRY_JOB_NAME", fileConfig.Telemetry.JobName, &envConfig.Telemetry.JobName)

	return envConfig
}

func fromFile[T comparable](key string, fileValue T, target *T) {
	var zero T
	if fileValue == zero || envSet(key) {
		return
	}
	*target = fileValue
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// normalize lower-cases enum-like settings
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Input.Format = strings.ToLower(c.Input.Format)
	c.Input.Encoding = strings.ToLower(c.Input.Encoding)
	c.Telemetry.TraceExporter = strings.ToLower(c.Telemetry.TraceExporter)
	c.Telemetry.MetricExporter = strings.ToLower(c.Telemetry.MetricExporter)
	for i, f := range c.Output.Formats {
		c.Output.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Logging.Format != "json" {
		// Logs are always JSON
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return invalid("logging.output", c.Logging.Output)
	}

	switch c.Input.Format {
	case FormatAuto, FormatCSV, FormatXLSX:
	default:
		return invalid("input.format", c.Input.Format)
	}

	switch c.Input.Encoding {
	case EncodingUTF8, EncodingLatin1:
	default:
		return invalid("input.encoding", c.Input.Encoding)
	}

	if c.Input.DateLayout == "" {
		return apperrors.NewAppValidationError("input.date_layout must not be empty")
	}

	if c.Report.TopN <= 0 {
		return invalid("report.top_n", c.Report.TopN)
	}

	if c.Report.GrowthTargetYear < c.Report.GrowthBaseYear {
		return apperrors.NewAppValidationError(fmt.Sprintf(
			"report.growth_target_year %d precedes report.growth_base_year %d",
			c.Report.GrowthTargetYear, c.Report.GrowthBaseYear))
	}

	if c.Report.MaxRejectionSamples < 0 {
		return invalid("report.max_rejection_samples", c.Report.MaxRejectionSamples)
	}

	if len(c.Output.Formats) == 0 {
		return apperrors.NewAppValidationError("output.formats must list at least one format")
	}
	for _, f := range c.Output.Formats {
		switch f {
		case OutputCSV, OutputJSON, OutputXLSX:
		default:
			return invalid("output.formats", f)
		}
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return invalid("telemetry.trace_exporter", c.Telemetry.TraceExporter)
	}

	switch c.Telemetry.MetricExporter {
	case "prometheus", "none":
	default:
		return invalid("telemetry.metric_exporter", c.Telemetry.MetricExporter)
	}

	return nil
}

func invalid(field string, value interface{}) error {
	return apperrors.NewAppValidationError(fmt.Sprintf("invalid %s: %v", field, value)).
		WithContext("field", field)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/store-report.log",
		},
		Input: InputConfig{
			Format:     FormatAuto,
			Encoding:   EncodingUTF8,
			DateLayout: DefaultDateLayout,
		},
		Report: ReportConfig{
			TopN:                10,
			GrowthBaseYear:      2015,
			GrowthTargetYear:    2018,
			MaxRejectionSamples: 50,
		},
		Output: OutputConfig{
			Dir:     "reports",
			Formats: []string{OutputCSV, OutputJSON},
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "none",
			JobName:        "store-report",
		},
	}
}
