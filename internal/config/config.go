// Package config loads the batch configuration from YAML over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the report writer.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// StatusConfig describes the status-log export family.
type StatusConfig struct {
	Prefix          string `yaml:"prefix"`
	SkipRows        int    `yaml:"skip_rows"`
	TurbineToken    int    `yaml:"turbine_token"`
	TimestampColumn string `yaml:"timestamp_column"`
	CategoryColumn  string `yaml:"category_column"`
}

// ScadaConfig describes the SCADA export family.
type ScadaConfig struct {
	Prefix              string `yaml:"prefix"`
	SkipRows            int    `yaml:"skip_rows"`
	TurbineToken        int    `yaml:"turbine_token"`
	TimestampColumn     string `yaml:"timestamp_column"`
	WindDirectionColumn string `yaml:"wind_direction_column"`
	WindSpeedColumn     string `yaml:"wind_speed_column"`
	PowerColumn         string `yaml:"power_column"`
	PitchAColumn        string `yaml:"pitch_a_column"`
	PitchBColumn        string `yaml:"pitch_b_column"`
	PitchCColumn        string `yaml:"pitch_c_column"`
}

// WakeConfig parameterises the wake study.
type WakeConfig struct {
	Reference     string  `yaml:"reference"`
	Downstream    string  `yaml:"downstream"`
	CenterDeg     float64 `yaml:"center_deg"`
	HalfWidthDeg  float64 `yaml:"half_width_deg"`
	PitchLimitDeg float64 `yaml:"pitch_limit_deg"`
	BinWidth      float64 `yaml:"bin_width"`
	MaxSpeed      float64 `yaml:"max_speed"`
}

// RunConfig toggles the two pipelines.
type RunConfig struct {
	Availability bool `yaml:"availability"`
	Wake         bool `yaml:"wake"`
}

// OutputConfig controls report artifacts.
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
	Archive bool     `yaml:"archive"`
	Console bool     `yaml:"console"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// MetricsConfig controls the metrics textfile.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Config is the full batch configuration.
type Config struct {
	DataDir               string        `yaml:"data_dir"`
	TurbinePrefix         string        `yaml:"turbine_prefix"`
	Status                StatusConfig  `yaml:"status"`
	Scada                 ScadaConfig   `yaml:"scada"`
	Years                 []int         `yaml:"years"`
	AvailableCategories   []string      `yaml:"available_categories"`
	UnavailableCategories []string      `yaml:"unavailable_categories"`
	TopCauses             int           `yaml:"top_causes"`
	Wake                  WakeConfig    `yaml:"wake"`
	Run                   RunConfig     `yaml:"run"`
	Output                OutputConfig  `yaml:"output"`
	Logging               LoggingConfig `yaml:"logging"`
	Metrics               MetricsConfig `yaml:"metrics"`
}

// Default returns the configuration of the Kelmarsh 2019-2021 study.
func Default() Config {
	return Config{
		DataDir:       "analise",
		TurbinePrefix: "T",
		Status: StatusConfig{
			Prefix:          "Status_Kelmarsh",
			SkipRows:        9,
			TurbineToken:    2,
			TimestampColumn: "Timestamp start",
			CategoryColumn:  "IEC category",
		},
		Scada: ScadaConfig{
			Prefix:              "Turbine_Data_Kelmarsh",
			SkipRows:            9,
			TurbineToken:        3,
			TimestampColumn:     "Date and time",
			WindDirectionColumn: "Wind direction (°)",
			WindSpeedColumn:     "Wind speed (m/s)",
			PowerColumn:         "Power (kW)",
			PitchAColumn:        "Blade angle (pitch position) A (°)",
			PitchBColumn:        "Blade angle (pitch position) B (°)",
			PitchCColumn:        "Blade angle (pitch position) C (°)",
		},
		Years: []int{2019, 2020, 2021},
		AvailableCategories: []string{
			"Full Performance",
			"Technical Standby",
			"Out of Environmental Specification",
		},
		UnavailableCategories: []string{
			"Forced outage",
			"Scheduled Maintenance",
			"Out of Electrical Specification",
			"Requested Shutdown",
		},
		TopCauses: 3,
		Wake: WakeConfig{
			Reference:     "T2",
			Downstream:    "T3",
			CenterDeg:     68.38,
			HalfWidthDeg:  30,
			PitchLimitDeg: 5,
			BinWidth:      0.5,
			MaxSpeed:      25,
		},
		Run: RunConfig{Availability: true, Wake: true},
		Output: OutputConfig{
			Dir:     "out",
			Formats: []string{FormatCSV, FormatXLSX, FormatPDF},
			Archive: true,
			Console: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// Load decodes path (when non-empty) over Default and validates the result.
// Keys present in the file replace the defaults, zero values included; absent
// keys keep them.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// YearWindow returns the first and last target years.
func (c Config) YearWindow() (int, int) {
	from, to := c.Years[0], c.Years[0]
	for _, y := range c.Years[1:] {
		if y < from {
			from = y
		}
		if y > to {
			to = y
		}
	}
	return from, to
}

// ValidFormat reports whether format is a known output format.
func ValidFormat(format string) bool {
	switch format {
	case FormatCSV, FormatXLSX, FormatPDF:
		return true
	}
	return false
}

// Validate checks required settings.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir required")
	}
	if c.Status.Prefix == "" || c.Scada.Prefix == "" {
		return errors.New("config: status and scada prefixes required")
	}
	if c.Status.SkipRows < 0 || c.Scada.SkipRows < 0 {
		return errors.New("config: skip_rows must not be negative")
	}
	if c.Status.TurbineToken < 0 || c.Scada.TurbineToken < 0 {
		return errors.New("config: turbine_token must not be negative")
	}
	if len(c.Years) == 0 {
		return errors.New("config: at least one year required")
	}
	for _, y := range c.Years {
		if y <= 0 {
			return fmt.Errorf("config: invalid year %d", y)
		}
	}
	if c.TopCauses <= 0 {
		return errors.New("config: top_causes must be positive")
	}
	if c.Wake.Reference == "" || c.Wake.Downstream == "" {
		return errors.New("config: wake reference and downstream required")
	}
	if c.Wake.Reference == c.Wake.Downstream {
		return errors.New("config: wake reference and downstream must differ")
	}
	if c.Wake.HalfWidthDeg < 0 {
		return errors.New("config: wake half_width_deg must not be negative")
	}
	if c.Wake.BinWidth <= 0 || c.Wake.MaxSpeed < c.Wake.BinWidth {
		return errors.New("config: wake bin_width must be positive and not exceed max_speed")
	}
	if c.Output.Dir == "" {
		return errors.New("config: output dir required")
	}
	for _, f := range c.Output.Formats {
		if !ValidFormat(f) {
			return fmt.Errorf("config: unknown output format %q", f)
		}
	}
	return nil
}
