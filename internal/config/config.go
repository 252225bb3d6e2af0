package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/midnightgrind/tiresim/pkg/tire"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds local sqlite backend settings
type SQLiteConfig struct {
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// WebsocketConfig holds streaming backend settings
type WebsocketConfig struct {
	URL string `json:"url" mapstructure:"url"`
}

// StorageConfig selects and configures the session storage backend
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	Websocket WebsocketConfig `json:"websocket" mapstructure:"websocket"`
}

// OTelConfig holds OpenTelemetry export settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// SimulationConfig holds the tick-loop settings for the session runner
type SimulationConfig struct {
	TickRate      float64 `json:"tickRate" mapstructure:"tickRate"`
	TimeScale     float64 `json:"timeScale" mapstructure:"timeScale"`
	AmbientTempC  float64 `json:"ambientTempC" mapstructure:"ambientTempC"`
	GlobalWear    float64 `json:"globalWear" mapstructure:"globalWear"`
	TelemetryRate float64 `json:"telemetryRate" mapstructure:"telemetryRate"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("defaultTag", "Session")
	viper.SetDefault("logsDir", "./tiresimlogs")

	viper.SetDefault("api.serverUrl", "http://localhost:5000/api")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "tiresim")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "tiresim-metrics")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./recordings")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.websocket.url", "ws://localhost:5001/telemetry")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "tiresim")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("simulation.tickRate", 60.0)
	viper.SetDefault("simulation.timeScale", 1.0)
	viper.SetDefault("simulation.ambientTempC", 20.0)
	viper.SetDefault("simulation.globalWear", 1.0)
	viper.SetDefault("simulation.telemetryRate", 10.0)

	pd := tire.DefaultPressureConfig()
	viper.SetDefault("pressure.defaultCold", pd.DefaultColdPressurePSI)
	viper.SetDefault("pressure.minFunctional", pd.MinFunctionalPressurePSI)
	viper.SetDefault("pressure.criticalLow", pd.CriticalLowPressurePSI)
	viper.SetDefault("pressure.maxSafe", pd.MaxSafePressurePSI)
	viper.SetDefault("pressure.perDegreeC", pd.PressurePerDegreeC)
	viper.SetDefault("pressure.referenceAmbientC", pd.ReferenceAmbientTempC)
	viper.SetDefault("pressure.naturalLeakPerHour", pd.NaturalLeakRatePSIPerHour)
	viper.SetDefault("pressure.slowLeakRate", pd.SlowLeakRatePSIPerSec)
	viper.SetDefault("pressure.moderateLeakRate", pd.ModerateLeakRatePSIPerSec)
	viper.SetDefault("pressure.spikeStripLeakRate", pd.SpikeStripLeakRatePSIPerSec)
	viper.SetDefault("pressure.blowoutInstantLoss", pd.BlowoutInstantLossPSI)
	viper.SetDefault("pressure.valveStemLeakRate", pd.ValveStemLeakRatePSIPerSec)
	viper.SetDefault("pressure.beadSeparationLeakRate", pd.BeadSeparationLeakRatePSIPerSec)
	viper.SetDefault("pressure.blowoutTempThresholdC", pd.BlowoutTempThresholdC)
	viper.SetDefault("pressure.blowoutPressureRatio", pd.BlowoutPressureRatioThreshold)
	viper.SetDefault("pressure.blowoutBaseProbability", pd.BlowoutBaseProbabilityPerSec)
	viper.SetDefault("pressure.blowoutSpeedMultiplier", pd.BlowoutSpeedMultiplier)
	viper.SetDefault("pressure.enableNaturalLoss", pd.EnableNaturalPressureLoss)
	viper.SetDefault("pressure.enableTempEffects", pd.EnableTemperaturePressureEffect)
	viper.SetDefault("pressure.enableBlowouts", pd.EnableBlowoutSimulation)
	viper.SetDefault("pressure.timeScale", pd.PressureSimulationTimeScale)

	viper.SetConfigName("tiresim.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the resolved storage backend configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		Websocket: WebsocketConfig{
			URL: viper.GetString("storage.websocket.url"),
		},
	}
}

// GetOTelConfig returns the resolved OpenTelemetry configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetSimulationConfig returns the resolved tick-loop configuration.
func GetSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TickRate:      viper.GetFloat64("simulation.tickRate"),
		TimeScale:     viper.GetFloat64("simulation.timeScale"),
		AmbientTempC:  viper.GetFloat64("simulation.ambientTempC"),
		GlobalWear:    viper.GetFloat64("simulation.globalWear"),
		TelemetryRate: viper.GetFloat64("simulation.telemetryRate"),
	}
}

// PressureFromViper builds a tire.PressureConfig from the loaded
// configuration, falling back to shipped defaults for unset keys.
func PressureFromViper() tire.PressureConfig {
	return tire.PressureConfig{
		DefaultColdPressurePSI:          viper.GetFloat64("pressure.defaultCold"),
		MinFunctionalPressurePSI:        viper.GetFloat64("pressure.minFunctional"),
		CriticalLowPressurePSI:          viper.GetFloat64("pressure.criticalLow"),
		MaxSafePressurePSI:              viper.GetFloat64("pressure.maxSafe"),
		PressurePerDegreeC:              viper.GetFloat64("pressure.perDegreeC"),
		ReferenceAmbientTempC:           viper.GetFloat64("pressure.referenceAmbientC"),
		NaturalLeakRatePSIPerHour:       viper.GetFloat64("pressure.naturalLeakPerHour"),
		SlowLeakRatePSIPerSec:           viper.GetFloat64("pressure.slowLeakRate"),
		ModerateLeakRatePSIPerSec:       viper.GetFloat64("pressure.moderateLeakRate"),
		SpikeStripLeakRatePSIPerSec:     viper.GetFloat64("pressure.spikeStripLeakRate"),
		BlowoutInstantLossPSI:           viper.GetFloat64("pressure.blowoutInstantLoss"),
		ValveStemLeakRatePSIPerSec:      viper.GetFloat64("pressure.valveStemLeakRate"),
		BeadSeparationLeakRatePSIPerSec: viper.GetFloat64("pressure.beadSeparationLeakRate"),
		BlowoutTempThresholdC:           viper.GetFloat64("pressure.blowoutTempThresholdC"),
		BlowoutPressureRatioThreshold:   viper.GetFloat64("pressure.blowoutPressureRatio"),
		BlowoutBaseProbabilityPerSec:    viper.GetFloat64("pressure.blowoutBaseProbability"),
		BlowoutSpeedMultiplier:          viper.GetFloat64("pressure.blowoutSpeedMultiplier"),
		EnableNaturalPressureLoss:       viper.GetBool("pressure.enableNaturalLoss"),
		EnableTemperaturePressureEffect: viper.GetBool("pressure.enableTempEffects"),
		EnableBlowoutSimulation:         viper.GetBool("pressure.enableBlowouts"),
		PressureSimulationTimeScale:     viper.GetFloat64("pressure.timeScale"),
	}
}
