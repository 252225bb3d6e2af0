package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/midnightgrind/tiresim/internal/api"
	"github.com/midnightgrind/tiresim/internal/cache"
	"github.com/midnightgrind/tiresim/internal/config"
	"github.com/midnightgrind/tiresim/internal/database"
	"github.com/midnightgrind/tiresim/internal/dispatcher"
	"github.com/midnightgrind/tiresim/internal/influx"
	"github.com/midnightgrind/tiresim/internal/logging"
	"github.com/midnightgrind/tiresim/internal/monitor"
	intOtel "github.com/midnightgrind/tiresim/internal/otel"
	"github.com/midnightgrind/tiresim/internal/parser"
	"github.com/midnightgrind/tiresim/internal/session"
	"github.com/midnightgrind/tiresim/internal/simulation"
	"github.com/midnightgrind/tiresim/internal/storage"
	"github.com/midnightgrind/tiresim/internal/worker"
	"github.com/midnightgrind/tiresim/pkg/telemetry"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"gorm.io/gorm"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "tiresim"
)

// file paths
var (
	LogFilePath string
	LogFile     *os.File
)

// global variables
var (
	// DB is the GORM DB interface, set only for the postgres backend
	DB *gorm.DB

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	// VehicleCache maps game-assigned vehicle IDs to their database records
	VehicleCache *cache.VehicleCache = cache.NewVehicleCache()

	// SessionContext tracks the active session and track for logging and monitoring
	SessionContext *session.Context = session.NewContext()

	SessionStartTime time.Time = time.Now()

	// Services
	registry        *simulation.Registry
	parserService   *parser.Parser
	eventDispatcher *dispatcher.Dispatcher
	workerManager   *worker.Manager
	monitorService  *monitor.Service
	influxManager   *influx.Manager

	// Storage backend
	storageBackend storage.Backend

	// sessionName is the name of the scripted session, used for metric tags
	sessionName string
)

func main() {
	parseFlags()

	if err := setup(); err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}

	var err error
	args := flagArgs()
	if len(args) > 0 && strings.ToLower(args[0]) == "export" {
		err = runExport(args[1:])
	} else {
		err = runSession()
	}

	shutdown()

	if err != nil {
		Logger.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func setup() error {
	// Bootstrap logging to stdout until the log file exists
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, viper.GetString("logLevel"), nil)
	Logger = SlogManager.Logger()

	if err := config.Load(flagConfigDir()); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	// create logs dir if it doesn't exist
	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	LogFilePath = filepath.Join(logsDir, fmt.Sprintf(
		"%s.%s.log",
		AppName,
		SessionStartTime.Format("20060102_150405"),
	))

	var err error
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
	}

	// Initialize OTel provider if enabled (after log file is created)
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    LogFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else if otelCfg.Endpoint != "" {
			Logger.Info("OTel provider initialized", "file", LogFilePath, "endpoint", otelCfg.Endpoint)
		} else {
			Logger.Info("OTel provider initialized", "file", LogFilePath)
		}
	}

	// Re-setup logging with file output and optional OTel
	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(LogFile, viper.GetString("logLevel"), otelLogProvider)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath, "version", CurrentVersion, "buildDate", BuildDate)

	// Simulation registry, tuned from config
	simCfg := config.GetSimulationConfig()
	settings := simulation.DefaultSettings()
	settings.AmbientTempC = simCfg.AmbientTempC
	settings.GlobalWearMultiplier = simCfg.GlobalWear
	settings.TemperatureSimSpeed = simCfg.TimeScale
	registry = simulation.NewRegistry(config.PressureFromViper(), settings)

	parserService = parser.NewParser(Logger, CurrentVersion)

	zlog := zerolog.New(logWriter()).With().Timestamp().Logger()
	eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	if err := initStorage(); err != nil {
		return err
	}

	// InfluxDB metrics sink, optional
	if viper.GetBool("influx.enabled") {
		influxBackupPath := filepath.Join(logsDir, fmt.Sprintf(
			"influx_backup_%s.lp.gz",
			SessionStartTime.Format("20060102_150405"),
		))
		influxManager = influx.NewManager(zlog, influxBackupPath)
		if err := influxManager.Connect(); err != nil {
			Logger.Warn("InfluxDB unavailable, metrics disabled", "error", err)
			influxManager = nil
		}
	}

	monitorService = monitor.NewService(monitor.Dependencies{
		DB:              DB,
		LogManager:      SlogManager,
		SessionContext:  SessionContext,
		WorkerManager:   workerManager,
		Backend:         storageBackend,
		StatusDir:       logsDir,
		IsDatabaseValid: func() bool { return DB != nil },
	})
	if DB != nil {
		validateHypertables(monitorService)
	}
	if err := monitorService.Start(); err != nil {
		Logger.Warn("Failed to start status monitor", "error", err)
	}

	// Leftover sqlite dumps from a crashed run can be exported manually.
	if dumps, err := database.GetBackupDBPaths(logsDir); err == nil && len(dumps) > 0 {
		Logger.Info("Found sqlite dumps from previous runs", "count", len(dumps), "dir", logsDir)
	}

	checkServerStatus()
	return nil
}

func logWriter() *os.File {
	if LogFile != nil {
		return LogFile
	}
	return os.Stdout
}

func checkServerStatus() {
	// check if the review frontend is running by making a healthcheck request
	_, err := http.Get(viper.GetString("api.serverUrl") + "/healthcheck")
	if err != nil {
		Logger.Info("Telemetry frontend is offline")
	} else {
		Logger.Info("Telemetry frontend is online")
	}
}

func shutdown() {
	if monitorService != nil {
		monitorService.Stop()
	}

	if storageBackend != nil {
		if err := storageBackend.Close(); err != nil {
			Logger.Error("Failed to close storage backend", "error", err)
		}
		uploadRecording()
	}

	if influxManager != nil {
		if influxManager.BackupWriter != nil {
			_ = influxManager.BackupWriter.Close()
		}
		if influxManager.Client != nil {
			influxManager.Client.Close()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	SlogManager.Flush(ctx)
	if OTelProvider != nil {
		if err := OTelProvider.Flush(ctx); err != nil {
			Logger.Error("Failed to flush OTel provider", "error", err)
		}
	}

	if LogFile != nil {
		_ = LogFile.Close()
	}
}

// uploadRecording pushes the exported session file to the review frontend
// when the backend produced one and an API key is configured.
func uploadRecording() {
	up, ok := storageBackend.(storage.Uploadable)
	if !ok {
		return
	}
	filePath := up.GetExportedFilePath()
	if filePath == "" || viper.GetString("api.apiKey") == "" {
		return
	}

	client := api.New(viper.GetString("api.serverUrl"), viper.GetString("api.apiKey"))
	if err := client.Healthcheck(); err != nil {
		Logger.Warn("Skipping upload, frontend unreachable", "error", err)
		return
	}
	if err := client.Upload(filePath, up.GetExportMetadata()); err != nil {
		Logger.Error("Failed to upload recording", "error", err, "path", filePath)
		return
	}
	Logger.Info("Uploaded recording", "path", filePath)
}

func dispatch(cmd string, args ...string) {
	_, err := eventDispatcher.Dispatch(dispatcher.Event{
		Command:   cmd,
		Args:      args,
		Timestamp: time.Now(),
	})
	if err != nil {
		Logger.Error("Dispatch failed", "command", cmd, "error", err)
	}
}

// demo roster used when no game runtime is attached
var demoVehicles = []struct {
	className   string
	displayName string
	driverName  string
	compound    string
}{
	{"mg_kanjo_coupe", "Kanjo Coupe", "K. Hoshino", "Soft"},
	{"mg_wangan_gt", "Wangan GT", "R. Faulkner", "Medium"},
	{"mg_touge_hatch", "Touge Hatch", "M. Okafor", "UltraSoft"},
	{"mg_drift_missile", "Drift Missile", "J. Calloway", "Drift"},
	{"mg_highway_sedan", "Highway Sedan", "A. Petrova", "Hard"},
	{"mg_circuit_proto", "Circuit Proto", "T. Vance", "Soft"},
}

// runSession drives a scripted session through the dispatcher, exercising
// the same command path the game runtime uses.
func runSession() error {
	simCfg := config.GetSimulationConfig()
	tickRate := simCfg.TickRate
	if v := flagTickRate(); v > 0 {
		tickRate = v
	}
	if tickRate <= 0 {
		tickRate = 60
	}
	vehicleCount := flagVehicles()
	if vehicleCount > len(demoVehicles) {
		vehicleCount = len(demoVehicles)
	}

	sessionName = "Midnight Run " + SessionStartTime.Format("2006-01-02 15:04")
	trackJSON := `{"trackName":"kanjo_loop","displayName":"Kanjo Loop","author":"MidnightGrind","lengthKm":6.2,"ambientTempC":19,"trackTempC":27}`
	sessionJSON := fmt.Sprintf(
		`{"sessionName":"%s","gameMode":"TimeAttack","serverName":"local","tickRate":%g,"tag":"%s"}`,
		sessionName,
		tickRate,
		viper.GetString("defaultTag"),
	)
	dispatch(":SESSION:START:", trackJSON, sessionJSON)

	for i := 0; i < vehicleCount; i++ {
		v := demoVehicles[i]
		dispatch(":VEHICLE:REGISTER:",
			"0", strconv.Itoa(i+1), v.className, v.displayName, v.driverName, v.compound)
	}

	Logger.Info("Session started",
		"vehicles", vehicleCount, "tickRate", tickRate, "duration", flagDuration())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	dt := 1.0 / tickRate
	ticker := time.NewTicker(time.Duration(float64(time.Second) / tickRate))
	defer ticker.Stop()
	deadline := time.After(flagDuration())

	telemetryEvery := uint(math.Max(1, math.Round(tickRate/math.Max(1, simCfg.TelemetryRate))))
	perfEvery := uint(math.Max(1, tickRate))
	lapFrames := uint(tickRate * 45) // synthetic 45s laps
	lap := 0
	frame := uint(0)

	running := true
	for running {
		select {
		case <-sig:
			Logger.Info("Interrupt received, ending session")
			running = false
		case <-deadline:
			running = false
		case <-ticker.C:
			frame++
			tickVehicles(frame, dt, vehicleCount)

			if err := workerManager.Tick(dt, frame); err != nil {
				Logger.Error("Simulation tick failed", "error", err, "frame", frame)
			}

			if frame%telemetryEvery == 0 {
				registry.RecordHistory(uint64(frame))
				writeInfluxSnapshots(frame)
			}
			if frame%perfEvery == 0 {
				writeInfluxPerformance()
			}
			if frame%lapFrames == 0 {
				lap++
				frameNo := strconv.Itoa(int(frame))
				for i := 0; i < vehicleCount; i++ {
					dispatch(":TELEMETRY:", frameNo, strconv.Itoa(i+1), strconv.Itoa(lap))
				}
			}

			scriptedIncidents(frame, lapFrames, vehicleCount)
		}
	}

	// let buffered handlers drain before the session closes
	time.Sleep(250 * time.Millisecond)
	dispatch(":SESSION:END:")
	Logger.Info("Session ended", "frames", frame, "laps", lap)
	return nil
}

// tickVehicles synthesizes one frame of wheel load and slip for every car.
// Sine phases are offset per vehicle so the field spreads out around the lap.
func tickVehicles(frame uint, dt float64, vehicleCount int) {
	t := float64(frame) * dt
	frameNo := strconv.Itoa(int(frame))

	for i := 0; i < vehicleCount; i++ {
		phase := float64(i) * 1.7
		speed := 95.0 + 60.0*math.Sin(t/7.0+phase)
		braking := math.Sin(t/5.0+phase) > 0.82
		speedStr := strconv.FormatFloat(speed, 'f', 1, 64)
		vehicleID := strconv.Itoa(i + 1)

		for c, pos := range telemetry.Positions {
			cornerPhase := phase + float64(c)*0.35
			slipRatio := 0.04 + 0.05*math.Abs(math.Sin(t/3.0+cornerPhase))
			if braking {
				slipRatio += 0.10
			}
			slipAngle := 6.0 * math.Sin(t/4.0+cornerPhase)
			load := 3400.0 + 600.0*math.Sin(t/4.0+cornerPhase)
			locked := braking && c < 2 && slipRatio > 0.12

			dispatch(":WHEEL:STATE:",
				vehicleID,
				pos.String(),
				frameNo,
				fmt.Sprintf("[%.4f,%.3f,%.0f]", slipRatio, slipAngle, load),
				speedStr,
				"Asphalt",
				strconv.FormatBool(locked),
				strconv.FormatBool(braking),
			)
		}
	}
}

// scriptedIncidents injects damage, pit stops, and repairs at fixed points
// in the run so every command path gets traffic.
func scriptedIncidents(frame, lapFrames uint, vehicleCount int) {
	frameNo := strconv.Itoa(int(frame))

	switch frame {
	case lapFrames / 2:
		if vehicleCount >= 2 {
			dispatch(":DAMAGE:SPIKESTRIP:", frameNo, "2", "RL", "0.8", "110", "{}")
		}
	case lapFrames/2 + lapFrames/4:
		if vehicleCount >= 3 {
			dispatch(":DAMAGE:PUNCTURE:", frameNo, "3", "FR", "0.4", "95", "{}")
		}
	case lapFrames + lapFrames/3:
		dispatch(":DAMAGE:COLLISION:", frameNo, "1", "FL", "0.6", "130", `{"source":"barrier"}`)
	case lapFrames + lapFrames/2:
		if vehicleCount >= 3 {
			dispatch(":TIRE:REPAIR:", frameNo, "3", "FR")
		}
	case 2 * lapFrames:
		if vehicleCount >= 2 {
			dispatch(":TIRE:CHANGE:", frameNo, "2", "all", "", "Hard")
		}
	case 2*lapFrames + lapFrames/2:
		dispatch(":DAMAGE:VALVE:", frameNo, "1", "RR", "0.3", "0", "{}")
	case 3 * lapFrames:
		dispatch(":DAMAGE:BEAD:", frameNo, "1", "RL", "0.5", "88", "{}")
	}
}

func writeInfluxSnapshots(frame uint) {
	if influxManager == nil {
		return
	}
	ctx := context.Background()
	for _, id := range registry.VehicleIDs() {
		for _, pos := range telemetry.Positions {
			s, ok := registry.Snapshot(id, pos, frame)
			if !ok {
				continue
			}
			if err := influxManager.WriteWheelState(ctx, sessionName, s); err != nil {
				Logger.Debug("Influx wheel state write failed", "error", err)
			}
		}
	}
}

func writeInfluxPerformance() {
	if influxManager == nil || monitorService == nil {
		return
	}
	sample := monitorService.Sample()
	if err := influxManager.WritePerformance(context.Background(), sessionName, sample); err != nil {
		Logger.Debug("Influx performance write failed", "error", err)
	}
}
