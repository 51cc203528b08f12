// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/c4dt/arti/dirmgr"
	"github.com/c4dt/arti/internal/version"
	"github.com/c4dt/arti/retry"
	"github.com/c4dt/arti/sampleconfig"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "netdirsim.conf"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "netdirsim.log"
	defaultLogLevel       = "info"
	defaultNumRelays      = 1000
	defaultMeasuredPct    = 90
	defaultFailPct        = 10
	defaultNumPicks       = 10000
	defaultPathLen        = 3
	maxNumRelays          = 1 << 16
)

var (
	defaultHomeDir    = appDataDir("netdirsim")
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// appDataDir returns the per-user directory for the application's data.  It
// falls back to the current directory when no such directory is known.
func appDataDir(appName string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, appName)
}

// config defines the configuration options for netdirsim.
//
// See loadConfig for details on the configuration load process.
type config struct {
	// General application behavior.
	ConfigFile    string `short:"C" long:"configfile" description:"Path to configuration file"`
	ShowVersion   bool   `short:"V" long:"version" description:"Display version information and exit"`
	LogDir        string `long:"logdir" description:"Directory to log output"`
	NoFileLogging bool   `long:"nofilelogging" description:"Disable file logging"`
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`

	// Synthetic network.
	Seed        uint64 `long:"seed" description:"Seed for reproducible runs; 0 uses the system random number generator"`
	NumRelays   int    `long:"relays" description:"Number of relays listed in the synthetic consensus"`
	MeasuredPct int    `long:"measuredpct" description:"Percentage of relays with a measured bandwidth weight"`

	// Download schedule.
	FailPct         int          `long:"failpct" description:"Percentage of simulated directory requests that fail"`
	RetryBootstrap  retry.Config `long:"retrybootstrap" description:"Attempts and initial delay for a whole bootstrap as attempts[,delay]"`
	RetryConsensus  retry.Config `long:"retryconsensus" description:"Attempts and initial delay for consensus downloads as attempts[,delay]"`
	RetryCerts      retry.Config `long:"retrycerts" description:"Attempts and initial delay for certificate downloads as attempts[,delay]"`
	RetryMicrodescs retry.Config `long:"retrymicrodescs" description:"Attempts and initial delay for microdescriptor requests as attempts[,delay]"`
	Parallelism     uint8        `long:"parallelism" description:"Number of microdescriptor requests in flight at once"`
	MaxPerRequest   int          `long:"maxperrequest" description:"Maximum number of microdescriptors asked for in a single request"`
	MinUsable       float64      `long:"minusable" description:"Fraction of the weighted bandwidth relays with descriptors must carry; 0 requires more than half"`
	CacheSize       uint32       `long:"cachesize" description:"Number of microdescriptors kept across bootstrap attempts"`

	// Relay selection.
	NumPicks int    `long:"picks" description:"Number of relays picked once the directory is usable"`
	ExitPort uint16 `long:"exitport" description:"Only pick relays that allow exiting to this port; 0 picks any relay"`
	PathLen  int    `long:"pathlen" description:"Number of distinct relays picked for a sample path"`
}

// defaultConfig returns a config with every option set to its default.
func defaultConfig() config {
	sched := dirmgr.DefaultDownloadScheduleConfig()
	return config{
		ConfigFile:      defaultConfigFile,
		LogDir:          defaultLogDir,
		DebugLevel:      defaultLogLevel,
		NumRelays:       defaultNumRelays,
		MeasuredPct:     defaultMeasuredPct,
		FailPct:         defaultFailPct,
		RetryBootstrap:  sched.RetryBootstrap,
		RetryConsensus:  sched.RetryConsensus,
		RetryCerts:      sched.RetryCerts,
		RetryMicrodescs: sched.RetryMicrodescs,
		Parallelism:     sched.MicrodescParallelism,
		MaxPerRequest:   sched.MaxMicrodescsPerRequest,
		CacheSize:       dirmgr.DefaultMicrodescCacheSize,
		NumPicks:        defaultNumPicks,
		PathLen:         defaultPathLen,
	}
}

// schedule returns the download schedule described by the config.
func (cfg *config) schedule() dirmgr.DownloadScheduleConfig {
	return dirmgr.DownloadScheduleConfig{
		RetryBootstrap:          cfg.RetryBootstrap,
		RetryConsensus:          cfg.RetryConsensus,
		RetryCerts:              cfg.RetryCerts,
		RetryMicrodescs:         cfg.RetryMicrodescs,
		MicrodescParallelism:    cfg.Parallelism,
		MaxMicrodescsPerRequest: cfg.MaxPerRequest,
	}
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// createDefaultConfigFile writes the commented sample config to the provided
// path, creating its directory as needed.
func createDefaultConfigFile(destPath string) error {
	err := os.MkdirAll(filepath.Dir(destPath), 0700)
	if err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte(sampleconfig.NetdirSim()), 0600)
}

// cleanAndExpandPath expands environment variables and a leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// errSuppressUsage signifies that an error that happened during the initial
// configuration phase should suppress the usage output since it was not caused
// by the user.
type errSuppressUsage string

// Error implements the error interface.
func (e errSuppressUsage) Error() string {
	return string(e)
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in netdirsim functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options.  Command line options always take
// precedence.
func loadConfig(appName string, args []string) (*config, []string, error) {
	// Default config.
	cfg := defaultConfig()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
	}

	// Show the version and exit if the version flag was specified.
	funcName := "loadConfig"
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n", appName,
			version.String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	// Create a default config file when one does not exist and the user did
	// not specify an override.
	preCfg.ConfigFile = cleanAndExpandPath(preCfg.ConfigFile)
	if preCfg.ConfigFile == defaultConfigFile && !fileExists(preCfg.ConfigFile) {
		err := createDefaultConfigFile(preCfg.ConfigFile)
		if err != nil {
			str := fmt.Sprintf("Error creating a default config file: %v", err)
			return nil, nil, errSuppressUsage(str)
		}
	}

	// Load additional config from file.
	var configFileError error
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var e *os.PathError
		if !errors.As(err, &e) {
			err = fmt.Errorf("error parsing config file: %w", err)
			return nil, nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("%s: %w", funcName, err)
		return nil, nil, err
	}

	// Validate the simulation options.
	if err := validateConfig(&cfg); err != nil {
		err := fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	// Initialize log rotation.  After log rotation has been initialized, the
	// logger variables may be used.
	if !cfg.NoFileLogging {
		cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := initLogRotator(logFile); err != nil {
			return nil, nil, errSuppressUsage(err.Error())
		}
	}

	// Warn about missing config file only after all other configuration is
	// done.  This prevents the warning on help messages and invalid options.
	// Note this should go directly before the return.
	if configFileError != nil {
		simuLog.Warnf("%v", configFileError)
	}

	return &cfg, remainingArgs, nil
}

// validateConfig returns an error describing the first invalid simulation
// option.
func validateConfig(cfg *config) error {
	switch {
	case cfg.NumRelays <= 0 || cfg.NumRelays > maxNumRelays:
		return fmt.Errorf("the relays option must be in [1, %d] -- parsed "+
			"[%d]", maxNumRelays, cfg.NumRelays)
	case cfg.MeasuredPct < 0 || cfg.MeasuredPct > 100:
		return fmt.Errorf("the measuredpct option must be in [0, 100] -- "+
			"parsed [%d]", cfg.MeasuredPct)
	case cfg.FailPct < 0 || cfg.FailPct >= 100:
		return fmt.Errorf("the failpct option must be in [0, 100) -- "+
			"parsed [%d]", cfg.FailPct)
	case cfg.MaxPerRequest <= 0:
		return fmt.Errorf("the maxperrequest option must be positive -- "+
			"parsed [%d]", cfg.MaxPerRequest)
	case math.IsNaN(cfg.MinUsable) || cfg.MinUsable < 0 || cfg.MinUsable > 1:
		return fmt.Errorf("the minusable option must be in [0, 1] -- "+
			"parsed [%v]", cfg.MinUsable)
	case cfg.NumPicks < 0:
		return fmt.Errorf("the picks option must not be negative -- "+
			"parsed [%d]", cfg.NumPicks)
	case cfg.PathLen < 0:
		return fmt.Errorf("the pathlen option must not be negative -- "+
			"parsed [%d]", cfg.PathLen)
	}
	if cfg.RetryMicrodescs.InitialDelay() > time.Hour {
		return fmt.Errorf("the retrymicrodescs delay must not exceed an "+
			"hour -- parsed [%v]", cfg.RetryMicrodescs.InitialDelay())
	}
	return nil
}
