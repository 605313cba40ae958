// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/uplcd/internal/log"
	"github.com/btcsuite/uplcd/internal/version"
	"github.com/btcsuite/uplcd/phasetwo"
	"github.com/btcsuite/uplcd/uplc"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogFilename = "uplceval.log"
	defaultLogLevel    = "info"
	defaultLanguage    = "v3"
)

var (
	uplcevalHomeDir = btcutil.AppDataDir("uplceval", false)
	defaultLogDir   = filepath.Join(uplcevalHomeDir, "logs")

	knownLanguages = map[string]uplc.Language{
		"v1": uplc.LanguageV1,
		"v2": uplc.LanguageV2,
		"v3": uplc.LanguageV3,
	}
)

// config defines the configuration options for uplceval.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion   bool   `short:"V" long:"version" description:"Display version information and exit"`
	LogDir        string `long:"logdir" description:"Directory to log output"`
	NoFileLogging bool   `long:"nofilelogging" description:"Disable file logging"`
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	Language      string `short:"l" long:"language" description:"Plutus language of the script {v1, v2, v3}"`
	CostModels    string `long:"costmodels" description:"File holding a CBOR cost model table -- the default cost model is used if not set"`
	CPU           uint64 `long:"cpu" description:"CPU budget of the evaluation"`
	Mem           uint64 `long:"mem" description:"Memory budget of the evaluation"`
	NoTrace       bool   `long:"notrace" description:"Discard messages traced by the script"`

	language uplc.Language
}

// budget returns the configured evaluation budget.
func (c *config) budget() uplc.ExBudget {
	return uplc.ExBudget{CPU: c.CPU, Mem: c.Mem}
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	return log.ValidLogLevel(logLevel)
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !validLogLevel(debugLevel) {
			str := "The specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}

		// Change the logging level for all subsystems.
		log.SetLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "The specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := log.SubsystemLoggers[subsysID]; !exists {
			str := "The specified subsystem [%v] is invalid -- " +
				"supported subsystems %v"
			return fmt.Errorf(str, subsysID, log.SupportedSubsystems())
		}

		// Validate log level.
		if !validLogLevel(logLevel) {
			str := "The specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}

		log.SetLogLevel(subsysID, logLevel)
	}

	return nil
}

// loadConfig initializes and parses the config using command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Override with any specified command line options
//
// The remaining command line arguments name the command and its operands.
func loadConfig() (*config, []string, error) {
	// Default config.
	cfg := config{
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
		Language:   defaultLanguage,
		CPU:        phasetwo.DefaultBudget.CPU,
		Mem:        phasetwo.DefaultBudget.Mem,
	}

	// Parse command line options.
	parser := flags.NewParser(&cfg, flags.Default)
	parser.Usage = "[OPTIONS] eval <script> [data...] | apply <params> <script>"
	remainingArgs, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	if cfg.ShowVersion {
		fmt.Println(appName, "version", version.String())
		os.Exit(0)
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", log.SupportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation.  After log rotation has been initialized,
	// the logger variables may be used.
	if !cfg.NoFileLogging {
		logFile := filepath.Join(cleanAndExpandPath(cfg.LogDir),
			defaultLogFilename)
		if err := log.InitLogRotator(logFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("loadConfig: %v", err)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	// Validate the script language.
	lang, ok := knownLanguages[strings.ToLower(cfg.Language)]
	if !ok {
		str := "loadConfig: The specified language [%v] is invalid -- " +
			"supported languages v1, v2, v3"
		err := fmt.Errorf(str, cfg.Language)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}
	cfg.language = lang

	if cfg.CostModels != "" {
		cfg.CostModels = cleanAndExpandPath(cfg.CostModels)
	}

	if len(remainingArgs) == 0 {
		err := fmt.Errorf("loadConfig: no command specified")
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	return &cfg, remainingArgs, nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(uplcevalHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
