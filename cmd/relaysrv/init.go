package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wtask/relay/pkg/semver"
)

type (
	// Flags - command-line overrides of the loaded configuration
	Flags struct {
		// ConfigFile - path to YAML configuration, optional
		ConfigFile string
		// EnvFile - dotenv file, skipped when missing
		EnvFile string
		// Address - TCP listen address
		Address string
		// WebSocketAddress - WebSocket listen address
		WebSocketAddress string
		// LogLevel - debug | info | warn | error
		LogLevel string
	}
)

// version is replaced at build time with -ldflags "-X main.version=..."
var version = "0.4.0-dev"

var (
	// CommandLine - parsed flags
	CommandLine = Flags{EnvFile: ".env"}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Version - app version fingerprint
	Version string
)

func init() {
	out := flag.CommandLine.Output()
	printUsage := func() {
		fmt.Fprintf(out, "Launch text relay server over TCP\n\n\t%s [options]\nOptions:\n\n", BinaryName)
		flag.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	printError := func(msg string) {
		fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, version, msg)
	}

	v, err := semver.Parse(version)
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	Version = v.String()

	help, showVersion := false, false
	flag.BoolVar(&help, "help", false, "Print usage help")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.StringVar(&CommandLine.ConfigFile, "config", "", "YAML configuration file")
	flag.StringVar(&CommandLine.EnvFile, "env-file", CommandLine.EnvFile, "Dotenv file, ignored if it does not exist")
	flag.StringVar(&CommandLine.Address, "addr", "", "TCP listen address, overrides configuration (default 0.0.0.0:5000)")
	flag.StringVar(&CommandLine.WebSocketAddress, "ws-addr", "", "WebSocket listen address, overrides configuration")
	flag.StringVar(&CommandLine.LogLevel, "log-level", "", "Log level: debug, info, warn or error")

	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Fprintf(out, "%s v%s\n", BinaryName, Version)
		os.Exit(0)
	}
	if flag.NArg() > 0 {
		printError(fmt.Sprintf("unexpected arguments: %s", strings.Join(flag.Args(), " ")))
		os.Exit(1)
	}

	fmt.Fprint(out, "TCP relay server is launching, press Ctrl-C to stop...\n")
}
