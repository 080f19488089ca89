// Copyright 2025 The appsort Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the app list ordering server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

appsort keeps a catalog of applications sorted for a launcher menu. Items are
ordered by transliteration, grouped by first letter, or by category, and can
be filtered with fixed string, wildcard, regular expression or fuzzy patterns
that match display names, transliterations and phonetic initials.

# Usage

Start the server with the catalog found in the config dir:

	appsort

Use a specific catalog and enable debug mode:

	appsort -catalog /path/to/catalog.toml -d

Run in CLI mode, sorted by category:

	appsort -c -mode category

# Catalogs

A catalog is a TOML file with [[item]] tables, a msgpack array (.msgpack or
.bin) or a tab separated text file with the columns name, transliteration,
category and comma separated initials.

	[[item]]
	id = "browser"
	name = "浏览器"
	transliterated = "liulanqi"
	category = "Internet"
	initials = ["l", "l", "q"]

# Configuration

Runtime configuration is read from config.toml in the user config dir and
created with defaults when missing:

	[view]
	default_mode = "alphabetic"
	default_syntax = "fixed"

	[server]
	max_limit = 256
	max_pattern = 128

	[catalog]
	path = "catalog.toml"

	[cli]
	default_limit = 40
	show_sections = true

# IPC Protocol

The server communicates via MessagePack over stdin/stdout, see package
server for the message types.

	{"id": "r1", "p": "q,n", "l": 20}
	{"id": "r2", "action": "mode", "m": "category"}

# Command Line Flags

	-catalog string
	    Catalog file (default from config, then catalog.* in the config dir)
	-config string
	    Config file (default [UserConfigDir]/appsort/config.toml)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-mode string
	    Initial ordering: alphabetic or category
	-syntax string
	    Initial pattern syntax: fixed, wildcard, regexp or fuzzy
	-limit int
	    Rows printed per query in CLI mode
	-init-config
	    Write a default config file and exit
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/appsort/internal/cli"
	"github.com/bastiangx/appsort/internal/logger"
	"github.com/bastiangx/appsort/internal/utils"
	"github.com/bastiangx/appsort/pkg/catalog"
	"github.com/bastiangx/appsort/pkg/config"
	"github.com/bastiangx/appsort/pkg/match"
	"github.com/bastiangx/appsort/pkg/order"
	"github.com/bastiangx/appsort/pkg/server"
	"github.com/bastiangx/appsort/pkg/view"
)

const (
	Version = "0.1.0-beta"
	AppName = "appsort"
	gh      = "https://github.com/bastiangx/appsort"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the catalog, view and front end together. It does not
// implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	catalogPath := flag.String("catalog", "", "Catalog file (.toml, .msgpack, .bin, .tsv, .txt)")
	configPath := flag.String("config", "", "Config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	modeName := flag.String("mode", "", "Initial ordering: alphabetic or category (default from config)")
	syntaxName := flag.String("syntax", "", "Pattern syntax: fixed, wildcard, regexp or fuzzy (default from config)")
	limit := flag.Int("limit", 0, "Rows printed per query in CLI mode (default from config)")
	initConfig := flag.Bool("init-config", false, "Write a default config file and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *initConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		log.Infof("Wrote default config to %s", path)
		return
	}

	appConfig, usedConfigPath := config.LoadConfigWithPriority(*configPath)
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedConfigPath))

	mode := appConfig.Mode()
	if *modeName != "" {
		m, err := order.ParseMode(*modeName)
		if err != nil {
			log.Fatalf("Invalid -mode: %v", err)
		}
		mode = m
	}
	syntax := appConfig.Syntax()
	if *syntaxName != "" {
		s, err := match.ParseSyntax(*syntaxName)
		if err != nil {
			log.Fatalf("Invalid -syntax: %v", err)
		}
		syntax = s
		appConfig.View.DefaultSyntax = syntax.String()
	}

	resolved, err := appConfig.CatalogPath(*catalogPath, usedConfigPath)
	if err != nil {
		log.Fatalf("No catalog found (tried %v in the working, config and executable dirs): %v", utils.CatalogNames, err)
	}
	cat, err := catalog.Open(resolved)
	if err != nil {
		log.Fatalf("Failed to load catalog %s: %v", resolved, err)
	}
	stats := cat.GetStats()
	log.Debugf("Loaded %s items (%d indexed) in %d categories from %s",
		utils.FormatWithCommas(stats.Items), stats.Indexed, stats.Categories, stats.Path)

	v := view.New(cat, view.WithMode(mode), view.WithPattern(match.Pattern{Syntax: syntax}))

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		rows := appConfig.CLI.DefaultLimit
		if *limit > 0 {
			rows = *limit
		}
		inputHandler := cli.NewInputHandler(v, cat, syntax, rows, appConfig.CLI.ShowSections)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(v, cat, appConfig)
	showStartupInfo(stats)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ appsort ] Sorts and filters app lists for launchers")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(stats catalog.Stats) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	banner := lipgloss.NewStyle().Bold(true).Render(" " + AppName + " ")
	fmt.Fprintln(os.Stderr, banner)
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("catalog: ( %s ) %s items", stats.Path, utils.FormatWithCommas(stats.Items))
	log.Info("status: ready")
}
