package main

import (
	"alpenhorn-index/dataindex"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }
func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func main() {
	var configPath string
	var driver string
	var dbPath string
	var dsn string
	var debug bool
	var seedCSV string
	var imports multiFlag
	var node string
	var quarantineDir string

	flag.StringVar(&configPath, "config", "", "YAML config file path.")
	flag.StringVar(&driver, "driver", "sqlite", "Database driver: sqlite or postgres.")
	flag.StringVar(&dbPath, "db", "alpenhorn.db", "SQLite database path.")
	flag.StringVar(&dsn, "dsn", "", "Database DSN (required for postgres).")
	flag.BoolVar(&debug, "debug", false, "Enable debug logs.")
	flag.StringVar(&seedCSV, "seed", "", "Comma-separated seed groups: types, instruments, storage.")
	flag.Var(&imports, "import", "Acquisition directory or glob to import. Can be repeated.")
	flag.StringVar(&node, "node", "", "Storage node holding the imported files.")
	flag.StringVar(&quarantineDir, "quarantine-dir", "", "Directory receiving files that fail validation on import.")
	flag.Parse()

	visited := map[string]bool{}
	flag.CommandLine.Visit(func(f *flag.Flag) {
		visited[f.Name] = true
	})

	// Base config from file (optional)
	fileCfg := &dataindex.FileConfig{}
	if configPath != "" {
		cfg, err := dataindex.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(2)
		}
		fileCfg = cfg
	}

	// Merge config + CLI overrides
	dbCfg := fileCfg.Database
	if dbCfg.Driver == "" || visited["driver"] {
		dbCfg.Driver = driver
	}
	if dbCfg.Path == "" || visited["db"] {
		dbCfg.Path = dbPath
	}
	if visited["dsn"] {
		dbCfg.DSN = dsn
	}
	finalDebug := fileCfg.Debug
	if visited["debug"] {
		finalDebug = debug
	}
	if finalDebug {
		dbCfg.Debug = true
	}
	finalSeed := []string(fileCfg.Seed)
	if visited["seed"] {
		finalSeed = dataindex.SplitSeedList(seedCSV)
	}
	finalImports := fileCfg.Import.Acquisitions
	if visited["import"] {
		finalImports = imports
	}
	finalNode := fileCfg.Import.Node
	if visited["node"] {
		finalNode = node
	}
	finalQuarantine := fileCfg.Import.QuarantineDir
	if visited["quarantine-dir"] {
		finalQuarantine = quarantineDir
	}

	if len(finalSeed) == 0 && len(finalImports) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to do (use --seed and/or --import, or seed/import.acquisitions in config.yaml)")
		os.Exit(2)
	}
	for _, g := range finalSeed {
		if !validSeedGroup(g) {
			fmt.Fprintf(os.Stderr, "unknown seed group %q\n", g)
			os.Exit(2)
		}
	}

	logger, err := newLogger(finalDebug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	idx, err := dataindex.NewIndex(dataindex.IndexConfig{
		Database:      dbCfg,
		Node:          finalNode,
		QuarantineDir: finalQuarantine,
	}, logger)
	if err != nil {
		logger.Fatal("open data index", zap.Error(err))
	}
	defer idx.Close()

	if len(finalSeed) > 0 {
		if err := idx.Seed(finalSeed...); err != nil {
			logger.Fatal("seed", zap.Strings("groups", finalSeed), zap.Error(err))
		}
	}
	if len(finalImports) > 0 {
		if _, err := idx.ImportAll(finalImports); err != nil {
			logger.Fatal("import", zap.Error(err))
		}
	}
}

func validSeedGroup(g string) bool {
	for _, known := range dataindex.SeedGroups() {
		if g == known {
			return true
		}
	}
	return false
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
