package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PentesterFlow/AppAtlas/internal/ingest"
	"github.com/PentesterFlow/AppAtlas/internal/logger"
	"github.com/PentesterFlow/AppAtlas/internal/normalize"
	"github.com/PentesterFlow/AppAtlas/internal/report"
	"github.com/PentesterFlow/AppAtlas/internal/store"
	"github.com/PentesterFlow/AppAtlas/pkg/catalog"
)

var (
	version = "1.0.0"

	// Global flags
	configFile string
	verbose    bool
	debug      bool

	// Merge flags
	jadxFile       string
	apkleaksFile   string
	mobsfFile      string
	staticFile     string
	dynamicFile    string
	componentsFile string
	mergeOutput    string
	mergeDB        string
	mergeLabel     string
	mergePretty    bool

	// Diff flags
	diffDB     string
	diffOutput string

	// Report flags
	reportDB string

	// Snapshot flags
	snapshotsDB string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "appatlas",
		Short: "AppAtlas - Mobile App Endpoint Catalog",
		Long: `AppAtlas - Aggregates endpoint observations about a mobile application
into a deduplicated, risk-annotated catalog.

Consumes structured results from static analysis (decompiled-code string
scanning), dynamic analysis (captured runtime traffic), and exported-component
probing, and supports comparing catalogs taken at different times.`,
		Version: version,
	}

	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge analysis results into a catalog",
		Long:  "Fold static, dynamic, and component analysis results into one endpoint catalog.",
		RunE:  runMerge,
	}

	diffCmd := &cobra.Command{
		Use:   "diff [old] [new]",
		Short: "Compare two catalogs",
		Long:  "Compare the endpoint signature sets of two catalogs (files, or snapshot labels with --db).",
		Args:  cobra.ExactArgs(2),
		RunE:  runDiff,
	}

	reportCmd := &cobra.Command{
		Use:   "report [catalog]",
		Short: "Summarize a catalog",
		Long:  "Print a summary of a stored catalog: distributions, registered domains, high-risk endpoints.",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}

	snapshotsCmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List stored catalog snapshots",
		RunE:  runSnapshots,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug mode")

	// Merge flags
	mergeCmd.Flags().StringVar(&jadxFile, "jadx", "", "Decompiler string scan result (JSON)")
	mergeCmd.Flags().StringVar(&apkleaksFile, "apkleaks", "", "APKLeaks scan result (JSON)")
	mergeCmd.Flags().StringVar(&mobsfFile, "mobsf", "", "MobSF scan result (JSON)")
	mergeCmd.Flags().StringVar(&staticFile, "static", "", "Pre-merged static analysis result (JSON)")
	mergeCmd.Flags().StringVar(&dynamicFile, "dynamic", "", "Captured traffic flows (JSON)")
	mergeCmd.Flags().StringVar(&componentsFile, "components", "", "Component enumeration result (JSON)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "catalog.json", "Output catalog file")
	mergeCmd.Flags().StringVar(&mergeDB, "db", "", "Snapshot database file")
	mergeCmd.Flags().StringVar(&mergeLabel, "label", "", "Snapshot label (default: generated)")
	mergeCmd.Flags().BoolVar(&mergePretty, "pretty", true, "Pretty-print the catalog JSON")

	// Diff flags
	diffCmd.Flags().StringVar(&diffDB, "db", "", "Snapshot database (arguments become labels)")
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "", "Write the diff as JSON to a file")

	// Report flags
	reportCmd.Flags().StringVar(&reportDB, "db", "", "Snapshot database (argument becomes a label)")

	// Snapshot flags
	snapshotsCmd.Flags().StringVar(&snapshotsDB, "db", "", "Snapshot database file")
	cobra.CheckErr(snapshotsCmd.MarkFlagRequired("db"))

	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(snapshotsCmd)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildConfig() (*catalog.Config, error) {
	config := catalog.DefaultConfig()
	if configFile != "" {
		fileConfig, err := catalog.LoadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		config = fileConfig
	}
	config.Verbose = verbose
	config.Debug = debug
	return config, nil
}

func setupLogger(config *catalog.Config) *logger.Logger {
	level := logger.WarnLevel
	if config.Verbose {
		level = logger.InfoLevel
	}
	if config.Debug {
		level = logger.DebugLevel
	}

	log := logger.New(logger.Config{
		Level:  level,
		Pretty: true,
	})
	logger.SetGlobal(log)
	return log
}

func runMerge(cmd *cobra.Command, args []string) error {
	config, err := buildConfig()
	if err != nil {
		return err
	}
	log := setupLogger(config)

	// Flags the user set win over the config file; otherwise the file's
	// output and snapshot sections apply.
	outputPath := mergeOutput
	if !cmd.Flags().Changed("output") && config.Output.FilePath != "" {
		outputPath = config.Output.FilePath
	}
	pretty := mergePretty
	if !cmd.Flags().Changed("pretty") {
		pretty = config.Output.Pretty
	}
	dbPath := mergeDB
	if dbPath == "" && config.Snapshots.Enabled {
		dbPath = config.Snapshots.DBPath
	}
	snapshotLabel := mergeLabel
	if snapshotLabel == "" {
		snapshotLabel = config.Snapshots.Label
	}

	engine, err := catalog.New(
		catalog.WithConfig(config),
		catalog.WithLogger(log.WithComponent("engine")),
	)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	staticResult, err := loadStaticInputs(config)
	if err != nil {
		return err
	}
	if staticResult != nil {
		engine.IngestStatic(staticResult)
	}

	if dynamicFile != "" {
		flows, err := ingest.LoadDynamic(dynamicFile)
		if err != nil {
			return fmt.Errorf("failed to load dynamic flows: %w", err)
		}
		engine.IngestDynamic(flows)
	}

	if componentsFile != "" {
		components, err := ingest.LoadComponents(componentsFile)
		if err != nil {
			return fmt.Errorf("failed to load component results: %w", err)
		}
		engine.IngestComponents(components)
	}

	stats := engine.Stats()
	cat, err := engine.Finalize()
	if err != nil {
		return err
	}

	fileStore := store.NewFileStore(pretty)
	if err := fileStore.Save(cat, outputPath); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	log.PersistEvent("save", outputPath, len(cat.Entries))

	if dbPath != "" {
		if err := saveSnapshot(cat, dbPath, snapshotLabel); err != nil {
			return err
		}
	}

	fmt.Printf("Catalog written to %s\n", outputPath)
	fmt.Printf("Observations: %d  Skipped: %d\n", stats.Observations, stats.Skipped)
	report.WriteCatalogSummary(os.Stdout, cat)

	return nil
}

// loadStaticInputs resolves the static side of a merge: either a
// pre-merged result, or raw tool outputs unified here. Missing inputs
// simply contribute nothing.
func loadStaticInputs(config *catalog.Config) (*ingest.StaticResult, error) {
	if staticFile != "" {
		result, err := ingest.LoadStatic(staticFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load static result: %w", err)
		}
		return result, nil
	}

	var tools []ingest.NamedTool
	for _, in := range []struct {
		name string
		path string
	}{
		{"jadx", jadxFile},
		{"apkleaks", apkleaksFile},
		{"mobsf", mobsfFile},
	} {
		if in.path == "" {
			continue
		}
		result, err := ingest.LoadTool(in.path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s result: %w", in.name, err)
		}
		tools = append(tools, ingest.NamedTool{Name: in.name, Result: result})
	}

	if len(tools) == 0 {
		return nil, nil
	}

	extractor := normalize.NewExtractor(config.ParamStoplist)
	return ingest.MergeTools(extractor, tools...), nil
}

func saveSnapshot(cat *catalog.Catalog, dbPath, label string) error {
	snapshots, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer snapshots.Close()

	name := label
	if name == "" {
		name = fmt.Sprintf("scan-%d", int64(cat.Metadata.GeneratedAt))
	}

	if err := snapshots.Save(name, cat); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	fmt.Printf("Snapshot %q stored in %s\n", name, dbPath)
	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	config, err := buildConfig()
	if err != nil {
		return err
	}
	setupLogger(config)

	oldCat, newCat, err := loadDiffInputs(args[0], args[1])
	if err != nil {
		return err
	}

	result := catalog.Diff(oldCat, newCat)
	report.WriteDiffSummary(os.Stdout, result)

	if diffOutput != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal diff: %w", err)
		}
		if err := os.WriteFile(diffOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write diff: %w", err)
		}
		fmt.Printf("Diff written to %s\n", diffOutput)
	}

	return nil
}

func loadDiffInputs(oldRef, newRef string) (*catalog.Catalog, *catalog.Catalog, error) {
	if diffDB != "" {
		snapshots, err := store.NewBoltStore(diffDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open snapshot database: %w", err)
		}
		defer snapshots.Close()

		oldCat, err := snapshots.Load(oldRef)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load snapshot %q: %w", oldRef, err)
		}
		newCat, err := snapshots.Load(newRef)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load snapshot %q: %w", newRef, err)
		}
		return oldCat, newCat, nil
	}

	fileStore := store.NewFileStore(false)
	oldCat, err := fileStore.Load(oldRef)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog %s: %w", oldRef, err)
	}
	newCat, err := fileStore.Load(newRef)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog %s: %w", newRef, err)
	}
	return oldCat, newCat, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	config, err := buildConfig()
	if err != nil {
		return err
	}
	setupLogger(config)

	var cat *catalog.Catalog
	if reportDB != "" {
		snapshots, err := store.NewBoltStore(reportDB)
		if err != nil {
			return fmt.Errorf("failed to open snapshot database: %w", err)
		}
		defer snapshots.Close()

		cat, err = snapshots.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load snapshot %q: %w", args[0], err)
		}
	} else {
		fileStore := store.NewFileStore(false)
		cat, err = fileStore.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	report.WriteCatalogSummary(os.Stdout, cat)
	return nil
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	snapshots, err := store.NewBoltStore(snapshotsDB)
	if err != nil {
		return fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer snapshots.Close()

	labels, err := snapshots.Labels()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(labels) == 0 {
		fmt.Println("No snapshots stored")
		return nil
	}

	for _, l := range labels {
		fmt.Println(l)
	}
	return nil
}
