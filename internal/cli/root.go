// Package cli implements the catbuffer command: decoding payloads against the
// schema registry, inspecting the schema and deriving addresses.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Vladimir7280/catbuffer-typescript-sub001/catalog"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/internal/config"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/schema"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string

	cfg *config.Config
	log *zap.Logger
	reg *schema.Registry
}

// NewRootCommand builds the command tree. Each call has its own configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "catbuffer",
		Short: "Decode and inspect catbuffer payloads",
		Long: `catbuffer decodes Symbol transactions, receipts and schema structs from their
binary form and prints their fields. Extra schema tables extend the built-in one.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configFile, "config", "", "configuration file path")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.StringSlice("schema", nil, "extra schema YAML tables")
	f.String("format", "", "output format: json or yaml")
	_ = a.v.BindPFlag("log.level", f.Lookup("log-level"))
	_ = a.v.BindPFlag("schema.files", f.Lookup("schema"))
	_ = a.v.BindPFlag("output.format", f.Lookup("format"))

	root.AddCommand(
		a.decodeCommand(),
		a.schemaCommand(),
		a.addressCommand(),
		versionCommand(),
	)
	return root
}

// Execute runs the command line and exits on failure. It is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	log, err := cfg.Log.Logger()
	if err != nil {
		return err
	}

	extra := make([][]byte, 0, len(cfg.Schema.Files))
	for _, path := range cfg.Schema.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("schema table: %w", err)
		}
		extra = append(extra, data)
	}
	reg := schema.NewRegistry(schema.WithLogger(log.Named("schema")))
	if err := catalog.Load(reg, extra...); err != nil {
		return err
	}
	log.Debug("schema loaded",
		zap.Int("transactions", len(reg.Bodies(schema.Transactions))),
		zap.Int("receipts", len(reg.Bodies(schema.Receipts))),
		zap.Strings("extra", cfg.Schema.Files))

	a.cfg, a.log, a.reg = cfg, log, reg
	return nil
}
