// Package cli implements budgetctl, an offline maintenance tool over the
// durable local store.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/kvstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/localstore"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/logger"
)

type options struct {
	configPath string
	dataPath   string
	prefix     string
}

// Execute is the entry point called from cmd/budgetctl.
func Execute() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "budgetctl",
		Short:        "Inspect and maintain locally stored budget data",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", ConfigPath(), "Config file")
	root.PersistentFlags().StringVarP(&opts.dataPath, "data", "d", "", "Local store file (overrides config)")
	root.PersistentFlags().StringVar(&opts.prefix, "prefix", "", "Storage key prefix (overrides config)")

	root.AddCommand(
		newStatusCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newSettingsCmd(opts),
	)
	return root
}

// openStore opens the durable store named by the config and flags. The
// caller must call the returned close function.
func (o *options) openStore() (*localstore.Store, func(), error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.dataPath != "" {
		cfg.Storage.DataPath = o.dataPath
	}
	if o.prefix != "" {
		cfg.Storage.Prefix = o.prefix
	}
	if cfg.Storage.DataPath == "" {
		return nil, nil, fmt.Errorf("no local store configured")
	}

	durable, err := kvstore.OpenSQLite(cfg.Storage.DataPath)
	if err != nil {
		return nil, nil, err
	}
	store := localstore.New(durable, kvstore.NewMemory(), localstore.WithPrefix(cfg.Storage.Prefix))
	return store, func() { _ = durable.Close() }, nil
}
