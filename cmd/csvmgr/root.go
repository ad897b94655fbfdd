// Root command for the csvmgr CLI.
package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/csvmgr/internal/paths"
	"github.com/mesh-intelligence/csvmgr/pkg/csvmgr"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	dataFile  string
	backupDir string
	logLevel  string
	jsonMode  bool
}

// app is the state shared by every command of one invocation.
type app struct {
	flags  rootFlags
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	settings settings
	log      *zap.Logger
}

// newRootCmd creates the top-level "csvmgr" command with global flags and
// all subcommands registered. Without a subcommand it starts the menu.
func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "csvmgr",
		Short: "Manage a CSV record file from the terminal",
		Long: `csvmgr keeps a collection of records in a single CSV file.

Records get ascending integer ids. The file can be viewed, searched,
edited, backed up, and exported to or imported from JSON, either through
the interactive menu (the default) or through subcommands.`,
		Version:           csvmgr.Version,
		Args:              usageArgs(cobra.NoArgs),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
		RunE:              a.runMenu,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/csvmgr)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: ~/Documents/CSVManager)")
	pf.StringVar(&a.flags.dataFile, "data-file", "", "CSV data file, relative to the data directory (default: "+paths.DefaultDataFileName+")")
	pf.StringVar(&a.flags.backupDir, "backup-dir", "", "backup directory, relative to the data directory (default: "+paths.DefaultBackupDir+")")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")

	root.AddCommand(
		newMenuCmd(a),
		newViewCmd(a),
		newFindCmd(a),
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newBackupCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newEraseCmd(a),
		newInitCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup resolves the configuration directory, loads config.yaml, and builds
// the logger. It runs before every subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return ioError("resolve config dir", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	s, err := resolveSettings(configDir, v, a.flags)
	if err != nil {
		return err
	}
	a.settings = s

	logger, err := newLogger(s)
	if err != nil {
		return err
	}
	a.log = logger.With(zap.String("command", cmd.Name()))
	return nil
}
