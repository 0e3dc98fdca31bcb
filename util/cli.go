package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

type cliFlags struct {
	configPath string
	exiftool   bool
	verbose    bool
	noProgress bool
}

// NewRootCommand builds the docsort command tree.
//
//	docsort organize [--config=file.toml] [--exiftool] [root]
//	docsort categories [--config=file.toml]
//	docsort version
func NewRootCommand() *cobra.Command {
	var flags cliFlags

	root := &cobra.Command{
		Use:           "docsort",
		Short:         "Sort loose documents and photos into year/category folders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "TOML file overriding the built-in category table")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log every classification decision")

	organize := &cobra.Command{
		Use:   "organize [root]",
		Short: "Move every loose file under root into <year>/<category>",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, args, flags)
		},
	}
	organize.Flags().BoolVar(&flags.exiftool, "exiftool", false, "read image dates with the exiftool binary")
	organize.Flags().BoolVar(&flags.noProgress, "no-progress", false, "hide the progress spinner")

	categories := &cobra.Command{
		Use:   "categories",
		Short: "Print the category table in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(flags.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderCategories(cfg))
			return nil
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "docsort", Version)
		},
	}

	root.AddCommand(organize, categories, version)
	return root
}

func runOrganize(cmd *cobra.Command, args []string, flags cliFlags) error {
	cfg, err := LoadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Root = args[0]
	}
	if flags.exiftool {
		cfg.MetadataBackend = BackendExiftool
	}
	cfg.Root, err = resolveRoot(cfg.Root)
	if err != nil {
		return err
	}

	logger := NewLogger(flags.verbose, cmd.ErrOrStderr())
	defer logger.Sync()

	lock, err := AcquireRunLock(cfg.Root)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("could not release run lock", zap.Error(err))
		}
	}()

	var dates DateReader = ExifReader{}
	if cfg.MetadataBackend == BackendExiftool {
		et, err := NewExiftoolReader()
		if err != nil {
			logger.Warn("exiftool unavailable, using built-in EXIF decoder", zap.Error(err))
		} else {
			defer et.Close()
			dates = et
		}
	}

	org, err := NewOrganizer(cfg,
		WithLogger(logger),
		WithDateReader(dates),
		WithProgress(NewProgress(!flags.noProgress)),
	)
	if err != nil {
		return err
	}

	report, err := org.Organize(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), report.Render())
	return err
}

// resolveRoot makes dir absolute and checks that it is an existing directory.
func resolveRoot(dir string) (string, error) {
	if dir == "" {
		return "", errors.New("no root directory given (pass it as an argument or set root in the config file)")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("directory %s does not exist", dir)
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}
	return abs, nil
}

// NewLogger returns the console logger used by the CLI: human readable,
// written to w, no stack traces, Debug level when verbose.
func NewLogger(verbose bool, w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core, zap.AddCaller())
}
