package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"modsync/core/apperr"
	"modsync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	updateMods     bool
	updateShaders  bool
	zipModsDir     string
	clearCache     bool
	downloadLoader bool
	yesConfirm     bool
	configPath     string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "modsync",
	Short: "Keep local Minecraft mods in sync with the server",
	Long: `modsync downloads the server's mod pack and brings your local mods
directory in line with it, asking before anything is deleted.

Without action flags an interactive menu is shown.

Examples:
  # Update mods, then shaders
  modsync -m -s

  # Build a mod pack from a directory of jars
  modsync --zip-mods ./mods dist/ModPack.zip

  # Non-interactive update (approve every prompt)
  modsync --update-mods --yes`,
	Args:          zipModsArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the running
// operation; a cancelled run exits 0.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}
	if apperr.IsCancelled(err) {
		fmt.Println("Quitting...")
		return
	}

	// Console format with the development config gives readable timestamps.
	cfg := &logger.Config{
		Level:  "debug",
		Format: "console",
	}

	l, logErr := logger.New(cfg)
	if logErr == nil {
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
	} else {
		fmt.Println(err)
	}
	os.Exit(1)
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory holding .env and modsync.yaml")
	RootCmd.PersistentFlags().BoolVarP(&yesConfirm, "yes", "y", false, "Auto-confirm every prompt (non-interactive)")

	f := RootCmd.Flags()
	f.BoolVarP(&updateMods, ActionUpdateMods.Flag(), "m", false, ActionUpdateMods.Help())
	f.BoolVarP(&updateShaders, ActionUpdateShaders.Flag(), "s", false, ActionUpdateShaders.Help())
	f.StringVar(&zipModsDir, ActionZipMods.Flag(), "", ActionZipMods.Help())
	f.BoolVar(&downloadLoader, ActionDownloadLoader.Flag(), false, ActionDownloadLoader.Help())
	f.BoolVar(&clearCache, ActionClearCache.Flag(), false, ActionClearCache.Help())
}

// zipModsArgs accepts the FILE operand of --zip-mods DIR FILE and nothing else.
func zipModsArgs(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed(ActionZipMods.Flag()) {
		if len(args) != 1 {
			return errors.New("--zip-mods requires DIR FILE")
		}
		return nil
	}
	return cobra.NoArgs(cmd, args)
}

func runRoot(cmd *cobra.Command, args []string) error {
	selected := selectedActions(flagState{
		updateMods:     updateMods,
		updateShaders:  updateShaders,
		zipMods:        cmd.Flags().Changed(ActionZipMods.Flag()),
		downloadLoader: downloadLoader,
		clearCache:     clearCache,
	})

	a, err := newApp(cmd.InOrStdin(), cmd.OutOrStdout(), configPath, yesConfirm)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if len(selected) == 0 {
		return a.menu(ctx)
	}

	for _, action := range selected {
		var err error
		if action == ActionZipMods {
			err = a.zipMods(ctx, zipModsDir, args[0])
		} else {
			err = a.run(ctx, action)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
