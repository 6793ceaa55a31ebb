package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rebuildHashes bool
	sendHashes    bool
)

// hashesCmd shows, rebuilds or reports the local mod hash table.
var hashesCmd = &cobra.Command{
	Use:   "hashes",
	Short: "Show the local mod hash table",
	Long: `Prints the persisted name -> SHA-256 table of installed mods as JSON.

Examples:
  # Show the table (created on first use)
  modsync hashes

  # Rescan the mods directory
  modsync hashes --rebuild

  # Report the table to the file server
  modsync hashes --send`,
	Args: cobra.NoArgs,
	RunE: runHashes,
}

func init() {
	hashesCmd.Flags().BoolVar(&rebuildHashes, "rebuild", false, "Rescan the mods directory before printing")
	hashesCmd.Flags().BoolVar(&sendHashes, "send", false, "POST the table to the file server")
	RootCmd.AddCommand(hashesCmd)
}

func runHashes(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.InOrStdin(), cmd.OutOrStdout(), configPath, yesConfirm)
	if err != nil {
		return err
	}
	defer a.close()

	modsDir, err := a.cfg.Paths.ModsDir()
	if err != nil {
		return err
	}

	table, err := a.mods.Hashes(modsDir, rebuildHashes)
	if err != nil {
		return err
	}

	if sendHashes {
		if err := a.mods.SendHashes(cmd.Context(), modsDir); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Sent %d hashes\n", len(table))
		return nil
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode hash table: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}
