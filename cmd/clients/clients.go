// Package clients implements the clients command, which shows the roster a
// run would use.
package clients

import (
	"fmt"

	"github.com/spf13/cobra"

	"mydata/epsilon-export/cmd/root"
	"mydata/epsilon-export/internal/clientdb"
)

// Cmd represents the clients command
var Cmd = &cobra.Command{
	Use:   "clients",
	Short: "Load or discover the client roster and report what was found",
	Long: `Load the roster given by --clientdb, or discover the best candidate under the
client database and data directories, and print its path and size.`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	cfg := root.GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not initialized")
	}

	path := root.SharedFlags.ClientDB
	if path == "" {
		found, ok := clientdb.Discover(cfg.Paths.ClientDBDir, cfg.Paths.DataDir)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "no client roster found under %s or %s\n", cfg.Paths.ClientDBDir, cfg.Paths.DataDir)
			return nil
		}
		path = found
	}

	cm, err := clientdb.NewLoader(root.GetLogger()).Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d clients, %d ids, %d names\n", path, cm.Len(), len(cm.IDs), len(cm.Names))
	return nil
}
