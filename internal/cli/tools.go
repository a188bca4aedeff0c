package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available query tools",
	Long:  `List every query tool the agent can dispatch, with its description.`,
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	if closer, ok := st.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	for _, name := range registry.Names() {
		def := registry.Get(name)
		fmt.Printf("%-32s %s\n", name, def.Description)
	}

	return nil
}
