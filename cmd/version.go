package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/islet/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(version.Get())
		}
		if detailed, _ := cmd.Flags().GetBool("detailed"); detailed {
			fmt.Println(version.Detailed())
			return nil
		}
		fmt.Println("islet", version.Short())
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("detailed", false, "print full build information")
	versionCmd.Flags().Bool("json", false, "emit JSON instead of text")
	rootCmd.AddCommand(versionCmd)
}
