package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/islet/internal/plugins"
	"github.com/conneroisu/islet/internal/resolver"
	"github.com/conneroisu/islet/internal/server"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Dry-run resolution for a component path",
	Long: `Resolve which renderer would own a component at the given source
path, applying the same directives, filters, and probe order the server
uses at render time.

Examples:
  islet resolve --path src/components/Counter.jsx --directive load
  islet resolve --path src/Widget.svelte --directive only --value svelte`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("path", "", "component source path (required)")
	resolveCmd.Flags().String("directive", "load", "hydration directive (load, idle, visible, media, only)")
	resolveCmd.Flags().String("value", "", "directive payload (media query or renderer name)")
	resolveCmd.Flags().String("export", "", "component export name")
	resolveCmd.Flags().Bool("json", false, "emit JSON instead of text")
	resolveCmd.MarkFlagRequired("path")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	host := plugins.NewHost(cfg, logger)
	reg, err := host.Setup(cmd.Context())
	if err != nil {
		return err
	}

	res := resolver.New(reg, resolver.Options{Logger: logger})

	req := server.ResolveRequest{}
	req.Path, _ = cmd.Flags().GetString("path")
	req.Directive, _ = cmd.Flags().GetString("directive")
	req.Value, _ = cmd.Flags().GetString("value")
	req.Export, _ = cmd.Flags().GetString("export")

	resp := server.DryRun(cmd.Context(), res, req)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if !resp.Matched {
		fmt.Fprintf(os.Stderr, "no renderer matched: %s\n", resp.Error)
		if len(resp.Candidates) > 0 {
			fmt.Fprintf(os.Stderr, "candidates by extension: %v\n", resp.Candidates)
		}
		os.Exit(1)
	}

	fmt.Printf("renderer: %s\n", resp.Renderer)
	if resp.ClientEntrypoint != "" {
		fmt.Printf("client entrypoint: %s\n", resp.ClientEntrypoint)
	}
	fmt.Printf("hydratable: %t\n", resp.Hydratable)

	return nil
}
