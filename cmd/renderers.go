package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/islet/internal/plugins"
	"github.com/conneroisu/islet/internal/server"
)

var renderersCmd = &cobra.Command{
	Use:     "renderers",
	Aliases: []string{"ls"},
	Short:   "List registered renderers in probe order",
	Long: `List every renderer the configuration registers, in the order the
resolver probes them. The built-in template renderer always probes last.`,
	RunE: runRenderers,
}

func init() {
	renderersCmd.Flags().StringP("format", "f", "table", "output format (table, json, yaml)")
	rootCmd.AddCommand(renderersCmd)
}

func runRenderers(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	host := plugins.NewHost(cfg, logger)
	reg, err := host.Setup(cmd.Context())
	if err != nil {
		return err
	}

	infos := server.RendererInfos(reg)

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(infos)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tHYDRATABLE\tFILTERED\tEXTENSIONS\tCLIENT ENTRYPOINT")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%t\t%t\t%v\t%s\n",
				info.Name, info.Hydratable, info.Filtered, info.Extensions, info.ClientEntrypoint)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q (expected table, json, or yaml)", format)
	}
}
