package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"cspmconsole/client"
	"cspmconsole/config"

	"github.com/spf13/cobra"
)

var (
	exportURLFlag     string
	exportDoctype     string
	exportOutDir      string
	exportFilterFlags []string
	exportEmail       string
	exportPassword    string
)

var exportCmd = &cobra.Command{
	Use:   "export <resource>",
	Short: "Download a resource export from a running server",
	Long: `Downloads one resource table as xlsx, pdf, or csv. Filters use the list
endpoints' query syntax, e.g. --filter severity=high --filter name_search=prod.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resource := args[0]
		baseURL := exportURLFlag
		if baseURL == "" {
			baseURL = config.AppConfig.Client.BaseURL
		}
		if baseURL == "" {
			baseURL = "http://localhost:" + config.AppConfig.Server.Port
		}

		api := client.New(baseURL)
		if _, err := api.Login(cmd.Context(), exportEmail, exportPassword); err != nil {
			return err
		}

		q := url.Values{}
		q.Set("doctype", exportDoctype)
		for _, kv := range exportFilterFlags {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) != 2 {
				return fmt.Errorf("invalid --filter %q, expected key=value", kv)
			}
			q.Set(parts[0], parts[1])
		}

		target := "/api/" + resource + "/export?" + q.Encode()
		path, err := api.DownloadExport(cmd.Context(), target, exportOutDir, resource, exportDoctype,
			func(written, total int64) {
				if total > 0 {
					fmt.Printf("\r%d%%", written*100/total)
				}
			})
		fmt.Println()
		if err != nil {
			return err
		}
		fmt.Println("saved", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportURLFlag, "url", "", "base URL of the console API server")
	exportCmd.Flags().StringVar(&exportDoctype, "doctype", "xlsx", "export format: xlsx, pdf, or csv")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "output directory")
	exportCmd.Flags().StringArrayVar(&exportFilterFlags, "filter", nil, "query filter key=value (repeatable)")
	exportCmd.Flags().StringVar(&exportEmail, "email", "", "login email")
	exportCmd.Flags().StringVar(&exportPassword, "password", "", "login password")
	exportCmd.MarkFlagRequired("email")
	exportCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(exportCmd)
}
