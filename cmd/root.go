package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cspmconsole/config"
	"cspmconsole/database"
	"cspmconsole/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile          string
	dbPathFlag       string
	appLogPathFlag   string
	auditLogPathFlag string
	logLevelFlag     string
)

func expandTildeCmd(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

var rootCmd = &cobra.Command{
	Use:   "cspmconsole",
	Short: "Cloud security posture management admin console",
	Long: `cspmconsole is the administrative console for the CSPM platform: an API
server over the posture database (assets, vulnerabilities, threats, compliance,
policies, reports, tenants, users) plus a terminal client for browsing and
exporting the same data.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile, appLogPathFlag, auditLogPathFlag, logLevelFlag); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		finalDBPath := dbPathFlag
		if finalDBPath == "" {
			finalDBPath = config.AppConfig.Database.Path
		}
		expanded, err := expandTildeCmd(finalDBPath)
		if err != nil {
			logger.Error("Could not expand tilde in database path '%s': %v. Using it verbatim.", finalDBPath, err)
		} else {
			finalDBPath = expanded
		}
		if finalDBPath == "" {
			finalDBPath = config.GetDefaultConfigPaths().DBPath
		}

		if err := database.InitDB(finalDBPath); err != nil {
			return fmt.Errorf("failed to initialize database at %s: %w", finalDBPath, err)
		}
		logger.Info("Database ready at %s", finalDBPath)
		return nil
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/cspmconsole/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "dbpath", "", "path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&appLogPathFlag, "log-path", "", "path to the application log file")
	rootCmd.PersistentFlags().StringVar(&auditLogPathFlag, "audit-log-path", "", "path to the audit log file")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
}
