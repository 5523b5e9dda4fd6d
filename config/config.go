package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cspmconsole/logger"

	"github.com/spf13/viper"
)

type DefaultPaths struct {
	ConfigDir     string
	StateFilePath string
	LogPathApp    string
	LogPathAudit  string
	DBPath        string
	LogLevel      string
}

type Configuration struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Server struct {
		Port           string   `mapstructure:"port"`
		LogPath        string   `mapstructure:"log_path"`
		AuditLogPath   string   `mapstructure:"audit_log_path"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`
	Auth struct {
		JWTSecret        string `mapstructure:"jwt_secret"`
		AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
		RefreshTTLHours  int    `mapstructure:"refresh_ttl_hours"`
		SSOLogoutURL     string `mapstructure:"sso_logout_url"`
		CookieSecure     bool   `mapstructure:"cookie_secure"`
	} `mapstructure:"auth"`
	Client struct {
		BaseURL                 string `mapstructure:"base_url"`
		StatePath               string `mapstructure:"state_path"`
		TenantFetchRetries      int    `mapstructure:"tenant_fetch_retries"`
		TenantFetchRetryDelayMS int    `mapstructure:"tenant_fetch_retry_delay_ms"`
	} `mapstructure:"client"`
	Scheduler struct {
		Enabled         bool `mapstructure:"enabled"`
		IntervalSeconds int  `mapstructure:"interval_seconds"`
	} `mapstructure:"scheduler"`
	Export struct {
		MaxRows int `mapstructure:"max_rows"`
	} `mapstructure:"export"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

var AppConfig Configuration

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func GetDefaultConfigPaths() DefaultPaths {
	var paths DefaultPaths
	userConfigDirBase, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not get user config dir: %v. Using current directory.\n", err)
		userConfigDirBase = "."
	}

	userConfigDir, err := expandTilde(userConfigDirBase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in user config dir '%s': %v. Using potentially literal path.\n", userConfigDirBase, err)
		userConfigDir = userConfigDirBase
	}

	paths.ConfigDir = filepath.Join(userConfigDir, "cspmconsole")
	logDir := filepath.Join(paths.ConfigDir, "logs")

	paths.StateFilePath = filepath.Join(paths.ConfigDir, "session_state.json")
	paths.LogPathApp = filepath.Join(logDir, "app.log")
	paths.LogPathAudit = filepath.Join(logDir, "audit.log")
	paths.DBPath = filepath.Join(paths.ConfigDir, "console.db")
	paths.LogLevel = "INFO"
	return paths
}

// Init loads configuration from file/env/flags and re-initializes the loggers
// with the final settings. Flag values take precedence over the config file.
func Init(cfgFile string, flagAppLogPath, flagAuditLogPath, flagLogLevel string) error {
	v := viper.New()

	defaults := GetDefaultConfigPaths()
	v.SetDefault("database.path", defaults.DBPath)
	v.SetDefault("server.port", "8680")
	v.SetDefault("server.log_path", defaults.LogPathApp)
	v.SetDefault("server.audit_log_path", defaults.LogPathAudit)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_ttl_minutes", 15)
	v.SetDefault("auth.refresh_ttl_hours", 24*7)
	v.SetDefault("auth.sso_logout_url", "")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("client.base_url", "http://localhost:8680")
	v.SetDefault("client.state_path", defaults.StateFilePath)
	v.SetDefault("client.tenant_fetch_retries", 5)
	v.SetDefault("client.tenant_fetch_retry_delay_ms", 2000)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval_seconds", 60)
	v.SetDefault("export.max_rows", 50000)
	v.SetDefault("logging.level", defaults.LogLevel)

	if cfgFile != "" {
		expandedCfgFile, err := expandTilde(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in config file path '%s': %v. Trying original path.\n", cfgFile, err)
			expandedCfgFile = cfgFile
		}
		v.SetConfigFile(expandedCfgFile)
		v.SetConfigType("yaml")
	} else {
		v.AddConfigPath(defaults.ConfigDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("CSPM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	configUsedMsg := "Using default/environment configuration."
	readErr := v.ReadInConfig()
	if readErr == nil {
		configUsedMsg = fmt.Sprintf("Using config file: %s", v.ConfigFileUsed())
	} else {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				fmt.Fprintf(os.Stderr, "Warning: Config file specified by flag (%s) not found: %v\n", cfgFile, readErr)
			} else {
				fmt.Fprintln(os.Stderr, "No default config file found. Using defaults/environment variables.")
			}
		} else {
			fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", v.ConfigFileUsed(), readErr)
		}
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Error unmarshalling configuration: %v\n", err)
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Apply flag overrides
	if flagAppLogPath != "" {
		expandedPath, err := expandTilde(flagAppLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in --app-log path '%s': %v. Using original path.\n", flagAppLogPath, err)
			AppConfig.Server.LogPath = flagAppLogPath
		} else {
			AppConfig.Server.LogPath = expandedPath
		}
	}
	if flagAuditLogPath != "" {
		expandedPath, err := expandTilde(flagAuditLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in --audit-log path '%s': %v. Using original path.\n", flagAuditLogPath, err)
			AppConfig.Server.AuditLogPath = flagAuditLogPath
		} else {
			AppConfig.Server.AuditLogPath = expandedPath
		}
	}
	if flagLogLevel != "" {
		AppConfig.Logging.Level = strings.ToUpper(flagLogLevel)
	}

	var err error
	AppConfig.Database.Path, err = expandTilde(AppConfig.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in database.path '%s': %v.\n", AppConfig.Database.Path, err)
	}
	AppConfig.Client.StatePath, err = expandTilde(AppConfig.Client.StatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in client.state_path '%s': %v.\n", AppConfig.Client.StatePath, err)
	}

	if err := os.MkdirAll(filepath.Dir(AppConfig.Server.LogPath), 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create final app log directory %s: %v\n", filepath.Dir(AppConfig.Server.LogPath), err)
	}
	if err := os.MkdirAll(filepath.Dir(AppConfig.Server.AuditLogPath), 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create final audit log directory %s: %v\n", filepath.Dir(AppConfig.Server.AuditLogPath), err)
	}
	if err := os.MkdirAll(defaults.ConfigDir, 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create main config directory %s: %v\n", defaults.ConfigDir, err)
	}

	if err := logger.InitGlobalLoggers(AppConfig.Server.LogPath, AppConfig.Server.AuditLogPath, AppConfig.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize global loggers with final config: %v\n", err)
		return fmt.Errorf("failed to initialize global loggers with final config: %w", err)
	}

	logger.Info(configUsedMsg)
	if readErr != nil && cfgFile != "" {
		logger.Error("Error occurred reading specified config file '%s': %v", cfgFile, readErr)
	}

	if AppConfig.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret is not configured. A random secret will be generated at server start; sessions will not survive a restart.")
	}
	if AppConfig.Auth.SSOLogoutURL != "" {
		logger.Info("SSO logout redirect configured: %s", AppConfig.Auth.SSOLogoutURL)
	}
	if !AppConfig.Scheduler.Enabled {
		logger.Info("Scan scheduler is DISABLED.")
	}

	logger.Debug("Final AppConfig Initialized: %+v", AppConfig)
	return nil
}
