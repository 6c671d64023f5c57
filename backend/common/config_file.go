package common

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

const defaultConfigTemplate = "PORT=3001\nUPLOAD_PATH=uploads\nSQLITE_PATH=data/file-server.db\nENABLE_GZIP=true\nENABLE_INDEX=true\n"

// configKeys may come from the ini file or, with higher priority, from the
// environment.
var configKeys = []string{
	"PORT",
	"UPLOAD_PATH",
	"SQLITE_PATH",
	"ENABLE_GZIP",
	"ENABLE_INDEX",
	"CORS_ORIGINS",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
	"LOCALE_DIR",
}

// flagKeys maps command-line flags to the config key they override.
var flagKeys = map[string]string{
	"port":        "PORT",
	"upload-path": "UPLOAD_PATH",
	"sqlite-path": "SQLITE_PATH",
	"enable-gzip": "ENABLE_GZIP",
	"locale-dir":  "LOCALE_DIR",
}

// LoadConfig resolves the settings in order of increasing priority: ini file,
// .env file and environment, explicitly passed flags.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		SysLog(".env file not found, using system environment variables")
	}

	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err := ensureConfigFile(configPath); err != nil {
		return err
	}

	configMap, err := parseIniConfig(configPath)
	if err != nil {
		return err
	}
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			configMap[key] = value
		}
	}
	flag.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			delete(configMap, key)
		}
	})

	if err := applyConfigMap(configMap); err != nil {
		return fmt.Errorf("apply config file %s: %w", configPath, err)
	}
	if *UploadPathArg != "" {
		UploadPath = *UploadPathArg
	}
	if *SQLitePathArg != "" {
		SQLitePath = *SQLitePathArg
	}
	return nil
}

func resolveConfigPath() (string, error) {
	if *ConfigFileArg != "" {
		return *ConfigFileArg, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "file-server", "config.ini"), nil
}

func ensureConfigFile(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", configDir, err)
	}

	configFile, err := os.OpenFile(configPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("create config file %s: %w", configPath, err)
	}
	defer configFile.Close()

	if _, err := configFile.WriteString(defaultConfigTemplate); err != nil {
		return fmt.Errorf("write default config file %s: %w", configPath, err)
	}

	return nil
}

func parseIniConfig(path string) (map[string]string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse ini config %s: %w", path, err)
	}

	configMap := make(map[string]string)
	for _, section := range cfg.Sections() {
		for _, key := range section.Keys() {
			configKey := strings.ToUpper(strings.TrimSpace(key.Name()))
			if configKey == "" {
				continue
			}
			configMap[configKey] = strings.TrimSpace(key.Value())
		}
	}

	return configMap, nil
}

func applyConfigMap(configMap map[string]string) error {
	if configValue, ok := configMap["UPLOAD_PATH"]; ok && configValue != "" {
		UploadPath = configValue
	}

	if configValue, ok := configMap["SQLITE_PATH"]; ok && configValue != "" {
		SQLitePath = configValue
	}

	if configValue, ok := configMap["LOCALE_DIR"]; ok && configValue != "" {
		*LocaleDirArg = configValue
	}

	if configValue, ok := configMap["PORT"]; ok && configValue != "" {
		portInt, err := strconv.Atoi(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for PORT: %w", err)
		}
		*Port = portInt
	}

	if configValue, ok := configMap["ENABLE_GZIP"]; ok && configValue != "" {
		enableGzipBool, err := strconv.ParseBool(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for ENABLE_GZIP: %w", err)
		}
		*EnableGzip = enableGzipBool
	}

	if configValue, ok := configMap["ENABLE_INDEX"]; ok && configValue != "" {
		enableIndexBool, err := strconv.ParseBool(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for ENABLE_INDEX: %w", err)
		}
		IndexEnabled = enableIndexBool
	}

	if configValue, ok := configMap["CORS_ORIGINS"]; ok && configValue != "" {
		var origins []string
		for _, origin := range strings.Split(configValue, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) > 0 {
			CORSOrigins = origins
		}
	}

	if configValue, ok := configMap["RATE_LIMIT_RPS"]; ok && configValue != "" {
		rps, err := strconv.ParseFloat(configValue, 64)
		if err != nil {
			return fmt.Errorf("invalid value for RATE_LIMIT_RPS: %w", err)
		}
		RateLimitRPS = rps
	}

	if configValue, ok := configMap["RATE_LIMIT_BURST"]; ok && configValue != "" {
		burst, err := strconv.Atoi(configValue)
		if err != nil {
			return fmt.Errorf("invalid value for RATE_LIMIT_BURST: %w", err)
		}
		RateLimitBurst = burst
	}

	return nil
}

// PrintHelp prints the usage of the command-line flags.
func PrintHelp() {
	fmt.Println("File Server " + Version)
	fmt.Println("Usage: file-server [--port <port>] [--upload-path <dir>] [--sqlite-path <file>] [--log-dir <dir>] [--config <file>] [--locale-dir <dir>] [--version] [--help]")
	flag.PrintDefaults()
}
