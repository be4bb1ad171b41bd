package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MUSHYo888/patient-history-pro-scribe/internal/config"
)

// settings collects flags, SCRIBE_* environment variables and the config file.
var settings = config.New()

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Scribe takes structured patient histories",
	Long: `Scribe walks a patient through a complaint-specific question graph
and writes the answers up as a narrative history note.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (yaml, json or toml)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("catalog-dir", "", "Directory of complaint graph documents (defaults to the bundled graphs)")
	pf.String("store", config.StoreMemory, "Session store: memory, file or redis")
	pf.String("store-dir", "./sessions", "Directory for the file store")
	pf.String("redis-addr", "localhost:6379", "Redis address for the redis store")

	bindFlags(settings, rootCmd, map[string]string{
		"log_level":   "log-level",
		"catalog_dir": "catalog-dir",
		"store":       "store",
		"store_dir":   "store-dir",
		"redis_addr":  "redis-addr",
	})
}

// bindFlags binds persistent or local flags of cmd to viper keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		if flag == nil {
			panic("unknown flag " + name)
		}
		_ = v.BindPFlag(key, flag)
	}
}

// loadConfig resolves the settings for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(settings, file)
}
