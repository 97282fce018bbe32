package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/martinemde/steinlib/stp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "steinlib",
	Short:        "SteinLib STP instance toolkit",
	Long:         "steinlib parses, inspects and validates Steiner tree problem instances in the SteinLib STP format.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().Bool("strict", false, "Treat parser warnings as errors")
	rootCmd.PersistentFlags().Bool("fold-case", false, "Match section names case-insensitively")
	rootCmd.PersistentFlags().Bool("unit-cost", false, "Accept edges without a cost column, using cost 1")
	rootCmd.PersistentFlags().Int("max-nodes", stp.DefaultMaxNodes, "Reject instances declaring more nodes")
	rootCmd.PersistentFlags().StringSlice("reject", nil, "Reject edges: self-loops, duplicates, zero-cost, negative-cost")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
	_ = viper.BindPFlag("fold_case", rootCmd.PersistentFlags().Lookup("fold-case"))
	_ = viper.BindPFlag("unit_cost", rootCmd.PersistentFlags().Lookup("unit-cost"))
	_ = viper.BindPFlag("max_nodes", rootCmd.PersistentFlags().Lookup("max-nodes"))
	_ = viper.BindPFlag("reject", rootCmd.PersistentFlags().Lookup("reject"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "reading config %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	}
	viper.SetEnvPrefix("STEINLIB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
