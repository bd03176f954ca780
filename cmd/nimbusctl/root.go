package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "nimbusctl",
	Short: "A CLI client for the Nimbus agent API",
	Long: `nimbusctl talks to a running Nimbus API server.

Point it at your deployment with --api or the NIMBUSCTL_API environment
variable; it defaults to http://localhost:8080.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("api", "http://localhost:8080", "base URL of the Nimbus API")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api"))
}

func initConfig() {
	viper.SetEnvPrefix("NIMBUSCTL")
	viper.AutomaticEnv()

	_ = viper.BindEnv("api", "NIMBUSCTL_API")
}
