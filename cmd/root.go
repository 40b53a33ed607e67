package cmd

import (
	"fmt"
	"os"

	"github.com/jasonsjt/ptz-controller/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var jsonOutput bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ptzctl",
	Short: "A CLI for driving a PTZ camera and its smart tracking",
	Long: `Move a pan-tilt-zoom camera, recall its presets and supervise its
autonomous object tracking over the camera's HTTP control interface.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ptzctl.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	// Connection overrides, bound so they win over the config file and environment.
	rootCmd.PersistentFlags().String("host", "", "Camera host or base URL (e.g. 192.168.40.138)")
	rootCmd.PersistentFlags().StringP("username", "u", "", "Camera account")
	rootCmd.PersistentFlags().StringP("password", "p", "", "Camera password")
	rootCmd.PersistentFlags().String("auth", "", "Authentication scheme: digest or basic")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: error, warn, info, debug, trace")

	_ = viper.BindPFlag(config.KeyHost, rootCmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag(config.KeyUsername, rootCmd.PersistentFlags().Lookup("username"))
	_ = viper.BindPFlag(config.KeyPassword, rootCmd.PersistentFlags().Lookup("password"))
	_ = viper.BindPFlag(config.KeyAuth, rootCmd.PersistentFlags().Lookup("auth"))
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}
