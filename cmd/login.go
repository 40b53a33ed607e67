package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jasonsjt/ptz-controller/internal/auth"
	"github.com/jasonsjt/ptz-controller/internal/client"
	"github.com/jasonsjt/ptz-controller/internal/config"
	"github.com/jasonsjt/ptz-controller/internal/ptz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify camera credentials and save them",
	Long: `Connects to the camera with the provided credentials, reads its pan/tilt
limits to prove the account works, and saves host and credentials locally for
future commands.

Example:
  ptzctl login --host 192.168.40.138 --username root --password secret`,
	Run: func(cmd *cobra.Command, args []string) {
		scheme, err := auth.ParseScheme(viper.GetString(config.KeyAuth))
		if err != nil {
			log.Fatalf("Fatal: %v", err)
		}

		dev := config.DeviceConfig{
			Host:     strings.TrimRight(viper.GetString(config.KeyHost), "/"),
			Username: viper.GetString(config.KeyUsername),
			Password: viper.GetString(config.KeyPassword),
			Auth:     scheme,
			Timeout:  viper.GetDuration(config.KeyTimeout),
		}

		if dev.Host == "" {
			log.Fatal("Fatal: --host is required")
		}

		fmt.Printf("Authenticating against %s as user '%s'...\n", dev.Host, dev.Username)

		limits, err := ptz.FetchLimits(context.Background(), client.New(dev.ClientConfig()))
		if err != nil {
			log.Fatalf("Fatal: Login failed: %v", err)
		}

		fmt.Printf("Login successful. Pan %d~%d, tilt %d~%d. Saving configuration...\n",
			limits.MinPan, limits.MaxPan, limits.MinTilt, limits.MaxTilt)

		if err := config.SaveDevice(dev); err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}

		fmt.Printf("Saved. You can now run commands like 'ptzctl position get'.\n")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
