package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jasonsjt/ptz-controller/internal/client"
	"github.com/jasonsjt/ptz-controller/internal/config"
	"github.com/jasonsjt/ptz-controller/internal/ptz"
	"github.com/shimmeringbee/logwrap"
	"github.com/spf13/viper"
)

func setupLogger() logwrap.Logger {
	l, err := config.NewLogger(config.Logging(viper.GetViper()))
	if err != nil {
		fmt.Printf("Warning: %v, logging at info level.\n", err)
	}
	return l
}

// setupCamera connects to the configured camera, exiting on failure.
func setupCamera(ctx context.Context) (*ptz.Camera, logwrap.Logger) {
	l := setupLogger()

	dev, err := config.Device(viper.GetViper())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cam, err := ptz.Connect(ctx, client.New(dev.ClientConfig()), l, ptz.WithSymmetricClamp(dev.SymmetricClamp))
	if err != nil {
		fmt.Printf("Error connecting to camera %s: %v\n", dev.Host, err)
		os.Exit(1)
	}

	return cam, l
}

// signalContext is cancelled on Ctrl-C so long running supervision can stop cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Printf("Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
