package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jasonsjt/ptz-controller/internal/simulator"
	"github.com/shimmeringbee/logwrap"
	"github.com/spf13/cobra"
)

var (
	simPort    string
	simPresets string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Serve a simulated camera",
	Long: `Serves an in-memory camera that answers the same camctrl, getparam and VCA
requests as the real device, for trying commands without hardware. The simulator
does not check credentials.`,
	Example: `  ptzctl simulate --port 8080 --presets "Door,Front Gate"
  ptzctl --host localhost:8080 presets list`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		l := setupLogger()
		device := simulator.New(l)

		var presets []simulator.Preset
		for i, name := range strings.Split(simPresets, ",") {
			if name = strings.TrimSpace(name); name != "" {
				presets = append(presets, simulator.Preset{Name: name, Pan: 10 * (i + 1), Tilt: 5})
			}
		}
		device.SetPresets(presets...)

		server := &http.Server{
			Addr:    fmt.Sprintf(":%s", simPort),
			Handler: device.Router(),
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		l.LogInfo(ctx, "Simulated camera listening.", logwrap.Datum("addr", server.Addr), logwrap.Datum("presets", len(presets)))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP Server error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simPort, "port", "8080", "Port to listen on")
	simulateCmd.Flags().StringVar(&simPresets, "presets", "", "Comma separated preset names")
}
