package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jasonsjt/ptz-controller/internal/ptz"
	"github.com/jasonsjt/ptz-controller/pkg/models"
	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shimmeringbee/logwrap"
	"github.com/spf13/cobra"
)

// Variables to hold flag values
var (
	expPort       string
	serviceAction string
)

type CameraCollector struct {
	Camera *ptz.Camera
	Logger logwrap.Logger
	Mutex  sync.Mutex
}

var (
	upDesc = prometheus.NewDesc(
		"ptz_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"ptz_scrape_duration_seconds", "Time taken to scrape the camera.", nil, nil,
	)
	panDesc = prometheus.NewDesc(
		"ptz_pan_position", "Current pan position.", nil, nil,
	)
	tiltDesc = prometheus.NewDesc(
		"ptz_tilt_position", "Current tilt position.", nil, nil,
	)
	limitsDesc = prometheus.NewDesc(
		"ptz_motion_limit", "Pan/tilt limits reported at startup.", []string{"axis", "bound"}, nil,
	)
	trackingStatusDesc = prometheus.NewDesc(
		"ptz_tracking_status", "Smart tracking status (1 for the current status).", []string{"status"}, nil,
	)
	presetCountDesc = prometheus.NewDesc(
		"ptz_presets_total", "Number of preset points.", nil, nil,
	)
)

func (c *CameraCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- panDesc
	ch <- tiltDesc
	ch <- limitsDesc
	ch <- trackingStatusDesc
	ch <- presetCountDesc
}

func (c *CameraCollector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	ctx := context.Background()
	start := time.Now()
	success := 1.0

	limits := c.Camera.Limits()
	ch <- prometheus.MustNewConstMetric(limitsDesc, prometheus.GaugeValue, float64(limits.MinPan), "pan", "min")
	ch <- prometheus.MustNewConstMetric(limitsDesc, prometheus.GaugeValue, float64(limits.MaxPan), "pan", "max")
	ch <- prometheus.MustNewConstMetric(limitsDesc, prometheus.GaugeValue, float64(limits.MinTilt), "tilt", "min")
	ch <- prometheus.MustNewConstMetric(limitsDesc, prometheus.GaugeValue, float64(limits.MaxTilt), "tilt", "max")

	if pos, err := c.Camera.CurrentPosition(ctx); err == nil {
		ch <- prometheus.MustNewConstMetric(panDesc, prometheus.GaugeValue, float64(pos.Pan))
		ch <- prometheus.MustNewConstMetric(tiltDesc, prometheus.GaugeValue, float64(pos.Tilt))
	} else {
		success = 0.0
		c.Logger.LogError(ctx, "Failed to scrape position.", logwrap.Err(err))
	}

	if status, err := c.Camera.TrackingStatus(ctx); err == nil {
		for _, st := range models.TrackingStatuses() {
			v := 0.0
			if st == status {
				v = 1.0
			}
			ch <- prometheus.MustNewConstMetric(trackingStatusDesc, prometheus.GaugeValue, v, string(st))
		}
	} else {
		success = 0.0
		c.Logger.LogError(ctx, "Failed to scrape tracking status.", logwrap.Err(err))
	}

	if names, err := c.Camera.PresetNames(ctx); err == nil {
		ch <- prometheus.MustNewConstMetric(presetCountDesc, prometheus.GaugeValue, float64(len(names)))
	} else {
		success = 0.0
		c.Logger.LogError(ctx, "Failed to scrape presets.", logwrap.Err(err))
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// serveMetrics blocks serving /metrics until ctx is done.
func serveMetrics(ctx context.Context, cam *ptz.Camera, l logwrap.Logger, port string) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(&CameraCollector{Camera: cam, Logger: l})

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			l.LogWarn(context.Background(), "Server forced to shutdown.", logwrap.Err(err))
		}
	}()

	l.LogInfo(ctx, "PTZ exporter listening.", logwrap.Datum("addr", server.Addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that exposes camera position, tracking
status and preset metrics. Can be installed as a system service.`,
	Run: func(cmd *cobra.Command, args []string) {
		svcConfig := &service.Config{
			Name:        "ptz-exporter",
			DisplayName: "PTZ Camera Prometheus Exporter",
			Description: "Exposes PTZ camera position and tracking metrics to Prometheus",
			Arguments:   serviceArguments("exporter", "--port", expPort),
		}

		runService(svcConfig, serviceAction, func(ctx context.Context) error {
			cam, l := setupCamera(ctx)
			return serveMetrics(ctx, cam, l, expPort)
		})
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expPort, "port", "9100", "Port to listen on")
	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
