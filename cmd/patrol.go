package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jasonsjt/ptz-controller/internal/client"
	"github.com/jasonsjt/ptz-controller/internal/ptz"
	"github.com/kardianos/service"
	"github.com/shimmeringbee/logwrap"
	"github.com/spf13/cobra"
)

var (
	patrolRounds        int
	patrolCheckEvery    time.Duration
	patrolServiceAction string
)

// errUnboundedPatrol is returned for an endless patrol that never waits on the camera.
var errUnboundedPatrol = errors.New("a patrol without a round limit needs a positive --check-every")

// patrol tracks from home, then from every preset in turn, for the given number of
// rounds (0 runs until ctx is done). The camera is sent home with tracking stopped at
// the end, including after cancellation.
func patrol(ctx context.Context, cam *ptz.Camera, l logwrap.Logger, rounds int, checkEvery time.Duration) error {
	if rounds == 0 && checkEvery <= 0 {
		return errUnboundedPatrol
	}

	defer func() {
		if err := cam.MoveToHomeAndStop(context.Background()); err != nil {
			l.LogError(context.Background(), "Failed to move home and stop tracking.", logwrap.Err(err))
		}
	}()

	names, err := cam.PresetNames(ctx)
	if err != nil {
		return err
	}

	for round := 0; rounds == 0 || round < rounds; round++ {
		l.LogInfo(ctx, "Starting patrol round.", logwrap.Datum("round", round+1), logwrap.Datum("presets", len(names)))

		if _, err := cam.MoveToHomeAndTrack(ctx, checkEvery); err != nil {
			if err := patrolError(ctx, l, ptz.FromHome(), err); err != nil {
				return err
			}
		}

		for i := range names {
			if _, err := cam.Track(ctx, ptz.FromPreset(i), checkEvery); err != nil {
				if err := patrolError(ctx, l, ptz.FromPreset(i), err); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// patrolError decides whether a failed stop ends the patrol. Failures the camera
// reported, and presets that disappeared, are logged and skipped.
func patrolError(ctx context.Context, l logwrap.Logger, start ptz.StartPosition, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if client.IsDeviceReported(err) || errors.Is(err, ptz.ErrNotFound) {
		l.LogWarn(ctx, "Patrol stop failed, continuing.", logwrap.Datum("start", start.String()), logwrap.Err(err))
		return nil
	}

	return err
}

var patrolCmd = &cobra.Command{
	Use:   "patrol",
	Short: "Track from home and every preset in turn",
	Long: `Repeatedly arms tracking from home and then from each preset point, staying
on each until the subject is lost. The camera is sent home with tracking stopped
when the patrol ends. Can be installed as a system service.`,
	Example: `  ptzctl patrol --rounds 10 --check-every 3s`,
	Run: func(cmd *cobra.Command, args []string) {
		svcConfig := &service.Config{
			Name:        "ptz-patrol",
			DisplayName: "PTZ Camera Tracking Patrol",
			Description: "Cycles PTZ camera smart tracking through home and preset positions",
			Arguments: serviceArguments("patrol",
				"--rounds", strconv.Itoa(patrolRounds),
				"--check-every", patrolCheckEvery.String()),
		}

		runService(svcConfig, patrolServiceAction, func(ctx context.Context) error {
			cam, l := setupCamera(ctx)

			err := patrol(ctx, cam, l, patrolRounds, patrolCheckEvery)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err == nil {
				fmt.Println("Patrol complete.")
			}
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(patrolCmd)
	patrolCmd.Flags().IntVar(&patrolRounds, "rounds", 1, "Number of rounds, 0 patrols until stopped")
	patrolCmd.Flags().DurationVar(&patrolCheckEvery, "check-every", 3*time.Second, "Tracking status poll interval")
	patrolCmd.Flags().StringVar(&patrolServiceAction, "service", "", "Service action: install, uninstall, start, stop")
}
