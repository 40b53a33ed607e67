package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jasonsjt/ptz-controller/internal/ptz"
	"github.com/spf13/cobra"
)

var (
	trackFromHome   bool
	trackPreset     int
	trackCheckEvery time.Duration
	stopAtHome      bool
)

var trackingCmd = &cobra.Command{
	Use:   "tracking",
	Short: "Control smart object tracking",
	Long:  `Arm, supervise, stop or inspect the camera's autonomous object tracking.`,
}

var trackingStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Arm tracking from home or a preset",
	Long: `Moves to the start position, installs a full screen detection rule with the
start position as tracking home and enables tracking.

With --check-every the command stays attached, polling the tracking status until
the subject is lost or Ctrl-C is pressed.`,
	Example: `  ptzctl tracking start --home
  ptzctl tracking start --preset 2 --check-every 3s`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		cam, _ := setupCamera(ctx)

		start := ptz.FromPreset(trackPreset)
		if trackFromHome {
			start = ptz.FromHome()
		}

		fmt.Printf("Arming tracking from %s...\n", start)

		status, err := cam.Track(ctx, start, trackCheckEvery)
		if errors.Is(err, context.Canceled) {
			fmt.Println("Supervision cancelled, tracking left enabled.")
			return
		}
		if err != nil {
			fmt.Printf("Error arming tracking: %v\n", err)
			os.Exit(1)
		}

		if trackCheckEvery <= 0 {
			fmt.Println("Tracking armed.")
			return
		}

		fmt.Printf("Tracking ended, camera reports %s.\n", status)
	},
}

var trackingStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Disable tracking",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cam, _ := setupCamera(ctx)

		var err error
		if stopAtHome {
			err = cam.MoveToHomeAndStop(ctx)
		} else {
			err = cam.StopTracking(ctx)
		}

		if err != nil {
			fmt.Printf("Error stopping tracking: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Tracking stopped.")
	},
}

var trackingStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current tracking status",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cam, _ := setupCamera(ctx)

		status, err := cam.TrackingStatus(ctx)
		if err != nil {
			fmt.Printf("Error checking tracking status: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(map[string]string{"status": string(status)})
			return
		}

		fmt.Println(status)
	},
}

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Move the camera to its home position",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cam, _ := setupCamera(ctx)

		if err := cam.MoveToHome(ctx); err != nil {
			fmt.Printf("Error moving home: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Success.")
	},
}

func init() {
	rootCmd.AddCommand(trackingCmd)
	rootCmd.AddCommand(homeCmd)

	trackingCmd.AddCommand(trackingStartCmd)
	trackingCmd.AddCommand(trackingStopCmd)
	trackingCmd.AddCommand(trackingStatusCmd)

	trackingStartCmd.Flags().BoolVar(&trackFromHome, "home", false, "Start from the home position")
	trackingStartCmd.Flags().IntVar(&trackPreset, "preset", 0, "Start from this preset index")
	trackingStartCmd.Flags().DurationVar(&trackCheckEvery, "check-every", 0, "Poll interval while supervising, 0 returns once armed")
	trackingStartCmd.MarkFlagsMutuallyExclusive("home", "preset")

	trackingStopCmd.Flags().BoolVar(&stopAtHome, "home", false, "Move home before stopping")
}
