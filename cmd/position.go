package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jasonsjt/ptz-controller/internal/ptz"
	"github.com/jasonsjt/ptz-controller/pkg/models"
	"github.com/spf13/cobra"
)

// Variables to hold flag values
var (
	movePan       int
	moveTilt      int
	movePanSpeed  int
	moveTiltSpeed int
	vectorX       int
	vectorY       int
	zoomDirection string
	zoomSpeed     string
)

// Parent Command
var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "Read or change the pan/tilt position",
	Long:  `Read the current position and limits, move to an absolute position, or drive by vector.`,
}

var positionGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current position and motion limits",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cam, _ := setupCamera(ctx)

		pos, err := cam.CurrentPosition(ctx)
		if err != nil {
			fmt.Printf("Error reading position: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(struct {
				Position models.Position     `json:"position"`
				Limits   models.MotionLimits `json:"limits"`
			}{pos, cam.Limits()})
			return
		}

		limits := cam.Limits()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "AXIS\tPOSITION\tMIN\tMAX")
		fmt.Fprintln(w, "----\t--------\t---\t---")
		fmt.Fprintf(w, "pan\t%d\t%d\t%d\n", pos.Pan, limits.MinPan, limits.MaxPan)
		fmt.Fprintf(w, "tilt\t%d\t%d\t%d\n", pos.Tilt, limits.MinTilt, limits.MaxTilt)
		w.Flush()
	},
}

var positionMoveCmd = &cobra.Command{
	Use:     "move",
	Short:   "Move to an absolute pan/tilt position",
	Long:    `Starts a non-blocking move. The reported position is read shortly after the camera starts moving, not on arrival.`,
	Example: `  ptzctl position move --pan 45 --tilt 10`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cam, _ := setupCamera(ctx)

		if _, err := cam.PositionMove(ctx, movePan, moveTilt, ptz.Speed{Pan: movePanSpeed, Tilt: moveTiltSpeed}); err != nil {
			fmt.Printf("Error moving camera: %v\n", err)
			os.Exit(1)
		}

		printPosition(cam.Motion.Position())
	},
}

var positionVectorCmd = &cobra.Command{
	Use:     "vector",
	Short:   "Drive the camera by pan/tilt speed, optionally zooming",
	Example: `  ptzctl position vector --vx 50 --vy -20 --zoom tele --zoom-speed 2`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cam, _ := setupCamera(ctx)

		body, err := cam.VectorMove(ctx, vectorX, vectorY, ptz.Zoom{Direction: zoomDirection, Speed: zoomSpeed})
		if err != nil {
			fmt.Printf("Error moving camera: %v\n", err)
			os.Exit(1)
		}

		if !jsonOutput {
			fmt.Printf("Camera replied: %s\n", body)
		}
		printPosition(cam.Motion.Position())
	},
}

func printPosition(pos models.Position) {
	if jsonOutput {
		printJSON(pos)
		return
	}
	fmt.Printf("Position: pan %d, tilt %d\n", pos.Pan, pos.Tilt)
}

func init() {
	rootCmd.AddCommand(positionCmd)

	positionCmd.AddCommand(positionGetCmd)
	positionCmd.AddCommand(positionMoveCmd)
	positionCmd.AddCommand(positionVectorCmd)

	positionMoveCmd.Flags().IntVar(&movePan, "pan", 0, "Target pan position")
	positionMoveCmd.Flags().IntVar(&moveTilt, "tilt", 0, "Target tilt position")
	positionMoveCmd.Flags().IntVar(&movePanSpeed, "pan-speed", ptz.DefaultMoveSpeed, "Pan speed")
	positionMoveCmd.Flags().IntVar(&moveTiltSpeed, "tilt-speed", ptz.DefaultMoveSpeed, "Tilt speed")
	_ = positionMoveCmd.MarkFlagRequired("pan")
	_ = positionMoveCmd.MarkFlagRequired("tilt")

	positionVectorCmd.Flags().IntVar(&vectorX, "vx", 0, "Pan speed, values above 150 are clamped")
	positionVectorCmd.Flags().IntVar(&vectorY, "vy", 0, "Tilt speed, values above 150 are clamped")
	positionVectorCmd.Flags().StringVar(&zoomDirection, "zoom", "", "Zoom direction: tele or wide")
	positionVectorCmd.Flags().StringVar(&zoomSpeed, "zoom-speed", "", "Zoom speed, sent as given")
}
