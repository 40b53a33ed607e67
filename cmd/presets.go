package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jasonsjt/ptz-controller/pkg/models"
	"github.com/spf13/cobra"
)

// Variables to hold flag values
var (
	presetName  string
	presetIndex int
)

// Parent Command
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List and recall preset positions",
	Long:  `List the camera's preset points or move to one by name or index.`,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List preset points in slot order",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cam, _ := setupCamera(ctx)

		names, err := cam.PresetNames(ctx)
		if err != nil {
			fmt.Printf("Error fetching presets: %v\n", err)
			os.Exit(1)
		}

		presets := make([]models.Preset, 0, len(names))
		for i, n := range names {
			presets = append(presets, models.Preset{Index: i, Name: n})
		}

		if jsonOutput {
			printJSON(presets)
			return
		}

		if len(presets) == 0 {
			fmt.Println("No preset points.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "INDEX\tNAME")
		fmt.Fprintln(w, "-----\t----")

		for _, p := range presets {
			name := p.Name
			if name == "" {
				name = "[No Name]"
			}
			fmt.Fprintf(w, "%d\t%s\n", p.Index, name)
		}
		w.Flush()
	},
}

var presetsGotoCmd = &cobra.Command{
	Use:   "goto",
	Short: "Move to a preset point",
	Example: `  ptzctl presets goto --name "Front Door"
  ptzctl presets goto --index 2`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cam, _ := setupCamera(ctx)

		var err error
		if cmd.Flags().Changed("name") {
			err = cam.MoveToPreset(ctx, presetName)
		} else if cmd.Flags().Changed("index") {
			err = cam.MoveToPresetIndex(ctx, presetIndex)
		} else {
			fmt.Println("Error: one of --name or --index is required.")
			os.Exit(1)
		}

		if err != nil {
			fmt.Printf("Error moving to preset: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Success.")
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)

	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsGotoCmd)

	presetsGotoCmd.Flags().StringVar(&presetName, "name", "", "Preset name")
	presetsGotoCmd.Flags().IntVar(&presetIndex, "index", 0, "Preset index, as listed by 'presets list'")
	presetsGotoCmd.MarkFlagsMutuallyExclusive("name", "index")
}
