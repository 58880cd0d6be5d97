package cmd

import (
	"fmt"

	"metronome/core/tempo"

	"github.com/spf13/cobra"
)

var tempoBPM int

var tempoCmd = &cobra.Command{
	Use:   "tempo",
	Short: "Print the tempo name and beat interval for a BPM",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tempoBPM < 1 {
			return fmt.Errorf("%w: bpm must be positive (got %d)", tempo.ErrInvalidParameter, tempoBPM)
		}
		name, ok := tempo.Name(tempoBPM)
		if !ok {
			name = "-"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d BPM\t%s\t%vms per beat\n", tempoBPM, name, tempo.MillisecondsPerBeat(tempoBPM))
		return nil
	},
}

func init() {
	tempoCmd.Flags().IntVar(&tempoBPM, "bpm", tempo.BPMDefault, "beats per minute")
	rootCmd.AddCommand(tempoCmd)
}
