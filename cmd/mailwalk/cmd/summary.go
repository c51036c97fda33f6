package cmd

import (
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [path]",
	Short: "Prints the sender, recipients, subject, and date of a message",
	Args:  cobra.MaximumNArgs(1),
	RunE:  RunSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// RunSummary prints the summary of the message.
func RunSummary(cmd *cobra.Command, args []string) error {
	in, msg, err := load(cmd, args)
	if err != nil {
		return err
	}

	s, err := in.Summarize(msg)
	if err != nil {
		return err
	}

	_, err = s.WriteTo(cmd.OutOrStdout())
	return err
}
