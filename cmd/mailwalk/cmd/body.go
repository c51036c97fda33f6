package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bodyCmd = &cobra.Command{
	Use:   "body [path]",
	Short: "Prints the plain text body of a message",
	Long: `Prints the body of a message. A single part message is printed whole.
For a multipart message, the first text/plain part that is not an attachment
is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: RunBody,
}

func init() {
	rootCmd.AddCommand(bodyCmd)
}

// RunBody prints the message body.
func RunBody(cmd *cobra.Command, args []string) error {
	in, msg, err := load(cmd, args)
	if err != nil {
		return err
	}

	body, err := in.Body(msg)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
	return err
}
