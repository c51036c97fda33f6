package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zostay/mailwalk/inspect"
	"github.com/zostay/mailwalk/message"
)

var (
	maxDepth int
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "mailwalk [path]",
	Short: "Lists the parts of an email message",
	Long: `Reads an email message and prints the content type of every part, in
order, along with the text of each text/plain part. The message is read from
` + inspect.DefaultFilename + ` in the current directory unless a path is given. A path
of "-" reads standard input.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          RunWalk,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", -1,
		"how deeply nested parts are broken up, negative for no limit")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log debugging details to standard error")
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

// newInspector builds an Inspector from the flags, reading standard input and
// logging to standard error of the command.
func newInspector(cmd *cobra.Command) *inspect.Inspector {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return inspect.New(
		inspect.WithLogger(logger),
		inspect.WithMaxDepth(maxDepth),
		inspect.WithStdin(cmd.InOrStdin()),
	)
}

// pathArg returns the message path given on the command line or the default.
func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return inspect.DefaultFilename
}

// load reads and parses the message named on the command line.
func load(cmd *cobra.Command, args []string) (*inspect.Inspector, message.Generic, error) {
	in := newInspector(cmd)

	raw, err := in.Load(pathArg(args))
	if err != nil {
		return nil, nil, err
	}

	msg, err := in.Parse(raw)
	if err != nil {
		return nil, nil, err
	}

	return in, msg, nil
}

// RunWalk prints the content type of each part along with its text, if it is
// plain text.
func RunWalk(cmd *cobra.Command, args []string) error {
	in := newInspector(cmd)
	return in.Run(cmd.OutOrStdout(), pathArg(args))
}
