package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bibfix/src/cmd/bibfix/keyscmd"
	"bibfix/src/cmd/bibfix/watchcmd"
	"bibfix/src/internal/config"
	"bibfix/src/internal/logging"
	"bibfix/src/internal/postprocess"
	"bibfix/src/internal/stringsx"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var output, logLevel string
	var removeNotes, braceTitles bool
	cmd := &cobra.Command{
		Use:   "bibfix [flags] <bibliography.txt>",
		Short: "Clean up an EndNote BibTeX export: readable keys, sane filename",
		Long: "bibfix rewrites every citation key of a BibTeX export to\n" +
			"{surname}{year}{titleword}, optionally strips note fields or wraps\n" +
			"titles in protective braces, and writes the result to a .bib file\n" +
			"with underscores instead of whitespace in its name.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("remove-notes") {
				removeNotes = settings.RemoveNotes
			}
			if !cmd.Flags().Changed("brace-titles") {
				braceTitles = settings.BraceTitles
			}
			logging.Setup(stringsx.FirstNonEmpty(logLevel, settings.LogLevel), cmd.ErrOrStderr())
			opts := postprocess.Options{RemoveNotes: removeNotes, BraceTitles: braceTitles}
			return postprocess.Run(postprocess.NewTask(args[0], output, opts))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: input with .txt -> .bib, whitespace -> '_')")
	cmd.Flags().BoolVar(&removeNotes, "remove-notes", false, "drop the note field from every entry")
	cmd.Flags().BoolVar(&braceTitles, "brace-titles", false, "wrap each title in an extra brace pair to protect capitalization")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, or error")
	return cmd
}

func execute() error {
	// Attach subcommands
	rootCmd.AddCommand(keyscmd.New())
	rootCmd.AddCommand(watchcmd.New())
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
