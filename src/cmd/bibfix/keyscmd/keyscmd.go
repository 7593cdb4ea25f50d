package keyscmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bibfix/src/internal/postprocess"
)

// New returns the keys command, a dry run that prints one "old -> new" line
// per entry without writing any file.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <bibliography.txt>",
		Short: "Preview the derived citation keys without writing the output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := postprocess.ReadFile(args[0])
			if err != nil {
				return err
			}
			keys, err := postprocess.DeriveKeys(entries)
			if err != nil {
				return err
			}
			for i, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", e.Key, keys[i])
			}
			return nil
		},
	}
}
