package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop <match-id-prefix>",
	Short: "Delete a stored match and its derived data",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVar(&dropForce, "force", false, "delete without confirmation")
}

func runDrop(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with prefix %q\n", args[0])
		return nil
	}

	if !dropForce {
		fmt.Fprintf(os.Stdout, "Delete %s (%s, %s)? [y/N] ", match.MatchID, match.ChampionName, match.Role)
		var answer string
		fmt.Fscanln(os.Stdin, &answer)
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(os.Stdout, "Aborted.")
			return nil
		}
	}

	if err := db.DeleteMatch(match.MatchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted %s.\n", match.MatchID)
	return nil
}
