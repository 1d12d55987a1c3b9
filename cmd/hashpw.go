package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coachlab/golfmetrics/internal/auth"
)

var hashpwCmd = &cobra.Command{
	Use:   "hashpw <password>",
	Short: "Hash a password for the config user list",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashpw,
}

func runHashpw(cmd *cobra.Command, args []string) error {
	hash, err := auth.HashPassword(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, hash)
	return nil
}
