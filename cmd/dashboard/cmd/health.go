package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the trips API is reachable",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	s, err := newSession(os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.client.HealthCheck(cmd.Context()); err != nil {
		s.formatter.PrintError(err)
		return alreadyReported(err)
	}

	s.formatter.PrintSuccess(fmt.Sprintf("API at %s is healthy", s.cfg.ServerURL))
	return nil
}
