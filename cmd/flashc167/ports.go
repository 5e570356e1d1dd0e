package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SiGenixDave/FlashC167-R188TestBench/serialbridge"
)

// createPortsCommand creates the ports subcommand
func createPortsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "Lists the serial ports present on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ports, err := serialbridge.ListPorts()
			if err != nil {
				return fmt.Errorf("list serial ports: %w", err)
			}
			if len(ports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no serial ports found")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
