package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SiGenixDave/FlashC167-R188TestBench/payload"
)

// createPayloadsCommand creates the payloads subcommand
func createPayloadsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "payloads",
		Short: "Lists the bundled payloads with their size and SHA-1",
		Args:  cobra.NoArgs,
		RunE:  executePayloads,
	}
}

func executePayloads(cmd *cobra.Command, _ []string) error {
	store, err := openPayloadStore(loadedConfig.Payloads.Dir)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tSHA1")
	for _, name := range store.Names() {
		p, err := store.Open(name)
		if errors.Is(err, payload.ErrNotFound) {
			fmt.Fprintf(w, "%s\t-\tmissing\n", name)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(p.Data), p.Digest().Hex())
	}
	return w.Flush()
}
