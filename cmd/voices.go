package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
)

func newVoicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the available voices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, v := range entities.Voices() {
				if v == entities.DefaultVoice {
					fmt.Fprintf(out, "%s (default)\n", v)
					continue
				}
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
}
