package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tts",
		Short:        "Convert text to speech with the OpenAI speech API",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newSayCommand(),
		newServeCommand(),
		newVoicesCommand(),
		newTokenCommand(),
		newListenCommand(),
	)

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
