package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
)

type sayOptions struct {
	text     string
	voice    string
	fileName string
	play     bool
	save     string
}

func newSayCommand() *cobra.Command {
	var opts sayOptions

	cmd := &cobra.Command{
		Use:   "say [text]",
		Short: "Generate speech for text and optionally play or save it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && opts.text == "" {
				opts.text = args[0]
			}
			return runSay(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "Text to convert to speech")
	cmd.Flags().StringVarP(&opts.voice, "voice", "v", string(entities.DefaultVoice), "Voice to use")
	cmd.Flags().StringVarP(&opts.fileName, "name", "n", entities.DefaultFileName, "File name to save, without extension")
	cmd.Flags().BoolVarP(&opts.play, "play", "p", false, "Play the speech after generating it")
	cmd.Flags().StringVarP(&opts.save, "save", "s", "", "Copy the generated file to this path")

	return cmd
}

func runSay(cmd *cobra.Command, opts sayOptions) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	result, err := a.speech.Synthesize(ctx, entities.SynthesisRequest{
		Text:     opts.text,
		Voice:    entities.Voice(opts.voice),
		FileName: opts.fileName,
	})
	if err != nil {
		return errors.New(a.labels.GenerateMessage("", err))
	}
	fmt.Fprintln(out, a.labels.GenerateMessage(result.Path, nil))

	if opts.play {
		if err := a.artifacts.Play(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("Playback failed", zap.Error(err))
			return errors.New(a.labels.PlayMessage(err))
		}
	}

	if opts.save != "" {
		path, err := a.artifacts.CopyTo(opts.save)
		if err != nil {
			return errors.New(a.labels.SaveMessage("", err))
		}
		fmt.Fprintln(out, a.labels.SaveMessage(path, nil))
	}

	return nil
}
