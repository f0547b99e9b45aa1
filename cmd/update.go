package cmd

import (
	"encoding/json"
	"fmt"
	"github.com/AlebrijeLabs/albj-discord-bot/albjbot"
	"github.com/spf13/cobra"
	"log"
)

var (
	updateKind string
	updateSend bool

	updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Preview the daily update, or send it now",
		Long: "Prints the daily update that would be posted. With --send, " +
			"posts it to every matching channel (and telegram, and " +
			"subscribers, if enabled) without waiting for the schedule.\n\n" +
			"Kinds: auto, prelaunch, postlaunch, weekend, spirit_reveal, partnership",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			bot, err := albjbot.New(cfg)
			if err != nil {
				log.Fatalf("error creating bot: %s", err.Error())
			}
			kind := albjbot.ParseUpdateKind(updateKind)
			out := cmd.OutOrStdout()

			if !updateSend {
				update := bot.PreviewDailyUpdate(kind)
				fmt.Fprintf(out, "[%s] %s\n\n%s\n", update.Kind, update.Title, update.Content)
				return
			}

			report, err := bot.SendDailyUpdate(cmd.Context(), kind)
			if err != nil {
				log.Fatalf("error sending daily update: %s", err.Error())
			}
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				log.Fatalf("error encoding report: %s", err.Error())
			}
			fmt.Fprintln(out, string(data))
		},
	}
)

func init() {
	updateCmd.Flags().StringVar(
		&updateKind,
		"kind",
		string(albjbot.UpdateAuto),
		"Update kind",
	)
	updateCmd.Flags().BoolVar(
		&updateSend,
		"send",
		false,
		"Send the update instead of printing it",
	)
	rootCmd.AddCommand(updateCmd)
}
