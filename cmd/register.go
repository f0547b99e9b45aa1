package cmd

import (
	"fmt"
	"github.com/AlebrijeLabs/albj-discord-bot/albjbot"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"io"
	"log"
)

var (
	registerList bool

	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Register (overwrite) the bot's slash commands with discord",
		Long: "Registers the bot's slash commands, replacing any previously " +
			"registered. Commands are registered to discord.guild_id if set, " +
			"otherwise globally. With --list, only shows what's currently " +
			"registered.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()
			bot, err := albjbot.New(cfg)
			if err != nil {
				log.Fatalf("error creating bot: %s", err.Error())
			}

			out := cmd.OutOrStdout()
			scope := registerScope(cfg.Discord.GuildID)

			if registerList {
				registered, listErr := bot.ListSlashCommands(discordgo.WithContext(ctx))
				if listErr != nil {
					log.Fatalf("error listing commands: %s", listErr.Error())
				}
				fmt.Fprintf(out, "%d commands registered %s\n", len(registered), scope)
				printCommands(out, registered)
				return
			}

			created, err := bot.RegisterSlashCommands(discordgo.WithContext(ctx))
			if err != nil {
				log.Fatalf("error registering commands: %s", err.Error())
			}
			fmt.Fprintf(out, "Registered %d commands %s\n", len(created), scope)
			printCommands(out, created)
		},
	}
)

func registerScope(guildID string) string {
	if guildID != "" {
		return "to guild " + guildID
	}
	return "globally"
}

func printCommands(w io.Writer, cmds []*discordgo.ApplicationCommand) {
	for _, c := range cmds {
		fmt.Fprintf(w, "  /%s (%s): %s\n", c.Name, c.ID, c.Description)
	}
}

func init() {
	registerCmd.Flags().BoolVar(
		&registerList,
		"list",
		false,
		"List registered commands without changing them",
	)
	rootCmd.AddCommand(registerCmd)
}
