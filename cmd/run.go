package cmd

import (
	"github.com/AlebrijeLabs/albj-discord-bot/albjbot"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
)

var (
	healthOnly bool

	runCmd = &cobra.Command{
		Use:   "run [flags]",
		Short: "Starts the ALBJ bot, daily update schedule and health check server",
		Run: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()
			prepareRunConfig(cfg, healthOnly)

			bot, err := albjbot.New(cfg)
			if err != nil {
				log.Fatalf("error creating bot: %s", err.Error())
			}

			if err = bot.Run(ctx); err != nil {
				log.Fatalf("error running bot: %s", err.Error())
			}
		},
	}
)

// prepareRunConfig applies --health-only. The debug endpoints are only
// served in the development environment, or when health.development is
// set explicitly.
func prepareRunConfig(c *albjbot.Config, healthOnly bool) {
	if healthOnly {
		c.Mode = albjbot.ModeHealth
	}
	if c.Environment == albjbot.EnvironmentDevelopment {
		c.Health.Development = true
	}
	if !c.Health.Development {
		gin.SetMode(gin.ReleaseMode)
	}
}

//goland:noinspection GoLinter
func init() {
	runCmd.Flags().String(
		"mode",
		albjbot.ModeBot,
		"'bot' runs everything, 'health' only serves the health check",
	)
	runCmd.Flags().BoolVar(
		&healthOnly,
		"health-only",
		false,
		"Shorthand for --mode=health",
	)
	if err := viper.BindPFlag("mode", runCmd.Flags().Lookup("mode")); err != nil {
		log.Fatalf("error binding flag: %v", err)
	}
	rootCmd.AddCommand(runCmd)
}
