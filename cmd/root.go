package cmd

import (
	"context"
	"fmt"
	"github.com/AlebrijeLabs/albj-discord-bot/albjbot"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"
	"unicode"
)

var (
	cfg        = albjbot.DefaultConfig()
	configFile string
)

// levelKeys are config keys holding a *slog.LevelVar
var levelKeys = []string{
	"log_level",
	"database_log_level",
	"discord.log_level",
	"discord.discordgo_log_level",
	"health.log_level",
	"daily_update.log_level",
}

var rootCmd = &cobra.Command{
	Use:   "albjbot [flags]",
	Short: "ALBJ token community Discord bot",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := unmarshalConfig(cfg); err != nil {
			log.Fatalln(err)
		}
	},
}

func unmarshalConfig(c *albjbot.Config) error {
	return viper.Unmarshal(
		c,
		viper.DecodeHook(
			mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToTimeHookFunc(time.RFC3339),
				StringToFieldsHookFunc(),
				LevelToStringHookFunc(),
			),
		),
		// replace default slices instead of overlaying them
		func(dc *mapstructure.DecoderConfig) {
			dc.ZeroFields = true
		},
	)
}

func getLogLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case slog.LevelDebug.String():
		return slog.LevelDebug, nil
	case slog.LevelInfo.String():
		return slog.LevelInfo, nil
	case slog.LevelWarn.String():
		return slog.LevelWarn, nil
	case slog.LevelError.String():
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// LevelToStringHookFunc decodes a level name like "WARN" into a
// *slog.LevelVar
func LevelToStringHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t.Kind() != reflect.Ptr {
			return data, nil
		}

		typ := t.Elem()

		if typ != reflect.TypeOf(slog.LevelVar{}) {
			return data, nil
		}
		lvl, err := getLogLevel(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %s", data)
		}
		lvlVar := &slog.LevelVar{}
		lvlVar.Set(lvl)
		return lvlVar, nil
	}
}

// StringToFieldsHookFunc splits a string on whitespace and commas when
// decoding into a []string, so list settings can come from a single
// environment variable
func StringToFieldsHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Slice {
			return data, nil
		}
		if t.Elem().Kind() != reflect.String {
			return data, nil
		}
		return strings.FieldsFunc(
			data.(string),
			func(r rune) bool {
				return r == ',' || unicode.IsSpace(r)
			},
		), nil
	}
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	rootCmd.SetContext(ctx)
	signals := make(chan os.Signal, 1)
	signal.Notify(
		signals,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer func() {
		signal.Stop(signals)
		cancel()
	}()
	go func() {
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
			//
		}
	}()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	if configFile == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found")
		}
	} else {
		fmt.Println("loading env from file", configFile)
		if err := godotenv.Load(configFile); err != nil {
			log.Println("No .env file found")
		}
	}

	viper.SetDefault("database", albjbot.DefaultDatabase)
	viper.SetDefault("database_type", albjbot.DefaultDatabaseType)
	viper.SetDefault(
		"database_slow_threshold",
		albjbot.DefaultDatabaseSlowThreshold,
	)
	viper.SetDefault(
		"database_log_level",
		albjbot.DefaultDatabaseLogLevel.String(),
	)
	viper.SetDefault("log_level", albjbot.DefaultLogLevel.String())
	viper.SetDefault("environment", albjbot.DefaultEnvironment)
	viper.SetDefault("mode", albjbot.ModeBot)
	viper.SetDefault("startup_timeout", albjbot.DefaultStartupTimeout)
	viper.SetDefault("shutdown_timeout", albjbot.DefaultShutdownTimeout)

	// Project links shown in embeds
	viper.SetDefault("project.name", albjbot.DefaultProjectName)
	viper.SetDefault(
		"project.launch_date",
		albjbot.DefaultLaunchDate.Format(time.RFC3339),
	)
	viper.SetDefault("project.website_url", albjbot.DefaultProjectWebsiteURL)
	viper.SetDefault("project.discord_url", albjbot.DefaultProjectDiscordURL)
	viper.SetDefault("project.twitter_url", albjbot.DefaultProjectTwitterURL)
	viper.SetDefault(
		"project.telegram_handle",
		albjbot.DefaultProjectTelegramHandle,
	)
	viper.SetDefault("project.banner_url", albjbot.DefaultProjectBannerURL)
	viper.SetDefault(
		"project.culture_image_url",
		albjbot.DefaultProjectCultureImageURL,
	)
	viper.SetDefault("project.support_email", albjbot.DefaultProjectSupportEmail)
	viper.SetDefault("project.careers_email", albjbot.DefaultProjectCareersEmail)

	// Discord config
	viper.SetDefault("discord.token", "")
	viper.SetDefault("discord.application_id", "")
	viper.SetDefault("discord.guild_id", "")
	viper.SetDefault(
		"discord.log_level",
		albjbot.DefaultDiscordLogLevel.String(),
	)
	viper.SetDefault(
		"discord.discordgo_log_level",
		albjbot.DefaultDiscordgoLogLevel.String(),
	)
	viper.SetDefault(
		"discord.gateway_intents",
		int(albjbot.DefaultDiscordGatewayIntent),
	)
	viper.SetDefault("discord.activity", albjbot.DefaultDiscordActivity)
	viper.SetDefault("discord.register_commands", true)

	// Health check server
	viper.SetDefault("health.host", albjbot.DefaultHealthHost)
	viper.SetDefault("health.port", albjbot.DefaultHealthPort)
	viper.SetDefault("health.listen_network", "tcp")
	viper.SetDefault("health.log_level", albjbot.DefaultHealthLogLevel.String())
	viper.SetDefault("health.development", false)
	viper.SetDefault("health.read_timeout", albjbot.DefaultReadTimeout)
	viper.SetDefault(
		"health.read_header_timeout",
		albjbot.DefaultReadHeaderTimeout,
	)
	viper.SetDefault("health.write_timeout", albjbot.DefaultWriteTimeout)
	viper.SetDefault("health.idle_timeout", albjbot.DefaultIdleTimeout)

	// Health: CORS config
	viper.SetDefault(
		"health.cors.allow_headers",
		albjbot.DefaultCORSAllowHeaders,
	)
	viper.SetDefault(
		"health.cors.allow_methods",
		albjbot.DefaultCORSAllowMethods,
	)
	viper.SetDefault(
		"health.cors.expose_headers",
		albjbot.DefaultCORSExposeHeaders,
	)
	viper.SetDefault("health.cors.allow_origins", []string{})
	viper.SetDefault("health.cors.max_age", albjbot.DefaultCORSMaxAge)
	viper.SetDefault(
		"health.cors.allow_credentials",
		albjbot.DefaultCORSAllowCredentials,
	)

	// Daily update
	viper.SetDefault("daily_update.enabled", true)
	viper.SetDefault("daily_update.schedule", albjbot.DefaultDailyUpdateSchedule)
	viper.SetDefault("daily_update.timezone", albjbot.DefaultDailyUpdateTimezone)
	viper.SetDefault(
		"daily_update.channel_keywords",
		albjbot.DefaultDailyUpdateChannelKeywords,
	)
	viper.SetDefault(
		"daily_update.sends_per_second",
		albjbot.DefaultDailyUpdateSendsPerSec,
	)
	viper.SetDefault("daily_update.direct_messages", false)
	viper.SetDefault(
		"daily_update.log_level",
		albjbot.DefaultDailyUpdateLogLevel.String(),
	)

	// Telegram
	viper.SetDefault("telegram.enabled", false)
	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.chat_id", "")
	viper.SetDefault("telegram.api_endpoint", albjbot.DefaultTelegramAPIEndpoint)
	viper.SetDefault("telegram.send_timeout", albjbot.DefaultTelegramSendTimeout)

	envPrefix := os.Getenv(albjbot.EnvvarSetEnvPrefix)
	if envPrefix == "" {
		envPrefix = albjbot.DefaultEnvPrefix
	}
	viper.SetEnvPrefix(envPrefix)

	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	fatalErr := func(err error) {
		if err != nil {
			log.Fatalf("error: %v", err)
		}
	}

	// Variable names used by earlier deployments. The prefixed name is
	// checked first.
	legacyEnv := map[string][]string{
		"health.port":            {"PORT"},
		"discord.token":          {"DISCORD_TOKEN", "BOT_TOKEN"},
		"discord.application_id": {"DISCORD_CLIENT_ID"},
		"environment":            {"NODE_ENV"},
		"telegram.token":         {"TELEGRAM_BOT_TOKEN"},
		"telegram.chat_id":       {"TELEGRAM_CHANNEL_ID"},
	}
	for key, names := range legacyEnv {
		prefixed := fmt.Sprintf(
			"%s_%s",
			envPrefix,
			strings.ToUpper(replacer.Replace(key)),
		)
		fatalErr(viper.BindEnv(append([]string{key, prefixed}, names...)...))
	}
	if os.Getenv("TELEGRAM_BOT_TOKEN") != "" && os.Getenv("TELEGRAM_CHANNEL_ID") != "" {
		viper.SetDefault("telegram.enabled", true)
	}

	for _, k := range levelKeys {
		if _, err := getLogLevel(viper.GetString(k)); err != nil {
			log.Fatalf("error parsing %s: %v", k, err)
		}
	}
}

//goland:noinspection GoLinter,GoLinter
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&configFile,
		"config",
		"",
		"Env file to load",
	)
}
