//nolint:lll // struct tags can't be split
package albjbot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/gin-contrib/cors"
	"log/slog"
	"net/http"
	"time"
)

const (
	EnvvarSetEnvPrefix           = "ALBJ_ENV_PREFIX"
	DefaultEnvPrefix             = "ALBJ"
	DefaultDatabaseType          = "sqlite"
	DefaultDatabase              = "data/user_engagement.sqlite3"
	DefaultLogLevel              = slog.LevelInfo
	DefaultEnvironment           = "production"
	EnvironmentDevelopment       = "development"
	DefaultStartupTimeout        = 30 * time.Second
	DefaultShutdownTimeout       = 30 * time.Second
	DefaultDatabaseSlowThreshold = 200 * time.Millisecond
	DefaultDatabaseLogLevel      = slog.LevelWarn

	DefaultDiscordLogLevel      = slog.LevelInfo
	DefaultDiscordgoLogLevel    = slog.LevelWarn
	DefaultDiscordGatewayIntent = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	DefaultDiscordActivity      = "🐉 ALBJ Token Launch: June 12, 2025"

	DefaultHealthHost              = "0.0.0.0"
	DefaultHealthPort              = 3000
	DefaultHealthLogLevel          = slog.LevelInfo
	DefaultReadTimeout             = 5 * time.Second
	DefaultReadHeaderTimeout       = 5 * time.Second
	DefaultWriteTimeout            = 10 * time.Second
	DefaultIdleTimeout             = 30 * time.Second
	DefaultCORSAllowCredentials    = false
	DefaultDailyUpdateSchedule     = "0 12 * * *"
	DefaultDailyUpdateTimezone     = "UTC"
	DefaultDailyUpdateSendsPerSec  = 2.0
	DefaultDailyUpdateLogLevel     = slog.LevelInfo
	DefaultProjectName             = "ALBJ"
	DefaultProjectWebsiteURL       = "https://albj.io"
	DefaultProjectDiscordURL       = "https://discord.gg/vrBnKB68"
	DefaultProjectTwitterURL       = "https://twitter.com/ALBJToken"
	DefaultProjectTelegramHandle   = "@ALBJTokenBot"
	DefaultProjectBannerURL        = "https://albj.io/images/albj-banner.png"
	DefaultProjectCultureImageURL  = "https://albj.io/images/alebrije-culture.png"
	DefaultProjectSupportEmail     = "support@albj.io"
	DefaultProjectCareersEmail     = "careers@albj.io"
	DefaultTelegramAPIEndpoint     = "https://api.telegram.org/bot%s/%s"
	DefaultTelegramSendTimeout     = 15 * time.Second
	ModeBot                        = "bot"
	ModeHealth                     = "health"
	defaultListenNetwork           = "tcp"
	discordMaxEmbedDescriptionSize = 4096
)

var (
	// DefaultLaunchDate is the token launch instant. Anything before it is
	// "pre-launch".
	DefaultLaunchDate = time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC)

	DefaultDailyUpdateChannelKeywords = []string{
		"announcement",
		"update",
		"daily",
		"general",
	}

	DefaultCORSAllowMethods = []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodOptions,
	}
	DefaultCORSAllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Accept",
		xRequestIDHeader,
	}
	DefaultCORSExposeHeaders = []string{
		"Content-Type",
		"Content-Length",
		xRequestIDHeader,
	}
	DefaultCORSMaxAge = 12 * time.Hour
)

type Config struct {
	// Database connection string, or sqlite file path
	Database string `yaml:"database" mapstructure:"database" json:"database" binding:"required"`

	// DatabaseType specifies the type of database, either 'sqlite' or 'postgres'
	DatabaseType string `yaml:"database_type" mapstructure:"database_type" json:"database_type" binding:"oneof=sqlite postgres"`

	DatabaseLogLevel *slog.LevelVar `yaml:"database_log_level" mapstructure:"database_log_level" json:"database_log_level"`

	// DatabaseSlowThreshold is the duration threshold for identifying slow database queries
	DatabaseSlowThreshold time.Duration `yaml:"database_slow_threshold" mapstructure:"database_slow_threshold" json:"database_slow_threshold"`

	// LogLevel is the base log level, for the default logger
	LogLevel *slog.LevelVar `yaml:"log_level" mapstructure:"log_level" json:"log_level"`

	// Environment is reported by the health check (NODE_ENV in older deployments)
	Environment string `yaml:"environment" mapstructure:"environment" json:"environment"`

	// Mode is either 'bot' (health server, gateway, scheduler) or 'health'
	// (health server only)
	Mode string `yaml:"mode" mapstructure:"mode" json:"mode" binding:"oneof=bot health"`

	// StartupTimeout limits database setup and discord session creation.
	StartupTimeout time.Duration `yaml:"startup_timeout" mapstructure:"startup_timeout" json:"startup_timeout" binding:"min=1s"`

	// ShutdownTimeout is the time allowed for the health server to drain.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" json:"shutdown_timeout"`

	Project *ProjectConfig `yaml:"project" mapstructure:"project" json:"project" binding:"required"`

	Discord *DiscordConfig `yaml:"discord" mapstructure:"discord" json:"discord" binding:"required"`

	Health *HealthConfig `yaml:"health" mapstructure:"health" json:"health" binding:"required"`

	DailyUpdate *DailyUpdateConfig `yaml:"daily_update" mapstructure:"daily_update" json:"daily_update" binding:"required"`

	Telegram *TelegramConfig `yaml:"telegram" mapstructure:"telegram" json:"telegram" binding:"required"`

	HTTPClient *http.Client `log:"[redacted]"`
}

func (c Config) LogValue() slog.Value {
	return structToSlogValue(c)
}

// ProjectConfig holds the links and dates shown in command embeds
type ProjectConfig struct {
	Name            string    `yaml:"name" mapstructure:"name" json:"name" binding:"required"`
	LaunchDate      time.Time `yaml:"launch_date" mapstructure:"launch_date" json:"launch_date" binding:"required"`
	WebsiteURL      string    `yaml:"website_url" mapstructure:"website_url" json:"website_url" binding:"omitempty,url"`
	DiscordURL      string    `yaml:"discord_url" mapstructure:"discord_url" json:"discord_url" binding:"omitempty,url"`
	TwitterURL      string    `yaml:"twitter_url" mapstructure:"twitter_url" json:"twitter_url" binding:"omitempty,url"`
	TelegramHandle  string    `yaml:"telegram_handle" mapstructure:"telegram_handle" json:"telegram_handle"`
	BannerURL       string    `yaml:"banner_url" mapstructure:"banner_url" json:"banner_url" binding:"omitempty,url"`
	CultureImageURL string    `yaml:"culture_image_url" mapstructure:"culture_image_url" json:"culture_image_url" binding:"omitempty,url"`
	SupportEmail    string    `yaml:"support_email" mapstructure:"support_email" json:"support_email" binding:"omitempty,email"`
	CareersEmail    string    `yaml:"careers_email" mapstructure:"careers_email" json:"careers_email" binding:"omitempty,email"`
}

// DiscordConfig configures the discord bot itself.
type DiscordConfig struct {
	// Discord bot token (from the 'Bot' tab in the discord dev portal).
	// Required in 'bot' mode.
	Token string `yaml:"token" mapstructure:"token" json:"token" log:"[redacted]"`

	// Discord application ID (from the 'General Information' tab in the discord dev portal)
	ApplicationID string `yaml:"application_id" mapstructure:"application_id" json:"application_id"`

	// GuildID specifies the guild ID used when registering slash commands.
	// Leave empty for commands to be registered as global.
	GuildID string `yaml:"guild_id" mapstructure:"guild_id" json:"guild_id"`

	// Base discord logging level
	LogLevel *slog.LevelVar `yaml:"log_level" mapstructure:"log_level" json:"log_level"`

	// Log level for the `discordgo` library's logger
	DiscordGoLogLevel *slog.LevelVar `yaml:"discordgo_log_level" mapstructure:"discordgo_log_level" json:"discordgo_log_level"`

	// Discord gateway intents. See: https://discord.com/developers/docs/topics/gateway#gateway-intents
	GatewayIntents discordgo.Intent `yaml:"gateway_intents" mapstructure:"gateway_intents" json:"gateway_intents"`

	// Activity is shown as "Watching <activity>" on the bot's profile
	Activity string `yaml:"activity" mapstructure:"activity" json:"activity"`

	// RegisterCommands bulk-overwrites the slash commands on startup
	RegisterCommands bool `yaml:"register_commands" mapstructure:"register_commands" json:"register_commands"`

	httpClient *http.Client
}

// HealthConfig configures the HTTP health check server
type HealthConfig struct {
	// Host to bind to
	Host string `yaml:"host" mapstructure:"host" json:"host"`

	// Port to listen on (PORT in older deployments)
	Port int `yaml:"port" mapstructure:"port" json:"port" binding:"min=0,max=65535"`

	// The network type for listening (e.g., "tcp", "tcp4", "tcp6").
	ListenNetwork string `yaml:"listen_network" mapstructure:"listen_network" json:"listen_network" binding:"oneof=tcp tcp4 tcp6"`

	LogLevel *slog.LevelVar `yaml:"log_level" mapstructure:"log_level" json:"log_level"`

	// Cross-origin configuration
	CORS CORSConfig `yaml:"cors" mapstructure:"cors" json:"cors"`

	// Development enables /debug and /debug/pprof. The run command also
	// sets it when the environment is "development".
	Development bool `yaml:"development" mapstructure:"development" json:"development"`

	// Maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" json:"read_timeout" binding:"min=1s"`

	// Amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" mapstructure:"read_header_timeout" json:"read_header_timeout" binding:"min=1s"`

	// Maximum duration before timing out writes of the response.
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" json:"write_timeout" binding:"min=1s"`

	// Maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" json:"idle_timeout" binding:"min=1s"`
}

// DailyUpdateConfig configures the scheduled announcement
type DailyUpdateConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled" json:"enabled"`

	// Schedule is a standard 5-field cron expression
	Schedule string `yaml:"schedule" mapstructure:"schedule" json:"schedule" binding:"required_if=Enabled true"`

	// Timezone the schedule, and weekend detection, are evaluated in
	Timezone string `yaml:"timezone" mapstructure:"timezone" json:"timezone"`

	// ChannelKeywords selects target channels: a text channel receives the
	// update if its name contains any of these
	ChannelKeywords []string `yaml:"channel_keywords" mapstructure:"channel_keywords" json:"channel_keywords"`

	// SendsPerSecond paces channel and DM sends
	SendsPerSecond float64 `yaml:"sends_per_second" mapstructure:"sends_per_second" json:"sends_per_second" binding:"gt=0"`

	// DirectMessages also sends the update to users who enabled daily updates
	DirectMessages bool `yaml:"direct_messages" mapstructure:"direct_messages" json:"direct_messages"`

	LogLevel *slog.LevelVar `yaml:"log_level" mapstructure:"log_level" json:"log_level"`
}

// TelegramConfig configures cross-posting daily updates to telegram
type TelegramConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled" json:"enabled"`

	Token string `yaml:"token" mapstructure:"token" json:"token" log:"[redacted]" binding:"required_if=Enabled true"`

	// ChatID is a numeric chat ID, or a public channel username like @albj
	ChatID string `yaml:"chat_id" mapstructure:"chat_id" json:"chat_id" binding:"required_if=Enabled true"`

	// APIEndpoint is a format string taking the token and method
	APIEndpoint string `yaml:"api_endpoint" mapstructure:"api_endpoint" json:"api_endpoint"`

	SendTimeout time.Duration `yaml:"send_timeout" mapstructure:"send_timeout" json:"send_timeout"`
}

// CORSConfig specifies cross-origin resource sharing settings
type CORSConfig struct {
	AllowOrigins     []string      `yaml:"allow_origins" mapstructure:"allow_origins" json:"allow_origins"`
	AllowMethods     []string      `yaml:"allow_methods" mapstructure:"allow_methods" json:"allow_methods"`
	AllowHeaders     []string      `yaml:"allow_headers" mapstructure:"allow_headers" json:"allow_headers"`
	ExposeHeaders    []string      `yaml:"expose_headers" mapstructure:"expose_headers" json:"expose_headers"`
	AllowCredentials bool          `yaml:"allow_credentials" mapstructure:"allow_credentials" json:"allow_credentials"`
	MaxAge           time.Duration `yaml:"max_age" mapstructure:"max_age" json:"max_age"`
}

func (c CORSConfig) GINConfig() cors.Config {
	return cors.Config{
		AllowOrigins:     c.AllowOrigins,
		AllowMethods:     c.AllowMethods,
		AllowHeaders:     c.AllowHeaders,
		MaxAge:           c.MaxAge,
		ExposeHeaders:    c.ExposeHeaders,
		AllowCredentials: c.AllowCredentials,
	}
}

func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{},
		AllowMethods:     append([]string(nil), DefaultCORSAllowMethods...),
		AllowHeaders:     append([]string(nil), DefaultCORSAllowHeaders...),
		ExposeHeaders:    append([]string(nil), DefaultCORSExposeHeaders...),
		MaxAge:           DefaultCORSMaxAge,
		AllowCredentials: DefaultCORSAllowCredentials,
	}
}

func levelVar(lvl slog.Level) *slog.LevelVar {
	v := &slog.LevelVar{}
	v.Set(lvl)
	return v
}

// DefaultConfig returns a Config with all default settings populated
func DefaultConfig() *Config {
	return &Config{
		DatabaseType:          DefaultDatabaseType,
		Database:              DefaultDatabase,
		DatabaseLogLevel:      levelVar(DefaultDatabaseLogLevel),
		DatabaseSlowThreshold: DefaultDatabaseSlowThreshold,
		LogLevel:              levelVar(DefaultLogLevel),
		Environment:           DefaultEnvironment,
		Mode:                  ModeBot,
		StartupTimeout:        DefaultStartupTimeout,
		ShutdownTimeout:       DefaultShutdownTimeout,
		Project: &ProjectConfig{
			Name:            DefaultProjectName,
			LaunchDate:      DefaultLaunchDate,
			WebsiteURL:      DefaultProjectWebsiteURL,
			DiscordURL:      DefaultProjectDiscordURL,
			TwitterURL:      DefaultProjectTwitterURL,
			TelegramHandle:  DefaultProjectTelegramHandle,
			BannerURL:       DefaultProjectBannerURL,
			CultureImageURL: DefaultProjectCultureImageURL,
			SupportEmail:    DefaultProjectSupportEmail,
			CareersEmail:    DefaultProjectCareersEmail,
		},
		Discord: &DiscordConfig{
			GatewayIntents:    DefaultDiscordGatewayIntent,
			LogLevel:          levelVar(DefaultDiscordLogLevel),
			DiscordGoLogLevel: levelVar(DefaultDiscordgoLogLevel),
			Activity:          DefaultDiscordActivity,
			RegisterCommands:  true,
		},
		Health: &HealthConfig{
			Host:              DefaultHealthHost,
			Port:              DefaultHealthPort,
			ListenNetwork:     defaultListenNetwork,
			LogLevel:          levelVar(DefaultHealthLogLevel),
			CORS:              DefaultCORSConfig(),
			ReadTimeout:       DefaultReadTimeout,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			WriteTimeout:      DefaultWriteTimeout,
			IdleTimeout:       DefaultIdleTimeout,
		},
		DailyUpdate: &DailyUpdateConfig{
			Enabled:         true,
			Schedule:        DefaultDailyUpdateSchedule,
			Timezone:        DefaultDailyUpdateTimezone,
			ChannelKeywords: append([]string(nil), DefaultDailyUpdateChannelKeywords...),
			SendsPerSecond:  DefaultDailyUpdateSendsPerSec,
			LogLevel:        levelVar(DefaultDailyUpdateLogLevel),
		},
		Telegram: &TelegramConfig{
			APIEndpoint: DefaultTelegramAPIEndpoint,
			SendTimeout: DefaultTelegramSendTimeout,
		},
	}
}
