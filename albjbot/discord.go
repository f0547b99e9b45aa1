package albjbot

import (
	"errors"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
	"log/slog"
	"net/http"
)

const (
	// discordMaxButtonsPerActionRow defines the maximum number of buttons
	// allowed per action row in Discord interactions.
	discordMaxButtonsPerActionRow = 5

	// discordUserGuildsPageSize is the max page size of GET /users/@me/guilds
	discordUserGuildsPageSize = 200
)

// Discord manages the gateway session: connection state, presence and
// slash command registration.
type Discord struct {
	session                     DiscordSessionHandler
	config                      *DiscordConfig
	logger                      *slog.Logger
	status                      *Status
	metrics                     *Metrics
	discordgoRemoveHandlerFuncs []func()
}

func newDiscord(
	config *DiscordConfig,
	logger *slog.Logger,
	status *Status,
	metrics *Metrics,
) *Discord {
	return &Discord{
		config:                      config,
		logger:                      logger,
		status:                      status,
		metrics:                     metrics,
		discordgoRemoveHandlerFuncs: []func(){},
	}
}

// newSession initializes a new Discord session with the configured token,
// HTTP client and log level.
func (d *Discord) newSession() (DiscordSessionHandler, error) {
	session := DiscordSession{logger: d.logger.With(loggerNameKey, "discord_session_handler")}
	if d.config.Token == "" {
		return session, errors.New("discord token not set")
	}
	disc, err := discordgo.New("Bot " + d.config.Token)
	if err != nil {
		return session, fmt.Errorf("error creating discord session: %w", err)
	}
	disc.SyncEvents = true
	disc.StateEnabled = true
	session.session = disc
	if d.config.httpClient != nil {
		session.SetHTTPClient(d.config.httpClient)
	}

	if err = session.SetLogLevel(d.config.DiscordGoLogLevel.Level()); err != nil {
		return session, err
	}
	return session, nil
}

func (d *Discord) handlerReady() func(
	s *discordgo.Session,
	r *discordgo.Ready,
) {
	return func(s *discordgo.Session, r *discordgo.Ready) {
		var username string
		if r.User != nil {
			username = r.User.Username
		}
		d.logger.Info(
			"Ready",
			"session_id", r.SessionID,
			"username", username,
			"guilds", len(r.Guilds),
		)
		if d.config.ApplicationID == "" && r.Application != nil {
			d.config.ApplicationID = r.Application.ID
		}
		d.status.SetDiscord(DiscordStatusOnline)
		if err := d.setPresence(); err != nil {
			d.logger.Warn("unable to set presence", tint.Err(err))
		}
	}
}

func (d *Discord) handlerConnect() func(
	s *discordgo.Session,
	r *discordgo.Connect,
) {
	return func(s *discordgo.Session, r *discordgo.Connect) {
		d.metrics.GatewayConnects.Inc()
		d.status.SetDiscord(DiscordStatusOnline)

		var sessionID string
		var userID string
		var username string
		if s != nil && s.State != nil {
			sessionID = s.State.SessionID
			if s.State.User != nil {
				userID = s.State.User.ID
				username = s.State.User.Username
			}
		}
		d.logger.Info(
			"Connected",
			"session_id", sessionID,
			slog.Group("user", "id", userID, "username", username),
		)
	}
}

func (d *Discord) handlerDisconnect() func(
	s *discordgo.Session,
	r *discordgo.Disconnect,
) {
	return func(s *discordgo.Session, r *discordgo.Disconnect) {
		d.metrics.GatewayDisconnects.Inc()
		d.status.SetDiscord(DiscordStatusDisconnected)

		var sessionID string
		if s != nil && s.State != nil {
			sessionID = s.State.SessionID
		}
		d.logger.Info("disconnected", "session_id", sessionID)
	}
}

// setPresence shows "Watching <activity>" on the bot's profile
func (d *Discord) setPresence() error {
	if d.config.Activity == "" {
		return nil
	}
	return d.session.UpdateStatusComplex(
		discordgo.UpdateStatusData{
			Status: string(discordgo.StatusOnline),
			Activities: []*discordgo.Activity{
				{
					Name: d.config.Activity,
					Type: discordgo.ActivityTypeWatching,
				},
			},
		},
	)
}

// registerCommands sends the bot's commands to the discord bulk overwrite
// endpoint
func (d *Discord) registerCommands(
	commands []*discordgo.ApplicationCommand,
	options ...discordgo.RequestOption,
) ([]*discordgo.ApplicationCommand, error) {
	created, err := d.session.ApplicationCommandBulkOverwrite(
		d.config.ApplicationID,
		d.config.GuildID,
		commands,
		options...,
	)
	if err != nil {
		d.logger.Error("error overwriting discord commands", tint.Err(err))
		return created, err
	}
	if len(created) == 0 {
		d.logger.Warn("no commands created")
	}
	d.logger.Info("registered commands", "count", len(created), "guild_id", d.config.GuildID)
	return created, nil
}

// listCommands returns the application's registered commands
func (d *Discord) listCommands(
	options ...discordgo.RequestOption,
) ([]*discordgo.ApplicationCommand, error) {
	cmds, err := d.session.ApplicationCommands(
		d.config.ApplicationID,
		d.config.GuildID,
		options...,
	)
	if err != nil {
		d.logger.Error("error listing discord commands", tint.Err(err))
		return nil, err
	}
	return cmds, nil
}

// updateChannels returns every text channel, across all guilds the bot
// is in, that matches the daily update keywords
func (d *Discord) updateChannels(
	keywords []string,
	options ...discordgo.RequestOption,
) ([]*discordgo.Channel, error) {
	var guilds []*discordgo.UserGuild
	afterID := ""
	for {
		page, err := d.session.UserGuilds(
			discordUserGuildsPageSize,
			"",
			afterID,
			false,
			options...,
		)
		if err != nil {
			return nil, fmt.Errorf("error listing guilds: %w", err)
		}
		guilds = append(guilds, page...)
		if len(page) < discordUserGuildsPageSize {
			break
		}
		afterID = page[len(page)-1].ID
	}

	var channels []*discordgo.Channel
	var errs []error
	for _, g := range guilds {
		guildChannels, err := d.session.GuildChannels(g.ID, options...)
		if err != nil {
			d.logger.Warn(
				"error listing guild channels",
				"guild_id", g.ID,
				"guild_name", g.Name,
				tint.Err(err),
			)
			errs = append(errs, err)
			continue
		}
		for _, ch := range guildChannels {
			if matchesUpdateChannel(ch, keywords) {
				channels = append(channels, ch)
			}
		}
	}
	if len(channels) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return channels, nil
}

// DiscordSessionHandler defines the methods from `discordgo.Session` used
// by the bot, to enable testing/mocking.
type DiscordSessionHandler interface {
	// Open creates a websocket connection to Discord
	Open() error

	// Close closes the websocket connection to Discord
	Close() error

	// ChannelMessageSendEmbed sends an embed to a channel
	ChannelMessageSendEmbed(
		channelID string,
		embed *discordgo.MessageEmbed,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)

	// ApplicationCommandBulkOverwrite replaces the application's commands
	// in the given guild (or globally, if guildID is empty)
	ApplicationCommandBulkOverwrite(
		appID string,
		guildID string,
		commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)

	// ApplicationCommands lists the application's registered commands
	ApplicationCommands(
		appID string,
		guildID string,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)

	// UpdateStatusComplex sends the given status update, untouched
	UpdateStatusComplex(data discordgo.UpdateStatusData) error

	// AddHandler adds a discord gateway event handler
	AddHandler(handler any) func()

	// InteractionRespond sends an interaction response to Discord
	InteractionRespond(
		interaction *discordgo.Interaction,
		resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption,
	) error

	// UserGuilds lists the guilds the bot is a member of
	UserGuilds(
		limit int,
		beforeID string,
		afterID string,
		withCounts bool,
		options ...discordgo.RequestOption,
	) ([]*discordgo.UserGuild, error)

	// GuildChannels lists a guild's channels
	GuildChannels(
		guildID string,
		options ...discordgo.RequestOption,
	) ([]*discordgo.Channel, error)

	// UserChannelCreate opens (or returns) the DM channel with a user
	UserChannelCreate(
		recipientID string,
		options ...discordgo.RequestOption,
	) (*discordgo.Channel, error)

	// SetHTTPClient sets the HTTP client for the session
	SetHTTPClient(client *http.Client)

	// SetIdentify sets the identify object that's sent during the initial
	// handshake with the discord gateway
	SetIdentify(discordgo.Identify)

	// SetLogLevel modifies the session's log level
	SetLogLevel(lvl slog.Level) error
}

// DiscordSession implements DiscordSessionHandler, wrapping a
// [discordgo.Session](https://pkg.go.dev/github.com/bwmarrin/discordgo#Session)
type DiscordSession struct {
	session *discordgo.Session
	logger  *slog.Logger
}

func (d DiscordSession) SetLogLevel(lvl slog.Level) error {
	switch lvl.Level() {
	case slog.LevelInfo:
		d.session.LogLevel = discordgo.LogInformational
	case slog.LevelWarn:
		d.session.LogLevel = discordgo.LogWarning
	case slog.LevelDebug:
		d.session.LogLevel = discordgo.LogDebug
	case slog.LevelError:
		d.session.LogLevel = discordgo.LogError
	default:
		return fmt.Errorf("invalid log level: %s", lvl)
	}
	return nil
}

func (d DiscordSession) SetHTTPClient(client *http.Client) {
	d.session.Client = client
}

func (d DiscordSession) SetIdentify(i discordgo.Identify) {
	d.session.Identify = i
}

func (d DiscordSession) InteractionRespond(
	interaction *discordgo.Interaction,
	resp *discordgo.InteractionResponse,
	options ...discordgo.RequestOption,
) error {
	return d.session.InteractionRespond(interaction, resp, options...)
}

func (d DiscordSession) AddHandler(handler any) func() {
	return d.session.AddHandler(handler)
}

func (d DiscordSession) Open() error {
	return d.session.Open()
}

func (d DiscordSession) Close() error {
	return d.session.Close()
}

func (d DiscordSession) ChannelMessageSendEmbed(
	channelID string,
	embed *discordgo.MessageEmbed,
	options ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	msg, err := d.session.ChannelMessageSendEmbed(channelID, embed, options...)
	if err != nil {
		d.logger.Error(
			"error sending embed",
			tint.Err(err),
			"channel_id", channelID,
			"title", embed.Title,
		)
	} else {
		d.logger.Debug(
			"sent embed",
			"channel_id", channelID,
			"title", embed.Title,
			"message_id", msg.ID,
		)
	}
	return msg, err
}

func (d DiscordSession) ApplicationCommandBulkOverwrite(
	appID string,
	guildID string,
	commands []*discordgo.ApplicationCommand,
	options ...discordgo.RequestOption,
) ([]*discordgo.ApplicationCommand, error) {
	created, err := d.session.ApplicationCommandBulkOverwrite(
		appID,
		guildID,
		commands,
		options...,
	)
	if err != nil {
		return created, err
	}
	for _, c := range created {
		d.logger.Debug("Created command", "command", c.Name, "id", c.ID)
	}
	return created, nil
}

func (d DiscordSession) ApplicationCommands(
	appID string,
	guildID string,
	options ...discordgo.RequestOption,
) ([]*discordgo.ApplicationCommand, error) {
	return d.session.ApplicationCommands(appID, guildID, options...)
}

func (d DiscordSession) UpdateStatusComplex(
	data discordgo.UpdateStatusData,
) error {
	return d.session.UpdateStatusComplex(data)
}

func (d DiscordSession) UserGuilds(
	limit int,
	beforeID string,
	afterID string,
	withCounts bool,
	options ...discordgo.RequestOption,
) ([]*discordgo.UserGuild, error) {
	return d.session.UserGuilds(limit, beforeID, afterID, withCounts, options...)
}

func (d DiscordSession) GuildChannels(
	guildID string,
	options ...discordgo.RequestOption,
) ([]*discordgo.Channel, error) {
	return d.session.GuildChannels(guildID, options...)
}

func (d DiscordSession) UserChannelCreate(
	recipientID string,
	options ...discordgo.RequestOption,
) (*discordgo.Channel, error) {
	return d.session.UserChannelCreate(recipientID, options...)
}
