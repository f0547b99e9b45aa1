package albjbot

import (
	"context"
	"errors"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"
)

var (
	structValidator = validator.New()

	// discordgo's logger is package-global, so only the first bot sets it
	setDiscordgoLoggerOnce sync.Once
)

// Bot is the ALBJ community bot: the discord gateway session, the slash
// commands, the daily update scheduler and the health check server.
type Bot struct {
	config *Config

	// db is the read connection, writeDB wraps it for writes
	db      *gorm.DB
	writeDB DBI

	logger     *slog.Logger
	logHandler slog.Handler

	discord   *Discord
	health    *HealthServer
	scheduler *DailyUpdateScheduler
	telegram  *TelegramSync
	updates   *UpdateGenerator
	status    *Status
	metrics   *Metrics
	location  *time.Location

	commandList []Command
	commands    map[string]Command

	// getInteractionHandlerFunc returns the InteractionHandler for an
	// incoming interaction. Tests swap it out to capture responses.
	getInteractionHandlerFunc func(
		ctx context.Context,
		i *discordgo.InteractionCreate,
	) InteractionHandler

	// signalReady receives a value once Run has finished starting up
	signalReady chan struct{}

	runMu     sync.Mutex
	runtimeWG sync.WaitGroup

	randMu sync.Mutex
	rng    *rand.Rand
}

// New creates a Bot from the given config. Nothing is opened or
// started until Run is called.
//
// Configuration problems found while building the bot's components are
// collected and returned together.
func New(config *Config) (*Bot, error) {
	var errs []error

	switch config.DatabaseType {
	case dbTypeSQLite, dbTypePostgres:
		//
	default:
		errs = append(
			errs,
			errors.New("invalid database type (must be 'sqlite' or 'postgres')"),
		)
	}

	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	for _, lv := range []struct {
		v   **slog.LevelVar
		def slog.Level
	}{
		{&config.LogLevel, DefaultLogLevel},
		{&config.DatabaseLogLevel, DefaultDatabaseLogLevel},
		{&config.Discord.LogLevel, DefaultDiscordLogLevel},
		{&config.Discord.DiscordGoLogLevel, DefaultDiscordgoLogLevel},
		{&config.Health.LogLevel, DefaultHealthLogLevel},
		{&config.DailyUpdate.LogLevel, DefaultDailyUpdateLogLevel},
	} {
		if *lv.v == nil {
			*lv.v = levelVar(lv.def)
		}
	}

	b := &Bot{
		config:      config,
		signalReady: make(chan struct{}, 1),
		rng:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}

	b.logHandler = newLogHandler(defaultLogWriter, config.LogLevel)
	b.logger = slog.New(b.logHandler)
	slog.SetDefault(b.logger)

	config.Discord.httpClient = config.HTTPClient
	setDiscordgoLoggerOnce.Do(
		func() {
			discordgo.Logger = discordgoLoggerFunc(
				context.Background(),
				newLogHandler(defaultLogWriter, config.Discord.DiscordGoLogLevel),
			)
		},
	)

	b.status = NewStatus(config.Environment, config.Mode, nil)
	b.metrics = newMetrics()
	b.discord = newDiscord(
		config.Discord,
		componentLogger("discord", config.Discord.LogLevel),
		b.status,
		b.metrics,
	)
	b.health = NewHealthServer(config.Health, b.status, b.metrics.Registry)

	loc, err := time.LoadLocation(config.DailyUpdate.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", config.DailyUpdate.Timezone, err))
		loc = time.UTC
	}
	b.location = loc
	b.updates = NewUpdateGenerator(config.Project, nil)

	if config.Telegram.Enabled {
		b.telegram = NewTelegramSync(
			config.Telegram,
			config.HTTPClient,
			componentLogger("telegram", config.DailyUpdate.LogLevel),
		)
	}

	b.commandList = defaultCommands()
	b.commands = make(map[string]Command, len(b.commandList))
	for _, c := range b.commandList {
		b.commands[c.Name] = c
	}

	return b, errors.Join(errs...)
}

func (b *Bot) ValidateConfig() error {
	return structValidator.Struct(b.config)
}

// Status returns the bot's shared status
func (b *Bot) Status() *Status {
	return b.status
}

// HealthServer returns the bot's health check server
func (b *Bot) HealthServer() *HealthServer {
	return b.health
}

// Ready returns a channel that receives a value once Run has started
func (b *Bot) Ready() <-chan struct{} {
	return b.signalReady
}

func (b *Bot) now() time.Time {
	return b.status.Now()
}

func (b *Bot) randIntN(n int) int {
	b.randMu.Lock()
	defer b.randMu.Unlock()
	return b.rng.IntN(n)
}

// ApplicationCommands returns the registration payload for every command
func (b *Bot) ApplicationCommands() []*discordgo.ApplicationCommand {
	cmds := make([]*discordgo.ApplicationCommand, 0, len(b.commandList))
	for _, c := range b.commandList {
		cmds = append(cmds, c.ApplicationCommand())
	}
	return cmds
}

// RegisterSlashCommands bulk-overwrites the application's slash commands.
// It only needs a REST session, so it works without connecting to the
// gateway.
func (b *Bot) RegisterSlashCommands(options ...discordgo.RequestOption) (
	[]*discordgo.ApplicationCommand,
	error,
) {
	if err := b.restSession(); err != nil {
		return nil, err
	}
	return b.discord.registerCommands(b.ApplicationCommands(), options...)
}

// ListSlashCommands returns the slash commands currently registered with
// discord, for discord.guild_id if set, otherwise the global ones.
func (b *Bot) ListSlashCommands(options ...discordgo.RequestOption) (
	[]*discordgo.ApplicationCommand,
	error,
) {
	if err := b.restSession(); err != nil {
		return nil, err
	}
	return b.discord.listCommands(options...)
}

// restSession creates the discord session if there isn't one yet. REST
// calls don't need the gateway connection.
func (b *Bot) restSession() error {
	if b.config.Discord.ApplicationID == "" {
		return errors.New("discord application id not set")
	}
	if b.discord.session == nil {
		session, err := b.discord.newSession()
		if err != nil {
			return err
		}
		b.discord.session = session
	}
	return nil
}

// SendDailyUpdate runs the daily update fan-out once, outside of the
// schedule. The database is opened first when direct messages are
// enabled, to look up subscribers.
func (b *Bot) SendDailyUpdate(ctx context.Context, kind UpdateKind) (*DailyUpdateReport, error) {
	if b.writeDB == nil && b.config.DailyUpdate.DirectMessages {
		if err := b.initDB(ctx); err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
	}
	if b.discord.session == nil {
		session, err := b.discord.newSession()
		if err != nil {
			return nil, err
		}
		b.discord.session = session
	}
	scheduler := b.scheduler
	if scheduler == nil {
		s, err := b.newScheduler()
		if err != nil {
			return nil, err
		}
		scheduler = s
	}
	return scheduler.RunOnce(ctx, kind)
}

// PreviewDailyUpdate renders an update without sending it
func (b *Bot) PreviewDailyUpdate(kind UpdateKind) DailyUpdate {
	return b.updates.Generate(kind, b.now().In(b.location))
}

func (b *Bot) newScheduler() (*DailyUpdateScheduler, error) {
	return newDailyUpdateScheduler(
		b.config.DailyUpdate,
		b.discord,
		b.writeDB,
		b.updates,
		b.telegram,
		b.status,
		b.metrics,
		componentLogger("daily_update", b.config.DailyUpdate.LogLevel),
	)
}

// Run starts the health check server and, in bot mode, connects to
// discord and starts the daily update schedule. It blocks until ctx is
// canceled or the health server fails.
//
// A discord login failure doesn't stop Run: it's recorded in the status
// reported by /health, and the health server keeps serving. A database
// failure in bot mode does stop it.
func (b *Bot) Run(ctx context.Context) error {
	// prevents concurrent runs
	b.runMu.Lock()
	defer b.runMu.Unlock()

	logger := b.logger

	if err := b.ValidateConfig(); err != nil {
		logger.Error("invalid config", tint.Err(err))
		return err
	}

	ctx = WithLogger(ctx, logger)
	logger.LogAttrs(ctx, slog.LevelInfo, "starting", slog.Any("config", b.config))

	// this is the 'runtime' context, which triggers a graceful shutdown
	// when canceled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(
		func() error {
			err := b.health.Serve(gctx)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			if err != nil {
				logger.ErrorContext(ctx, "error serving health check", tint.Err(err))
			}
			return err
		},
	)

	if b.config.Mode == ModeHealth {
		logger.WarnContext(ctx, "running in health-only mode, discord is disabled")
	} else {
		startCtx, startCancel := context.WithTimeout(gctx, b.config.StartupTimeout)
		err := b.initRun(startCtx, gctx)
		startCancel()
		if err != nil {
			logger.ErrorContext(ctx, "init error", tint.Err(err))
			cancel()
			return errors.Join(err, b.shutdown(ctx), g.Wait())
		}
	}

	select {
	case b.signalReady <- struct{}{}:
	default:
	}
	logger.InfoContext(ctx, "sent ready signal")

	<-gctx.Done()
	shutdownErr := b.shutdown(ctx)
	return errors.Join(g.Wait(), shutdownErr)
}

// initRun sets up the database, then connects to discord and starts the
// scheduler. Only a database error is returned. A session that can't be
// created is recorded as a failed login, a failed gateway connection as
// a connection error.
func (b *Bot) initRun(startCtx context.Context, runCtx context.Context) error {
	logger := b.logger

	if err := b.initDB(startCtx); err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}

	if b.config.DailyUpdate.Enabled {
		scheduler, err := b.newScheduler()
		if err != nil {
			return err
		}
		b.scheduler = scheduler
	}

	if err := b.initDiscordSession(runCtx); err != nil {
		logger.ErrorContext(runCtx, "error creating discord session", tint.Err(err))
		b.status.RecordError(DiscordStatusLoginFailed, err)
		return nil
	}

	if err := b.discordInit(runCtx); err != nil {
		b.status.RecordError(DiscordStatusConnectionError, err)
		return nil
	}

	if b.scheduler != nil {
		b.scheduler.Start(runCtx)
	}
	return nil
}

// initDiscordSession creates the session, if needed, and adds the
// gateway event handlers
func (b *Bot) initDiscordSession(ctx context.Context) error {
	logger := b.logger.With(loggerNameKey, "discord_session")

	if b.discord.session == nil {
		disc, discErr := b.discord.newSession()
		if discErr != nil {
			return fmt.Errorf("error creating discord session: %w", discErr)
		}
		b.discord.session = disc
	}

	ctx = WithLogger(ctx, logger)

	for _, h := range b.discord.discordgoRemoveHandlerFuncs {
		h()
	}

	identify := discordgo.Identify{Intents: b.config.Discord.GatewayIntents}
	if b.config.Discord.Activity != "" {
		identify.Presence = discordgo.GatewayStatusUpdate{
			Status: string(discordgo.StatusOnline),
			Game: discordgo.Activity{
				Name: b.config.Discord.Activity,
				Type: discordgo.ActivityTypeWatching,
			},
		}
	}
	b.discord.session.SetIdentify(identify)

	if b.getInteractionHandlerFunc == nil {
		b.getInteractionHandlerFunc = func(
			_ context.Context,
			i *discordgo.InteractionCreate,
		) InteractionHandler {
			return GatewayHandler{
				session:     b.discord.session,
				interaction: i,
				logger: b.logger.With(
					slog.Group(
						"interaction",
						interactionLogAttrs(*i)...,
					),
				),
			}
		}
	}

	b.discord.discordgoRemoveHandlerFuncs = []func(){
		b.discord.session.AddHandler(b.discord.handlerConnect()),
		b.discord.session.AddHandler(b.discord.handlerDisconnect()),
		b.discord.session.AddHandler(b.discord.handlerReady()),
		b.discord.session.AddHandler(
			func(
				_ *discordgo.Session,
				i *discordgo.InteractionCreate,
			) {
				handler := b.getInteractionHandlerFunc(ctx, i)
				b.runtimeWG.Add(1)
				go func() {
					defer b.runtimeWG.Done()
					b.handleInteraction(ctx, handler)
				}()
			},
		),
	}
	return nil
}

// discordInit opens the discord websocket connection and registers
// commands, if enabled
func (b *Bot) discordInit(ctx context.Context) error {
	logger := b.logger
	logger.InfoContext(ctx, "connecting to discord")
	if err := b.discord.session.Open(); err != nil {
		logger.ErrorContext(ctx, "error connecting to discord!", tint.Err(err))
		return fmt.Errorf("error connecting to discord: %w", err)
	}

	if b.config.Discord.RegisterCommands {
		if _, err := b.RegisterSlashCommands(); err != nil {
			logger.ErrorContext(ctx, "error registering commands", tint.Err(err))
		}
	}
	return nil
}

// shutdown stops the scheduler, closes the gateway connection, waits
// for in-flight interactions, then stops the health server and closes
// the database. Everything gets ShutdownTimeout in total.
func (b *Bot) shutdown(ctx context.Context) error {
	b.logger.WarnContext(ctx, "shutting down", "shutdown_timeout", b.config.ShutdownTimeout)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), b.config.ShutdownTimeout)
	defer closeCancel()

	var errs []error

	if b.scheduler != nil {
		b.scheduler.Stop(closeCtx)
	}

	for _, h := range b.discord.discordgoRemoveHandlerFuncs {
		h()
	}
	b.discord.discordgoRemoveHandlerFuncs = nil
	if b.discord.session != nil {
		if err := b.discord.session.Close(); err != nil {
			b.logger.ErrorContext(ctx, "error closing discord connection", tint.Err(err))
			errs = append(errs, err)
		}
	}

	interactionsDone := make(chan struct{})
	go func() {
		b.runtimeWG.Wait()
		close(interactionsDone)
	}()
	select {
	case <-interactionsDone:
		b.logger.InfoContext(ctx, "finished handling in-flight interactions")
	case <-closeCtx.Done():
		b.logger.WarnContext(ctx, "timed out waiting on in-flight interactions")
	}

	if err := b.health.Shutdown(closeCtx); err != nil {
		b.logger.ErrorContext(ctx, "error shutting down health server", tint.Err(err))
		errs = append(errs, err)
	}

	if b.db != nil {
		sqlDB, err := b.db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("error closing database: %w", err))
		}
	}
	b.logger.InfoContext(ctx, "shutdown complete")
	return errors.Join(errs...)
}

// validateDailyUpdateConfig checks the cron expression and timezone of an
// enabled daily update
func validateDailyUpdateConfig(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(DailyUpdateConfig)
	if !ok || !cfg.Enabled {
		return
	}
	if _, err := cronParser.Parse(cfg.Schedule); err != nil {
		sl.ReportError(cfg.Schedule, "Schedule", "schedule", "cron", "")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		sl.ReportError(cfg.Timezone, "Timezone", "timezone", "timezone", "")
	}
}

//nolint:gochecknoinits // gotta register the validators
func init() {
	structValidator.SetTagName("binding")
	structValidator.RegisterStructValidation(validateDailyUpdateConfig, DailyUpdateConfig{})
}
