package albjbot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestConfig returns the default config with a temp sqlite database,
// an ephemeral health port and quiet logging
func newTestConfig(t testing.TB) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DatabaseType = dbTypeSQLite
	cfg.Database = filepath.Join(t.TempDir(), "test.sqlite3")
	cfg.StartupTimeout = 5 * time.Second
	cfg.ShutdownTimeout = 5 * time.Second
	cfg.Environment = "test"

	cfg.Discord.Token = "test-token"
	cfg.Discord.ApplicationID = "test-app-id"

	cfg.Health.Host = "127.0.0.1"
	cfg.Health.Port = 0

	cfg.DailyUpdate.SendsPerSecond = 1000

	logLevel := slog.LevelWarn
	cfg.LogLevel.Set(logLevel)
	cfg.DatabaseLogLevel.Set(logLevel)
	cfg.Discord.LogLevel.Set(logLevel)
	cfg.Discord.DiscordGoLogLevel.Set(logLevel)
	cfg.Health.LogLevel.Set(logLevel)
	cfg.DailyUpdate.LogLevel.Set(logLevel)
	return cfg
}

func setupTestDB(t testing.TB) DBI {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.sqlite3")
	db, err := CreateDB(context.Background(), dbTypeSQLite, dbPath)
	if err != nil {
		t.Fatalf("error creating test database: %v", err)
	}
	t.Cleanup(
		func() {
			sqlDB, _ := db.DB()
			if sqlDB != nil {
				_ = sqlDB.Close()
			}
		},
	)
	return NewDatabase(db, slog.Default().With("test", t.Name()), dbTypeSQLite)
}

// newTestBot returns a Bot with an initialized database and a mock
// discord session. Nothing is started.
func newTestBot(t testing.TB) (*Bot, *mockDiscordSession) {
	t.Helper()
	return newTestBotWithConfig(t, newTestConfig(t))
}

func newTestBotWithConfig(t testing.TB, cfg *Config) (*Bot, *mockDiscordSession) {
	t.Helper()
	bot, err := New(cfg)
	require.NoError(t, err)
	bot.logger = bot.logger.With("test", t.Name())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)
	require.NoError(t, bot.initDB(ctx))
	t.Cleanup(
		func() {
			sqlDB, _ := bot.db.DB()
			if sqlDB != nil {
				_ = sqlDB.Close()
			}
		},
	)

	session := newMockDiscordSession()
	bot.discord.session = session
	return bot, session
}

// testClock is a settable clock for Status
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(now time.Time) *testClock {
	return &testClock{now: now}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentEmbed struct {
	ChannelID string
	Embed     *discordgo.MessageEmbed
}

// mockDiscordSession implements DiscordSessionHandler, recording what's
// sent and serving the configured guilds and channels
type mockDiscordSession struct {
	mu sync.Mutex

	guilds       []*discordgo.UserGuild
	channels     map[string][]*discordgo.Channel
	failChannels map[string]bool
	failDMs      map[string]bool
	openErr      error

	sent          []sentEmbed
	registered    []*discordgo.ApplicationCommand
	statusUpdates []discordgo.UpdateStatusData
	identify      discordgo.Identify
	responses     []*discordgo.InteractionResponse
	handlers      int
	opened        bool
	closed        bool
}

func newMockDiscordSession() *mockDiscordSession {
	return &mockDiscordSession{
		channels:     map[string][]*discordgo.Channel{},
		failChannels: map[string]bool{},
		failDMs:      map[string]bool{},
	}
}

// addGuild adds a guild with the given channels
func (m *mockDiscordSession) addGuild(id string, channels ...*discordgo.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guilds = append(m.guilds, &discordgo.UserGuild{ID: id, Name: "guild " + id})
	for _, ch := range channels {
		ch.GuildID = id
	}
	m.channels[id] = append(m.channels[id], channels...)
}

func (m *mockDiscordSession) sentTo(channelID string) []*discordgo.MessageEmbed {
	m.mu.Lock()
	defer m.mu.Unlock()
	var embeds []*discordgo.MessageEmbed
	for _, s := range m.sent {
		if s.ChannelID == channelID {
			embeds = append(embeds, s.Embed)
		}
	}
	return embeds
}

func (m *mockDiscordSession) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *mockDiscordSession) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return m.openErr
	}
	m.opened = true
	return nil
}

func (m *mockDiscordSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockDiscordSession) ChannelMessageSendEmbed(
	channelID string,
	embed *discordgo.MessageEmbed,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failChannels[channelID] {
		return nil, fmt.Errorf("missing access to channel %s", channelID)
	}
	m.sent = append(m.sent, sentEmbed{ChannelID: channelID, Embed: embed})
	return &discordgo.Message{
		ID:        fmt.Sprintf("msg_%d", len(m.sent)),
		ChannelID: channelID,
		Embeds:    []*discordgo.MessageEmbed{embed},
	}, nil
}

func (m *mockDiscordSession) ApplicationCommandBulkOverwrite(
	_ string,
	_ string,
	commands []*discordgo.ApplicationCommand,
	_ ...discordgo.RequestOption,
) ([]*discordgo.ApplicationCommand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmds := make([]*discordgo.ApplicationCommand, len(commands))
	for i, c := range commands {
		cmds[i] = &discordgo.ApplicationCommand{
			ID:          fmt.Sprintf("cmd_%d", i),
			Name:        c.Name,
			Description: c.Description,
		}
	}
	m.registered = cmds
	return cmds, nil
}

func (m *mockDiscordSession) ApplicationCommands(
	_ string,
	_ string,
	_ ...discordgo.RequestOption,
) ([]*discordgo.ApplicationCommand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registered, nil
}

func (m *mockDiscordSession) UpdateStatusComplex(data discordgo.UpdateStatusData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusUpdates = append(m.statusUpdates, data)
	return nil
}

func (m *mockDiscordSession) AddHandler(_ any) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers++
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.handlers--
	}
}

func (m *mockDiscordSession) InteractionRespond(
	_ *discordgo.Interaction,
	resp *discordgo.InteractionResponse,
	_ ...discordgo.RequestOption,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
	return nil
}

func (m *mockDiscordSession) UserGuilds(
	limit int,
	_ string,
	afterID string,
	_ bool,
	_ ...discordgo.RequestOption,
) ([]*discordgo.UserGuild, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := 0
	if afterID != "" {
		for i, g := range m.guilds {
			if g.ID == afterID {
				start = i + 1
				break
			}
		}
	}
	end := min(start+limit, len(m.guilds))
	return m.guilds[start:end], nil
}

func (m *mockDiscordSession) GuildChannels(
	guildID string,
	_ ...discordgo.RequestOption,
) ([]*discordgo.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	channels, ok := m.channels[guildID]
	if !ok {
		return nil, fmt.Errorf("unknown guild %s", guildID)
	}
	return channels, nil
}

func (m *mockDiscordSession) UserChannelCreate(
	recipientID string,
	_ ...discordgo.RequestOption,
) (*discordgo.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDMs[recipientID] {
		return nil, errors.New("cannot send messages to this user")
	}
	return &discordgo.Channel{ID: "dm_" + recipientID, Type: discordgo.ChannelTypeDM}, nil
}

func (m *mockDiscordSession) SetHTTPClient(_ *http.Client) {}

func (m *mockDiscordSession) SetIdentify(i discordgo.Identify) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identify = i
}

func (m *mockDiscordSession) SetLogLevel(_ slog.Level) error {
	return nil
}

// stubInteractionHandler captures responses on channels
type stubInteractionHandler struct {
	interaction *discordgo.InteractionCreate
	logger      *slog.Logger
	callRespond chan *discordgo.InteractionResponse
}

func newStubInteractionHandler(
	t testing.TB,
	i *discordgo.InteractionCreate,
) stubInteractionHandler {
	t.Helper()
	return stubInteractionHandler{
		interaction: i,
		logger:      slog.Default().With("test_name", t.Name()),
		callRespond: make(chan *discordgo.InteractionResponse, 10),
	}
}

func (s stubInteractionHandler) Respond(
	_ context.Context,
	r *discordgo.InteractionResponse,
) error {
	s.callRespond <- r
	return nil
}

func (s stubInteractionHandler) GetInteraction() *discordgo.InteractionCreate {
	return s.interaction
}

func (s stubInteractionHandler) Logger() *slog.Logger {
	return s.logger
}

// waitForResponse returns the handler's response, failing the test if
// there isn't one
func (s stubInteractionHandler) waitForResponse(t testing.TB) *discordgo.InteractionResponse {
	t.Helper()
	select {
	case r := <-s.callRespond:
		require.NotNil(t, r)
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for interaction response")
		return nil
	}
}

// newDiscordUser creates a user with the test name in its ID
func newDiscordUser(t testing.TB) *discordgo.User {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	return &discordgo.User{
		ID:         "u_" + name,
		Username:   "user_" + name,
		GlobalName: "g_" + name,
	}
}

// newCommandInteraction creates a slash command interaction from u, in a
// DM if member is nil, otherwise in guild_1
func newCommandInteraction(
	t testing.TB,
	u *discordgo.User,
	member *discordgo.Member,
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	t.Helper()
	i := &discordgo.Interaction{
		ID:        fmt.Sprintf("interaction_%s_%s", name, t.Name()),
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "channel_1",
		Data: discordgo.ApplicationCommandInteractionData{
			ID:          "cmd_" + name,
			Name:        name,
			CommandType: discordgo.ChatApplicationCommand,
			Options:     options,
		},
	}
	if member != nil {
		member.User = u
		i.Member = member
		i.GuildID = "guild_1"
	} else {
		i.User = u
	}
	return &discordgo.InteractionCreate{Interaction: i}
}

func newComponentInteraction(
	t testing.TB,
	u *discordgo.User,
	customID string,
) *discordgo.InteractionCreate {
	t.Helper()
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        fmt.Sprintf("interaction_%s_%s", customID, t.Name()),
			Type:      discordgo.InteractionMessageComponent,
			ChannelID: "channel_1",
			User:      u,
			Data: discordgo.MessageComponentInteractionData{
				CustomID:      customID,
				ComponentType: discordgo.ButtonComponent,
			},
		},
	}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

// interact sends the interaction through the bot and returns the response
func interact(
	t testing.TB,
	bot *Bot,
	i *discordgo.InteractionCreate,
) *discordgo.InteractionResponse {
	t.Helper()
	h := newStubInteractionHandler(t, i)
	bot.handleInteraction(context.Background(), h)
	return h.waitForResponse(t)
}

// buttonLabels returns the labels of every button in the components
func buttonLabels(components []discordgo.MessageComponent) []string {
	var labels []string
	for _, c := range components {
		row, ok := c.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if b, isButton := rc.(discordgo.Button); isButton {
				labels = append(labels, b.Label)
			}
		}
	}
	return labels
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel", truncate("hello", 3))
	assert.Equal(t, "🐉🦉", truncate("🐉🦉🦋", 2))
}

func TestChunkItems(t *testing.T) {
	t.Parallel()
	chunks := chunkItems(2, 1, 2, 3, 4, 5)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunks)
	assert.Empty(t, chunkItems[int](5))
}

func TestLoggerCtx(t *testing.T) {
	t.Parallel()
	logger := slog.Default().With("test", t.Name())
	ctx := WithLogger(context.Background(), logger)
	got, ok := ContextLogger(ctx)
	require.True(t, ok)
	assert.Equal(t, logger, got)

	_, ok = ContextLogger(context.Background())
	assert.False(t, ok)
}

func TestGetDiscordUser(t *testing.T) {
	t.Parallel()
	u := newDiscordUser(t)

	dm := newCommandInteraction(t, u, nil, "hello")
	assert.Equal(t, u, getDiscordUser(dm))

	guild := newCommandInteraction(t, u, &discordgo.Member{}, "hello")
	assert.Nil(t, guild.User)
	assert.Equal(t, u, getDiscordUser(guild))
}

func TestConfigLogValueRedactsSecrets(t *testing.T) {
	t.Parallel()
	cfg := newTestConfig(t)
	cfg.Discord.Token = "super-secret-discord-token"
	cfg.Telegram.Token = "super-secret-telegram-token"

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("starting", slog.Any("config", cfg))

	out := buf.String()
	assert.NotContains(t, out, "super-secret-discord-token")
	assert.NotContains(t, out, "super-secret-telegram-token")
	assert.Contains(t, out, "[redacted]")
	assert.Contains(t, out, cfg.Database)
}
