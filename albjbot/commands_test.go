package albjbot

import (
	"context"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"strings"
	"testing"
	"time"
)

func adminMember() *discordgo.Member {
	return &discordgo.Member{Permissions: discordgo.PermissionAdministrator}
}

func assertEphemeral(t testing.TB, resp *discordgo.InteractionResponse) {
	t.Helper()
	require.NotNil(t, resp.Data)
	assert.NotZero(t, resp.Data.Flags&discordgo.MessageFlagsEphemeral, "expected ephemeral response")
}

func TestApplicationCommands(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)

	cmds := bot.ApplicationCommands()
	assert.Len(t, cmds, 33)

	names := map[string]*discordgo.ApplicationCommand{}
	for _, c := range cmds {
		assert.NotContains(t, names, c.Name, "duplicate command")
		names[c.Name] = c
		assert.NotEmpty(t, c.Description, c.Name)
		assert.LessOrEqual(t, len(c.Description), 100, c.Name)
	}
	for _, name := range []string{
		"start", "help", "checkin", "mystats", "notifications", "alerts",
		"quiz", "alebrije", "countdown", "setup", "announce",
	} {
		assert.Contains(t, names, name)
	}

	for _, name := range []string{"setup", "announce"} {
		c := names[name]
		require.NotNil(t, c.DefaultMemberPermissions, name)
		assert.Equal(t, int64(discordgo.PermissionAdministrator), *c.DefaultMemberPermissions)
		require.NotNil(t, c.DMPermission)
		assert.False(t, *c.DMPermission)
	}
	assert.Nil(t, names["checkin"].DefaultMemberPermissions)
}

func TestRegisterSlashCommands(t *testing.T) {
	t.Parallel()
	bot, session := newTestBot(t)

	created, err := bot.RegisterSlashCommands()
	require.NoError(t, err)
	assert.Len(t, created, 33)
	assert.Len(t, session.registered, 33)

	bot.config.Discord.ApplicationID = ""
	_, err = bot.RegisterSlashCommands()
	assert.ErrorContains(t, err, "application id")
}

func TestListSlashCommands(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)

	registered, err := bot.ListSlashCommands()
	require.NoError(t, err)
	assert.Empty(t, registered)

	_, err = bot.RegisterSlashCommands()
	require.NoError(t, err)

	registered, err = bot.ListSlashCommands()
	require.NoError(t, err)
	require.Len(t, registered, 33)
	assert.Equal(t, "cmd_0", registered[0].ID)

	bot.config.Discord.ApplicationID = ""
	_, err = bot.ListSlashCommands()
	assert.ErrorContains(t, err, "application id")
}

func TestNewSessionUsesHTTPClient(t *testing.T) {
	t.Parallel()
	cfg := newTestConfig(t)
	client := &http.Client{Timeout: 7 * time.Second}
	cfg.HTTPClient = client
	bot, err := New(cfg)
	require.NoError(t, err)

	handler, err := bot.discord.newSession()
	require.NoError(t, err)
	session, ok := handler.(DiscordSession)
	require.True(t, ok)
	assert.Same(t, client, session.session.Client)
}

func TestCommandsAllRespond(t *testing.T) {
	t.Parallel()
	bot, session := newTestBot(t)
	session.addGuild("guild_1")
	u := newDiscordUser(t)

	for _, c := range bot.commandList {
		t.Run(
			c.Name, func(t *testing.T) {
				resp := interact(t, bot, newCommandInteraction(t, u, nil, c.Name))
				assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
				require.NotNil(t, resp.Data)
				assert.True(
					t,
					resp.Data.Content != "" || len(resp.Data.Embeds) > 0,
					"empty response for /%s", c.Name,
				)
				assert.NotEqual(t, genericErrorMessage, resp.Data.Content)
				if c.AdminOnly {
					assert.Equal(t, adminOnlyMessage, resp.Data.Content)
				}
				for _, e := range resp.Data.Embeds {
					assert.NotEmpty(t, e.Title, c.Name)
					assert.LessOrEqual(t, len([]rune(e.Description)), discordMaxEmbedDescriptionSize)
				}
			},
		)
	}
}

func TestCommandVisibility(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "funfact"))
	assert.Zero(t, resp.Data.Flags&discordgo.MessageFlagsEphemeral)

	resp = interact(t, bot, newCommandInteraction(t, u, nil, "start"))
	assertEphemeral(t, resp)
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "moon"))
	assertEphemeral(t, resp)
	assert.Equal(t, fmt.Sprintf(unknownCommandFormat, "moon"), resp.Data.Content)
}

func TestAdminCommandDenied(t *testing.T) {
	t.Parallel()
	bot, session := newTestBot(t)
	u := newDiscordUser(t)

	// guild member without administrator
	member := &discordgo.Member{Permissions: discordgo.PermissionSendMessages}
	resp := interact(
		t,
		bot,
		newCommandInteraction(t, u, member, "announce", stringOption(optionMessage, "hi")),
	)
	assertEphemeral(t, resp)
	assert.Equal(t, adminOnlyMessage, resp.Data.Content)
	assert.Zero(t, session.sentCount())
}

func TestHelpCommand(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "help"))
	require.Len(t, resp.Data.Embeds, 1)
	e := resp.Data.Embeds[0]
	assert.Equal(t, "🎭 ALBJ Bot Commands", e.Title)

	var all strings.Builder
	for _, f := range e.Fields {
		all.WriteString(f.Value + "\n")
		assert.LessOrEqual(t, len([]rune(f.Value)), 1024, f.Name)
	}
	for _, c := range bot.commandList {
		assert.Contains(t, all.String(), "`/"+c.Name+"`")
	}
	assert.Contains(t, all.String(), "`/announce` - Post an announcement *(admin)*")
	assert.Equal(t, categoryBasic, e.Fields[0].Name)
}

func TestHelloCommand(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "hello"))
	assert.Contains(t, resp.Data.Content, u.Mention())
}

func TestCheckInCommand(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	clock := newTestClock(time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC))
	bot.status.now = clock.Now
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "checkin"))
	assertEphemeral(t, resp)
	assert.Equal(t, firstCheckInMessage, resp.Data.Content)

	clock.Advance(24 * time.Hour)
	resp = interact(t, bot, newCommandInteraction(t, u, nil, "checkin"))
	assert.Equal(t, "🔥 Daily Check-in Streak: 2 days\n💎 Total Points: 15", resp.Data.Content)

	clock.Advance(72 * time.Hour)
	resp = interact(t, bot, newCommandInteraction(t, u, nil, "checkin"))
	assert.Equal(t, "🔥 Daily Check-in Streak: 1 days\n💎 Total Points: 15", resp.Data.Content)

	resp = interact(t, bot, newCommandInteraction(t, u, nil, "mystats"))
	require.Len(t, resp.Data.Embeds, 1)
	e := resp.Data.Embeds[0]
	assert.Equal(t, fmt.Sprintf("🏆 %s's ALBJ Stats", u.Username), e.Title)
	require.Len(t, e.Fields, 3)
	assert.Equal(t, "1 days", e.Fields[0].Value)
	assert.Equal(t, "15", e.Fields[1].Value)
	assert.Equal(t, "2025-06-05", e.Fields[2].Value)
}

func TestCheckInUsesConfiguredTimezone(t *testing.T) {
	t.Parallel()
	cfg := newTestConfig(t)
	cfg.DailyUpdate.Timezone = "America/Mexico_City"
	bot, _ := newTestBotWithConfig(t, cfg)

	// 03:00 UTC on June 2nd is the evening of June 1st in Mexico City
	clock := newTestClock(time.Date(2025, time.June, 2, 3, 0, 0, 0, time.UTC))
	bot.status.now = clock.Now
	u := newDiscordUser(t)

	interact(t, bot, newCommandInteraction(t, u, nil, "checkin"))
	rec, err := bot.writeDB.GetCheckIn(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "2025-06-01", rec.LastCheckIn)
}

func TestMyStatsNoRecord(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "mystats"))
	assertEphemeral(t, resp)
	assert.Equal(t, noStatsMessage, resp.Data.Content)
}

func TestCheckInWithoutDatabase(t *testing.T) {
	t.Parallel()
	bot, err := New(newTestConfig(t))
	require.NoError(t, err)
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "checkin"))
	assertEphemeral(t, resp)
	assert.Equal(t, genericErrorMessage, resp.Data.Content)
}

func TestNotificationsCommand(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	u := newDiscordUser(t)

	for _, name := range []string{"notifications", "alerts"} {
		resp := interact(t, bot, newCommandInteraction(t, u, nil, name))
		assertEphemeral(t, resp)
		assert.Equal(t, notificationsMessage, resp.Data.Content)
		assert.Equal(
			t,
			[]string{"Price Alerts: OFF", "Daily Updates: OFF", "Event Reminders: OFF"},
			buttonLabels(resp.Data.Components),
		)
	}

	resp := interact(t, bot, newComponentInteraction(t, u, NotifyDailyUpdates.CustomID()))
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	assert.Equal(
		t,
		[]string{"Price Alerts: OFF", "Daily Updates: ON", "Event Reminders: OFF"},
		buttonLabels(resp.Data.Components),
	)

	pref, err := bot.writeDB.GetNotificationPreference(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, pref.DailyUpdates)

	resp = interact(t, bot, newComponentInteraction(t, u, NotifyDailyUpdates.CustomID()))
	assert.Contains(t, buttonLabels(resp.Data.Components), "Daily Updates: OFF")
}

func TestQuiz(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "quiz"))
	require.Len(t, resp.Data.Embeds, 1)
	assert.Equal(t, "🧠 ALBJ Quiz", resp.Data.Embeds[0].Title)
	labels := buttonLabels(resp.Data.Components)
	assert.Len(t, labels, 4)

	q := quizQuestions[0]
	resp = interact(t, bot, newComponentInteraction(t, u, quizCustomID(0, q.Answer)))
	assertEphemeral(t, resp)
	assert.Equal(t, "✅ Correct! "+q.Explanation, resp.Data.Content)

	resp = interact(t, bot, newComponentInteraction(t, u, quizCustomID(0, 3)))
	assert.True(t, strings.HasPrefix(resp.Data.Content, "❌ Not quite! The answer is **Oaxaca & Mexico City**."))
}

func TestParseQuizCustomID(t *testing.T) {
	t.Parallel()
	q, c, ok := parseQuizCustomID(quizCustomID(2, 1))
	assert.True(t, ok)
	assert.Equal(t, 2, q)
	assert.Equal(t, 1, c)

	for _, id := range []string{
		"quiz:1",
		"quiz:a:b",
		"poll:1:1",
		fmt.Sprintf("quiz:%d:0", len(quizQuestions)),
		"quiz:0:9",
		"quiz:-1:0",
	} {
		_, _, ok = parseQuizCustomID(id)
		assert.Falsef(t, ok, "expected %q to be rejected", id)
	}
}

func TestUnhandledButton(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	u := newDiscordUser(t)

	for _, id := range []string{"view_roadmap", "toggle_whale_alerts"} {
		resp := interact(t, bot, newComponentInteraction(t, u, id))
		assertEphemeral(t, resp)
		assert.Equal(t, fmt.Sprintf(comingSoonFormat, id), resp.Data.Content)
	}
}

func TestAlebrijeCommand(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "alebrije", stringOption(optionName, "dragon jaguar")))
	require.Len(t, resp.Data.Embeds, 1)
	assert.Contains(t, resp.Data.Embeds[0].Title, "Dragon-Jaguar")

	resp = interact(t, bot, newCommandInteraction(t, u, nil, "alebrije", stringOption(optionName, "owl")))
	require.Len(t, resp.Data.Embeds, 1)
	assert.Contains(t, resp.Data.Embeds[0].Title, "Owl")

	resp = interact(t, bot, newCommandInteraction(t, u, nil, "alebrije", stringOption(optionName, "eagle")))
	assert.Empty(t, resp.Data.Embeds)
	assert.Contains(t, resp.Data.Content, "Unknown spirit")
}

func TestFindSpirit(t *testing.T) {
	t.Parallel()
	s, ok := findSpirit("Fox-Butterfly")
	assert.True(t, ok)
	assert.Equal(t, "Fox-Butterfly", s.Name)

	s, ok = findSpirit("  FOX_butterfly ")
	assert.True(t, ok)
	assert.Equal(t, "Fox-Butterfly", s.Name)

	_, ok = findSpirit("")
	assert.False(t, ok)

	// Eagle-Lizard and Turtle-Eagle
	_, ok = findSpirit("eagle")
	assert.False(t, ok)
}

func TestCountdownCommand(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	u := newDiscordUser(t)
	clock := newTestClock(DefaultLaunchDate.Add(-(2*24*time.Hour + 3*time.Hour + 30*time.Minute)))
	bot.status.now = clock.Now

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "countdown"))
	require.Len(t, resp.Data.Embeds, 1)
	e := resp.Data.Embeds[0]
	assert.Equal(t, "⏳ ALBJ Launch Countdown", e.Title)
	require.Len(t, e.Fields, 3)
	assert.Equal(t, "2", e.Fields[0].Value)
	assert.Equal(t, "3", e.Fields[1].Value)
	assert.Equal(t, "30", e.Fields[2].Value)
	assert.Contains(t, e.Description, "**3 days**")

	clock.Advance(3 * 24 * time.Hour)
	resp = interact(t, bot, newCommandInteraction(t, u, nil, "countdown"))
	assert.Equal(t, "🎉 ALBJ Token Has Launched!", resp.Data.Embeds[0].Title)
}

func TestSetupCommand(t *testing.T) {
	t.Parallel()
	bot, session := newTestBot(t)
	session.addGuild(
		"guild_1",
		&discordgo.Channel{ID: "c1", Name: "announcements", Type: discordgo.ChannelTypeGuildText},
		&discordgo.Channel{ID: "c2", Name: "random", Type: discordgo.ChannelTypeGuildText},
		&discordgo.Channel{ID: "c3", Name: "daily-voice", Type: discordgo.ChannelTypeGuildVoice},
	)
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, adminMember(), "setup"))
	assertEphemeral(t, resp)
	require.Len(t, resp.Data.Embeds, 1)

	fields := map[string]string{}
	for _, f := range resp.Data.Embeds[0].Fields {
		fields[f.Name] = f.Value
	}
	assert.Equal(t, "<#c1>", fields["📢 Update Channels"])
	assert.Equal(t, "`0 12 * * *` (UTC)", fields["📅 Daily Updates"])
	assert.Equal(t, "33", fields["🤖 Commands"])
	assert.Equal(t, "Disabled", fields["✈️ Telegram Sync"])
}

func TestAnnounceCommand(t *testing.T) {
	t.Parallel()
	bot, session := newTestBot(t)
	u := newDiscordUser(t)

	resp := interact(
		t,
		bot,
		newCommandInteraction(t, u, adminMember(), "announce", stringOption(optionMessage, "Hello spirits!")),
	)
	assertEphemeral(t, resp)
	assert.Equal(t, "✅ Announcement sent to <#channel_1>", resp.Data.Content)

	sent := session.sentTo("channel_1")
	require.Len(t, sent, 1)
	assert.Equal(t, "📢 ALBJ Announcement", sent[0].Title)
	assert.Equal(t, "Hello spirits!", sent[0].Description)

	channelOpt := &discordgo.ApplicationCommandInteractionDataOption{
		Name:  optionChannel,
		Type:  discordgo.ApplicationCommandOptionChannel,
		Value: "news_channel",
	}
	resp = interact(
		t,
		bot,
		newCommandInteraction(t, u, adminMember(), "announce", stringOption(optionMessage, "Weekend"), channelOpt),
	)
	assert.Equal(t, "✅ Announcement sent to <#news_channel>", resp.Data.Content)
	sent = session.sentTo("news_channel")
	require.Len(t, sent, 1)
	assert.Equal(t, "🎉 ALBJ Weekend Update", sent[0].Title)
}

func TestAnnounceSendFails(t *testing.T) {
	t.Parallel()
	bot, session := newTestBot(t)
	session.failChannels["channel_1"] = true
	u := newDiscordUser(t)

	resp := interact(
		t,
		bot,
		newCommandInteraction(t, u, adminMember(), "announce", stringOption(optionMessage, "hi")),
	)
	assert.Equal(t, genericErrorMessage, resp.Data.Content)
}

func TestInteractionPanicRecovered(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)
	bot.commands["boom"] = Command{
		Name: "boom",
		Handler: func(
			context.Context,
			*Bot,
			*CommandRequest,
		) (*discordgo.InteractionResponseData, error) {
			panic("kaboom")
		},
	}
	u := newDiscordUser(t)

	resp := interact(t, bot, newCommandInteraction(t, u, nil, "boom"))
	assertEphemeral(t, resp)
	assert.Equal(t, genericErrorMessage, resp.Data.Content)

	snap := bot.status.Snapshot()
	assert.Equal(t, DiscordStatusUncaughtPanic, snap.Discord)
	assert.Contains(t, snap.LastError, "kaboom")
	require.NotNil(t, snap.LastErrorAt)
}

func TestInteractionIgnored(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)

	u := newDiscordUser(t)
	u.Bot = true
	h := newStubInteractionHandler(t, newCommandInteraction(t, u, nil, "start"))
	bot.handleInteraction(context.Background(), h)
	assert.Empty(t, h.callRespond)

	noUser := newCommandInteraction(t, newDiscordUser(t), nil, "start")
	noUser.User = nil
	h = newStubInteractionHandler(t, noUser)
	bot.handleInteraction(context.Background(), h)
	assert.Empty(t, h.callRespond)
}

func TestInteractionPing(t *testing.T) {
	t.Parallel()
	bot, _ := newTestBot(t)

	i := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{ID: "ping", Type: discordgo.InteractionPing},
	}
	resp := interact(t, bot, i)
	assert.Equal(t, discordgo.InteractionResponsePong, resp.Type)
}
