package albjbot

import (
	"context"
	"errors"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
	"strconv"
	"strings"
	"time"
)

const (
	unknownCommandFormat = "Command %s is still under development. Try /help for available commands."
	comingSoonFormat     = "Button %s clicked! This feature is coming soon."
	genericErrorMessage  = "An error occurred while processing your command. Please try again later."
	adminOnlyMessage     = "⛔ This command is restricted to server administrators."
	noStatsMessage       = "📊 No stats available. Start your daily check-ins!"
	firstCheckInMessage  = "🎉 First check-in! Welcome to the ALBJ daily spirit journey!"
	notificationsMessage = "🔔 Manage your ALBJ Token notification preferences:"

	quizCustomIDPrefix = "quiz"

	commandOutcomeOK        = "ok"
	commandOutcomeError     = "error"
	commandOutcomeUnknown   = "unknown"
	commandOutcomeForbidden = "forbidden"

	categoryBasic         = "📊 Basic"
	categoryToken         = "💰 Token Information"
	categoryNFT           = "🎨 NFT & Spirits"
	categoryCommunity     = "👥 Community"
	categorySupport       = "🆘 Support"
	categoryFun           = "🎭 Fun & Games"
	categoryEngagement    = "🏆 Engagement"
	categoryNotifications = "🔔 Notifications"
	categoryTools         = "🛠️ Tools"
	categoryAdmin         = "🔐 Admin"

	optionName    = "name"
	optionMessage = "message"
	optionChannel = "channel"
)

// CommandHandlerFunc builds the response to a slash command. Returning an
// error sends the generic error message instead.
type CommandHandlerFunc func(
	ctx context.Context,
	b *Bot,
	req *CommandRequest,
) (*discordgo.InteractionResponseData, error)

// Command is a slash command and its handler
type Command struct {
	Name        string
	Description string
	Category    string
	Options     []*discordgo.ApplicationCommandOption

	// AdminOnly commands are hidden from non-admins by default member
	// permissions, and checked again when invoked
	AdminOnly bool

	// Public responses are visible to the whole channel. Everything else
	// is ephemeral.
	Public bool

	Handler CommandHandlerFunc
}

// ApplicationCommand returns the command's registration payload
func (c Command) ApplicationCommand() *discordgo.ApplicationCommand {
	ac := &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
	if c.AdminOnly {
		perms := int64(discordgo.PermissionAdministrator)
		dmAllowed := false
		ac.DefaultMemberPermissions = &perms
		ac.DMPermission = &dmAllowed
	}
	return ac
}

// CommandRequest is a slash command invocation
type CommandRequest struct {
	Interaction *discordgo.InteractionCreate
	User        *discordgo.User
	Options     map[string]*discordgo.ApplicationCommandInteractionDataOption
	Now         time.Time
}

func (r *CommandRequest) stringOption(name string) string {
	if opt, ok := r.Options[name]; ok && opt != nil {
		return opt.StringValue()
	}
	return ""
}

func embedResponse(embeds ...*discordgo.MessageEmbed) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{Embeds: embeds}
}

func textResponse(content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{Content: content}
}

// staticEmbed is a handler for commands whose reply only depends on the
// project config
func staticEmbed(
	f func(p *ProjectConfig) *discordgo.MessageEmbed,
) CommandHandlerFunc {
	return func(
		_ context.Context,
		b *Bot,
		_ *CommandRequest,
	) (*discordgo.InteractionResponseData, error) {
		return embedResponse(f(b.config.Project)), nil
	}
}

// randomEmbed is a handler that picks one of items
func randomEmbed(
	items []string,
	f func(string) *discordgo.MessageEmbed,
) CommandHandlerFunc {
	return func(
		_ context.Context,
		b *Bot,
		_ *CommandRequest,
	) (*discordgo.InteractionResponseData, error) {
		return embedResponse(f(items[b.randIntN(len(items))])), nil
	}
}

// defaultCommands returns every slash command, in the order shown by /help
func defaultCommands() []Command {
	notifications := Command{
		Name:        "notifications",
		Description: "Manage alert preferences",
		Category:    categoryNotifications,
		Handler:     notificationsCommand,
	}
	alerts := notifications
	alerts.Name = "alerts"
	alerts.Description = "Same as /notifications"

	return []Command{
		{
			Name:        "start",
			Description: "Welcome & main menu",
			Category:    categoryBasic,
			Handler:     staticEmbed(startEmbed),
		},
		{
			Name:        "help",
			Description: "Show this help menu",
			Category:    categoryBasic,
			Handler: func(
				_ context.Context,
				b *Bot,
				_ *CommandRequest,
			) (*discordgo.InteractionResponseData, error) {
				return embedResponse(helpEmbed(b.commandList)), nil
			},
		},
		{
			Name:        "hello",
			Description: "Interactive greeting",
			Category:    categoryBasic,
			Handler:     helloCommand,
		},
		{
			Name:        "funfact",
			Description: "Random ALBJ fact",
			Category:    categoryBasic,
			Public:      true,
			Handler:     randomEmbed(albjFacts, funFactEmbed),
		},
		{
			Name:        "info",
			Description: "Complete token details",
			Category:    categoryToken,
			Handler:     staticEmbed(infoEmbed),
		},
		{
			Name:        "price",
			Description: "Price check (post-launch)",
			Category:    categoryToken,
			Handler: func(
				_ context.Context,
				b *Bot,
				req *CommandRequest,
			) (*discordgo.InteractionResponseData, error) {
				return embedResponse(priceEmbed(b.config.Project, req.Now)), nil
			},
		},
		{
			Name:        "holders",
			Description: "Holder statistics",
			Category:    categoryToken,
			Handler: func(
				context.Context,
				*Bot,
				*CommandRequest,
			) (*discordgo.InteractionResponseData, error) {
				return embedResponse(holdersEmbed()), nil
			},
		},
		{
			Name:        "roadmap",
			Description: "Development roadmap",
			Category:    categoryToken,
			Handler:     staticEmbed(roadmapEmbed),
		},
		{
			Name:        "countdown",
			Description: "Launch countdown",
			Category:    categoryToken,
			Handler: func(
				_ context.Context,
				b *Bot,
				req *CommandRequest,
			) (*discordgo.InteractionResponseData, error) {
				return embedResponse(countdownEmbed(b.config.Project, req.Now)), nil
			},
		},
		{
			Name:        "launch",
			Description: "Launch day information",
			Category:    categoryToken,
			Handler:     staticEmbed(launchEmbed),
		},
		{
			Name:        "tokenomics",
			Description: "Token distribution",
			Category:    categoryToken,
			Handler: func(
				context.Context,
				*Bot,
				*CommandRequest,
			) (*discordgo.InteractionResponseData, error) {
				return embedResponse(tokenomicsEmbed()), nil
			},
		},
		{
			Name:        "nft",
			Description: "NFT collection preview",
			Category:    categoryNFT,
			Handler:     staticEmbed(nftEmbed),
		},
		{
			Name:        "spirits",
			Description: "View all 12 Alebrije creatures",
			Category:    categoryNFT,
			Handler: func(
				context.Context,
				*Bot,
				*CommandRequest,
			) (*discordgo.InteractionResponseData, error) {
				return embedResponse(spiritsEmbed()), nil
			},
		},
		{
			Name:        "alebrije",
			Description: "Individual spirit info",
			Category:    categoryNFT,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionName,
					Description: "Name of the Alebrije spirit (e.g. dragon-jaguar)",
					Required:    true,
				},
			},
			Handler: alebrijeCommand,
		},
		{
			Name:        "culture",
			Description: "Mexican folklore background",
			Category:    categoryNFT,
			Handler:     staticEmbed(cultureEmbed),
		},
		{
			Name:        "community",
			Description: "Community links",
			Category:    categoryCommunity,
			Handler:     staticEmbed(communityEmbed),
		},
		{
			Name:        "team",
			Description: "Meet the team",
			Category:    categoryCommunity,
			Handler: func(
				context.Context,
				*Bot,
				*CommandRequest,
			) (*discordgo.InteractionResponseData, error) {
				return embedResponse(teamEmbed()), nil
			},
		},
		{
			Name:        "careers",
			Description: "Job opportunities",
			Category:    categoryCommunity,
			Handler:     staticEmbed(careersEmbed),
		},
		{
			Name:        "events",
			Description: "Upcoming events",
			Category:    categoryCommunity,
			Handler:     staticEmbed(eventsEmbed),
		},
		{
			Name:        "social",
			Description: "Social media links",
			Category:    categoryCommunity,
			Handler:     staticEmbed(socialEmbed),
		},
		{
			Name:        "support",
			Description: "Help & support center",
			Category:    categorySupport,
			Handler:     staticEmbed(supportEmbed),
		},
		{
			Name:        "faq",
			Description: "Frequently asked questions",
			Category:    categorySupport,
			Handler:     staticEmbed(faqEmbed),
		},
		{
			Name:        "quote",
			Description: "Inspirational quotes",
			Category:    categoryFun,
			Public:      true,
			Handler:     randomEmbed(quotes, quoteEmbed),
		},
		{
			Name:        "joke",
			Description: "ALBJ themed jokes",
			Category:    categoryFun,
			Public:      true,
			Handler:     randomEmbed(jokes, jokeEmbed),
		},
		{
			Name:        "meme",
			Description: "Community memes",
			Category:    categoryFun,
			Public:      true,
			Handler:     randomEmbed(memes, memeEmbed),
		},
		{
			Name:        "quiz",
			Description: "Test your knowledge",
			Category:    categoryFun,
			Public:      true,
			Handler:     quizCommand,
		},
		{
			Name:        "checkin",
			Description: "Daily spirit check-in",
			Category:    categoryEngagement,
			Handler:     checkInCommand,
		},
		{
			Name:        "mystats",
			Description: "View your progress",
			Category:    categoryEngagement,
			Handler:     myStatsCommand,
		},
		notifications,
		alerts,
		{
			Name:        "pricealert",
			Description: "Price monitoring (post-launch)",
			Category:    categoryTools,
			Handler: func(
				context.Context,
				*Bot,
				*CommandRequest,
			) (*discordgo.InteractionResponseData, error) {
				return embedResponse(priceAlertEmbed()), nil
			},
		},
		{
			Name:        "setup",
			Description: "Show the bot's setup for this server",
			Category:    categoryAdmin,
			AdminOnly:   true,
			Handler:     setupCommand,
		},
		{
			Name:        "announce",
			Description: "Post an announcement",
			Category:    categoryAdmin,
			AdminOnly:   true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionMessage,
					Description: "Announcement text, or a daily update kind (prelaunch, weekend, partnership...)",
					Required:    true,
				},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         optionChannel,
					Description:  "Channel to post in (defaults to this channel)",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
			Handler: announceCommand,
		},
	}
}

// handleCommand runs the named slash command and builds its response.
// It never returns nil.
func (b *Bot) handleCommand(
	ctx context.Context,
	i *discordgo.InteractionCreate,
	u *discordgo.User,
) *discordgo.InteractionResponse {
	logger, ok := ContextLogger(ctx)
	if !ok || logger == nil {
		logger = b.logger
	}
	data := i.ApplicationCommandData()
	logger = logger.With("command", data.Name)

	cmd, ok := b.commands[data.Name]
	if !ok {
		logger.WarnContext(ctx, "unknown command")
		b.metrics.Commands.WithLabelValues(data.Name, commandOutcomeUnknown).Inc()
		return ephemeralResponse(fmt.Sprintf(unknownCommandFormat, data.Name))
	}
	if cmd.AdminOnly && !isGuildAdmin(i) {
		logger.WarnContext(ctx, "admin command denied")
		b.metrics.Commands.WithLabelValues(cmd.Name, commandOutcomeForbidden).Inc()
		return ephemeralResponse(adminOnlyMessage)
	}

	req := &CommandRequest{
		Interaction: i,
		User:        u,
		Options:     discordInteractionOptions(i),
		Now:         b.now(),
	}
	resp, err := cmd.Handler(WithLogger(ctx, logger), b, req)
	if err != nil {
		logger.ErrorContext(ctx, "error executing command", tint.Err(err))
		b.metrics.Commands.WithLabelValues(cmd.Name, commandOutcomeError).Inc()
		return ephemeralResponse(genericErrorMessage)
	}
	b.metrics.Commands.WithLabelValues(cmd.Name, commandOutcomeOK).Inc()
	if resp == nil {
		resp = &discordgo.InteractionResponseData{}
	}
	if !cmd.Public {
		resp.Flags |= discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: resp,
	}
}

// isGuildAdmin reports whether the interaction's member has the
// administrator permission. DMs have no member, so they never pass.
func isGuildAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

func helloCommand(
	_ context.Context,
	b *Bot,
	req *CommandRequest,
) (*discordgo.InteractionResponseData, error) {
	greeting := greetings[b.randIntN(len(greetings))]
	return textResponse(
		fmt.Sprintf(
			"%s\n\nHey %s! Try `/start` to begin, or `/spirits` to meet the Alebrijes.",
			greeting,
			req.User.Mention(),
		),
	), nil
}

func alebrijeCommand(
	_ context.Context,
	_ *Bot,
	req *CommandRequest,
) (*discordgo.InteractionResponseData, error) {
	name := req.stringOption(optionName)
	s, ok := findSpirit(name)
	if !ok {
		return textResponse(
			fmt.Sprintf(
				"❓ Unknown spirit %q. Try one of: %s",
				name,
				strings.Join(spiritNames(), ", "),
			),
		), nil
	}
	return embedResponse(spiritEmbed(s)), nil
}

func quizCommand(
	_ context.Context,
	b *Bot,
	_ *CommandRequest,
) (*discordgo.InteractionResponseData, error) {
	qi := b.randIntN(len(quizQuestions))
	q := quizQuestions[qi]

	buttons := make([]discordgo.MessageComponent, 0, len(q.Choices))
	for ci, choice := range q.Choices {
		buttons = append(
			buttons, discordgo.Button{
				Label:    truncate(choice, 80),
				Style:    discordgo.PrimaryButton,
				CustomID: quizCustomID(qi, ci),
			},
		)
	}
	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "🧠 ALBJ Quiz",
				Description: q.Question,
				Color:       colorPink,
				Footer:      &discordgo.MessageEmbedFooter{Text: "Pick an answer below!"},
			},
		},
		Components: actionRows(buttons),
	}, nil
}

func quizCustomID(question, choice int) string {
	return fmt.Sprintf("%s:%d:%d", quizCustomIDPrefix, question, choice)
}

// parseQuizCustomID parses a quiz answer button ID, quiz:<question>:<choice>
func parseQuizCustomID(customID string) (question int, choice int, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != quizCustomIDPrefix {
		return 0, 0, false
	}
	question, qerr := strconv.Atoi(parts[1])
	choice, cerr := strconv.Atoi(parts[2])
	if qerr != nil || cerr != nil {
		return 0, 0, false
	}
	if question < 0 || question >= len(quizQuestions) {
		return 0, 0, false
	}
	if choice < 0 || choice >= len(quizQuestions[question].Choices) {
		return 0, 0, false
	}
	return question, choice, true
}

func checkInCommand(
	ctx context.Context,
	b *Bot,
	req *CommandRequest,
) (*discordgo.InteractionResponseData, error) {
	if b.writeDB == nil {
		return nil, errors.New("database not initialized")
	}
	result, err := b.writeDB.RecordCheckIn(ctx, req.User.ID, req.Now.In(b.location))
	if err != nil {
		return nil, err
	}
	b.metrics.CheckIns.WithLabelValues(string(result.Outcome)).Inc()
	if result.Outcome == CheckInFirst {
		return textResponse(firstCheckInMessage), nil
	}
	return textResponse(
		fmt.Sprintf(
			"🔥 Daily Check-in Streak: %d days\n💎 Total Points: %d",
			result.Streak,
			result.TotalPoints,
		),
	), nil
}

func myStatsCommand(
	ctx context.Context,
	b *Bot,
	req *CommandRequest,
) (*discordgo.InteractionResponseData, error) {
	if b.writeDB == nil {
		return nil, errors.New("database not initialized")
	}
	rec, err := b.writeDB.GetCheckIn(ctx, req.User.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return textResponse(noStatsMessage), nil
	}
	return embedResponse(statsEmbed(req.User.Username, rec)), nil
}

func notificationsCommand(
	ctx context.Context,
	b *Bot,
	req *CommandRequest,
) (*discordgo.InteractionResponseData, error) {
	if b.writeDB == nil {
		return nil, errors.New("database not initialized")
	}
	pref, err := b.writeDB.GetNotificationPreference(ctx, req.User.ID)
	if err != nil {
		return nil, err
	}
	return &discordgo.InteractionResponseData{
		Content:    notificationsMessage,
		Components: notificationComponents(pref),
	}, nil
}

// notificationComponents renders one ON/OFF button per notification kind
func notificationComponents(pref *NotificationPreference) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(notificationKinds))
	for _, kind := range notificationKinds {
		state := "OFF"
		style := discordgo.DangerButton
		if pref.Enabled(kind) {
			state = "ON"
			style = discordgo.SuccessButton
		}
		buttons = append(
			buttons, discordgo.Button{
				Label:    fmt.Sprintf("%s: %s", kind.Label(), state),
				Style:    style,
				CustomID: kind.CustomID(),
			},
		)
	}
	return actionRows(buttons)
}

func actionRows(buttons []discordgo.MessageComponent) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for _, row := range chunkItems(discordMaxButtonsPerActionRow, buttons...) {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

func setupCommand(
	_ context.Context,
	b *Bot,
	req *CommandRequest,
) (*discordgo.InteractionResponseData, error) {
	cfg := b.config.DailyUpdate
	e := &discordgo.MessageEmbed{
		Title:  "🛠️ ALBJ Bot Setup",
		Color:  colorOrange,
		Footer: &discordgo.MessageEmbedFooter{Text: "Only administrators can see this"},
	}

	schedule := "Disabled"
	if cfg.Enabled {
		schedule = fmt.Sprintf("`%s` (%s)", cfg.Schedule, cfg.Timezone)
	}
	e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "📅 Daily Updates", Value: schedule, Inline: true})

	if b.scheduler != nil {
		if next := b.scheduler.Next(); !next.IsZero() {
			e.Fields = append(
				e.Fields, &discordgo.MessageEmbedField{
					Name:   "⏭️ Next Update",
					Value:  fmt.Sprintf("<t:%d:F>", next.Unix()),
					Inline: true,
				},
			)
		}
	}

	channelsValue := fmt.Sprintf(
		"No channels matched. Create a text channel with one of these in its name: %s",
		strings.Join(cfg.ChannelKeywords, ", "),
	)
	if b.discord.session != nil && req.Interaction.GuildID != "" {
		channels, err := b.discord.session.GuildChannels(req.Interaction.GuildID)
		if err != nil {
			return nil, fmt.Errorf("error listing channels: %w", err)
		}
		var mentions []string
		for _, ch := range channels {
			if matchesUpdateChannel(ch, cfg.ChannelKeywords) {
				mentions = append(mentions, ch.Mention())
			}
		}
		if len(mentions) > 0 {
			channelsValue = strings.Join(mentions, " ")
		}
	}
	e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "📢 Update Channels", Value: channelsValue})

	telegram := "Disabled"
	if b.config.Telegram.Enabled {
		telegram = "Enabled"
	}
	dms := "Disabled"
	if cfg.DirectMessages {
		dms = "Enabled"
	}
	e.Fields = append(
		e.Fields,
		&discordgo.MessageEmbedField{Name: "✈️ Telegram Sync", Value: telegram, Inline: true},
		&discordgo.MessageEmbedField{Name: "✉️ Update DMs", Value: dms, Inline: true},
		&discordgo.MessageEmbedField{
			Name:   "🤖 Commands",
			Value:  strconv.Itoa(len(b.commandList)),
			Inline: true,
		},
	)
	return embedResponse(e), nil
}

func announceCommand(
	ctx context.Context,
	b *Bot,
	req *CommandRequest,
) (*discordgo.InteractionResponseData, error) {
	if b.discord.session == nil {
		return nil, errors.New("discord session not initialized")
	}
	message := strings.TrimSpace(req.stringOption(optionMessage))
	if message == "" {
		return textResponse("Please provide a message to announce."), nil
	}

	channelID := req.Interaction.ChannelID
	if opt, ok := req.Options[optionChannel]; ok && opt != nil {
		channelID = opt.ChannelValue(nil).ID
	}

	var embed *discordgo.MessageEmbed
	if kind, ok := lookupUpdateKind(strings.ToLower(message)); ok {
		embed = b.updates.Generate(kind, req.Now.In(b.location)).Embed()
	} else {
		embed = &discordgo.MessageEmbed{
			Title:       "📢 ALBJ Announcement",
			Description: truncate(message, discordMaxEmbedDescriptionSize),
			Color:       colorOrange,
			Timestamp:   req.Now.UTC().Format(time.RFC3339),
			Footer:      &discordgo.MessageEmbedFooter{Text: "ALBJ Token Team"},
		}
	}

	if _, err := b.discord.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return nil, fmt.Errorf("error sending announcement: %w", err)
	}
	logger, ok := ContextLogger(ctx)
	if ok && logger != nil {
		logger.InfoContext(ctx, "sent announcement", "channel_id", channelID, "title", embed.Title)
	}
	return textResponse(fmt.Sprintf("✅ Announcement sent to <#%s>", channelID)), nil
}

// handleComponent handles button clicks: notification toggles, quiz
// answers, and anything else gets a "coming soon" reply
func (b *Bot) handleComponent(
	ctx context.Context,
	i *discordgo.InteractionCreate,
	u *discordgo.User,
) *discordgo.InteractionResponse {
	logger, ok := ContextLogger(ctx)
	if !ok || logger == nil {
		logger = b.logger
	}
	customID := i.MessageComponentData().CustomID
	logger = logger.With("custom_id", customID)

	if kindName, found := strings.CutPrefix(customID, "toggle_"); found {
		if kind, valid := parseNotificationKind(kindName); valid {
			return b.toggleNotification(WithLogger(ctx, logger), u, kind)
		}
	}

	if q, c, valid := parseQuizCustomID(customID); valid {
		question := quizQuestions[q]
		var content string
		if c == question.Answer {
			content = "✅ Correct! " + question.Explanation
		} else {
			content = fmt.Sprintf(
				"❌ Not quite! The answer is **%s**. %s",
				question.Choices[question.Answer],
				question.Explanation,
			)
		}
		return ephemeralResponse(content)
	}

	logger.InfoContext(ctx, "unhandled button")
	return ephemeralResponse(fmt.Sprintf(comingSoonFormat, customID))
}

func (b *Bot) toggleNotification(
	ctx context.Context,
	u *discordgo.User,
	kind NotificationKind,
) *discordgo.InteractionResponse {
	logger, _ := ContextLogger(ctx)
	if b.writeDB == nil {
		logger.ErrorContext(ctx, "database not initialized")
		return ephemeralResponse(genericErrorMessage)
	}
	pref, err := b.writeDB.ToggleNotification(ctx, u.ID, kind)
	if err != nil {
		logger.ErrorContext(ctx, "error toggling notification", tint.Err(err))
		return ephemeralResponse(genericErrorMessage)
	}
	enabled := pref.Enabled(kind)
	b.metrics.NotificationToggles.WithLabelValues(string(kind), strconv.FormatBool(enabled)).Inc()
	logger.InfoContext(ctx, "toggled notification", "kind", kind, "enabled", enabled)

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    notificationsMessage,
			Components: notificationComponents(pref),
		},
	}
}
