package albjbot

import (
	"context"
	"errors"
	"fmt"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

const telegramMaxMessageLength = 4096

var setTelegramLoggerOnce sync.Once

// telegramSender is the part of tgbotapi.BotAPI used to post updates
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// telegramLogger adapts slog for tgbotapi's package logger
type telegramLogger struct {
	logger *slog.Logger
}

func (t telegramLogger) Println(v ...any) {
	t.logger.Debug(strings.TrimSpace(fmt.Sprintln(v...)))
}

func (t telegramLogger) Printf(format string, v ...any) {
	t.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// TelegramSync cross-posts daily updates to a telegram chat or channel.
// The bot API client is created on first use, since creating it calls
// getMe.
type TelegramSync struct {
	config    *TelegramConfig
	client    *http.Client
	logger    *slog.Logger
	mu        sync.Mutex
	sender    telegramSender
	newSender func() (telegramSender, error)
}

func NewTelegramSync(
	config *TelegramConfig,
	httpClient *http.Client,
	logger *slog.Logger,
) *TelegramSync {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(loggerNameKey, "telegram")
	setTelegramLoggerOnce.Do(
		func() {
			_ = tgbotapi.SetLogger(telegramLogger{logger: logger})
		},
	)

	client := &http.Client{Timeout: config.SendTimeout}
	if httpClient != nil {
		client.Transport = httpClient.Transport
		client.Jar = httpClient.Jar
	}
	t := &TelegramSync{
		config: config,
		client: client,
		logger: logger,
	}
	t.newSender = t.botAPI
	return t
}

func (t *TelegramSync) botAPI() (telegramSender, error) {
	endpoint := t.config.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithClient(t.config.Token, endpoint, t.client)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram bot: %w", err)
	}
	t.logger.Info("telegram bot authorized", "username", bot.Self.UserName)
	return bot, nil
}

func (t *TelegramSync) getSender() (telegramSender, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sender != nil {
		return t.sender, nil
	}
	s, err := t.newSender()
	if err != nil {
		return nil, err
	}
	t.sender = s
	return s, nil
}

// Send posts the update, as plain text, to the configured chat
func (t *TelegramSync) Send(ctx context.Context, update DailyUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := telegramMessage(t.config.ChatID, update.PlainText())
	if err != nil {
		return err
	}
	sender, err := t.getSender()
	if err != nil {
		return err
	}
	sent, err := sender.Send(msg)
	if err != nil {
		return fmt.Errorf("error sending telegram message: %w", err)
	}
	t.logger.InfoContext(
		ctx,
		"synced update to telegram",
		"chat_id", t.config.ChatID,
		"message_id", sent.MessageID,
		"title", update.Title,
	)
	return nil
}

// telegramMessage builds a message for a numeric chat ID or an
// @channelname
func telegramMessage(chatID string, text string) (tgbotapi.MessageConfig, error) {
	chatID = strings.TrimSpace(chatID)
	text = truncate(text, telegramMaxMessageLength)

	var msg tgbotapi.MessageConfig
	switch {
	case chatID == "":
		return msg, errors.New("telegram chat id not set")
	case strings.HasPrefix(chatID, "@"):
		msg = tgbotapi.NewMessageToChannel(chatID, text)
	default:
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return msg, fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
		}
		msg = tgbotapi.NewMessage(id, text)
	}
	msg.DisableWebPagePreview = true
	return msg, nil
}
