package albjbot

import (
	"context"
	"errors"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
	"log/slog"
	"runtime/debug"
)

// InteractionHandler responds to a single Discord interaction.
//
// GatewayHandler is the implementation used for interactions received
// over the gateway websocket. Tests substitute their own.
type InteractionHandler interface {
	// Respond sends the initial response to the interaction.
	Respond(ctx context.Context, r *discordgo.InteractionResponse) error

	// GetInteraction returns the original InteractionCreate event.
	GetInteraction() *discordgo.InteractionCreate

	// Logger returns the logger associated with this handler.
	Logger() *slog.Logger
}

// GatewayHandler implements [InteractionHandler] when receiving interactions
// via the discord websocket gateway.
type GatewayHandler struct {
	session     DiscordSessionHandler
	interaction *discordgo.InteractionCreate
	logger      *slog.Logger
}

func (w GatewayHandler) Respond(
	ctx context.Context,
	response *discordgo.InteractionResponse,
) error {
	err := w.session.InteractionRespond(w.interaction.Interaction, response)
	if err != nil {
		w.logger.ErrorContext(ctx, "error responding to interaction", tint.Err(err))
	} else {
		w.logger.InfoContext(ctx, "responded to interaction")
	}
	return err
}

func (w GatewayHandler) GetInteraction() *discordgo.InteractionCreate {
	return w.interaction
}

func (w GatewayHandler) Logger() *slog.Logger {
	return w.logger
}

// handleInteraction routes an interaction to its command or component
// handler and sends the response.
//
// Pings get a pong. Button clicks go to handleComponent, slash commands to
// the command registry. Interactions from bots, or without a user, are
// ignored. A panic while handling is recovered, recorded in the status,
// and answered with the generic error message.
func (b *Bot) handleInteraction(ctx context.Context, handler InteractionHandler) {
	i := handler.GetInteraction()
	logger := handler.Logger()
	if logger == nil {
		logger = b.logger
	}
	ctx = WithLogger(ctx, logger)

	defer func() {
		if rc := recover(); rc != nil {
			b.handleRecover(ctx, rc)
			b.metrics.Panics.WithLabelValues(panicSourceInteraction).Inc()
			b.status.RecordError(DiscordStatusUncaughtPanic, fmt.Errorf("panic: %v", rc))
			_ = handler.Respond(ctx, ephemeralResponse(genericErrorMessage))
		}
	}()

	if i.Type == discordgo.InteractionPing {
		_ = handler.Respond(ctx, &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong})
		return
	}

	u := getDiscordUser(i)
	if u == nil {
		logger.WarnContext(ctx, "no user found for interaction")
		return
	}
	if u.Bot {
		logger.DebugContext(ctx, "ignoring interaction from bot user")
		return
	}

	var resp *discordgo.InteractionResponse
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		resp = b.handleComponent(ctx, i, u)
	case discordgo.InteractionApplicationCommand:
		resp = b.handleCommand(ctx, i, u)
	default:
		logger.WarnContext(ctx, "unsupported interaction type")
		return
	}
	if resp == nil {
		return
	}
	if err := handler.Respond(ctx, resp); err != nil {
		logger.ErrorContext(ctx, "error sending interaction response", tint.Err(err))
	}
}

// handleRecover logs a recovered panic along with the stack trace
func (*Bot) handleRecover(ctx context.Context, rc any) {
	logger, ok := ContextLogger(ctx)
	if logger == nil || !ok {
		logger = slog.Default()
	}
	stackTrace := string(debug.Stack())
	if nerr, ok := rc.(error); ok {
		logger.ErrorContext(
			ctx,
			"recovered from panic",
			tint.Err(nerr),
			"stack_trace", stackTrace,
		)
		return
	}
	if nerr, ok := rc.(string); ok {
		logger.ErrorContext(
			ctx,
			"recovered from panic",
			tint.Err(errors.New(nerr)),
			"stack_trace", stackTrace,
		)
		return
	}
	logger.ErrorContext(
		ctx,
		"recovered from panic",
		"panic_arg", rc,
		"stack_trace", stackTrace,
	)
}

func ephemeralResponse(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}
