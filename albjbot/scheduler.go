package albjbot

import (
	"context"
	"errors"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

const (
	updateTargetChannel  = "channel"
	updateTargetDM       = "dm"
	updateTargetTelegram = "telegram"
	resultOK             = "ok"
	resultError          = "error"

	panicSourceDailyUpdate = "daily_update"
	panicSourceInteraction = "interaction"
)

// cronParser accepts standard 5-field expressions and descriptors like
// @daily
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// matchesUpdateChannel reports whether ch is a text channel whose name
// contains one of the keywords, ignoring case
func matchesUpdateChannel(ch *discordgo.Channel, keywords []string) bool {
	if ch == nil || ch.Type != discordgo.ChannelTypeGuildText {
		return false
	}
	name := strings.ToLower(ch.Name)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// DailyUpdateReport summarizes one fan-out of a daily update
type DailyUpdateReport struct {
	Kind           UpdateKind    `json:"kind"`
	Title          string        `json:"title"`
	ChannelsSent   int           `json:"channels_sent"`
	ChannelsFailed int           `json:"channels_failed"`
	DMsSent        int           `json:"dms_sent"`
	DMsFailed      int           `json:"dms_failed"`
	Telegram       bool          `json:"telegram"`
	Duration       time.Duration `json:"duration"`
}

// DailyUpdateScheduler posts the daily update on a cron schedule, to every
// matching channel, to subscribed users and to telegram.
type DailyUpdateScheduler struct {
	config    *DailyUpdateConfig
	discord   *Discord
	db        DBI
	generator *UpdateGenerator
	telegram  *TelegramSync
	status    *Status
	metrics   *Metrics
	logger    *slog.Logger
	limiter   *rate.Limiter
	location  *time.Location
	now       func() time.Time

	cron   *cron.Cron
	runMu  sync.Mutex
	baseMu sync.Mutex
	// baseCtx is the context scheduled runs use, set by Start
	baseCtx context.Context
}

func newDailyUpdateScheduler(
	config *DailyUpdateConfig,
	discord *Discord,
	db DBI,
	generator *UpdateGenerator,
	telegram *TelegramSync,
	status *Status,
	metrics *Metrics,
	logger *slog.Logger,
) (*DailyUpdateScheduler, error) {
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid daily update timezone %q: %w", config.Timezone, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if status != nil {
		now = status.Now
	}

	s := &DailyUpdateScheduler{
		config:    config,
		discord:   discord,
		db:        db,
		generator: generator,
		telegram:  telegram,
		status:    status,
		metrics:   metrics,
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Limit(config.SendsPerSecond), 1),
		location:  loc,
		now:       now,
		baseCtx:   context.Background(),
	}

	cl := newCronLogger(logger.Handler())
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithParser(cronParser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), s.recoverPanics, cron.SkipIfStillRunning(cl)),
	)
	if _, err = s.cron.AddFunc(config.Schedule, s.scheduledRun); err != nil {
		return nil, fmt.Errorf("invalid daily update schedule %q: %w", config.Schedule, err)
	}
	return s, nil
}

// Start starts the cron scheduler. Scheduled runs use ctx, so canceling
// it aborts a run in progress.
func (s *DailyUpdateScheduler) Start(ctx context.Context) {
	s.baseMu.Lock()
	s.baseCtx = ctx
	s.baseMu.Unlock()

	s.cron.Start()
	s.logger.InfoContext(
		ctx,
		"daily updates scheduled",
		"schedule", s.config.Schedule,
		"timezone", s.location.String(),
		"next", s.Next(),
	)
}

// Stop stops the scheduler and waits for a running update to finish,
// or for ctx to be done.
func (s *DailyUpdateScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("timed out waiting for daily update to finish")
	}
}

// Next returns the next scheduled run, or the zero time if the
// scheduler hasn't been started
func (s *DailyUpdateScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *DailyUpdateScheduler) scheduledRun() {
	s.baseMu.Lock()
	ctx := s.baseCtx
	s.baseMu.Unlock()

	report, err := s.RunOnce(ctx, UpdateAuto)
	if err != nil {
		s.logger.ErrorContext(ctx, "daily update failed", tint.Err(err))
		return
	}
	s.logger.InfoContext(ctx, "daily update sent", "report", report)
}

// recoverPanics wraps a scheduled job, counting and logging a panic and
// recording it in the status. It's a cron.JobWrapper.
func (s *DailyUpdateScheduler) recoverPanics(j cron.Job) cron.Job {
	return cron.FuncJob(
		func() {
			defer func() {
				rc := recover()
				if rc == nil {
					return
				}
				if s.metrics != nil {
					s.metrics.Panics.WithLabelValues(panicSourceDailyUpdate).Inc()
				}
				if s.status != nil {
					s.status.RecordError(DiscordStatusUncaughtPanic, fmt.Errorf("panic: %v", rc))
				}
				s.logger.Error(
					"recovered from panic in scheduled job",
					"panic_arg", rc,
					"stack_trace", string(debug.Stack()),
				)
			}()
			j.Run()
		},
	)
}

// RunOnce generates an update of the given kind and sends it to every
// target. Failures on individual targets are logged and counted, and an
// error is only returned if nothing could be sent.
func (s *DailyUpdateScheduler) RunOnce(
	ctx context.Context,
	kind UpdateKind,
) (*DailyUpdateReport, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	now := s.now().In(s.location)
	update := s.generator.Generate(kind, now)
	embed := update.Embed()
	report := &DailyUpdateReport{Kind: update.Kind, Title: update.Title}
	logger := s.logger.With("kind", update.Kind, "title", update.Title)
	logger.InfoContext(ctx, "sending daily update")

	var errs []error

	channels, err := s.discord.updateChannels(s.config.ChannelKeywords)
	if err != nil {
		errs = append(errs, fmt.Errorf("error finding update channels: %w", err))
	}
	if len(channels) == 0 && err == nil {
		logger.WarnContext(ctx, "no channels matched daily update keywords", "keywords", s.config.ChannelKeywords)
	}
	for _, ch := range channels {
		if err = s.limiter.Wait(ctx); err != nil {
			return report, err
		}
		if _, err = s.discord.session.ChannelMessageSendEmbed(ch.ID, embed); err != nil {
			report.ChannelsFailed++
			s.recordSend(update.Kind, updateTargetChannel, false)
			logger.WarnContext(
				ctx,
				"error sending daily update to channel",
				"channel_id", ch.ID,
				"channel_name", ch.Name,
				"guild_id", ch.GuildID,
				tint.Err(err),
			)
			errs = append(errs, fmt.Errorf("channel %s: %w", ch.ID, err))
			continue
		}
		report.ChannelsSent++
		s.recordSend(update.Kind, updateTargetChannel, true)
	}

	if s.config.DirectMessages && s.db != nil {
		if err = s.sendDirectMessages(ctx, logger, embed, report); err != nil {
			if ctx.Err() != nil {
				return report, err
			}
			errs = append(errs, err)
		}
	}

	if s.telegram != nil {
		if err = s.telegram.Send(ctx, update); err != nil {
			s.recordSend(update.Kind, updateTargetTelegram, false)
			logger.WarnContext(ctx, "error syncing update to telegram", tint.Err(err))
			errs = append(errs, err)
		} else {
			report.Telegram = true
			s.recordSend(update.Kind, updateTargetTelegram, true)
		}
	}

	report.Duration = time.Since(start)
	if s.metrics != nil {
		s.metrics.DailyUpdateDuration.Observe(report.Duration.Seconds())
	}

	sent := report.ChannelsSent + report.DMsSent
	if report.Telegram {
		sent++
	}
	if sent > 0 && s.status != nil {
		s.status.SetLastDailyUpdate(s.now())
	}
	if sent == 0 && len(errs) > 0 {
		return report, errors.Join(errs...)
	}
	return report, nil
}

func (s *DailyUpdateScheduler) sendDirectMessages(
	ctx context.Context,
	logger *slog.Logger,
	embed *discordgo.MessageEmbed,
	report *DailyUpdateReport,
) error {
	userIDs, err := s.db.NotificationSubscribers(ctx, NotifyDailyUpdates)
	if err != nil {
		return fmt.Errorf("error listing daily update subscribers: %w", err)
	}
	var errs []error
	for _, userID := range userIDs {
		if err = s.limiter.Wait(ctx); err != nil {
			return err
		}
		ch, err := s.discord.session.UserChannelCreate(userID)
		if err == nil {
			_, err = s.discord.session.ChannelMessageSendEmbed(ch.ID, embed)
		}
		if err != nil {
			report.DMsFailed++
			s.recordSend(report.Kind, updateTargetDM, false)
			logger.WarnContext(ctx, "error sending daily update DM", "user_id", userID, tint.Err(err))
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		report.DMsSent++
		s.recordSend(report.Kind, updateTargetDM, true)
	}
	return errors.Join(errs...)
}

func (s *DailyUpdateScheduler) recordSend(kind UpdateKind, target string, ok bool) {
	if s.metrics == nil {
		return
	}
	result := resultOK
	if !ok {
		result = resultError
	}
	s.metrics.DailyUpdatesSent.WithLabelValues(string(kind), target, result).Inc()
}
