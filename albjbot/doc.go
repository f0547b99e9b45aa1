// Package albjbot implements the ALBJ token community Discord bot.
//
// The bot answers slash commands with token, launch, spirit and community
// information, tracks daily check-in streaks and notification
// preferences in a database, and posts a scheduled daily update to
// announcement channels (and optionally to subscribers and telegram).
//
// An HTTP health check server runs alongside the gateway connection and
// reports its status, so hosting platforms can see the process is alive
// even when discord login fails.
//
// Key components:
//
//   - Bot: wires everything together and runs it.
//   - Discord: the gateway session, presence and command registration.
//   - DailyUpdateScheduler and UpdateGenerator: the scheduled announcement.
//   - HealthServer and Status: /health, /, /metrics and (in development) /debug.
//   - DBI: check-in and notification preference storage.
package albjbot

var (
	// Version, CommitSHA and BuildTime are set at build time, ex:
	// -ldflags "-X github.com/AlebrijeLabs/albj-discord-bot/albjbot.Version=$$(date +'%Y%m%d')"
	Version   = "dev"
	CommitSHA = "unknown"
	BuildTime = "unknown"
)
