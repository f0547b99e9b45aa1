package albjbot

import (
	"fmt"
	"github.com/bwmarrin/discordgo"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
)

const dailyUpdateDateLayout = "Monday, January 2, 2006"

// UpdateKind selects a daily update template
type UpdateKind string

const (
	UpdateAuto         UpdateKind = "auto"
	UpdatePrelaunch    UpdateKind = "prelaunch"
	UpdatePostlaunch   UpdateKind = "postlaunch"
	UpdateWeekend      UpdateKind = "weekend"
	UpdateSpiritReveal UpdateKind = "spirit_reveal"
	UpdatePartnership  UpdateKind = "partnership"
)

var updateKinds = []UpdateKind{
	UpdateAuto,
	UpdatePrelaunch,
	UpdatePostlaunch,
	UpdateWeekend,
	UpdateSpiritReveal,
	UpdatePartnership,
}

// ParseUpdateKind returns the kind named by s. An empty string is auto,
// and anything unrecognized falls back to prelaunch.
func ParseUpdateKind(s string) UpdateKind {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UpdateAuto
	}
	if k, ok := lookupUpdateKind(s); ok {
		return k
	}
	return UpdatePrelaunch
}

func lookupUpdateKind(s string) (UpdateKind, bool) {
	for _, k := range updateKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// DaysUntilLaunch is the number of days until launch, rounded up. It's
// zero or negative once the launch has passed.
func DaysUntilLaunch(now, launch time.Time) int {
	return int(math.Ceil(launch.Sub(now).Hours() / 24))
}

// SelectUpdateKind picks the template for an automatic update: weekends
// (in now's location) get the weekend update, otherwise it depends on
// whether the launch has happened yet.
func SelectUpdateKind(now, launch time.Time) UpdateKind {
	switch {
	case now.Weekday() == time.Saturday || now.Weekday() == time.Sunday:
		return UpdateWeekend
	case DaysUntilLaunch(now, launch) > 0:
		return UpdatePrelaunch
	default:
		return UpdatePostlaunch
	}
}

// DailyUpdate is a rendered announcement
type DailyUpdate struct {
	Kind    UpdateKind `json:"kind"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Date    time.Time  `json:"date"`
}

// Embed renders the update for discord
func (u DailyUpdate) Embed() *discordgo.MessageEmbed {
	color := colorOrange
	switch u.Kind {
	case UpdatePostlaunch:
		color = colorGreen
	case UpdateWeekend:
		color = colorPink
	}
	return &discordgo.MessageEmbed{
		Title:       u.Title,
		Description: truncate(u.Content, discordMaxEmbedDescriptionSize),
		Color:       color,
		Timestamp:   u.Date.UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "ALBJ Token • Daily Update"},
	}
}

// PlainText renders the update without discord markdown
func (u DailyUpdate) PlainText() string {
	return strings.ReplaceAll(u.Title+"\n\n"+u.Content, "*", "")
}

var (
	communityStats = []string{
		"📈 +15 new members",
		"🔥 +25 active users",
		"🌟 +50 spirit interactions",
		"💬 +30 community messages",
		"🎮 +12 game participants",
		"🎨 +8 art submissions",
	}
	popularSpirits = []string{"Dragon-Jaguar", "Owl-Serpent", "Fox-Butterfly", "Frog-Hummingbird"}
	devProgress    = []string{
		"🔧 Smart contracts optimized",
		"🎨 NFT metadata finalized",
		"📱 Discord bot enhanced",
		"🔐 Security audit completed",
		"🌐 Website UI improved",
		"📊 Analytics dashboard updated",
	}
	communityHighlights = []string{
		"🎨 Amazing artwork shared by community artist",
		"💡 Great suggestion for NFT utility from member",
		"🔥 Viral meme created by our community!",
		"📚 Cultural education post reached 1K+ views",
		"🎯 Quiz champion emerged from daily challenge",
		"🌟 New member shared inspiring story",
	}
	marketPrices    = []string{"$0.0234 (+5.2%)", "$0.0189 (-2.1%)", "$0.0267 (+12.3%)", "$0.0198 (+0.8%)"}
	marketVolumes   = []string{"$125K", "$89K", "$156K", "$203K"}
	marketCaps      = []string{"$105.3M", "$98.7M", "$112.8M", "$87.5M"}
	marketLiquidity = []string{"$2.1M", "$1.8M", "$2.4M", "$1.9M"}
	nftFloors       = []string{"0.5 SOL", "0.3 SOL", "0.7 SOL", "0.4 SOL"}
	nftVolumes      = []string{"15.2 SOL", "23.7 SOL", "8.9 SOL", "31.4 SOL"}
	stakingAPYs     = []string{"45% APY", "38% APY", "52% APY", "41% APY"}
	lpRewards       = []string{"2.3% daily", "1.8% daily", "2.7% daily", "2.1% daily"}
	weeklyReview    = []string{
		"• 🎯 Launch preparations on track",
		"• 🚀 Community grew by 200+ members",
		"• 🎨 3 new spirit artworks revealed",
		"• 💡 2 partnership discussions initiated",
		"• 🔥 Record engagement on social media",
		"• 📱 Mobile app beta testing started",
	}
	weeklySpirits      = []string{"Dragon-Jaguar", "Owl-Serpent", "Fox-Butterfly", "Eagle-Lizard", "Wolf-Fish"}
	weeklyAchievements = []string{
		"🏆 1000+ daily active users milestone",
		"🎨 Community art contest winner announced",
		"📚 Folklore education series completed",
		"🔥 Most memes created in a single week",
		"🌟 Highest spirit check-in participation",
		"💎 Record NFT trading volume",
	}
	upcomingEvents = []string{
		"🎭 Monthly spirit ceremony",
		"📊 Community AMA session",
		"🎨 NFT artist collaboration reveal",
		"🎮 Gaming tournament finals",
		"📚 Cultural storytelling night",
		"💰 Staking rewards distribution",
	}
)

// UpdateGenerator renders daily updates. The random source picks the
// placeholder statistics, so a seeded source gives reproducible output.
type UpdateGenerator struct {
	project *ProjectConfig
	mu      sync.Mutex
	rng     *rand.Rand
}

func NewUpdateGenerator(project *ProjectConfig, rng *rand.Rand) *UpdateGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return &UpdateGenerator{project: project, rng: rng}
}

// Generate renders the update of the given kind for now. UpdateAuto is
// resolved with SelectUpdateKind.
func (g *UpdateGenerator) Generate(kind UpdateKind, now time.Time) DailyUpdate {
	g.mu.Lock()
	defer g.mu.Unlock()

	if kind == UpdateAuto {
		kind = SelectUpdateKind(now, g.project.LaunchDate)
	} else if _, ok := lookupUpdateKind(string(kind)); !ok {
		kind = UpdatePrelaunch
	}

	u := DailyUpdate{Kind: kind, Date: now}
	date := now.Format(dailyUpdateDateLayout)
	switch kind {
	case UpdatePostlaunch:
		u.Title = "📈 ALBJ Daily Market Update"
		u.Content = g.postlaunch(date)
	case UpdateWeekend:
		u.Title = "🎉 ALBJ Weekend Update"
		u.Content = g.weekend(date)
	case UpdateSpiritReveal:
		u.Title = "🐉 New Alebrije Spirit Revealed!"
		u.Content = spiritRevealContent(date)
	case UpdatePartnership:
		u.Title = "🤝 ALBJ Partnership Announcement"
		u.Content = partnershipContent(date)
	default:
		days := DaysUntilLaunch(now, g.project.LaunchDate)
		u.Title = fmt.Sprintf("🎭 ALBJ Daily Update - %d Days to Launch!", days)
		u.Content = g.prelaunch(date, days)
	}
	return u
}

func (g *UpdateGenerator) prelaunch(date string, days int) string {
	i := g.rng.IntN(len(popularSpirits))
	var spiritEmoji string
	if s, ok := findSpirit(popularSpirits[i]); ok {
		spiritEmoji = s.Emoji
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", date)
	fmt.Fprintf(&b, "🚀 **Launch Countdown: %d Days**\n\n", days)
	b.WriteString("📊 **Today's Highlights:**\n")
	fmt.Fprintf(&b, "• Community Growth: %s\n", pick(g.rng, communityStats))
	fmt.Fprintf(&b, "• Spirit Engagement: %s %s most popular today\n", spiritEmoji, popularSpirits[i])
	fmt.Fprintf(&b, "• Development Progress: %s\n\n", pick(g.rng, devProgress))
	b.WriteString("🔥 **Launch Preparations:**\n")
	b.WriteString("• Token burn mechanism: ✅ Ready\n")
	b.WriteString("• Liquidity pools: ✅ Prepared\n")
	b.WriteString("• Airdrop campaigns: ✅ Configured\n")
	b.WriteString("• NFT collection: 🔄 Final touches\n\n")
	b.WriteString("💬 **Community Highlights:**\n")
	b.WriteString(pick(g.rng, communityHighlights) + "\n\n")
	b.WriteString("📱 **Stay Connected:**\n")
	fmt.Fprintf(&b, "• Website: %s\n", g.project.WebsiteURL)
	fmt.Fprintf(&b, "• Discord: %s\n", g.project.DiscordURL)
	fmt.Fprintf(&b, "• Telegram: %s\n\n", g.project.TelegramHandle)
	b.WriteString("🌟 *The spirits are preparing for launch! Are you ready?* 🌟")
	return b.String()
}

func (g *UpdateGenerator) postlaunch(date string) string {
	holders := 2450 + g.rng.IntN(100) - 50
	yield := "Live farming available!"
	if g.rng.Float64() > 0.5 {
		yield = "Coming soon!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", date)
	b.WriteString("📈 **Market Performance:**\n")
	fmt.Fprintf(&b, "• Price: %s\n", pick(g.rng, marketPrices))
	fmt.Fprintf(&b, "• Volume (24h): %s\n", pick(g.rng, marketVolumes))
	fmt.Fprintf(&b, "• Holders: %s holders\n", formatThousands(holders))
	fmt.Fprintf(&b, "• Market Cap: %s\n\n", pick(g.rng, marketCaps))
	b.WriteString("🔥 **Token Metrics:**\n")
	b.WriteString("• Circulating Supply: 4.5B ALBJ\n")
	b.WriteString("• Burned Tokens: 4.5B ALBJ 🔥\n")
	fmt.Fprintf(&b, "• Liquidity: %s\n\n", pick(g.rng, marketLiquidity))
	b.WriteString("🎨 **NFT Activity:**\n")
	fmt.Fprintf(&b, "• New Mints: %d spirits\n", g.rng.IntN(50)+10)
	fmt.Fprintf(&b, "• Floor Price: %s\n", pick(g.rng, nftFloors))
	fmt.Fprintf(&b, "• Trading Volume: %s\n\n", pick(g.rng, nftVolumes))
	b.WriteString("🏆 **Community Stats:**\n")
	fmt.Fprintf(&b, "• Active Check-ins: %d users\n", g.rng.IntN(200)+100)
	fmt.Fprintf(&b, "• Spirit Points Earned: %s points\n", formatThousands(g.rng.IntN(10000)+5000))
	fmt.Fprintf(&b, "• New Members: +%d today\n\n", g.rng.IntN(50)+20)
	b.WriteString("💡 **DeFi Integration:**\n")
	fmt.Fprintf(&b, "• Staking APY: %s\n", pick(g.rng, stakingAPYs))
	fmt.Fprintf(&b, "• Liquidity Rewards: %s\n", pick(g.rng, lpRewards))
	fmt.Fprintf(&b, "• Yield Farming: %s\n\n", yield)
	b.WriteString("📊 **Technical Analysis:**\n")
	b.WriteString(g.technicalAnalysis() + "\n\n")
	b.WriteString("🌟 *Keep building with the Alebrije spirits!* 🌟")
	return b.String()
}

func (g *UpdateGenerator) technicalAnalysis() string {
	rsi := g.rng.IntN(40) + 30
	change := g.rng.Float64()*20 - 10

	trend := "Neutral"
	switch {
	case rsi > 60:
		trend = "Bullish"
	case rsi < 40:
		trend = "Bearish"
	}
	sign := ""
	if change > 0 {
		sign = "+"
	}
	volume := "Below"
	if g.rng.Float64() > 0.5 {
		volume = "Above"
	}
	return fmt.Sprintf(
		"📊 RSI: %d (%s)\n📈 24h Change: %s%.1f%%\n💹 Trading Volume: %s average",
		rsi,
		trend,
		sign,
		change,
		volume,
	)
}

func (g *UpdateGenerator) weekend(date string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", date)
	b.WriteString("🌈 **Week in Review:**\n")
	b.WriteString(strings.Join(weeklyReview[:4], "\n") + "\n\n")
	b.WriteString("🎭 **Spirit Spotlight:**\n")
	fmt.Fprintf(&b, "This week's most active spirit community: %s\n\n", pick(g.rng, weeklySpirits))
	b.WriteString("🏆 **Community Achievements:**\n")
	b.WriteString("• " + strings.Join(weeklyAchievements[:3], "\n• ") + "\n\n")
	b.WriteString("🎨 **Upcoming This Week:**\n")
	b.WriteString("• " + strings.Join(upcomingEvents[:3], "\n• ") + "\n\n")
	b.WriteString("🎯 **Weekend Activities:**\n")
	b.WriteString("• Spirit meditation sessions 🧘‍♀️\n")
	b.WriteString("• Community art contests 🎨\n")
	b.WriteString("• Folklore storytelling 📚\n")
	b.WriteString("• Q&A with the team 💬\n")
	b.WriteString("• Gaming tournaments 🎮\n\n")
	b.WriteString("💫 *Enjoy your weekend with the Alebrije spirits!* 💫")
	return b.String()
}

func spiritRevealContent(date string) string {
	return "**" + date + "**\n\n" +
		"🎭 **SPECIAL ANNOUNCEMENT**\n\n" +
		"A new Alebrije spirit has awakened and joined our collection! Discover its unique powers and personality.\n\n" +
		"🌟 **What's New:**\n" +
		"• Fresh spirit with unique abilities\n" +
		"• Limited edition NFT drop\n" +
		"• Special community events\n" +
		"• Cultural backstory revealed\n\n" +
		"🎨 **Community Response:**\n" +
		"The ALBJ community is buzzing with excitement about this mystical addition!\n\n" +
		"Stay tuned for more magical revelations! ✨"
}

func partnershipContent(date string) string {
	return "**" + date + "**\n\n" +
		"🚀 **EXCITING PARTNERSHIP NEWS**\n\n" +
		"ALBJ Token has formed a strategic partnership that will bring new utility and opportunities to our ecosystem!\n\n" +
		"📈 **Partnership Benefits:**\n" +
		"• Enhanced utility for ALBJ holders\n" +
		"• Cross-community collaboration\n" +
		"• New staking opportunities\n" +
		"• Expanded reach and exposure\n\n" +
		"🌟 The Alebrije spirits approve of this alliance! 🌟"
}

// formatThousands formats n with comma separators, ex: 12,345
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
