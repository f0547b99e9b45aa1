package albjbot

import (
	"fmt"
	"github.com/bwmarrin/discordgo"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	colorOrange = 0xff6600
	colorGreen  = 0x00ff88
	colorPink   = 0xff00aa

	launchDateLayout = "January 2, 2006"
	totalSupply      = "1,000,000,000 ALBJ"
	initialSupply    = "200,000,000 ALBJ"
)

var albjFacts = []string{
	"ALBJ Token is inspired by the magical Alebrije creatures from Mexican folklore!",
	"Each Alebrije spirit represents a unique aspect of Mexican culture and mythology.",
	"The ALBJ Token launch is set for June 12, 2025 - a date of cultural significance!",
	"Alebrijes originated in Oaxaca, Mexico, and are known for their vibrant colors and fantastical designs.",
	"The word 'Alebrije' was first coined by Pedro Linares López in the 1930s.",
	"In Mexican tradition, Alebrijes are believed to guide and protect people's spirits.",
	"ALBJ Token aims to bridge traditional Mexican art with modern blockchain technology.",
	"Our 12 Alebrije spirits represent different elements and cultural archetypes.",
	"The ALBJ project is committed to supporting indigenous Mexican art and communities.",
	"Blockchain technology allows us to preserve and share cultural heritage in a new way.",
}

var greetings = []string{
	"¡Hola! 🌞 Ready to explore the world of Alebrije Spirits?",
	"Greetings, brave adventurer! 🐉 Which spirit calls to you today?",
	"Welcome, blockchain explorer! 🚀 Let's dive into the ALBJ universe!",
	"Bienvenidos! 🎉 Your magical journey begins now!",
}

var quotes = []string{
	"\"Every spirit carries the colors of the dreams that made it.\" 🌈",
	"\"Tradition is not the worship of ashes, but the preservation of fire.\" 🔥",
	"\"A community is a collection of spirits walking in the same direction.\" 🐉",
	"\"Build slowly, dream boldly, and let your colors show.\" 🎨",
	"\"The strongest roots grow the most colorful branches.\" 🌳",
	"\"Patience is the guardian spirit of every great launch.\" ⏳",
}

var jokes = []string{
	"Why did the Alebrije refuse to sell its tokens? It had diamond claws! 💎🐾",
	"What does a Dragon-Jaguar say at launch? \"Roar to the moon!\" 🚀",
	"Why are Alebrijes great traders? They always see things in full color! 🌈",
	"How does an Owl-Serpent check the chart? Very wisely... and slithery. 🦉🐍",
	"Why did the Fox-Butterfly join the DAO? It wanted to flutter the vote! 🦋",
	"What's an Alebrije's favorite exchange? The one with the most colorful candles! 🕯️",
}

var memes = []string{
	"Me: I'll just check the ALBJ countdown once.\nAlso me: *checks it 47 times a day* ⏳",
	"Nobody:\nAbsolutely nobody:\nALBJ holders: \"Which spirit are you?\" 🐉",
	"Regular tokens: 📉📈\nALBJ: 🎨🐉🦋🌈🚀",
	"When someone asks what an Alebrije is and you have 3 hours free: 📚🎭",
	"Daily check-in streak: 30 days\nGym streak: 0 days\nPriorities. 🔥",
	"Other projects: roadmap\nALBJ: spirit map 🗺️✨",
}

// Spirit is one of the Alebrije creatures
type Spirit struct {
	Name        string
	Emoji       string
	Element     string
	Trait       string
	Description string
}

var spirits = []Spirit{
	{
		Name:        "Dragon-Jaguar",
		Emoji:       "🐉",
		Element:     "Fire",
		Trait:       "Strength and courage",
		Description: "The guardian of the community, combining the dragon's power with the jaguar's cunning.",
	},
	{
		Name:        "Owl-Serpent",
		Emoji:       "🦉",
		Element:     "Night",
		Trait:       "Wisdom and transformation",
		Description: "A keeper of ancient knowledge who sheds old skin to grow wiser.",
	},
	{
		Name:        "Fox-Butterfly",
		Emoji:       "🦋",
		Element:     "Air",
		Trait:       "Cleverness and change",
		Description: "A playful trickster whose wings carry messages between worlds.",
	},
	{
		Name:        "Frog-Hummingbird",
		Emoji:       "🐸",
		Element:     "Water",
		Trait:       "Joy and renewal",
		Description: "Brings rain to the fields and energy to every celebration.",
	},
	{
		Name:        "Eagle-Lizard",
		Emoji:       "🦅",
		Element:     "Sun",
		Trait:       "Vision and resilience",
		Description: "Soars above the desert and regrows whatever it loses.",
	},
	{
		Name:        "Wolf-Fish",
		Emoji:       "🐺",
		Element:     "Ocean",
		Trait:       "Loyalty and intuition",
		Description: "Leads the pack through both forest and sea.",
	},
	{
		Name:        "Bull-Scorpion",
		Emoji:       "🐂",
		Element:     "Earth",
		Trait:       "Determination and protection",
		Description: "Stands firm against any storm and defends those it loves.",
	},
	{
		Name:        "Bat-Octopus",
		Emoji:       "🦇",
		Element:     "Shadow",
		Trait:       "Mystery and adaptability",
		Description: "Navigates the dark with eight clever arms and perfect echoes.",
	},
	{
		Name:        "Turtle-Eagle",
		Emoji:       "🐢",
		Element:     "Time",
		Trait:       "Patience and perspective",
		Description: "Carries the memory of generations and sees the long road ahead.",
	},
	{
		Name:        "Rabbit-Crab",
		Emoji:       "🐰",
		Element:     "Moon",
		Trait:       "Luck and agility",
		Description: "Hops between tides, finding fortune where others see none.",
	},
	{
		Name:        "Deer-Peacock",
		Emoji:       "🦌",
		Element:     "Forest",
		Trait:       "Grace and beauty",
		Description: "Its feathers display every color of the Oaxacan markets.",
	},
	{
		Name:        "Monkey-Parrot",
		Emoji:       "🐒",
		Element:     "Jungle",
		Trait:       "Creativity and communication",
		Description: "The storyteller of the spirits, never short of a song.",
	},
}

// QuizQuestion is a multiple choice question for /quiz
type QuizQuestion struct {
	Question    string
	Choices     []string
	Answer      int
	Explanation string
}

var quizQuestions = []QuizQuestion{
	{
		Question:    "Where did Alebrijes originate?",
		Choices:     []string{"Oaxaca & Mexico City", "Lima", "Havana", "Bogotá"},
		Answer:      0,
		Explanation: "Alebrijes were born in Mexico City and made famous by the wood carvers of Oaxaca.",
	},
	{
		Question:    "Who first coined the word 'Alebrije'?",
		Choices:     []string{"Frida Kahlo", "Pedro Linares López", "Diego Rivera", "Octavio Paz"},
		Answer:      1,
		Explanation: "Pedro Linares López created the first Alebrijes in the 1930s after a fever dream.",
	},
	{
		Question:    "When does the ALBJ Token launch?",
		Choices:     []string{"May 5, 2025", "June 12, 2025", "September 16, 2025", "November 2, 2025"},
		Answer:      1,
		Explanation: "Mark your calendar: June 12, 2025!",
	},
	{
		Question:    "How many Alebrije spirits are in the ALBJ collection?",
		Choices:     []string{"7", "10", "12", "24"},
		Answer:      2,
		Explanation: "There are 12 spirits. Meet them all with /spirits.",
	},
	{
		Question:    "What is the total supply of ALBJ?",
		Choices:     []string{"100,000,000", "500,000,000", "1,000,000,000", "21,000,000"},
		Answer:      2,
		Explanation: "The total supply is 1,000,000,000 ALBJ.",
	},
	{
		Question:    "How many points does a first daily check-in earn?",
		Choices:     []string{"1", "5", "10", "100"},
		Answer:      2,
		Explanation: "Your first check-in earns 10 points, and each streak day after that earns 5.",
	},
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// findSpirit looks a spirit up by name, ignoring case, spaces and hyphens.
// A partial name matches if exactly one spirit contains it.
func findSpirit(name string) (Spirit, bool) {
	normalize := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		return strings.NewReplacer("-", "", " ", "", "_", "").Replace(s)
	}
	needle := normalize(name)
	if needle == "" {
		return Spirit{}, false
	}

	var partial []Spirit
	for _, s := range spirits {
		n := normalize(s.Name)
		if n == needle {
			return s, true
		}
		if strings.Contains(n, needle) {
			partial = append(partial, s)
		}
	}
	if len(partial) == 1 {
		return partial[0], true
	}
	return Spirit{}, false
}

func spiritNames() []string {
	names := make([]string, 0, len(spirits))
	for _, s := range spirits {
		names = append(names, s.Name)
	}
	return names
}

func formatLaunchDate(p *ProjectConfig) string {
	return p.LaunchDate.UTC().Format(launchDateLayout)
}

func startEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "🌟 Welcome to ALBJ Token!",
		Description: "Your journey with Alebrije Spirits begins here!",
		Color:       colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🎭 What is ALBJ?",
				Value: "A revolutionary token inspired by Mexican Alebrije spirits, blending blockchain technology with cultural heritage.",
			},
			{
				Name: "🚀 Quick Links",
				Value: fmt.Sprintf(
					"• [Website](%s)\n• [Discord](%s)\n• [Twitter](%s)",
					p.WebsiteURL,
					p.DiscordURL,
					p.TwitterURL,
				),
			},
			{
				Name:  "📋 Recommended Commands",
				Value: "• `/spirits` - Meet the Alebrije creatures\n• `/info` - Token details\n• `/roadmap` - Project timeline\n• `/help` - See all commands",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Your cultural blockchain adventure starts now!"},
	}
	if p.BannerURL != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: p.BannerURL}
	}
	return e
}

// helpEmbed lists every command, grouped by category in registry order
func helpEmbed(commands []Command) *discordgo.MessageEmbed {
	var categories []string
	lines := map[string][]string{}
	for _, c := range commands {
		if _, ok := lines[c.Category]; !ok {
			categories = append(categories, c.Category)
		}
		line := fmt.Sprintf("`/%s` - %s", c.Name, c.Description)
		if c.AdminOnly {
			line += " *(admin)*"
		}
		lines[c.Category] = append(lines[c.Category], line)
	}

	e := &discordgo.MessageEmbed{
		Title:       "🎭 ALBJ Bot Commands",
		Description: "Here are the available commands:",
		Color:       colorGreen,
		Footer:      &discordgo.MessageEmbedFooter{Text: "ALBJ - Connecting communities through culture"},
	}
	for _, cat := range categories {
		e.Fields = append(
			e.Fields, &discordgo.MessageEmbedField{
				Name:  cat,
				Value: strings.Join(lines[cat], "\n"),
			},
		)
	}
	return e
}

func funFactEmbed(fact string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🌈 ALBJ Fun Fact!",
		Description: fact,
		Color:       colorGreen,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Knowledge is power in the ALBJ universe!"},
	}
}

func infoEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "ALBJ Token Information",
		Description: "ALBJ is a blockchain-powered community celebrating Alebrije spirits.",
		Color:       colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🔹 Total Supply", Value: totalSupply, Inline: true},
			{Name: "🔹 Initial Circulating Supply", Value: initialSupply, Inline: true},
			{Name: "📅 Launch Date", Value: formatLaunchDate(p), Inline: true},
			{Name: "🎨 Spirits", Value: fmt.Sprintf("%d Alebrije creatures", len(spirits)), Inline: true},
			{Name: "🌐 Website", Value: p.WebsiteURL, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Use /tokenomics for the full distribution"},
	}
}

func priceEmbed(p *ProjectConfig, now time.Time) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:  "💰 ALBJ Price Check",
		Color:  colorGreen,
		Footer: &discordgo.MessageEmbedFooter{Text: "Always do your own research"},
	}
	if days := DaysUntilLaunch(now, p.LaunchDate); days > 0 {
		e.Description = fmt.Sprintf(
			"Price data will be available after the launch on %s. Only %d days to go!",
			formatLaunchDate(p),
			days,
		)
		return e
	}
	e.Description = "Live price tracking is coming soon. Check the daily market update in the announcements channel."
	return e
}

func holdersEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📊 ALBJ Token Holder Statistics",
		Description: "Real-time holder information coming soon!",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Holders", Value: "Tracking in progress", Inline: true},
			{Name: "Top Holders", Value: "Data being compiled", Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Accurate data will be available post-launch"},
	}
}

func roadmapEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🗺️ ALBJ Development Roadmap",
		Description: "Where the spirits are headed",
		Color:       colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "✅ Phase 1: Awakening",
				Value: "Community building, spirit designs, website and Discord launch",
			},
			{
				Name:  fmt.Sprintf("🚀 Phase 2: Launch (%s)", formatLaunchDate(p)),
				Value: "Token launch, DEX listings, airdrop campaigns, liquidity pools",
			},
			{
				Name:  "🎨 Phase 3: Expansion",
				Value: "Spirit NFT collection, staking, strategic partnerships",
			},
			{
				Name:  "🌎 Phase 4: Ecosystem",
				Value: "Games, DAO governance, cultural preservation fund",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Roadmap subject to community input"},
	}
}

func countdownEmbed(p *ProjectConfig, now time.Time) *discordgo.MessageEmbed {
	remaining := p.LaunchDate.Sub(now)
	if remaining <= 0 {
		return &discordgo.MessageEmbed{
			Title:       "🎉 ALBJ Token Has Launched!",
			Description: fmt.Sprintf("The spirits awakened on %s.", formatLaunchDate(p)),
			Color:       colorGreen,
			Footer:      &discordgo.MessageEmbedFooter{Text: "The Alebrije spirits are awake!"},
		}
	}
	days := int(remaining / (24 * time.Hour))
	hours := int(remaining % (24 * time.Hour) / time.Hour)
	minutes := int(remaining % time.Hour / time.Minute)
	return &discordgo.MessageEmbed{
		Title: "⏳ ALBJ Launch Countdown",
		Description: fmt.Sprintf(
			"**%d days** until the ALBJ Token launch on %s!",
			DaysUntilLaunch(now, p.LaunchDate),
			formatLaunchDate(p),
		),
		Color: colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Days", Value: fmt.Sprint(days), Inline: true},
			{Name: "Hours", Value: fmt.Sprint(hours), Inline: true},
			{Name: "Minutes", Value: fmt.Sprint(minutes), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "The Alebrije spirits are awakening!"},
	}
}

func launchEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🚀 ALBJ Token Launch",
		Description: "Mark your calendars for our epic token launch!",
		Color:       colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📅 Launch Date", Value: formatLaunchDate(p), Inline: true},
			{Name: "⏰ Time", Value: "TBD (UTC)", Inline: true},
			{Name: "🌐 Platforms", Value: "Major DEXs and CEXs"},
			{
				Name:  "🎉 Launch Celebration",
				Value: "Special NFT drops, community events, and exclusive rewards for early supporters!",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "The Alebrije spirits are awakening!"},
	}
}

func tokenomicsEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💰 ALBJ Token Distribution",
		Description: "Transparent and community-focused tokenomics",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🔹 Total Supply", Value: totalSupply, Inline: true},
			{Name: "🔹 Initial Circulating Supply", Value: initialSupply, Inline: true},
			{
				Name: "📊 Distribution Breakdown",
				Value: "• Community Allocation: 40%\n" +
					"• Team & Advisors: 15%\n" +
					"• Marketing & Partnerships: 20%\n" +
					"• Development Fund: 15%\n" +
					"• Liquidity Pool: 10%",
			},
			{Name: "🔒 Vesting Schedule", Value: "Team tokens locked with gradual 3-year release"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Fair and transparent token economics"},
	}
}

func nftEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎨 ALBJ Spirit NFT Collection",
		Description: "Collectible Alebrije spirits, each with its own element and traits.",
		Color:       colorPink,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🐉 Spirits", Value: fmt.Sprintf("%d unique creatures", len(spirits)), Inline: true},
			{Name: "⛓️ Blockchain", Value: "Solana", Inline: true},
			{Name: "📅 Mint", Value: "After the " + formatLaunchDate(p) + " launch", Inline: true},
			{Name: "✨ Utility", Value: "Staking boosts, community governance and event access"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Use /spirits to preview the collection"},
	}
}

func spiritsEmbed() *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "🐉 The 12 Alebrije Spirits",
		Description: "Alebrijes are brightly colored Mexican folk art sculptures of fantastical creatures.",
		Color:       colorPink,
		Footer:      &discordgo.MessageEmbedFooter{Text: "ALBJ - Connecting communities through culture"},
	}
	for _, s := range spirits {
		e.Fields = append(
			e.Fields, &discordgo.MessageEmbedField{
				Name:   s.Emoji + " " + s.Name,
				Value:  s.Trait,
				Inline: true,
			},
		)
	}
	return e
}

func spiritEmbed(s Spirit) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", s.Emoji, s.Name),
		Description: s.Description,
		Color:       colorPink,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🌀 Element", Value: s.Element, Inline: true},
			{Name: "💫 Trait", Value: s.Trait, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "ALBJ - Connecting communities through culture"},
	}
}

func cultureEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "🎨 Mexican Folklore & Alebrijes",
		Description: "Discover the rich cultural heritage behind ALBJ Token",
		Color:       colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🐉 What are Alebrijes?",
				Value: "Fantastical creatures from Oaxacan folk art, combining multiple animal features with vibrant colors.",
			},
			{
				Name:  "🖌️ Origin",
				Value: "Created by Pedro Linares López in the 1930s during a fever dream, later popularized by wood carvers in Oaxaca.",
			},
			{
				Name:  "🌈 Spiritual Significance",
				Value: "Believed to be spirit guides that protect and represent an individual's inner self.",
			},
			{
				Name:  "🤝 ALBJ's Cultural Mission",
				Value: "Preserving and celebrating Mexican cultural heritage through blockchain technology",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Honoring tradition, embracing innovation"},
	}
	if p.CultureImageURL != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: p.CultureImageURL}
	}
	return e
}

func communityEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "👥 Join the ALBJ Community",
		Description: "Meet fellow spirit keepers across our channels",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎮 Discord", Value: p.DiscordURL, Inline: true},
			{Name: "✈️ Telegram", Value: p.TelegramHandle, Inline: true},
			{Name: "🐦 Twitter", Value: p.TwitterURL, Inline: true},
			{Name: "🌍 Website", Value: p.WebsiteURL, Inline: true},
			{Name: "🔥 Daily Engagement", Value: "Use `/checkin` every day to build your streak and earn points!"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Together we awaken the spirits"},
	}
}

func teamEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "👥 ALBJ Token Team",
		Description: "Meet the passionate individuals behind the project",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🧑‍💻 Founder & CEO", Value: "Carlos Hernandez - Blockchain expert with 10+ years in crypto"},
			{Name: "🎨 Creative Director", Value: "Maria Rodriguez - Expert in Mexican folk art and design"},
			{Name: "🔬 Technical Lead", Value: "Alex Chen - Blockchain architect, previously at major tech firms"},
			{Name: "🌐 Community Manager", Value: "Diego Morales - Passionate about cultural preservation"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Diverse talents, united vision"},
	}
}

func careersEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💼 Career Opportunities",
		Description: "Join the ALBJ Token revolution!",
		Color:       colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "🚀 Open Positions",
				Value: "• Blockchain Developer\n" +
					"• Smart Contract Engineer\n" +
					"• Community Moderator\n" +
					"• Marketing Specialist\n" +
					"• Graphic Designer",
			},
			{
				Name:  "📧 Application",
				Value: fmt.Sprintf("Send your resume to %s with the position title", p.CareersEmail),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Grow with us, shape the future!"},
	}
}

func eventsEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎉 Upcoming ALBJ Events",
		Description: "Mark your calendars!",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🚀 Token Launch", Value: formatLaunchDate(p) + " - Global Online Event", Inline: true},
			{Name: "🎨 Art & Blockchain Symposium", Value: "July 15, 2025 - Virtual Conference", Inline: true},
			{Name: "🌐 Community AMA", Value: "Monthly on our Discord"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Stay tuned for more exciting events!"},
	}
}

func socialEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🌐 ALBJ Token Social Links",
		Description: "Connect with our vibrant community!",
		Color:       colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🌍 Website", Value: p.WebsiteURL, Inline: true},
			{Name: "🐦 Twitter", Value: p.TwitterURL, Inline: true},
			{Name: "🎮 Discord", Value: p.DiscordURL, Inline: true},
			{Name: "📸 Instagram", Value: "Coming Soon", Inline: true},
			{Name: "📘 Facebook", Value: "Coming Soon", Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Join our global community!"},
	}
}

func supportEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🆘 ALBJ Help & Support Center",
		Description: "We're here to help!",
		Color:       colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📧 Email", Value: p.SupportEmail, Inline: true},
			{Name: "❓ FAQ", Value: "Use `/faq` for quick answers", Inline: true},
			{Name: "💬 Community Help", Value: "Ask in our Discord: " + p.DiscordURL},
			{
				Name:  "⚠️ Stay Safe",
				Value: "The team will never DM you first or ask for your seed phrase or private keys.",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "The spirits have your back!"},
	}
}

func faqEmbed(p *ProjectConfig) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❓ Frequently Asked Questions",
		Description: "Quick answers to common queries",
		Color:       colorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🚀 What is ALBJ Token?",
				Value: "A blockchain project celebrating Mexican cultural heritage through Alebrije spirits.",
			},
			{
				Name: "💰 How can I buy ALBJ?",
				Value: fmt.Sprintf(
					"Tokens will be available on major exchanges after our %s launch.",
					formatLaunchDate(p),
				),
			},
			{
				Name:  "🎨 What are Alebrijes?",
				Value: "Magical creatures from Mexican folk art, each with unique spiritual significance.",
			},
			{
				Name:  "📈 Is this a good investment?",
				Value: "Always do your own research and consult financial advisors.",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Knowledge is power!"},
	}
}

func priceAlertEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💹 Price Alert Setup",
		Description: "Configure your price monitoring preferences",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🔔 Feature Coming Soon",
				Value: "Price alert functionality will be available after token launch. Turn on price alerts with `/notifications` to be the first to know.",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Stay informed about ALBJ Token price movements!"},
	}
}

func quoteEmbed(quote string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✨ Spirit Wisdom",
		Description: quote,
		Color:       colorPink,
	}
}

func jokeEmbed(joke string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "😂 ALBJ Joke",
		Description: joke,
		Color:       colorGreen,
	}
}

func memeEmbed(meme string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎭 ALBJ Meme of the Moment",
		Description: meme,
		Color:       colorOrange,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Share your own memes in the community channel!"},
	}
}

func statsEmbed(username string, rec *CheckIn) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🏆 %s's ALBJ Stats", username),
		Color: colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🔥 Check-in Streak", Value: fmt.Sprintf("%d days", rec.Streak), Inline: true},
			{Name: "💎 Total Points", Value: fmt.Sprint(rec.TotalPoints), Inline: true},
			{Name: "📅 Last Check-in", Value: rec.LastCheckIn, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Keep engaging to earn more points!"},
	}
}
