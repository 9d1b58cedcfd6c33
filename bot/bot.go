// Package bot is the Discord presentation layer. Feature packages own the
// slash-command handlers; this package wires them to the domain services and
// routes interactions.
package bot

import (
	"context"
	"fmt"
	"strconv"

	"solyx/bot/features/balance"
	"solyx/bot/features/claims"
	"solyx/bot/features/clans"
	"solyx/bot/features/raffle"
	"solyx/bot/features/referral"
	"solyx/bot/features/settings"
	"solyx/bot/features/shop"
	"solyx/bot/features/tax"
	"solyx/bot/features/transfer"
	"solyx/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration.
type Config struct {
	Token string
}

// Services bundles the domain services the bot features depend on.
type Services struct {
	Users    interfaces.UserService
	Ledger   interfaces.LedgerService
	Claims   interfaces.ClaimService
	Shop     interfaces.ShopService
	Clans    interfaces.ClanService
	Tax      interfaces.TaxService
	Raffles  interfaces.RaffleService
	Settings interfaces.GuildSettingsService
}

// Bot manages the Discord session and all feature modules.
type Bot struct {
	config   Config
	session  *discordgo.Session
	services Services

	balance  *balance.Feature
	transfer *transfer.Feature
	claims   *claims.Feature
	shop     *shop.Feature
	clans    *clans.Feature
	tax      *tax.Feature
	raffle   *raffle.Feature
	settings *settings.Feature
	referral *referral.Feature
}

// New creates a bot instance, opens the gateway connection and registers
// slash commands.
func New(config Config, services Services) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	bot := &Bot{
		config:   config,
		session:  dg,
		services: services,
	}

	bot.balance = balance.New(services.Users, services.Ledger)
	bot.transfer = transfer.New(services.Users, services.Ledger)
	bot.claims = claims.New(services.Users, services.Claims)
	bot.shop = shop.New(services.Users, services.Shop)
	bot.clans = clans.New(services.Users, services.Clans, services.Ledger)
	bot.tax = tax.New(services.Users, services.Tax)
	bot.raffle = raffle.NewFeature(dg, services.Users, services.Raffles, services.Settings)
	bot.settings = settings.New(services.Settings)
	bot.referral = referral.New(services.Users)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleGuildCreate)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// Close gracefully shuts down the bot.
func (b *Bot) Close() error {
	return b.session.Close()
}

// GetSession returns the Discord session.
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// RaffleAnnouncer returns the raffle feature for event-driven announcements.
func (b *Bot) RaffleAnnouncer() *raffle.Feature {
	return b.raffle
}

// handleCommands routes slash commands to the appropriate feature.
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance", "leaderboard", "grant":
		b.balance.HandleCommand(s, i)
	case "transfer":
		b.transfer.HandleCommand(s, i)
	case "daily", "weekly":
		b.claims.HandleCommand(s, i)
	case "shop":
		b.shop.HandleCommand(s, i)
	case "clan":
		b.clans.HandleCommand(s, i)
	case "tax":
		b.tax.HandleCommand(s, i)
	case "raffle":
		b.raffle.HandleCommand(s, i)
	case "settings":
		b.settings.HandleCommand(s, i)
	case "refer":
		b.referral.HandleCommand(s, i)
	}
}

// handleGuildCreate provisions settings when the bot joins a guild.
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx := context.Background()

	guildID, err := strconv.ParseInt(g.ID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	guildSettings, err := b.services.Settings.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to track new guild %s (%s): %v", g.Name, g.ID, err)
		return
	}

	log.Infof("Bot joined guild: %s (ID: %d, daily reward: %d, weekly reward: %d)",
		g.Name, guildSettings.GuildID, guildSettings.DailyReward, guildSettings.WeeklyReward)
}
