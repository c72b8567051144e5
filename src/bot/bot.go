package bot

import (
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/guildforms/forms-bot/src/commands"
	"github.com/guildforms/forms-bot/src/components/cooldown"
	"github.com/guildforms/forms-bot/src/components/forms"
	"github.com/guildforms/forms-bot/src/components/thread"
	"github.com/guildforms/forms-bot/src/config"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Bot struct {
	session *discordgo.Session
	db      *gorm.DB
	rdb     *redis.Client
	config  config.Config
	handler *commands.Handler
}

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		session: dg,
		db:      db,
		rdb:     rdb,
		config:  cfg,
	}

	store := forms.NewStore(db)
	enforcer := cooldown.NewEnforcer(rdb)
	dispatcher := thread.NewDispatcher(dg)
	bot.handler = commands.NewHandler(store, enforcer, dispatcher)

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handler.HandleInteraction)

	dg.Identify.Intents = discordgo.IntentsGuilds

	return bot, nil
}

func (b *Bot) Start() error {
	return b.session.Open()
}

func (b *Bot) Stop() {
	b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("Discord bot logged in as %s", event.User.Username)

	if err := commands.Register(s, b.config.GuildID); err != nil {
		log.Printf("bot: failed to register commands: %v", err)
	}
}
