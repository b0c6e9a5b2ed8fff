package bot

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/leonid6372/trades-pager/internal/common/config"
	"github.com/leonid6372/trades-pager/internal/session"
	"github.com/leonid6372/trades-pager/pkg/dictionary"
	"github.com/leonid6372/trades-pager/pkg/errs"
	"gopkg.in/telebot.v4"
)

type Bot struct {
	Telebot *telebot.Bot
	cfg     *config.Bot

	deps *Dependencies
}

type Dependencies struct {
	dictionary *dictionary.Dictionary
	sessions   *session.Manager
}

func New(cfg *config.Bot, dictionary *dictionary.Dictionary, sessions *session.Manager) (*Bot, error) {
	b, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.APIKey,
		Poller: &telebot.LongPoller{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("telebot.NewBot: %w", err)
	}

	bot := &Bot{
		Telebot: b,
		cfg:     cfg,
		deps: &Dependencies{
			dictionary: dictionary,
			sessions:   sessions,
		},
	}

	if err := bot.setCommands(); err != nil {
		return nil, fmt.Errorf("bot.setCommands: %w", err)
	}

	bot.setupMiddlewares()
	bot.setupMessageRoutes()
	bot.setupCallbackRoutes()

	return bot, nil
}

func (b *Bot) setCommands() error {
	for _, lang := range b.cfg.Languages {
		commands := []telebot.Command{
			{Text: "trades", Description: b.deps.dictionary.Text(lang, msgCommandTrades)},
		}

		if err := b.Telebot.SetCommands(commands, lang); err != nil {
			return errs.NewStack(err)
		}
	}

	return nil
}

func (b *Bot) setupMiddlewares() {
	b.Telebot.Use(
		b.recoveryMiddleware,
		b.defaultErrorMiddleware,
		b.timeoutMiddleware,
	)
}

func (b *Bot) setupMessageRoutes() {
	message := b.Telebot.Group()

	message.Handle("/start", b.tradesHandler)
	message.Handle("/trades", b.tradesHandler)
}

func (b *Bot) setupCallbackRoutes() {
	callback := b.Telebot.Group()

	callback.Handle(&telebot.Btn{Unique: cbkTradesPage}, b.tradesPageHandler)
}

func (b *Bot) Start() {
	b.Telebot.Start()
}

func (b *Bot) Stop() {
	b.Telebot.Stop()
}

// language picks the sender's Telegram language when the bot supports it.
func (b *Bot) language(c telebot.Context) string {
	if sender := c.Sender(); sender != nil && slices.Contains(b.cfg.Languages, sender.LanguageCode) {
		return sender.LanguageCode
	}

	return dictionary.DefaultLanguage
}

// A chat has one trade list at a time; the Telegram user id is the trading account.
func sessionID(c telebot.Context) string {
	return "tg:" + strconv.FormatInt(c.Chat().ID, 10)
}

func account(c telebot.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}
