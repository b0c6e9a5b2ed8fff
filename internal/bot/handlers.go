package bot

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/leonid6372/trades-pager/internal/pagerrs"
	"github.com/leonid6372/trades-pager/internal/pagination"
	"github.com/leonid6372/trades-pager/internal/session"
	"github.com/leonid6372/trades-pager/pkg/errs"
	"github.com/leonid6372/trades-pager/pkg/log"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// tradesHandler reopens the chat's trade list so the count is current and sends its first page.
func (b *Bot) tradesHandler(c telebot.Context) error {
	ctx := handlerContext(c)
	lang := b.language(c)
	id := sessionID(c)

	if err := b.deps.sessions.Delete(id); err != nil && !errors.Is(err, pagerrs.ErrSessionNotFound) {
		return errs.NewStack(err)
	}

	s, err := b.deps.sessions.GetOrCreate(ctx, id, account(c))
	if err != nil {
		return errs.NewStack(fmt.Errorf("failed to open trades session: %w", err))
	}

	page, err := s.Page(ctx)
	if err != nil {
		return errs.NewStack(err)
	}

	text, markup := b.renderTradesPage(lang, page)

	if err := c.Send(text, &telebot.SendOptions{
		ReplyMarkup: markup,
		ParseMode:   telebot.ModeHTML,
	}); err != nil {
		return errs.NewStack(fmt.Errorf("failed to send message: %v", err))
	}

	return nil
}

// tradesPageHandler moves the chat's trade list to the page in the callback data and edits the
// message in place. A failed load keeps the message and tells the user which page is still shown.
func (b *Bot) tradesPageHandler(c telebot.Context) error {
	ctx := handlerContext(c)
	lang := b.language(c)

	args := c.Args()
	if len(args) != 1 {
		return errs.NewStack(fmt.Errorf("failed to parse data: param page not found"))
	}

	target, err := cast.ToIntE(args[0])
	if err != nil {
		return errs.NewStack(fmt.Errorf("failed to parse page: %w", err))
	}

	s, err := b.deps.sessions.Get(sessionID(c))
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: b.deps.dictionary.Text(lang, msgTradesSessionExpired),
		})
	}

	res, err := s.Navigate(ctx, target)
	if err != nil {
		if !errors.Is(err, pagerrs.ErrLoadFailed) {
			return errs.NewStack(err)
		}

		log.Warn("trades page load failed",
			zap.String("session_id", s.ID),
			zap.String("navigation_id", res.NavigationID),
			zap.Int("page", target),
			zap.Error(err),
		)

		return c.Respond(&telebot.CallbackResponse{
			Text:      b.deps.dictionary.Text(lang, msgTradesLoadFailed, map[string]any{"CurrentPage": res.Page}),
			ShowAlert: true,
		})
	}

	if res.Status == pagination.StatusNoOp {
		if res.NoOpReason == pagination.NoOpBusy {
			return c.Respond(&telebot.CallbackResponse{Text: b.deps.dictionary.Text(lang, msgTradesLoading)})
		}

		return c.Respond()
	}

	page, err := s.Page(ctx)
	if err != nil {
		return errs.NewStack(err)
	}

	text, markup := b.renderTradesPage(lang, page)

	if err := c.Edit(text, &telebot.SendOptions{
		ReplyMarkup: markup,
		ParseMode:   telebot.ModeHTML,
	}); err != nil {
		return errs.NewStack(fmt.Errorf("failed to edit message: %v", err))
	}

	return c.Respond()
}

func (b *Bot) renderTradesPage(lang string, page *session.Page) (string, *telebot.ReplyMarkup) {
	meta := page.Pagination

	if meta.TotalItems == 0 {
		return b.deps.dictionary.Text(lang, msgTradesEmpty), &telebot.ReplyMarkup{}
	}

	lines := make([]string, 0, len(page.Trades))
	for _, trade := range page.Trades {
		lines = append(lines, b.deps.dictionary.Text(lang, msgTradeLine, map[string]any{
			"ID":        trade.ID,
			"Symbol":    trade.Symbol,
			"Side":      trade.Side,
			"Size":      trade.Size,
			"Price":     trade.Price,
			"PnL":       trade.PnL,
			"CreatedAt": trade.CreatedAt.Format(tradeTimeLayout),
		}))
	}

	text := b.deps.dictionary.Text(lang, msgTradesPage, map[string]any{
		"CurrentPage": meta.CurrentPage,
		"TotalPages":  meta.TotalPages,
		"TotalItems":  meta.TotalItems,
		// lines are rendered by the dictionary and already escaped
		"Trades": template.HTML(strings.Join(lines, "\n")),
	})

	return text, b.tradesPageKeyboard(lang, meta.CurrentPage, meta.TotalPages)
}
