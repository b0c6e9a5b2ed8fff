package bot

import (
	"strconv"

	"gopkg.in/telebot.v4"
)

func (b *Bot) tradesPageKeyboard(lang string, currentPage, pagesCount int) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	rows := b.addPaginationCbkButtons(nil, lang, cbkTradesPage, currentPage, pagesCount)
	if len(rows) > 0 {
		markup.Inline(rows...)
	}

	return markup
}

// addPaginationCbkButtons appends a row with first/previous buttons before the current page and
// next/last buttons after it.
func (b *Bot) addPaginationCbkButtons(
	rows []telebot.Row, lang, cbkName string, currentPage, pagesCount int,
) []telebot.Row {
	markup := &telebot.ReplyMarkup{}

	if pagesCount < 2 {
		return rows
	}

	btn := func(key string, page int) telebot.Btn {
		return markup.Data(b.deps.dictionary.Text(lang, key), cbkName, strconv.Itoa(page))
	}

	var row telebot.Row

	if currentPage > 1 {
		if currentPage > 2 {
			row = append(row, btn(btnFirstPage, 1))
		}
		row = append(row, btn(btnPreviousPage, currentPage-1))
	}

	if currentPage < pagesCount {
		row = append(row, btn(btnNextPage, currentPage+1))
		if currentPage < pagesCount-1 {
			row = append(row, btn(btnLastPage, pagesCount))
		}
	}

	return append(rows, row)
}
