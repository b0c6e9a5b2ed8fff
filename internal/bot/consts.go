package bot

const ctxContext = "context"

const tradeTimeLayout = "02.01.2006 15:04"

const (
	cbkTradesPage = "trades_page"
)

const (
	msgDefaultError         = "unknown_error"
	msgTradesEmpty          = "trades_empty"
	msgTradesPage           = "trades_page"
	msgTradeLine            = "trade_line"
	msgTradesLoadFailed     = "trades_load_failed"
	msgTradesLoading        = "trades_loading"
	msgTradesSessionExpired = "trades_session_expired"
	msgCommandTrades        = "command_trades"
)

const (
	btnFirstPage    = "button_first_page"
	btnPreviousPage = "button_previous_page"
	btnNextPage     = "button_next_page"
	btnLastPage     = "button_last_page"
)
