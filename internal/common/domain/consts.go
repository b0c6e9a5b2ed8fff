package domain

const (
	TradeSideLong  = "long"
	TradeSideShort = "short"
)
