package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPrettyNumber(t *testing.T) {
	tests := []struct {
		name   string
		number any
		sep    string
		decSep string
		want   string
	}{
		{name: "small int", number: 42, sep: " ", decSep: ",", want: "42"},
		{name: "grouped int", number: int64(1234567), sep: " ", decSep: ",", want: "1 234 567"},
		{name: "negative int", number: -1000, sep: " ", decSep: ",", want: "-1 000"},
		{name: "float rounds", number: 1234.567, sep: " ", decSep: ",", want: "1 234,57"},
		{name: "decimal keeps scale", number: decimal.RequireFromString("-98765.4321"), sep: ",", decSep: ".", want: "-98,765.4321"},
		{name: "no separators", number: 1234567, want: "1234567"},
		{name: "unsupported", number: "abc", sep: " ", decSep: ",", want: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrettyNumber(tt.number, tt.sep, tt.decSep); got != tt.want {
				t.Errorf("PrettyNumber() = %q, want %q", got, tt.want)
			}
		})
	}
}
