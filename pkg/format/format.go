package format

import (
	"fmt"
	"strings"

	"github.com/leonid6372/trades-pager/pkg/log"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PrettyNumber groups integer digits by three with separator and replaces the decimal point with
// decimalSeparator. Floats are rounded to two decimals, decimals keep their own scale.
func PrettyNumber(number any, separator, decimalSeparator string) string {
	var numStr string

	switch v := number.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		numStr = fmt.Sprintf("%d", v)
	case float32, float64:
		numStr = fmt.Sprintf("%.2f", v)
	case decimal.Decimal:
		numStr = v.String()
	default:
		log.Error("PrettyNumber: unsupported type",
			zap.Any("value", number),
			zap.String("type", fmt.Sprintf("%T", number)),
		)

		return fmt.Sprint(number)
	}

	if separator == "" && decimalSeparator == "" {
		return numStr
	}

	if separator == decimalSeparator {
		log.Warn("PrettyNumber: separator and decimalSeparator are the same", zap.String("value", separator))
	}

	return groupDigits(numStr, separator, decimalSeparator)
}

func groupDigits(numStr, separator, decimalSeparator string) string {
	isNegative := false
	if strings.HasPrefix(numStr, "-") {
		isNegative = true
		numStr = strings.TrimPrefix(numStr, "-")
	}

	parts := strings.Split(numStr, ".")
	integerPart := parts[0]
	decimalPart := ""
	if len(parts) == 2 {
		decimalPart = decimalSeparator + parts[1]
	}

	length := len(integerPart)

	start := length % 3
	if start == 0 {
		start = 3
	}

	var intPart strings.Builder

	if isNegative {
		intPart.WriteString("-")
	}

	intPart.WriteString(integerPart[:start])

	for i := start; i < length; i += 3 {
		intPart.WriteString(separator)
		intPart.WriteString(integerPart[i : i+3])
	}

	return intPart.String() + decimalPart
}
