package utils

import (
	"strconv"
	"strings"
)

// PadFloat left-pads the integer part of num with zeros up to width digits.
// Decimals are kept as they are, so PadFloat(7.5, 3) is "007.5".
func PadFloat(num float64, width int) string {
	intPart, decimals, hasDecimals := strings.Cut(strconv.FormatFloat(num, 'f', -1, 64), ".")

	if padding := width - len(intPart); padding > 0 {
		intPart = strings.Repeat("0", padding) + intPart
	}

	if hasDecimals {
		return intPart + "." + decimals
	}

	return intPart
}
