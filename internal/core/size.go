package core

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// sizeUnits is checked in order; binary suffixes must come before the
// decimal suffix of the same magnitude ("1GIB" also ends with "B").
var sizeUnits = []struct {
	suffix     string
	multiplier uint64
}{
	{"GIB", 1 << 30},
	{"MIB", 1 << 20},
	{"KIB", 1 << 10},
	{"GB", 1_000_000_000},
	{"MB", 1_000_000},
	{"KB", 1_000},
}

// nano is the fixed-point scale used for the fractional part of a size.
const nano = 1_000_000_000

// ParseSize parses a human-readable size threshold such as "100MB",
// "1.5GiB" or "4096" into bytes. Units are case-insensitive and a bare
// number is taken as bytes. Up to nine fractional digits are honoured;
// the fractional result is truncated to whole bytes.
func ParseSize(s string) (uint64, error) {
	if s == "0" {
		return 0, nil
	}

	number, multiplier := splitSizeUnit(strings.ToUpper(s))

	if strings.Contains(number, ".") {
		return parseDecimalSize(s, number, multiplier)
	}
	return parseIntegerSize(s, number, multiplier)
}

// splitSizeUnit strips a recognised unit suffix and returns the numeric part
// together with its multiplier (1 when no suffix matched).
func splitSizeUnit(s string) (string, uint64) {
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			return strings.TrimSuffix(s, u.suffix), u.multiplier
		}
	}
	return s, 1
}

func parseIntegerSize(input, number string, multiplier uint64) (uint64, error) {
	n, err := parseDigits(input, number)
	if err != nil {
		return 0, err
	}
	return checkedMul(input, n, multiplier)
}

func parseDecimalSize(input, number string, multiplier uint64) (uint64, error) {
	parts := strings.Split(number, ".")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q has more than one decimal point", ErrInvalidSizeFormat, input)
	}

	whole, err := parseDigits(input, parts[0])
	if err != nil {
		return 0, err
	}
	frac, err := parseFraction(input, parts[1])
	if err != nil {
		return 0, err
	}

	wholeBytes, err := checkedMul(input, whole, multiplier)
	if err != nil {
		return 0, err
	}
	fracBytes, err := checkedMul(input, frac, multiplier)
	if err != nil {
		return 0, err
	}

	return checkedAdd(input, wholeBytes, fracBytes/nano)
}

// parseFraction converts the digits after the decimal point into nanounits,
// e.g. "5" -> 500000000 and "25" -> 250000000.
func parseFraction(input, digits string) (uint64, error) {
	if len(digits) > 9 {
		return 0, fmt.Errorf("%w: %q has more than 9 decimal places", ErrInvalidSizeFormat, input)
	}
	n, err := parseDigits(input, digits)
	if err != nil {
		return 0, err
	}
	for i := len(digits); i < 9; i++ {
		n *= 10
	}
	return n, nil
}

func parseDigits(input, digits string) (uint64, error) {
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q", ErrSizeOverflow, input)
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidSizeFormat, input)
	}
	return n, nil
}

func checkedMul(input string, a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %q (%d * %d)", ErrSizeOverflow, input, a, b)
	}
	return lo, nil
}

func checkedAdd(input string, a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %q (%d + %d)", ErrSizeOverflow, input, a, b)
	}
	return sum, nil
}

// FormatSize renders a byte count with decimal SI units ("1.5 MB").
// Negative values (an unmeasured size) render as "unknown".
func FormatSize(size int64) string {
	if size < 0 {
		return "unknown"
	}
	return humanize.Bytes(uint64(size))
}
