package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Klingon-tech/pda-mint/internal/program"
)

// lamportDecimals is the number of decimal places in one SOL.
const lamportDecimals = 9

// formatTokens renders base units with the mint's decimals.
func formatTokens(units uint64) string {
	return formatUnits(units, int(program.Decimals))
}

// parseTokens converts a decimal token amount to base units.
func parseTokens(s string) (uint64, error) {
	return parseUnits(s, int(program.Decimals))
}

// formatLamports renders lamports as SOL.
func formatLamports(lamports uint64) string {
	return formatUnits(lamports, lamportDecimals)
}

// parseLamports accepts a raw lamport count, or SOL when suffixed with "sol".
func parseLamports(s string) (uint64, error) {
	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, "sol") {
		return parseUnits(strings.TrimSpace(lower[:len(lower)-3]), lamportDecimals)
	}
	return strconv.ParseUint(s, 10, 64)
}

func pow10(decimals int) uint64 {
	unit := uint64(1)
	for i := 0; i < decimals; i++ {
		unit *= 10
	}
	return unit
}

func formatUnits(units uint64, decimals int) string {
	unit := pow10(decimals)
	return fmt.Sprintf("%d.%0*d", units/unit, decimals, units%unit)
}

// parseUnits converts a decimal string to raw units.
func parseUnits(s string, decimals int) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative amount")
	}

	parts := strings.SplitN(s, ".", 2)

	whole, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid whole part: %w", err)
	}

	var frac uint64
	if len(parts) == 2 {
		fracStr := parts[1]
		if len(fracStr) > decimals {
			return 0, fmt.Errorf("too many decimal places (max %d)", decimals)
		}
		// Pad to decimals digits.
		fracStr = fracStr + strings.Repeat("0", decimals-len(fracStr))
		if fracStr != "" {
			frac, err = strconv.ParseUint(fracStr, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid fractional part: %w", err)
			}
		}
	}

	// Check overflow.
	unit := pow10(decimals)
	if whole > math.MaxUint64/unit {
		return 0, fmt.Errorf("amount too large")
	}
	result := whole * unit
	if result > math.MaxUint64-frac {
		return 0, fmt.Errorf("amount too large")
	}

	return result + frac, nil
}
