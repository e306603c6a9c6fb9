// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package budget

import (
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/lmatteson/grantwell/models"
)

// MaxPerMemberCapCents is the absolute ceiling on any member's
// discretionary allocation for a year ($5,000,000), regardless of pool size.
const MaxPerMemberCapCents int64 = 5_000_000_00

// RatioTolerance is the allowed drift when checking that the joint and
// discretionary ratios sum to 1.
const RatioTolerance = 0.001

var (
	ErrNotFound       = errors.New("no budget for that year")
	ErrRatioSum       = errors.New("joint and discretionary ratios must sum to 1")
	ErrNegativeAmount = errors.New("amounts must be non-negative")
	ErrBadRatio       = errors.New("ratios must be finite and between 0 and 1")
	ErrCapExceeded    = errors.New("discretionary cap exceeded")
)

// Validate checks a budget's invariants: ratios finite, in [0,1], summing
// to 1 within tolerance; amounts non-negative.
func Validate(totalCents, rolloverCents int64, jointRatio, discretionaryRatio float64) error {
	if totalCents < 0 || rolloverCents < 0 {
		return ErrNegativeAmount
	}
	for _, r := range []float64{jointRatio, discretionaryRatio} {
		if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 || r > 1 {
			return ErrBadRatio
		}
	}
	if math.Abs(jointRatio+discretionaryRatio-1.0) > RatioTolerance {
		return ErrRatioSum
	}
	return nil
}

// Pools derives the joint and discretionary pool sizes. Rollover is folded
// into the base before the ratio split.
func Pools(b models.Budget) (jointCents, discretionaryCents int64) {
	base := float64(b.TotalAmountCents + b.RolloverCents)
	jointCents = int64(math.Round(base * b.JointRatio))
	discretionaryCents = int64(math.Round(base * b.DiscretionaryRatio))
	return jointCents, discretionaryCents
}

// PerMemberCap is each voting member's hard ceiling on discretionary
// allocation: an even split of the pool, never more than
// MaxPerMemberCapCents. Zero eligible voters is treated as one to guard
// the division.
func PerMemberCap(discretionaryPoolCents int64, votingMemberCount int) int64 {
	if votingMemberCount < 1 {
		votingMemberCount = 1
	}
	share := discretionaryPoolCents / int64(votingMemberCount)
	if share > MaxPerMemberCapCents {
		return MaxPerMemberCapCents
	}
	return share
}

// FormatUSD renders cents as a human-readable dollar figure for messages,
// e.g. 500000 -> "$5,000.00".
func FormatUSD(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}
