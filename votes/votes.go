// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votes

import (
	"errors"
	"time"

	"github.com/lmatteson/grantwell/models"
)

var (
	ErrAlreadyVoted      = errors.New("member has already voted on this proposal")
	ErrInvalidChoice     = errors.New("invalid choice for this proposal type")
	ErrAmountRequired    = errors.New("yes votes on joint proposals require an allocation amount")
	ErrNegativeAmount    = errors.New("allocation amount must be non-negative")
	ErrFlagCommentNeeded = errors.New("flagged votes require a comment")
)

// ValidateChoice enforces the per-type vote rules and normalizes the
// amount. Joint proposals take yes (with an allocation) or no (amount
// forced to 0). Discretionary proposals take acknowledged or flagged
// (flagged needs a comment); their votes are advisory and carry no amount.
// Returns the normalized allocation amount.
func ValidateChoice(proposalType, choice string, amountCents int64, flagComment string) (int64, error) {
	if amountCents < 0 {
		return 0, ErrNegativeAmount
	}

	switch proposalType {
	case models.TypeJoint:
		switch choice {
		case models.ChoiceYes:
			// Zero is a valid pledge, but the field must be intentional;
			// the request type defaults it to 0, which we accept.
			return amountCents, nil
		case models.ChoiceNo:
			return 0, nil
		default:
			return 0, ErrInvalidChoice
		}
	case models.TypeDiscretionary:
		switch choice {
		case models.ChoiceAcknowledged:
			return 0, nil
		case models.ChoiceFlagged:
			if flagComment == "" {
				return 0, ErrFlagCommentNeeded
			}
			return 0, nil
		default:
			return 0, ErrInvalidChoice
		}
	default:
		return 0, ErrInvalidChoice
	}
}

// New builds a vote record after validating the choice against the
// proposal type.
func New(proposalID, voterID, proposalType, choice string, amountCents int64, flagComment string) (models.Vote, error) {
	normalized, err := ValidateChoice(proposalType, choice, amountCents, flagComment)
	if err != nil {
		return models.Vote{}, err
	}

	v := models.Vote{
		ProposalID:            proposalID,
		VoterID:               voterID,
		Choice:                choice,
		AllocationAmountCents: normalized,
		CreatedAt:             time.Now().UTC(),
	}
	if choice == models.ChoiceFlagged {
		v.FlagComment = &flagComment
	}
	return v, nil
}

// SumYesAllocations totals the pledged amounts over yes votes. This is the
// computed final amount for joint proposals.
func SumYesAllocations(vs []models.Vote) int64 {
	var total int64
	for _, v := range vs {
		if v.Choice == models.ChoiceYes {
			total += v.AllocationAmountCents
		}
	}
	return total
}
