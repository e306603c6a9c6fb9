package proposals

import (
	"testing"

	"github.com/lmatteson/grantwell/models"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		role         string
		proposalType string
		mode         string
		title        string
		description  string
		amount       int64
		wantErr      error
		wantMode     string
	}{
		{
			name: "member joint proposal",
			role: models.RoleMember, proposalType: models.TypeJoint,
			title: "Clean water initiative", description: "Wells in three districts",
			amount: 50_000_00, wantMode: models.ModeSum,
		},
		{
			name: "joint forces sum mode",
			role: models.RoleMember, proposalType: models.TypeJoint, mode: models.ModeAverage,
			title: "T", description: "D", amount: 100,
			wantMode: models.ModeSum,
		},
		{
			name: "discretionary keeps average mode",
			role: models.RoleMember, proposalType: models.TypeDiscretionary, mode: models.ModeAverage,
			title: "T", description: "D", amount: 100,
			wantMode: models.ModeAverage,
		},
		{
			name: "discretionary defaults to sum",
			role: models.RoleOversight, proposalType: models.TypeDiscretionary,
			title: "T", description: "D", amount: 100,
			wantMode: models.ModeSum,
		},
		{
			name: "manager joint allowed",
			role: models.RoleManager, proposalType: models.TypeJoint,
			title: "T", description: "D", amount: 100,
			wantMode: models.ModeSum,
		},
		{
			name: "manager discretionary forbidden",
			role: models.RoleManager, proposalType: models.TypeDiscretionary,
			title: "T", description: "D", amount: 100,
			wantErr: ErrManagerJointOnly,
		},
		{
			name: "unknown type",
			role: models.RoleMember, proposalType: "matching",
			title: "T", description: "D", amount: 100,
			wantErr: ErrInvalidType,
		},
		{
			name: "empty title",
			role: models.RoleMember, proposalType: models.TypeJoint,
			title: "", description: "D", amount: 100,
			wantErr: ErrEmptyTitle,
		},
		{
			name: "empty description",
			role: models.RoleMember, proposalType: models.TypeJoint,
			title: "T", description: "", amount: 100,
			wantErr: ErrEmptyDescription,
		},
		{
			name: "negative amount",
			role: models.RoleMember, proposalType: models.TypeJoint,
			title: "T", description: "D", amount: -1,
			wantErr: ErrNegativeAmount,
		},
		{
			name: "bad discretionary mode",
			role: models.RoleMember, proposalType: models.TypeDiscretionary, mode: "median",
			title: "T", description: "D", amount: 100,
			wantErr: ErrInvalidMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New("proposer-1", tt.role, tt.proposalType, tt.mode, 2025,
				"", tt.title, tt.description, tt.amount, "", "")
			if err != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if err != nil {
				return
			}
			if p.Status != models.StatusToReview {
				t.Errorf("new proposals must start in to_review, got %q", p.Status)
			}
			if p.RevealVotes {
				t.Error("new proposals must start masked")
			}
			if p.AllocationMode != tt.wantMode {
				t.Errorf("expected mode %q, got %q", tt.wantMode, p.AllocationMode)
			}
			if p.ID == "" {
				t.Error("proposal ID must be set")
			}
		})
	}
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		from, to string
		wantErr  error
	}{
		{models.StatusToReview, models.StatusApproved, nil},
		{models.StatusToReview, models.StatusDeclined, nil},
		{models.StatusApproved, models.StatusSent, nil},
		{models.StatusToReview, models.StatusSent, ErrInvalidTransition},
		{models.StatusApproved, models.StatusApproved, ErrAlreadyDecided},
		{models.StatusApproved, models.StatusDeclined, ErrAlreadyDecided},
		{models.StatusDeclined, models.StatusApproved, ErrAlreadyDecided},
		{models.StatusDeclined, models.StatusSent, ErrInvalidTransition},
		{models.StatusSent, models.StatusApproved, ErrAlreadyDecided},
		{models.StatusSent, models.StatusSent, ErrInvalidTransition},
		{models.StatusApproved, models.StatusToReview, ErrInvalidTransition},
		{models.StatusToReview, "shipped", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if err := CheckTransition(tt.from, tt.to); err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDecisionAllowed(t *testing.T) {
	tests := []struct {
		role string
		to   string
		want bool
	}{
		{models.RoleOversight, models.StatusApproved, true},
		{models.RoleManager, models.StatusDeclined, true},
		{models.RoleMember, models.StatusApproved, false},
		{models.RoleAdmin, models.StatusApproved, false},
		{models.RoleAdmin, models.StatusSent, true},
		{models.RoleOversight, models.StatusSent, true},
		{models.RoleMember, models.StatusSent, false},
		{models.RoleOversight, models.StatusToReview, false},
	}

	for _, tt := range tests {
		if got := DecisionAllowed(tt.role, tt.to); got != tt.want {
			t.Errorf("DecisionAllowed(%q, %q) = %v, want %v", tt.role, tt.to, got, tt.want)
		}
	}
}

func TestComputedFinalAmount(t *testing.T) {
	vs := []models.Vote{
		{VoterID: "a", Choice: models.ChoiceYes, AllocationAmountCents: 100_00},
		{VoterID: "b", Choice: models.ChoiceNo},
		{VoterID: "c", Choice: models.ChoiceYes, AllocationAmountCents: 50_00},
	}

	joint := models.Proposal{ProposalType: models.TypeJoint, ProposedAmountCents: 999_99}
	if got := ComputedFinalAmount(joint, vs); got != 150_00 {
		t.Errorf("joint: expected 15000, got %d", got)
	}

	disc := models.Proposal{ProposalType: models.TypeDiscretionary, ProposedAmountCents: 999_99}
	discVotes := []models.Vote{
		{VoterID: "a", Choice: models.ChoiceAcknowledged},
		{VoterID: "b", Choice: models.ChoiceFlagged},
	}
	if got := ComputedFinalAmount(disc, discVotes); got != 999_99 {
		t.Errorf("discretionary: votes must not move the amount, expected 99999, got %d", got)
	}
}

func TestComputeProgressMasking(t *testing.T) {
	p := models.Proposal{ProposalType: models.TypeJoint, RevealVotes: false}
	vs := []models.Vote{
		{VoterID: "a", Choice: models.ChoiceYes, AllocationAmountCents: 100_00},
		{VoterID: "b", Choice: models.ChoiceNo},
	}

	// Masked for a plain member: counts only, no breakdown
	prog := ComputeProgress(p, vs, 3, "viewer", models.RoleMember)
	if !prog.Masked {
		t.Error("progress should be masked while reveal_votes is false")
	}
	if prog.Votes != nil {
		t.Error("masked progress must not expose individual votes")
	}
	if prog.VotesSubmitted != 2 {
		t.Errorf("aggregates must include masked votes, got %d", prog.VotesSubmitted)
	}
	if prog.ComputedFinalAmountCents != 100_00 {
		t.Errorf("computed amount must include masked votes, got %d", prog.ComputedFinalAmountCents)
	}

	// Oversight sees the breakdown even while masked
	prog = ComputeProgress(p, vs, 3, "viewer", models.RoleOversight)
	if len(prog.Votes) != 2 {
		t.Error("oversight should see the vote breakdown while masked")
	}
	if !prog.Masked {
		t.Error("masked flag reflects reveal state, not viewer privilege")
	}

	// After reveal, everyone sees the breakdown and the amount is unchanged
	p.RevealVotes = true
	prog = ComputeProgress(p, vs, 3, "viewer", models.RoleMember)
	if prog.Masked {
		t.Error("progress should not be masked after reveal")
	}
	if len(prog.Votes) != 2 {
		t.Error("revealed progress should expose the breakdown")
	}
	if prog.ComputedFinalAmountCents != 100_00 {
		t.Error("reveal must not recompute the final amount")
	}
}

func TestComputeProgressReadiness(t *testing.T) {
	p := models.Proposal{ProposalType: models.TypeJoint}
	vs := []models.Vote{
		{VoterID: "a", Choice: models.ChoiceYes, AllocationAmountCents: 10},
		{VoterID: "b", Choice: models.ChoiceNo},
	}

	prog := ComputeProgress(p, vs, 3, "a", models.RoleMember)
	if prog.IsReadyForMeeting {
		t.Error("2 of 3 votes should not be meeting-ready")
	}
	if !prog.HasCurrentUserVoted {
		t.Error("viewer a has voted")
	}

	prog = ComputeProgress(p, vs, 2, "c", models.RoleMember)
	if !prog.IsReadyForMeeting {
		t.Error("2 of 2 votes should be meeting-ready")
	}
	if prog.HasCurrentUserVoted {
		t.Error("viewer c has not voted")
	}
}

func TestApplyPatch(t *testing.T) {
	base := models.Proposal{
		ID:                  "p1",
		ProposalType:        models.TypeDiscretionary,
		Status:              models.StatusToReview,
		Title:               "Original",
		Description:         "Original description",
		ProposedAmountCents: 100_00,
		AllocationMode:      models.ModeSum,
	}

	newTitle := "Updated"
	newAmount := int64(250_00)
	patched, err := ApplyPatch(base, models.PatchProposalRequest{
		Title:               &newTitle,
		ProposedAmountCents: &newAmount,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patched.Title != "Updated" || patched.ProposedAmountCents != 250_00 {
		t.Error("present fields should be applied")
	}
	if patched.Description != "Original description" {
		t.Error("absent fields must be left untouched")
	}

	// Validation failures leave nothing applied
	empty := ""
	if _, err := ApplyPatch(base, models.PatchProposalRequest{Title: &empty}); err != ErrEmptyTitle {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	neg := int64(-5)
	if _, err := ApplyPatch(base, models.PatchProposalRequest{ProposedAmountCents: &neg}); err != ErrNegativeAmount {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}

	// Joint proposals cannot leave sum mode
	joint := base
	joint.ProposalType = models.TypeJoint
	avg := models.ModeAverage
	if _, err := ApplyPatch(joint, models.PatchProposalRequest{AllocationMode: &avg}); err != ErrInvalidMode {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}

	// Decided proposals are frozen
	decided := base
	decided.Status = models.StatusApproved
	if _, err := ApplyPatch(decided, models.PatchProposalRequest{Title: &newTitle}); err != ErrNotEditable {
		t.Errorf("expected ErrNotEditable, got %v", err)
	}
}
