package models

import "time"

// Proposal status constants
const (
	StatusToReview = "to_review"
	StatusApproved = "approved"
	StatusDeclined = "declined"
	StatusSent     = "sent"
)

// Proposal type constants
const (
	TypeJoint         = "joint"
	TypeDiscretionary = "discretionary"
)

// Allocation mode constants
const (
	ModeSum     = "sum"
	ModeAverage = "average"
)

// Vote choice constants. Joint proposals use yes/no; discretionary
// proposals use acknowledged/flagged.
const (
	ChoiceYes          = "yes"
	ChoiceNo           = "no"
	ChoiceAcknowledged = "acknowledged"
	ChoiceFlagged      = "flagged"
)

// Member role constants
const (
	RoleMember    = "member"
	RoleOversight = "oversight"
	RoleManager   = "manager"
	RoleAdmin     = "admin"
)

// Request types

type SubmitProposalRequest struct {
	ProposalType        string `json:"proposal_type"`
	BudgetYear          int    `json:"budget_year"`
	OrganizationID      string `json:"organization_id,omitempty"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	ProposedAmountCents int64  `json:"proposed_amount_cents"`
	AllocationMode      string `json:"allocation_mode,omitempty"`
	Website             string `json:"website,omitempty"`
	CharityNavigatorURL string `json:"charity_navigator_url,omitempty"`
}

// PatchProposalRequest uses pointer fields so absent and empty values are
// distinguishable; only present fields are validated and applied.
type PatchProposalRequest struct {
	Title               *string `json:"title,omitempty"`
	Description         *string `json:"description,omitempty"`
	ProposedAmountCents *int64  `json:"proposed_amount_cents,omitempty"`
	AllocationMode      *string `json:"allocation_mode,omitempty"`
	Notes               *string `json:"notes,omitempty"`
	Website             *string `json:"website,omitempty"`
	CharityNavigatorURL *string `json:"charity_navigator_url,omitempty"`
}

// CastVoteRequest carries the allocation as a pointer: a joint yes vote
// must state its pledge explicitly, and 0 is a different statement than
// "field omitted".
type CastVoteRequest struct {
	Choice                string `json:"choice"`
	AllocationAmountCents *int64 `json:"allocation_amount_cents,omitempty"`
	FlagComment           string `json:"flag_comment,omitempty"`
}

type RevealRequest struct {
	Reveal bool `json:"reveal"`
}

type DecisionRequest struct {
	Status string `json:"status"`
}

type UpsertBudgetRequest struct {
	TotalAmountCents     int64   `json:"total_amount_cents"`
	RolloverCents        int64   `json:"rollover_cents"`
	JointRatio           float64 `json:"joint_ratio"`
	DiscretionaryRatio   float64 `json:"discretionary_ratio"`
	MeetingRevealEnabled bool    `json:"meeting_reveal_enabled"`
}

type CreateMemberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Response types

type CastVoteResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type CreateMemberResponse struct {
	Member Member `json:"member"`
	Token  string `json:"token"`
}

// Domain types

type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Budget struct {
	Year                 int       `json:"year"`
	TotalAmountCents     int64     `json:"total_amount_cents"`
	JointRatio           float64   `json:"joint_ratio"`
	DiscretionaryRatio   float64   `json:"discretionary_ratio"`
	RolloverCents        int64     `json:"rollover_cents"`
	MeetingRevealEnabled bool      `json:"meeting_reveal_enabled"`
	UpdatedBy            string    `json:"updated_by,omitempty"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type Proposal struct {
	ID                  string     `json:"id"`
	ProposalType        string     `json:"proposal_type"`
	ProposerID          string     `json:"proposer_id"`
	BudgetYear          int        `json:"budget_year"`
	OrganizationID      *string    `json:"organization_id,omitempty"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	ProposedAmountCents int64      `json:"proposed_amount_cents"`
	Status              string     `json:"status"`
	AllocationMode      string     `json:"allocation_mode"`
	RevealVotes         bool       `json:"reveal_votes"`
	FinalAmountCents    *int64     `json:"final_amount_cents,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	Website             *string    `json:"website,omitempty"`
	CharityNavigatorURL *string    `json:"charity_navigator_url,omitempty"`
	SentAt              *time.Time `json:"sent_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type Vote struct {
	ProposalID            string    `json:"proposal_id"`
	VoterID               string    `json:"voter_id"`
	Choice                string    `json:"choice"`
	AllocationAmountCents int64     `json:"allocation_amount_cents"`
	FlagComment           *string   `json:"flag_comment,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// Progress is derived per proposal and never stored. While the proposal is
// masked, Votes is nil and only the counts are populated.
type Progress struct {
	TotalRequiredVotes       int    `json:"total_required_votes"`
	VotesSubmitted           int    `json:"votes_submitted"`
	HasCurrentUserVoted      bool   `json:"has_current_user_voted"`
	Masked                   bool   `json:"masked"`
	ComputedFinalAmountCents int64  `json:"computed_final_amount_cents"`
	IsReadyForMeeting        bool   `json:"is_ready_for_meeting"`
	Votes                    []Vote `json:"votes,omitempty"`
}

type ProposalWithProgress struct {
	Proposal Proposal `json:"proposal"`
	Progress Progress `json:"progress"`
}

// BudgetStatus is a budget with its derived pools and running totals.
// Remaining may be negative: pools are advisory caps, surfaced as guidance.
type BudgetStatus struct {
	Budget                      Budget `json:"budget"`
	JointPoolCents              int64  `json:"joint_pool_cents"`
	DiscretionaryPoolCents      int64  `json:"discretionary_pool_cents"`
	JointAllocatedCents         int64  `json:"joint_allocated_cents"`
	DiscretionaryAllocatedCents int64  `json:"discretionary_allocated_cents"`
	JointRemainingCents         int64  `json:"joint_remaining_cents"`
	DiscretionaryRemainingCents int64  `json:"discretionary_remaining_cents"`
	PerMemberCapCents           int64  `json:"per_member_cap_cents"`
}

type YearTotals struct {
	Year                        int   `json:"year"`
	JointAllocatedCents         int64 `json:"joint_allocated_cents"`
	DiscretionaryAllocatedCents int64 `json:"discretionary_allocated_cents"`
}

type FoundationSnapshot struct {
	Budget        BudgetStatus           `json:"budget"`
	Proposals     []ProposalWithProgress `json:"proposals"`
	HistoryByYear []YearTotals           `json:"history_by_year"`
}

// PersonalBudget is a member's slice of the discretionary pool.
type PersonalBudget struct {
	CapCents       int64  `json:"cap_cents"`
	CommittedCents int64  `json:"committed_cents"`
	RemainingCents int64  `json:"remaining_cents"`
	CapDisplay     string `json:"cap_display"`
}

type WorkspaceSnapshot struct {
	Member         Member                 `json:"member"`
	PersonalBudget PersonalBudget         `json:"personal_budget"`
	ActionItems    []ProposalWithProgress `json:"action_items"`
	VoteHistory    []Vote                 `json:"vote_history"`
	SubmittedGifts []ProposalWithProgress `json:"submitted_gifts"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
