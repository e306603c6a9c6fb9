package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/lmatteson/grantwell/models"
	"github.com/lmatteson/grantwell/testutil"
)

func TestReveal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewDecisionHandler(db, cfg)

	alice := testutil.CreateTestMember(t, db, "Alice", models.RoleMember)
	oversight := testutil.CreateTestMember(t, db, "Olive", models.RoleOversight)
	manager := testutil.CreateTestMember(t, db, "Mallory", models.RoleManager)
	testutil.CreateTestBudget(t, db, 2025, 400_000_00, 0, 0.75, 0.25)

	proposalID := testutil.CreateTestProposal(t, db, alice.ID, models.TypeJoint, 2025, models.StatusToReview, 0)

	tests := []struct {
		name           string
		caller         models.Member
		reveal         bool
		expectedStatus int
	}{
		{"member may not reveal", alice, true, 403},
		{"oversight reveals", oversight, true, 200},
		{"manager hides again", manager, false, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/proposals/"+proposalID+"/reveal",
				models.RevealRequest{Reveal: tt.reveal}, tt.caller)
			req.SetPathValue("id", proposalID)
			w := httptest.NewRecorder()

			handler.Reveal(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == 200 {
				var resp map[string]models.Proposal
				testutil.AssertJSON(t, w, &resp)
				if resp["proposal"].RevealVotes != tt.reveal {
					t.Errorf("expected reveal_votes=%v", tt.reveal)
				}
			}
		})
	}

	t.Run("unknown proposal", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/proposals/missing/reveal",
			models.RevealRequest{Reveal: true}, oversight)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()
		handler.Reveal(w, req)
		testutil.AssertStatus(t, w, 404)
	})
}

func TestDecide(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewDecisionHandler(db, cfg)

	alice := testutil.CreateTestMember(t, db, "Alice", models.RoleMember)
	bob := testutil.CreateTestMember(t, db, "Bob", models.RoleMember)
	oversight := testutil.CreateTestMember(t, db, "Olive", models.RoleOversight)
	admin := testutil.CreateTestMember(t, db, "Root", models.RoleAdmin)
	testutil.CreateTestBudget(t, db, 2025, 400_000_00, 0, 0.75, 0.25)

	decide := func(t *testing.T, caller models.Member, proposalID, status string) *httptest.ResponseRecorder {
		t.Helper()
		req := testutil.MakeRequest("POST", "/proposals/"+proposalID+"/decision",
			models.DecisionRequest{Status: status}, caller)
		req.SetPathValue("id", proposalID)
		w := httptest.NewRecorder()
		handler.Decide(w, req)
		return w
	}

	t.Run("approving a joint proposal locks the sum of yes pledges", func(t *testing.T) {
		proposalID := testutil.CreateTestProposal(t, db, alice.ID, models.TypeJoint, 2025, models.StatusToReview, 0)
		testutil.CastTestVote(t, db, proposalID, alice.ID, models.ChoiceYes, 300_00)
		testutil.CastTestVote(t, db, proposalID, bob.ID, models.ChoiceYes, 200_00)
		testutil.CastTestVote(t, db, proposalID, oversight.ID, models.ChoiceNo, 0)

		w := decide(t, oversight, proposalID, models.StatusApproved)
		testutil.AssertStatus(t, w, 200)

		var resp map[string]models.Proposal
		testutil.AssertJSON(t, w, &resp)
		p := resp["proposal"]
		if p.Status != models.StatusApproved {
			t.Errorf("expected approved, got %q", p.Status)
		}
		if p.FinalAmountCents == nil || *p.FinalAmountCents != 500_00 {
			t.Errorf("expected final amount 50000, got %v", p.FinalAmountCents)
		}
	})

	t.Run("approving a discretionary proposal locks the proposed amount", func(t *testing.T) {
		proposalID := testutil.CreateTestProposal(t, db, alice.ID, models.TypeDiscretionary, 2025, models.StatusToReview, 1_500_00)
		testutil.CastTestVote(t, db, proposalID, bob.ID, models.ChoiceFlagged, 0)

		w := decide(t, oversight, proposalID, models.StatusApproved)
		testutil.AssertStatus(t, w, 200)

		var resp map[string]models.Proposal
		testutil.AssertJSON(t, w, &resp)
		p := resp["proposal"]
		if p.FinalAmountCents == nil || *p.FinalAmountCents != 1_500_00 {
			t.Errorf("flags are advisory; expected final amount 150000, got %v", p.FinalAmountCents)
		}
	})

	t.Run("declining leaves no final amount", func(t *testing.T) {
		proposalID := testutil.CreateTestProposal(t, db, alice.ID, models.TypeJoint, 2025, models.StatusToReview, 0)
		testutil.CastTestVote(t, db, proposalID, bob.ID, models.ChoiceYes, 100_00)

		w := decide(t, oversight, proposalID, models.StatusDeclined)
		testutil.AssertStatus(t, w, 200)

		var resp map[string]models.Proposal
		testutil.AssertJSON(t, w, &resp)
		if resp["proposal"].FinalAmountCents != nil {
			t.Error("declined proposals should not carry a final amount")
		}
	})

	t.Run("decisions are final", func(t *testing.T) {
		proposalID := testutil.CreateTestProposal(t, db, alice.ID, models.TypeJoint, 2025, models.StatusToReview, 0)

		w := decide(t, oversight, proposalID, models.StatusDeclined)
		testutil.AssertStatus(t, w, 200)

		// Flipping a declined proposal to approved must fail
		w = decide(t, oversight, proposalID, models.StatusApproved)
		testutil.AssertStatus(t, w, 409)
	})

	t.Run("only approved proposals can be sent", func(t *testing.T) {
		proposalID := testutil.CreateTestProposal(t, db, alice.ID, models.TypeJoint, 2025, models.StatusToReview, 0)

		w := decide(t, admin, proposalID, models.StatusSent)
		testutil.AssertStatus(t, w, 400)

		decide(t, oversight, proposalID, models.StatusApproved)
		w = decide(t, admin, proposalID, models.StatusSent)
		testutil.AssertStatus(t, w, 200)

		var resp map[string]models.Proposal
		testutil.AssertJSON(t, w, &resp)
		if resp["proposal"].SentAt == nil {
			t.Error("sending should stamp sent_at")
		}
	})

	t.Run("role gating", func(t *testing.T) {
		proposalID := testutil.CreateTestProposal(t, db, alice.ID, models.TypeJoint, 2025, models.StatusToReview, 0)

		// Members never decide
		w := decide(t, alice, proposalID, models.StatusApproved)
		testutil.AssertStatus(t, w, 403)

		// Admins mark sent but do not approve or decline
		w = decide(t, admin, proposalID, models.StatusApproved)
		testutil.AssertStatus(t, w, 403)
	})

	t.Run("invalid target status", func(t *testing.T) {
		proposalID := testutil.CreateTestProposal(t, db, alice.ID, models.TypeJoint, 2025, models.StatusToReview, 0)
		w := decide(t, oversight, proposalID, models.StatusToReview)
		testutil.AssertStatus(t, w, 400)
	})
}

func TestRevealDoesNotRecompute(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	decisionHandler := NewDecisionHandler(db, cfg)
	proposalHandler := NewProposalHandler(db, cfg)

	alice := testutil.CreateTestMember(t, db, "Alice", models.RoleMember)
	bob := testutil.CreateTestMember(t, db, "Bob", models.RoleMember)
	oversight := testutil.CreateTestMember(t, db, "Olive", models.RoleOversight)
	testutil.CreateTestBudget(t, db, 2025, 400_000_00, 0, 0.75, 0.25)

	proposalID := testutil.CreateTestProposal(t, db, alice.ID, models.TypeJoint, 2025, models.StatusToReview, 0)
	testutil.CastTestVote(t, db, proposalID, alice.ID, models.ChoiceYes, 100_00)
	testutil.CastTestVote(t, db, proposalID, bob.ID, models.ChoiceYes, 50_00)

	// Approve: final amount locks at $150
	req := testutil.MakeRequest("POST", "/proposals/"+proposalID+"/decision",
		models.DecisionRequest{Status: models.StatusApproved}, oversight)
	req.SetPathValue("id", proposalID)
	w := httptest.NewRecorder()
	decisionHandler.Decide(w, req)
	testutil.AssertStatus(t, w, 200)

	// Reveal afterwards
	req = testutil.MakeRequest("POST", "/proposals/"+proposalID+"/reveal",
		models.RevealRequest{Reveal: true}, oversight)
	req.SetPathValue("id", proposalID)
	w = httptest.NewRecorder()
	decisionHandler.Reveal(w, req)
	testutil.AssertStatus(t, w, 200)

	req = testutil.MakeRequest("GET", "/proposals/"+proposalID, nil, bob)
	req.SetPathValue("id", proposalID)
	w = httptest.NewRecorder()
	proposalHandler.Get(w, req)
	testutil.AssertStatus(t, w, 200)

	var resp models.ProposalWithProgress
	testutil.AssertJSON(t, w, &resp)
	if resp.Proposal.FinalAmountCents == nil || *resp.Proposal.FinalAmountCents != 150_00 {
		t.Errorf("reveal must not move the locked amount, got %v", resp.Proposal.FinalAmountCents)
	}
	if resp.Progress.Masked {
		t.Error("progress should be unmasked after reveal")
	}
	if len(resp.Progress.Votes) != 2 {
		t.Errorf("revealed progress should list 2 votes, got %d", len(resp.Progress.Votes))
	}
}
