package models

import (
	"testing"
	"time"
)

func TestIsValidCampaignTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{CampaignStatusFunding, CampaignStatusSuccess, true},
		{CampaignStatusFunding, CampaignStatusFail, true},
		{CampaignStatusSuccess, CampaignStatusMaking, true},
		{CampaignStatusSuccess, CampaignStatusDelivery, true},
		{CampaignStatusMaking, CampaignStatusDelivery, true},

		// Owner may skip SUCCESS entirely
		{CampaignStatusFunding, CampaignStatusMaking, true},
		{CampaignStatusFunding, CampaignStatusDelivery, true},

		// Terminal states
		{CampaignStatusFail, CampaignStatusFunding, false},
		{CampaignStatusFail, CampaignStatusSuccess, false},
		{CampaignStatusDelivery, CampaignStatusMaking, false},

		// Backwards
		{CampaignStatusSuccess, CampaignStatusFunding, false},
		{CampaignStatusMaking, CampaignStatusFunding, false},
		{CampaignStatusMaking, CampaignStatusSuccess, false},

		// Unknown values
		{"nonexistent", CampaignStatusFunding, false},
		{CampaignStatusFunding, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidCampaignTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidCampaignTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestIsValidCampaignStatus(t *testing.T) {
	for _, status := range []string{
		CampaignStatusFunding, CampaignStatusSuccess, CampaignStatusFail,
		CampaignStatusMaking, CampaignStatusDelivery,
	} {
		if !IsValidCampaignStatus(status) {
			t.Errorf("status %q should be valid", status)
		}
	}

	for _, status := range []string{"", "funding", "CANCELLED", "DONE"} {
		if IsValidCampaignStatus(status) {
			t.Errorf("status %q should be rejected", status)
		}
	}
}

func TestReachesGoal(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		goal     int64
		amount   int64
		expected bool
	}{
		{"exact hit counts", 400, 1000, 600, true},
		{"overshoot counts", 400, 1000, 700, true},
		{"one short does not", 400, 1000, 599, false},
		{"already past goal", 1100, 1000, 1, true},
		{"zero prior", 0, 1000, 1000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Campaign{CurrentAmount: tt.current, GoalAmount: tt.goal}
			if got := c.ReachesGoal(tt.amount); got != tt.expected {
				t.Errorf("ReachesGoal(%d) with current=%d goal=%d = %v, want %v",
					tt.amount, tt.current, tt.goal, got, tt.expected)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	c := &Campaign{CurrentAmount: 1100, GoalAmount: 1000}
	if got := c.Progress(); got != 1.1 {
		t.Errorf("Progress = %v, want 1.1 (overshoot is not capped)", got)
	}

	c = &Campaign{CurrentAmount: 500, GoalAmount: 0}
	if got := c.Progress(); got != 0 {
		t.Errorf("Progress with zero goal = %v, want 0", got)
	}
}

func TestAcceptsInvestment(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name     string
		campaign Campaign
		wantErr  bool
	}{
		{"open campaign", Campaign{Status: CampaignStatusFunding, Deadline: future}, false},
		{"wrong status", Campaign{Status: CampaignStatusSuccess, Deadline: future}, true},
		{"failed campaign", Campaign{Status: CampaignStatusFail, Deadline: past}, true},
		{"deadline passed", Campaign{Status: CampaignStatusFunding, Deadline: past}, true},
		{"deadline exactly now", Campaign{Status: CampaignStatusFunding, Deadline: now}, true},
		{"soft deleted", Campaign{Status: CampaignStatusFunding, Deadline: future, DeletedAt: &past}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason := tt.campaign.AcceptsInvestment(now)
			if (reason != "") != tt.wantErr {
				t.Errorf("AcceptsInvestment = %q, wantErr %v", reason, tt.wantErr)
			}
		})
	}
}

func TestIsFailureCandidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		campaign Campaign
		expected bool
	}{
		{"expired and underfunded", Campaign{Status: CampaignStatusFunding, Deadline: past, CurrentAmount: 400, GoalAmount: 1000}, true},
		{"expired but funded", Campaign{Status: CampaignStatusFunding, Deadline: past, CurrentAmount: 1000, GoalAmount: 1000}, false},
		{"not yet expired", Campaign{Status: CampaignStatusFunding, Deadline: future, CurrentAmount: 400, GoalAmount: 1000}, false},
		{"already failed", Campaign{Status: CampaignStatusFail, Deadline: past, CurrentAmount: 400, GoalAmount: 1000}, false},
		{"soft deleted", Campaign{Status: CampaignStatusFunding, Deadline: past, CurrentAmount: 400, GoalAmount: 1000, DeletedAt: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.campaign.IsFailureCandidate(now); got != tt.expected {
				t.Errorf("IsFailureCandidate = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsReminderCandidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	tests := []struct {
		name     string
		deadline time.Time
		status   string
		expected bool
	}{
		{"inside window", now.Add(12 * time.Hour), CampaignStatusFunding, true},
		{"at window edge", now.Add(window), CampaignStatusFunding, true},
		{"at now", now, CampaignStatusFunding, true},
		{"beyond window", now.Add(25 * time.Hour), CampaignStatusFunding, false},
		{"already passed", now.Add(-time.Minute), CampaignStatusFunding, false},
		{"not funding", now.Add(12 * time.Hour), CampaignStatusSuccess, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Campaign{Status: tt.status, Deadline: tt.deadline}
			if got := c.IsReminderCandidate(now, window); got != tt.expected {
				t.Errorf("IsReminderCandidate = %v, want %v", got, tt.expected)
			}
		})
	}
}
