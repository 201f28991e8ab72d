// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"math"
	"time"

	"github.com/infracouncil/council-portal-service/pkg/constants"
)

// ProposalStatus is the evaluation state of an agenda proposal.
type ProposalStatus string

const (
	// ProposalStatusPending means the proposal has not been evaluated yet.
	ProposalStatusPending ProposalStatus = "pending"
	// ProposalStatusReview means the proposal scored in the re-review band.
	ProposalStatusReview ProposalStatus = "review"
	// ProposalStatusApproved means the proposal was adopted.
	ProposalStatusApproved ProposalStatus = "approved"
	// ProposalStatusRejected means the proposal was not adopted.
	ProposalStatusRejected ProposalStatus = "rejected"
)

// statusRankUnknown sorts unknown statuses after every known one.
const statusRankUnknown = 99

// Rank returns the sort priority of a status in admin listings:
// pending < review < approved < rejected, unknown last.
func (s ProposalStatus) Rank() int {
	switch s {
	case ProposalStatusPending:
		return 1
	case ProposalStatusReview:
		return 2
	case ProposalStatusApproved:
		return 3
	case ProposalStatusRejected:
		return 4
	}
	return statusRankUnknown
}

// Score thresholds for deriving a proposal status from its total score.
const (
	scoreThresholdApproved = 70
	scoreThresholdReview   = 50
)

// Evaluation holds the four rubric criteria scores, each in
// [constants.RubricMinScore, constants.RubricMaxScore].
type Evaluation struct {
	// Alignment: does the proposal connect with the policy direction of the
	// infrastructure management framework?
	Alignment int `json:"alignment"`
	// Feasibility: is the proposal concrete and executable in practice?
	Feasibility int `json:"feasibility"`
	// Urgency: does the problem need to be addressed ahead of other issues?
	Urgency int `json:"urgency"`
	// Impact: can the proposal lead to concrete improvements?
	Impact int `json:"impact"`
}

// Validate checks that every criterion score is within the rubric range.
func (e *Evaluation) Validate() error {
	scores := e.criteria()
	for name, score := range scores {
		if score < constants.RubricMinScore || score > constants.RubricMaxScore {
			return fmt.Errorf("criterion %s score %d is outside [%d, %d]",
				name, score, constants.RubricMinScore, constants.RubricMaxScore)
		}
	}
	return nil
}

func (e *Evaluation) criteria() map[string]int {
	return map[string]int{
		"alignment":   e.Alignment,
		"feasibility": e.Feasibility,
		"urgency":     e.Urgency,
		"impact":      e.Impact,
	}
}

// TotalScore converts the rubric scores into a 0-100 score:
// round(100 * sum / (criteriaCount * maxScore)).
func (e *Evaluation) TotalScore() int {
	sum := e.Alignment + e.Feasibility + e.Urgency + e.Impact
	maxTotal := constants.RubricCriteriaCount * constants.RubricMaxScore
	return int(math.Round(100 * float64(sum) / float64(maxTotal)))
}

// StatusForScore derives the proposal status from a total score.
// Re-evaluation uses the same thresholds regardless of the prior status.
func StatusForScore(score int) ProposalStatus {
	switch {
	case score >= scoreThresholdApproved:
		return ProposalStatusApproved
	case score >= scoreThresholdReview:
		return ProposalStatusReview
	default:
		return ProposalStatusRejected
	}
}

// Proposal is the key-value store representation of an agenda proposal.
// Status is pending exactly when Evaluation is nil, and Score is always the
// deterministic function of Evaluation.
type Proposal struct {
	UID          string         `json:"uid"`
	Title        string         `json:"title"`
	Background   string         `json:"background"`
	Content      string         `json:"content"`
	Effects      string         `json:"effects"`
	ProposerUID  string         `json:"proposer_uid"`
	ProposerName string         `json:"proposer_name,omitempty"`
	Division     Division       `json:"division"` // denormalized from the proposer at submission time
	Status       ProposalStatus `json:"status"`
	Score        *int           `json:"score,omitempty"`
	Evaluation   *Evaluation    `json:"evaluation,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

// Evaluated reports whether the proposal has a recorded evaluation.
func (p *Proposal) Evaluated() bool {
	return p.Evaluation != nil
}

// Tags generates a consistent set of tags for the proposal for searching/indexing.
func (p *Proposal) Tags() []string {
	if p == nil {
		return nil
	}

	tags := []string{}

	if p.UID != "" {
		tags = append(tags, p.UID)
		tags = append(tags, fmt.Sprintf("proposal_uid:%s", p.UID))
	}

	if p.ProposerUID != "" {
		tags = append(tags, fmt.Sprintf("proposer_uid:%s", p.ProposerUID))
	}

	if p.Division != "" {
		tags = append(tags, fmt.Sprintf("division:%s", p.Division))
	}

	if p.Status != "" {
		tags = append(tags, fmt.Sprintf("status:%s", p.Status))
	}

	if p.Title != "" {
		tags = append(tags, fmt.Sprintf("title:%s", p.Title))
	}

	return tags
}
