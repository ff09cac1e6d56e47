package model

import (
	"time"

	"github.com/google/uuid"
)

type RecalculationReport struct {
	CompetitionID uuid.UUID     `json:"competition_id"`
	Competitors   int           `json:"competitors"`
	Created       int           `json:"created"`
	Updated       int           `json:"updated"`
	Deleted       int           `json:"deleted"`
	Unchanged     int           `json:"unchanged"`
	Duration      time.Duration `json:"duration_ns"`
}

// RankedResult is a stored result with its read-time position.
type RankedResult struct {
	Rank           int            `json:"rank"`
	CompetitorKind CompetitorKind `json:"competitor_kind"`
	CompetitorID   uuid.UUID      `json:"competitor_id"`
	Result         *float64       `json:"result"`
	ResultDividend *float64       `json:"result_dividend,omitempty"`
	ResultDivisor  *float64       `json:"result_divisor,omitempty"`
}

type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) IsOperator() bool {
	return p.Role == "OPERATOR" || p.Role == "ADMIN"
}

// ResultChanges is the write plan for one competition's result set.
type ResultChanges struct {
	Create    []CompetitionResult
	Update    []CompetitionResult
	Delete    []uuid.UUID
	Unchanged int
}
