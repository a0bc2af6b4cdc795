package api

import "github.com/calloway/segno/internal/score"

// Score is the full score response type (aliased from the domain layer).
type Score = score.Score

// ScoreListResponse wraps score listings.
type ScoreListResponse struct {
	Scores []Score `json:"scores" validate:"required"`
	Total  int     `json:"total" example:"42" validate:"required"`
}

// StringListResponse wraps category and composer enumerations.
type StringListResponse struct {
	Values []string `json:"values" validate:"required"`
}

// ReloadResponse is returned after a catalog reload.
type ReloadResponse struct {
	Scores int `json:"scores" example:"42" validate:"required"`
}
