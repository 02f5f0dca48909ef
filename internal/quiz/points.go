package quiz

import (
	"math"

	"histomap/internal/domain"
)

const (
	basePoints  = 100
	hintPenalty = 30
	minPoints   = 10
)

// CalculatePoints maps a round outcome to a point value. Incorrect answers
// score zero; correct answers lose 30 per hint, are halved in multiple-choice
// mode, and never fall below the floor.
func CalculatePoints(correct bool, hintsUsed int, wasQCM bool) domain.QuizResult {
	result := domain.QuizResult{HintsUsed: hintsUsed, WasQCM: wasQCM, Correct: correct}
	if !correct {
		return result
	}

	points := basePoints - hintPenalty*hintsUsed
	if wasQCM {
		points = int(math.Round(float64(points) * 0.5))
	}
	if points < minPoints {
		points = minPoints
	}
	result.Points = points
	return result
}
