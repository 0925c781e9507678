package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func quiz(correct ...int) []Question {
	questions := make([]Question, len(correct))
	for i, c := range correct {
		questions[i] = Question{
			Prompt:       "q",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: c,
		}
	}
	return questions
}

func TestGradeAllCorrect(t *testing.T) {
	score, total, status := Grade(quiz(0, 1, 2), []int{0, 1, 2})
	assert.Equal(t, 3, score)
	assert.Equal(t, 3, total)
	assert.Equal(t, AttemptPassed, status)
}

func TestGradePassThresholdBoundary(t *testing.T) {
	// 7 of 10 is exactly the passing line.
	answers := []int{0, 0, 0, 0, 0, 0, 0, 1, 1, 1}
	score, total, status := Grade(quiz(0, 0, 0, 0, 0, 0, 0, 0, 0, 0), answers)
	assert.Equal(t, 7, score)
	assert.Equal(t, 10, total)
	assert.Equal(t, AttemptPassed, status)

	answers[6] = 1
	score, _, status = Grade(quiz(0, 0, 0, 0, 0, 0, 0, 0, 0, 0), answers)
	assert.Equal(t, 6, score)
	assert.Equal(t, AttemptFailed, status)
}

func TestGradeShortAnswerSlice(t *testing.T) {
	// Unanswered questions count as wrong.
	score, total, status := Grade(quiz(0, 1, 2, 3), []int{0})
	assert.Equal(t, 1, score)
	assert.Equal(t, 4, total)
	assert.Equal(t, AttemptFailed, status)
}

func TestGradeEmptyQuiz(t *testing.T) {
	score, total, status := Grade(nil, nil)
	assert.Equal(t, 0, score)
	assert.Equal(t, 0, total)
	assert.Equal(t, AttemptFailed, status)
}
