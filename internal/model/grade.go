package model

// PassThreshold is the fraction of correct answers required to pass a quiz.
const PassThreshold = 0.7

// Grade scores the submitted answers against the course questions. Answers are
// option indexes keyed by question order; missing or out-of-range answers count
// as wrong. Grading is pure so the same inputs always produce the same outcome.
func Grade(questions []Question, answers []int) (score, total int, status AttemptStatus) {
	total = len(questions)
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if answers[i] >= 0 && answers[i] < len(q.Options) && answers[i] == q.CorrectIndex {
			score++
		}
	}
	status = AttemptFailed
	if total > 0 && float64(score) >= PassThreshold*float64(total) {
		status = AttemptPassed
	}
	return score, total, status
}
