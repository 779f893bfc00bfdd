package session

import (
	"fmt"

	"assignmentmate/backend/models"
)

// Snapshot is the view model of a session at one instant.
type Snapshot struct {
	ID               string       `json:"id"`
	QuizID           int          `json:"quiz_id"`
	AttemptID        int          `json:"attempt_id,omitempty"`
	State            State        `json:"state"`
	Quiz             *models.Quiz `json:"quiz,omitempty"`
	Selections       map[int]int  `json:"selections"`
	Answered         int          `json:"answered"`
	Progress         float64      `json:"progress"`
	TimeBudget       int          `json:"time_budget"`
	RemainingSeconds int          `json:"remaining_seconds"`
	Clock            string       `json:"clock"`
	TimerFraction    float64      `json:"timer_fraction"`
	Submitting       bool         `json:"submitting"`
	Redirect         string       `json:"redirect,omitempty"`
	Error            string       `json:"error,omitempty"`
	Notice           string       `json:"notice,omitempty"`
	Celebrate        bool         `json:"celebrate,omitempty"`
}

// Snapshot returns the current view model. The submit-failure notice and the
// completion celebration are one-shot and are only reported once.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:               s.id,
		QuizID:           s.quizID,
		State:            s.state,
		Selections:       s.selection.clone(),
		Answered:         len(s.selection),
		TimeBudget:       s.budget,
		RemainingSeconds: s.remaining,
		Clock:            FormatClock(s.remaining),
		Submitting:       s.submitting,
		Redirect:         s.redirect,
		Error:            s.errMsg,
		Notice:           s.notice,
		Celebrate:        s.celebrate,
	}
	s.notice = ""
	s.celebrate = false

	if s.attempt != nil {
		snap.AttemptID = s.attempt.ID
		if s.state == StateActive {
			snap.Quiz = publicQuiz(s.attempt.Quiz)
		}
		snap.Progress = Progress(len(s.selection), len(s.attempt.Quiz.Questions))
	}
	if s.budget > 0 {
		snap.TimerFraction = float64(s.remaining) / float64(s.budget)
	}
	return snap
}

// Progress is the answered fraction; an empty quiz has no progress.
func Progress(answered, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(answered) / float64(total)
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// publicQuiz strips answer keys before the quiz reaches the view.
func publicQuiz(quiz models.Quiz) *models.Quiz {
	out := quiz
	out.Questions = make([]models.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		q.CorrectOption = nil
		q.Explanation = ""
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return &out
}
