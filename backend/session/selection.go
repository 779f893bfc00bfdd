package session

import (
	"sort"

	"assignmentmate/backend/models"
)

// Selection maps a question position to the chosen option position.
type Selection map[int]int

// Toggle selects option for question. Choosing the already selected option
// clears the answer.
func (s Selection) Toggle(question, option int) {
	if current, ok := s[question]; ok && current == option {
		delete(s, question)
		return
	}
	s[question] = option
}

// Answers lists the selection ordered by question position.
func (s Selection) Answers() []models.Answer {
	answers := make([]models.Answer, 0, len(s))
	for question, option := range s {
		answers = append(answers, models.Answer{QuestionIndex: question, SelectedOption: option})
	}
	sort.Slice(answers, func(i, j int) bool {
		return answers[i].QuestionIndex < answers[j].QuestionIndex
	})
	return answers
}

func (s Selection) clone() map[int]int {
	out := make(map[int]int, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
