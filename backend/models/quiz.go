package models

import "time"

// Quiz is the backend quiz definition. It is immutable for the lifetime of an
// attempt session.
type Quiz struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Topic      string     `json:"topic,omitempty"`
	Context    string     `json:"context,omitempty"`
	TimeLimit  int        `json:"time_limit,omitempty"`
	IsActive   bool       `json:"is_active"`
	Difficulty string     `json:"difficulty,omitempty"` // easy, medium, hard
	Questions  []Question `json:"questions"`
}

// Question position inside Quiz.Questions is the answer key.
type Question struct {
	ID            int      `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption *int     `json:"correct_option,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

type Answer struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedOption int `json:"selectedOption"`
}

// Attempt is owned by the backend; the gateway only keeps a read-only copy.
type Attempt struct {
	ID          int        `json:"id"`
	Quiz        Quiz       `json:"quiz"`
	User        *int       `json:"user,omitempty"`
	Score       *float64   `json:"score,omitempty"`
	Answers     []Answer   `json:"answers,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (a *Attempt) Completed() bool {
	return a != nil && a.CompletedAt != nil
}

type IncorrectQuestion struct {
	Question       string `json:"question"`
	SelectedOption string `json:"selectedOption"`
	CorrectOption  string `json:"correctOption"`
	Explanation    string `json:"explanation,omitempty"`
}

type AttemptResult struct {
	Attempt
	IncorrectQuestions []IncorrectQuestion `json:"incorrect_questions"`
	TimeTaken          float64             `json:"time_taken"`
}

type GenerateQuizInput struct {
	Topic          string `json:"topic" validate:"required,max=100"`
	Context        string `json:"context"`
	Difficulty     string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	NumOfQuestions int    `json:"numOfQuestions" validate:"required,min=1,max=50"`
}
