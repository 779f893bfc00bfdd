package models

import "time"

type Document struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	File       string     `json:"file"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
	Preview    string     `json:"preview,omitempty"`
	User       int        `json:"user,omitempty"`
}

type ExtractedQuestion struct {
	ID   int    `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

type QuestionAnswer struct {
	QuestionID int    `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

type DocumentAnswers struct {
	DocumentID int              `json:"document_id"`
	Responses  []QuestionAnswer `json:"responses"`
}

// AnswerRequest drives answer generation for a set of extracted questions.
type AnswerRequest struct {
	Questions       []ExtractedQuestion `json:"questions" validate:"required,min=1,dive"`
	AnswerDetailing string              `json:"answer_detailing" validate:"required"`
	Marks           int                 `json:"marks" validate:"min=0"`
}

type SingleAnswerRequest struct {
	Question        ExtractedQuestion `json:"question" validate:"required"`
	AnswerDetailing string            `json:"answer_detailing" validate:"required"`
	Marks           int               `json:"marks" validate:"min=0"`
}

type SingleAnswer struct {
	Question []ExtractedQuestion `json:"question"`
	Answer   string              `json:"answer"`
}

type AnsweredQuestion struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

type GeneratedAnswers struct {
	Questions []AnsweredQuestion `json:"questions"`
	Answers   map[string]string  `json:"answers"`
}
