package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"assignmentmate/backend/models"
)

const documentsPath = "/api/assignment-assist/documents/"

func (c *Client) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var documents []models.Document
	if err := c.do(ctx, http.MethodGet, documentsPath, nil, nil, &documents); err != nil {
		return nil, err
	}
	return documents, nil
}

// UploadDocument posts the file as multipart form data. The backend answers
// 409 when a document with the same name was uploaded before.
func (c *Client) UploadDocument(ctx context.Context, name, filename string, file io.Reader) (*models.Document, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("name", name); err != nil {
		return nil, fmt.Errorf("write form: %w", err)
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("write form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("write form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("write form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, documentsPath, nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var document models.Document
	if err := c.send(req, &document); err != nil {
		return nil, err
	}
	return &document, nil
}

func (c *Client) DeleteDocument(ctx context.Context, documentID int) error {
	path := fmt.Sprintf("%s%d/", documentsPath, documentID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) ExtractQuestions(ctx context.Context, documentID int) ([]models.ExtractedQuestion, error) {
	var questions []models.ExtractedQuestion
	path := fmt.Sprintf("%s%d/extract_questions/", documentsPath, documentID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *Client) UpdateQuestions(ctx context.Context, documentID int, questions []models.ExtractedQuestion) error {
	path := fmt.Sprintf("%s%d/update_questions/", documentsPath, documentID)
	return c.do(ctx, http.MethodPatch, path, nil, questions, nil)
}

func (c *Client) GenerateAnswers(ctx context.Context, documentID int, req models.AnswerRequest) (*models.GeneratedAnswers, error) {
	var answers models.GeneratedAnswers
	path := fmt.Sprintf("%s%d/questions/answers/", documentsPath, documentID)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &answers); err != nil {
		return nil, err
	}
	return &answers, nil
}

func (c *Client) GetAnswers(ctx context.Context, documentID int) (*models.DocumentAnswers, error) {
	var answers models.DocumentAnswers
	path := fmt.Sprintf("%s%d/questions/answers/", documentsPath, documentID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &answers); err != nil {
		return nil, err
	}
	return &answers, nil
}

// GenerateSingleAnswer regenerates the answer of one extracted question. The
// backend expects the question wrapped in a one element list.
func (c *Client) GenerateSingleAnswer(ctx context.Context, documentID int, req models.SingleAnswerRequest) (*models.SingleAnswer, error) {
	payload := struct {
		Question        []models.ExtractedQuestion `json:"question"`
		AnswerDetailing string                     `json:"answer_detailing"`
		Marks           int                        `json:"marks,omitempty"`
	}{
		Question:        []models.ExtractedQuestion{req.Question},
		AnswerDetailing: req.AnswerDetailing,
		Marks:           req.Marks,
	}

	var answer models.SingleAnswer
	path := fmt.Sprintf("%s%d/questions/%d/answer/", documentsPath, documentID, req.Question.ID)
	if err := c.do(ctx, http.MethodPost, path, nil, payload, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}
