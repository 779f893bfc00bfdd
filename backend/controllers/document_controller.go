package controllers

import (
	"fmt"
	"path/filepath"
	"strings"

	"assignmentmate/backend/models"
	"assignmentmate/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type DocumentController struct {
	*Upstream
}

func NewDocumentController(upstream *Upstream) *DocumentController {
	return &DocumentController{Upstream: upstream}
}

func (dc *DocumentController) ListDocuments(c *fiber.Ctx) error {
	documents, err := dc.For(c).ListDocuments(c.UserContext())
	if err != nil {
		return dc.readFailure(c, err, "Could not load documents.")
	}
	if documents == nil {
		documents = []models.Document{}
	}
	return utils.Success(c, fiber.StatusOK, documents)
}

// UploadDocument godoc
// @Summary Upload a PDF assignment
// @Description Stores the document on the backend and extracts its questions
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param name formData string false "Document name"
// @Param file formData file true "PDF file"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /documents [post]
func (dc *DocumentController) UploadDocument(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "A PDF file is required")
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return utils.BadRequest(c, "Only PDF files are accepted")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	file, err := header.Open()
	if err != nil {
		return utils.BadRequest(c, "Cannot read uploaded file")
	}
	defer file.Close()

	client := dc.For(c)
	doc, err := client.UploadDocument(c.UserContext(), name, header.Filename, file)
	if err != nil {
		return utils.UpstreamError(c, err)
	}

	questions, err := client.ExtractQuestions(c.UserContext(), doc.ID)
	if err != nil {
		return utils.UpstreamError(c, err)
	}

	return utils.Redirect(c, extractedQuestionsRoute(doc.ID), fiber.Map{
		"document":  doc,
		"questions": questions,
	})
}

func (dc *DocumentController) DeleteDocument(c *fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid document ID")
	}
	if err := dc.For(c).DeleteDocument(c.UserContext(), id); err != nil {
		return utils.UpstreamError(c, err)
	}
	return utils.NoContent(c)
}

func (dc *DocumentController) ExtractQuestions(c *fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid document ID")
	}
	questions, err := dc.For(c).ExtractQuestions(c.UserContext(), id)
	if err != nil {
		return utils.UpstreamError(c, err)
	}
	if questions == nil {
		questions = []models.ExtractedQuestion{}
	}
	return utils.Success(c, fiber.StatusOK, questions)
}

func (dc *DocumentController) UpdateQuestions(c *fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid document ID")
	}

	var input struct {
		Questions []models.ExtractedQuestion `json:"questions" validate:"required,dive"`
	}
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	if err := dc.For(c).UpdateQuestions(c.UserContext(), id, input.Questions); err != nil {
		return utils.UpstreamError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, input.Questions)
}

func (dc *DocumentController) GetAnswers(c *fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid document ID")
	}
	answers, err := dc.For(c).GetAnswers(c.UserContext(), id)
	if err != nil {
		return dc.readFailure(c, err, "Could not load answers.")
	}
	return utils.Success(c, fiber.StatusOK, answers)
}

func (dc *DocumentController) GenerateAnswers(c *fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid document ID")
	}

	var input models.AnswerRequest
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}

	answers, err := dc.For(c).GenerateAnswers(c.UserContext(), id, input)
	if err != nil {
		dc.Logger.Printf("generate answers for document %d: %v", id, err)
		return utils.UpstreamError(c, err)
	}
	return utils.Redirect(c, fmt.Sprintf("/assignment-assist/%d/viewAnswers/", id), answers)
}

func (dc *DocumentController) GenerateSingleAnswer(c *fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid document ID")
	}
	questionID, ok := intParam(c, "questionId")
	if !ok {
		return utils.BadRequest(c, "Invalid question ID")
	}

	var input models.SingleAnswerRequest
	if ok, err := utils.ParseAndValidate(c, &input); !ok {
		return err
	}
	if input.Question.ID != questionID {
		return utils.BadRequest(c, "Question ID does not match the path")
	}

	answer, err := dc.For(c).GenerateSingleAnswer(c.UserContext(), id, input)
	if err != nil {
		return utils.UpstreamError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, answer)
}

func extractedQuestionsRoute(documentID int) string {
	return fmt.Sprintf("/assignment-assist/extracted-questions/%d", documentID)
}
