package routes

import (
	"log"

	"assignmentmate/backend/api"
	"assignmentmate/backend/controllers"
	"assignmentmate/backend/middleware"
	"assignmentmate/backend/session"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, client *api.Client, manager *session.Manager, logger *log.Logger) {
	upstream := &controllers.Upstream{Client: client, Logger: logger}

	// Auth routes
	authController := controllers.NewAuthController(upstream)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/refresh", authController.Refresh)
	app.Post("/api/auth/signup", authController.Signup)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(logger)

	// Quiz routes
	quizController := controllers.NewQuizController(upstream)
	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Get("/", quizController.ListQuizzes)
	quizzes.Post("/generate", quizController.GenerateQuiz)
	quizzes.Get("/:quizId/attempts", quizController.ListAttempts)
	quizzes.Get("/:quizId/attempts/:attemptId", quizController.GetResult)

	// History routes
	historyController := controllers.NewHistoryController(upstream)
	app.Get("/api/history", authMiddleware, historyController.GetHistory)

	// Attempt session routes
	sessionController := controllers.NewSessionController(upstream, manager)
	sessions := app.Group("/api/sessions", authMiddleware)
	sessions.Post("/", sessionController.Mount)
	sessions.Get("/:id", sessionController.Get)
	sessions.Delete("/:id", sessionController.Unmount)
	sessions.Post("/:id/selections", sessionController.Toggle)
	sessions.Post("/:id/submit", sessionController.Submit)

	// Assignment assist routes
	documentController := controllers.NewDocumentController(upstream)
	documents := app.Group("/api/documents", authMiddleware)
	documents.Get("/", documentController.ListDocuments)
	documents.Post("/", documentController.UploadDocument)
	documents.Delete("/:id", documentController.DeleteDocument)
	documents.Post("/:id/questions/extract", documentController.ExtractQuestions)
	documents.Patch("/:id/questions", documentController.UpdateQuestions)
	documents.Get("/:id/answers", documentController.GetAnswers)
	documents.Post("/:id/answers", documentController.GenerateAnswers)
	documents.Post("/:id/questions/:questionId/answer", documentController.GenerateSingleAnswer)
}
