package history

import "fmt"

func resultsURL(quizID, attemptID int) string {
	return fmt.Sprintf("/quiz/results/%d/%d", quizID, attemptID)
}

func retakeURL(quizID int) string {
	return fmt.Sprintf("/quiz/attempt/%d", quizID)
}
