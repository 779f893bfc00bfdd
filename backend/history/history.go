package history

import (
	"math"

	"assignmentmate/backend/models"
)

// PageSize is the number of attempts the backend puts on one history page.
const PageSize = 10

type Badge string

const (
	BadgeHigh   Badge = "high"
	BadgeMedium Badge = "medium"
	BadgeLow    Badge = "low"
)

func ScoreBadge(score float64) Badge {
	switch {
	case score >= 80:
		return BadgeHigh
	case score >= 60:
		return BadgeMedium
	default:
		return BadgeLow
	}
}

type Entry struct {
	AttemptID   int     `json:"attempt_id"`
	QuizID      int     `json:"quiz_id"`
	QuizTitle   string  `json:"quiz_title"`
	Score       float64 `json:"score"`
	Badge       Badge   `json:"badge"`
	CompletedAt string  `json:"completed_at,omitempty"`
	ResultsURL  string  `json:"results_url"`
	RetakeURL   string  `json:"retake_url"`
}

type View struct {
	Page        int               `json:"page"`
	NumPages    int               `json:"num_pages"`
	Count       int               `json:"count"`
	HasPrevious bool              `json:"has_previous"`
	HasNext     bool              `json:"has_next"`
	Pages       []int             `json:"pages"`
	Statistics  models.Statistics `json:"statistics"`
	Entries     []Entry           `json:"entries"`
}

// NormalizePage clamps a requested page number to the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func NumPages(count int) int {
	if count <= 0 {
		return 0
	}
	return int(math.Ceil(float64(count) / float64(PageSize)))
}

// Build turns one backend history page into the view model.
func Build(page int, data *models.HistoryPage) View {
	page = NormalizePage(page)
	view := View{Page: page, Pages: []int{}, Entries: []Entry{}}
	if data == nil {
		return view
	}

	view.Count = data.Count
	view.NumPages = NumPages(data.Count)
	view.HasPrevious = data.Previous != nil
	view.HasNext = data.Next != nil
	view.Statistics = data.Results.Statistics
	for i := 1; i <= view.NumPages; i++ {
		view.Pages = append(view.Pages, i)
	}

	for _, attempt := range data.Results.Results {
		var score float64
		if attempt.Score != nil {
			score = *attempt.Score
		}
		entry := Entry{
			AttemptID:  attempt.ID,
			QuizID:     attempt.Quiz.ID,
			QuizTitle:  attempt.Quiz.Title,
			Score:      math.Round(score*10) / 10,
			Badge:      ScoreBadge(score),
			ResultsURL: resultsURL(attempt.Quiz.ID, attempt.ID),
			RetakeURL:  retakeURL(attempt.Quiz.ID),
		}
		if attempt.CompletedAt != nil {
			entry.CompletedAt = attempt.CompletedAt.Format("2006-01-02")
		}
		view.Entries = append(view.Entries, entry)
	}
	return view
}
