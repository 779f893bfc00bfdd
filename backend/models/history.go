package models

type Statistics struct {
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  float64 `json:"highest_score"`
}

// HistoryPage mirrors the paginated history envelope of the backend.
type HistoryPage struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  struct {
		Results    []Attempt  `json:"results"`
		Statistics Statistics `json:"statistics"`
		NumPages   int        `json:"num_pages"`
	} `json:"results"`
}
