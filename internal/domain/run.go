package domain

// RunMeta contains metadata about an execution run
type RunMeta struct {
	Total           int     `json:"total"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	Skipped         int     `json:"skipped"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is what the last execution run leaves on disk
type RunOutput struct {
	Meta     RunMeta            `json:"meta"`
	Order    []string           `json:"order"`
	Results  map[string]Outcome `json:"results"`
	NotFound []string           `json:"not_found,omitempty"`
}
