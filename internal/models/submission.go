package models

// Submission represents one form response recording who showed up at
// a site on a date. PresentNames and AbsentNames are comma-separated
// free-text lists exactly as captured upstream. ID is the stable row
// key of the response and does not change when the response is edited.
type Submission struct {
	ID            int64  `json:"id"`
	Site          string `json:"site"`
	Date          string `json:"date"`
	PresentNames  string `json:"present_names"`
	AbsentNames   string `json:"absent_names"`
	Justification string `json:"justification"`
	Shift         Shift  `json:"shift"`
}
