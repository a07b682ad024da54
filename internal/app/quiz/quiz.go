// Package quiz builds multiple-choice music quizzes from track lists.
package quiz

// Question is a single quiz question: an audio preview plus album art,
// with the track title hidden among distractor titles. Optional fields
// are null in the JSON payload when the source track lacked them.
type Question struct {
	AudioURL    *string  `json:"audio_url"`
	Image       *string  `json:"image"`
	Artist      string   `json:"artist"`
	Correct     string   `json:"correct"`
	Options     []string `json:"options"`
	ExternalURL *string  `json:"external_url"`
}

// Quiz is an ordered set of questions. An empty Questions slice is a
// valid quiz, not an error.
type Quiz struct {
	Questions []Question `json:"questions"`
}
