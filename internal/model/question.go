package model

// Question is one validated practice item. Immutable once it leaves the
// parser; records that fail validation never become a Question.
type Question struct {
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Etymology     *Etymology `json:"etymology,omitempty"`
}

// Question categories understood by the prompt builder.
const (
	CategoryReading    = "reading"
	CategoryWriting    = "writing"
	CategoryMath       = "math"
	CategoryVocabulary = "vocabulary"
)
