package domain

import "time"

// TimestampLayout is the display layout for history timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// QAEntry is one question and answer in the session history.
type QAEntry struct {
	Question  string `json:"question" yaml:"question"`
	Answer    string `json:"answer" yaml:"answer"`
	Sources   int    `json:"sources" yaml:"sources"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// NewQAEntry records an answer at the given time.
func NewQAEntry(answer Answer, at time.Time) QAEntry {
	return QAEntry{
		Question:  answer.Question,
		Answer:    answer.Text,
		Sources:   len(answer.Sources),
		Timestamp: at.Format(TimestampLayout),
	}
}
