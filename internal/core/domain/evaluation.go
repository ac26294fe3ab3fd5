package domain

// Score bounds for evaluations.
const (
	MaxScore     = 10
	DefaultScore = 7
)

// FeedbackLength bounds the raw feedback kept on an evaluation.
const FeedbackLength = 200

// Evaluation is the scored assessment of a user's answer.
type Evaluation struct {
	Score        int      `json:"score" yaml:"score"`
	Feedback     string   `json:"feedback" yaml:"feedback"`
	Strengths    []string `json:"strengths,omitempty" yaml:"strengths,omitempty"`
	Improvements []string `json:"improvements,omitempty" yaml:"improvements,omitempty"`
}

// UnavailableEvaluation is returned when the generator could not evaluate.
func UnavailableEvaluation() Evaluation {
	return Evaluation{Score: 0, Feedback: MsgEvaluationFailed}
}

// EvaluationCriteria are the dimensions an answer is judged on.
func EvaluationCriteria() []string {
	return []string{"accuracy", "completeness", "relevance", "clarity"}
}
