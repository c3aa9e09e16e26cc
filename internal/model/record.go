package model

import "context"

const (
	// PostReward is credited to the author of a new question.
	PostReward = 10
	// AnswerReward is credited to the author of a new answer.
	AnswerReward = 5
	// MaxTextLength is the longest accepted question or answer text, in bytes.
	MaxTextLength = 255
)

// QuestionStore defines the operations the dispatcher needs from the question collection.
type QuestionStore interface {
	Post(ctx context.Context, author, text string) (int, error)
	Answer(ctx context.Context, index int, author, text string) (int, error)
	Rate(ctx context.Context, questionIndex, answerIndex int, rater string, score int) error
	List(ctx context.Context) []QuestionSummary
	Search(ctx context.Context, keyword string) (SearchResult, error)
}

// Question is a posted question together with its answers.
// Its index in the collection is its identifier.
type Question struct {
	Text    string
	Author  string
	Answers []Answer
}

// Answer is a reply to a question. Rating holds the last value assigned by RATE.
type Answer struct {
	Text   string
	Author string
	Rating int
}

// QuestionSummary is a read-only listing row.
type QuestionSummary struct {
	Index       int
	Text        string
	Author      string
	AnswerCount int
}

// SearchResult is the first question matching a keyword.
type SearchResult struct {
	Question string
	Answers  []string
}
