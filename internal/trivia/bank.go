package trivia

import (
	"fmt"
	"strings"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Question is one entry of the trivia bank.
type Question struct {
	Prompt  string
	Answer  string // normalized: trimmed, lowercase
	Options []string
}

// NewQuestion builds a Question, normalizing the answer and checking that it
// is one of exactly OptionCount options.
func NewQuestion(prompt, answer string, options ...string) (Question, error) {
	if len(options) != OptionCount {
		return Question{}, fmt.Errorf("question %q: want %d options, got %d", prompt, OptionCount, len(options))
	}

	q := Question{
		Prompt:  prompt,
		Answer:  normalize(answer),
		Options: append([]string(nil), options...),
	}

	if q.optionIndex(q.Answer) < 0 {
		return Question{}, fmt.Errorf("question %q: answer %q is not among the options", prompt, answer)
	}

	return q, nil
}

func mustQuestion(prompt, answer string, options ...string) Question {
	q, err := NewQuestion(prompt, answer, options...)
	if err != nil {
		panic(err)
	}
	return q
}

// DefaultBank returns the built-in question bank.
func DefaultBank() []Question {
	return []Question{
		mustQuestion("What is the capital of Japan?", "tokyo", "Tokyo", "Osaka", "Kyoto", "Hiroshima"),
		mustQuestion("Which planet is known as the Red Planet?", "mars", "Venus", "Mars", "Jupiter", "Saturn"),
		mustQuestion("What is 15 + 27?", "42", "40", "42", "44", "46"),
		mustQuestion("Who painted the Mona Lisa?", "leonardo da vinci", "Leonardo da Vinci", "Pablo Picasso", "Vincent van Gogh", "Claude Monet"),
		mustQuestion("What is the largest mammal?", "blue whale", "Elephant", "Blue Whale", "Giraffe", "Hippopotamus"),
	}
}

// DisplayAnswer returns the correct answer as it is spelled in the options.
func (q Question) DisplayAnswer() string {
	if i := q.optionIndex(q.Answer); i >= 0 {
		return q.Options[i]
	}
	return q.Answer
}

func (q Question) optionIndex(normalized string) int {
	for i, option := range q.Options {
		if normalize(option) == normalized {
			return i
		}
	}
	return -1
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
