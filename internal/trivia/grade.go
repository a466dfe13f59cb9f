package trivia

import "strconv"

// Grade reports whether reply answers q correctly. The reply may be the
// answer text itself or the 1-based number of the correct option.
func Grade(q Question, reply string) bool {
	answer := normalize(reply)
	if answer == q.Answer {
		return true
	}

	i, err := strconv.Atoi(answer)
	if err != nil || i < 1 || i > len(q.Options) {
		return false
	}

	return normalize(q.Options[i-1]) == q.Answer
}
