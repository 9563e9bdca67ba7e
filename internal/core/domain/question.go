package domain

const (
	FirstLevel = 1
	FinalLevel = 10
)

// Question is a read-only quiz entry keyed by Number, which equals the level it gates.
type Question struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	Answer string `json:"-"`
}

// IsFinalLevel reports whether level is the last level of the quiz.
func IsFinalLevel(level int) bool {
	return level >= FinalLevel
}

// ValidLevel reports whether level lies within [FirstLevel, FinalLevel].
func ValidLevel(level int) bool {
	return level >= FirstLevel && level <= FinalLevel
}
