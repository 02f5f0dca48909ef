package domain

// QuizHints carries the explicit, unmasked hints attached to a question.
type QuizHints struct {
	Category Category `json:"category"`
	Year     *int     `json:"year"`
	Actions  []string `json:"actions"`
}

// QuizQuestion is one round's worth of quiz material, discarded after the round.
type QuizQuestion struct {
	EventID           int       `json:"eventId"`
	CorrectTitle      string    `json:"correctTitle"`
	MaskedDescription string    `json:"maskedDescription"`
	Hints             QuizHints `json:"hints"`
	Options           []string  `json:"options"`
	Difficulty        string    `json:"difficulty"`
}

// QuizResult is the outcome of a single answered round.
type QuizResult struct {
	Points    int  `json:"points"`
	HintsUsed int  `json:"hintsUsed"`
	WasQCM    bool `json:"wasQCM"`
	Correct   bool `json:"correct"`
}

// QuizStats aggregates a player's answer history.
type QuizStats struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
	Points   int `json:"points"`
}
