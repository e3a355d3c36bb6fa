package types

// EndReason records why a session finished.
type EndReason string

const (
	EndNone      EndReason = ""
	EndNoChances EndReason = "chances"
	EndTimeUp    EndReason = "time"
)

type Snapshot struct {
	Level         int       `json:"level"`
	Score         int       `json:"score"`
	Chances       int       `json:"chances"`
	TimeRemaining int       `json:"timeRemaining"`
	Prompt        string    `json:"prompt"`
	PhraseMode    bool      `json:"phraseMode"`
	GameOver      bool      `json:"gameOver"`
	EndReason     EndReason `json:"endReason,omitempty"`
}

type Summary struct {
	FinalScore      int       `json:"finalScore"`
	LevelsCompleted int       `json:"levelsCompleted"`
	EndReason       EndReason `json:"endReason,omitempty"`
}

type Outcome struct {
	Matched      bool `json:"matched"`
	LevelChanged bool `json:"levelChanged"`
	GameOver     bool `json:"gameOver"`
}
