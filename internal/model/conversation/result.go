package conversation

// Distress bounds. The persona self-reports an integer in this range every
// turn; zero means the conversation has reached stillness.
const (
	MinDistress = 0
	MaxDistress = 10

	// InitialDistress is where every persona opens a session.
	InitialDistress = 8
)

// TurnResult is the outcome of one orchestrated turn, immutable once
// returned: the character's reply, the distress level after this exchange,
// and whether the safety override fired.
type TurnResult struct {
	Message  string `json:"message"`
	Distress int    `json:"distress"`
	Safety   bool   `json:"safety"`
}

// ClampDistress forces v into the valid distress range.
func ClampDistress(v int) int {
	if v < MinDistress {
		return MinDistress
	}
	if v > MaxDistress {
		return MaxDistress
	}
	return v
}
