package conversation

// Role identifies who authored a message. The orchestration core only
// distinguishes the practicing user from the simulated character.
type Role string

const (
	RoleUser      Role = "user"
	RoleCharacter Role = "character"
)

// Message is one turn of conversation history as the client holds it.
// History is append-only within a session and travels with each request.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
