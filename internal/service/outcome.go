package service

import "errors"

// Outcome is the deterministic result of a mutation.
type Outcome string

const (
	OutcomeRegistered        Outcome = "registered"
	OutcomeAlreadyRegistered Outcome = "already_registered"
	OutcomeUpdated           Outcome = "updated"
	OutcomeUnchanged         Outcome = "unchanged"
	OutcomeDeleted           Outcome = "deleted"
	OutcomeNotFound          Outcome = "not_found"
	OutcomeInvalidEmail      Outcome = "invalid_email"
)

var messages = map[Outcome]string{
	OutcomeRegistered:        "Registration completed successfully!",
	OutcomeAlreadyRegistered: "User is already registered!",
	OutcomeUpdated:           "User updated successfully!",
	OutcomeUnchanged:         "Ticker is already set to this value!",
	OutcomeDeleted:           "User deleted successfully",
	OutcomeNotFound:          "User not found",
	OutcomeInvalidEmail:      "Invalid email format.",
}

// Message returns the user-facing text for o.
func (o Outcome) Message() string {
	return messages[o]
}

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	_, ok := messages[o]
	return ok
}

// Login messages.
const (
	MessageLoginOK      = "Login successful!"
	MessageLoginUnknown = "User not found!"
)

// MutationResult is what a mutation returns and what the cache replays.
type MutationResult struct {
	Outcome Outcome
	Message string
}

func result(o Outcome) MutationResult {
	return MutationResult{Outcome: o, Message: o.Message()}
}

// LoginResult is the answer to a login attempt.
type LoginResult struct {
	Message string
	Success bool
}

// Average is the mean of a ticker's most recent samples.
type Average struct {
	Ticker  string
	Value   float64
	Samples int // number of samples averaged, at most the requested count
}

var (
	// ErrMissingRequestID rejects a mutation without a request identity.
	ErrMissingRequestID = errors.New("request id is required")

	// ErrInternal wraps unexpected store failures. Outcomes carrying it are not cached.
	ErrInternal = errors.New("internal error")

	// ErrNotFound is returned by reads when the user or their samples do not exist.
	ErrNotFound = errors.New("not found")
)
