package domain

// Profile is the user identity the backend returns for a bearer token.
// Field names are matched case-insensitively on decode, so both
// {"username": ...} and {"Username": ...} bodies are accepted.
type Profile struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
}
