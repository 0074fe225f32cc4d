package shared

// Actor is the verified identity of the caller, produced by the auth
// middleware from a validated token and passed explicitly into every service
// call. It is never read from a request body.
type Actor struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// DisplayName is the name used when rendering text about this actor.
func (a Actor) DisplayName() string {
	if a.Username != "" {
		return a.Username
	}
	return "Someone"
}

// Valid reports whether the actor carries an identity at all.
func (a Actor) Valid() bool {
	return a.UserID != ""
}
