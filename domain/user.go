package domain

// User is a member profile stored under "users/{id}".
// Mutated only by its owner; read by everyone who denormalizes an author.
type User struct {
	ID        string
	Username  string
	AvatarURL string
	BoardType string
	HomePoint string
	Bio       string
	Links     map[string]string
}

// PlaceholderUsername is rendered for authors missing from the users snapshot.
const PlaceholderUsername = "unknown"

// PlaceholderUser stands in for a referenced user that has not (yet) appeared
// in the users snapshot. A missing author never drops the entity it authored.
func PlaceholderUser(id string) User {
	return User{ID: id, Username: PlaceholderUsername}
}
