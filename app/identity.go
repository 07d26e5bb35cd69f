package app

// Identity exposes the signed-in user to the sync layer. It is read-only
// here; sign-in and sign-out happen in the auth collaborator.
type Identity interface {
	// CurrentUserID returns the signed-in user's id, or ok=false when
	// signed out. Absence blocks mutations but never reads.
	CurrentUserID() (id string, ok bool)
}
