package catalog

// Identity scopes an access token to the account it was issued for.
// A nil *Identity means the shared service account configured for the
// gateway.
type Identity struct {
	Username string
	Secret   string
}

func UserIdentity(username string, secret string) *Identity {
	return &Identity{Username: username, Secret: secret}
}
