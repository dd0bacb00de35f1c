package google

// CredentialScopes are requested by every credential the Resolver builds.
// Operations are not individually least-privileged: Gmail, Calendar and Keep
// calls all share this superset.
var CredentialScopes = []string{
	// Gmail scopes
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.compose",
	"https://www.googleapis.com/auth/gmail.send",

	// Google Calendar scopes
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
}

// Scopes returns a copy of CredentialScopes.
func Scopes() []string {
	scopes := make([]string, len(CredentialScopes))
	copy(scopes, CredentialScopes)
	return scopes
}
