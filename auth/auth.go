package auth

import "context"

type contextKey struct {
	name string
}

var credentialsKey = &contextKey{"credentials"}

// Credentials are basic auth credentials used for a single request instead of
// the ones configured on the client.
type Credentials struct {
	Username string
	Password string
}

func WithContextCredentials(ctx context.Context, username, password string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, credentialsKey, Credentials{Username: username, Password: password})
}

func ContextCredentials(ctx context.Context) (Credentials, bool) {
	if ctx != nil {
		if val, ok := ctx.Value(credentialsKey).(Credentials); ok {
			return val, true
		}
	}
	return Credentials{}, false
}
