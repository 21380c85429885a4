package testutil

import (
	"net/http"

	"domainpanel/pkg/requestcontext"
)

// WithUser attaches an authenticated panel user to the request, as the auth
// middleware would.
func WithUser(req *http.Request, user requestcontext.User) *http.Request {
	return req.WithContext(requestcontext.WithIdentity(req.Context(), user))
}

// Client returns a plain client account.
func Client(id string) requestcontext.User {
	return requestcontext.User{ID: id, Login: "client" + id}
}

// Reseller returns an account that may resell and support its clients.
func Reseller(id string) requestcontext.User {
	return requestcontext.User{
		ID:          id,
		Login:       "reseller" + id,
		Permissions: []string{requestcontext.PermissionResell, requestcontext.PermissionSupport},
	}
}

// Support returns a support account without the resell permission.
func Support(id string) requestcontext.User {
	return requestcontext.User{
		ID:          id,
		Login:       "support" + id,
		Permissions: []string{requestcontext.PermissionSupport},
	}
}
