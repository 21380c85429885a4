package models

import (
	"strconv"

	"domainpanel/pkg/requestcontext"
)

// IsDomainOwner reports whether user may act as the owner of d: either the
// domain's client itself, or a support account without the resell
// permission whose seller is that client.
func IsDomainOwner(user requestcontext.User, d *Domain) bool {
	clientID := idString(d.ClientID)
	return user.Is(clientID) || (isPlainSupport(user) && user.SellerID == clientID)
}

// NotDomainOwner holds for a plain support account looking at a domain of
// another seller. It is not the negation of IsDomainOwner: a reseller is
// neither owner nor "not owner" of its clients' domains.
func NotDomainOwner(user requestcontext.User, d *Domain) bool {
	clientID := idString(d.ClientID)
	return user.Not(clientID) && isPlainSupport(user) && user.SellerID != clientID
}

// CanManageDomain reports whether user may change d: the owner, or a
// reseller acting for its clients.
func CanManageDomain(user requestcontext.User, d *Domain) bool {
	return IsDomainOwner(user, d) || user.Can(requestcontext.PermissionResell)
}

func isPlainSupport(user requestcontext.User) bool {
	return !user.Can(requestcontext.PermissionResell) && user.Can(requestcontext.PermissionSupport)
}

func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
