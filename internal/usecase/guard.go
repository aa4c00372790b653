package usecase

import "storefront/internal/domain"

type Viewer string

const (
	ViewerLoading   Viewer = "loading"
	ViewerAnonymous Viewer = "anonymous"
	ViewerCustomer  Viewer = "customer"
	ViewerAdmin     Viewer = "admin"
)

// Access is the audience a page is meant for.
type Access int

const (
	AccessPublic    Access = iota
	AccessGuestOnly        // login, register
	AccessShopper          // guest or customer cart actions
	AccessCustomer         // profile, cart, checkout
	AccessAdmin
)

const (
	PathLogin = "/login"
	PathShop  = "/shop"
	PathHome  = "/"
	PathAdmin = "/admin"
)

type Decision struct {
	Allow bool
	// Pending means the identity is still being restored and the caller
	// must retry instead of treating the viewer as anonymous.
	Pending    bool
	RedirectTo string
}

func allow() Decision { return Decision{Allow: true} }
func redirect(path string) Decision { return Decision{RedirectTo: path} }

// Classify derives the viewer class from the resident identity.
func Classify(identity *domain.Identity, loading bool) Viewer {
	switch {
	case loading:
		return ViewerLoading
	case identity == nil:
		return ViewerAnonymous
	case identity.IsAdmin():
		return ViewerAdmin
	default:
		return ViewerCustomer
	}
}

// Authorize decides whether a viewer may see a page of the given access
// class. Admins are never shown customer pages; anonymous viewers of gated
// pages are sent to login.
func Authorize(access Access, viewer Viewer) Decision {
	if access == AccessPublic {
		return allow()
	}
	if viewer == ViewerLoading {
		return Decision{Pending: true}
	}

	switch access {
	case AccessGuestOnly:
		switch viewer {
		case ViewerAdmin:
			return redirect(PathAdmin)
		case ViewerCustomer:
			return redirect(PathShop)
		}
		return allow()
	case AccessShopper:
		if viewer == ViewerAdmin {
			return redirect(PathAdmin)
		}
		return allow()
	case AccessCustomer:
		switch viewer {
		case ViewerCustomer:
			return allow()
		case ViewerAdmin:
			return redirect(PathAdmin)
		}
		return redirect(PathLogin)
	case AccessAdmin:
		switch viewer {
		case ViewerAdmin:
			return allow()
		case ViewerCustomer:
			return redirect(PathHome)
		}
		return redirect(PathLogin)
	}
	return redirect(PathHome)
}
