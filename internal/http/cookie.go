package httpx

import (
	"net/http"
	"time"
)

// SessionCookieName is the cross-subdomain session cookie. The name is fixed
// by the hosting platform's cookie-forwarding rules and must not change.
const SessionCookieName = "__session"

// sessionCookie builds the base attribute set shared by set and clear so the
// browser treats them as the same cookie. SameSite=None + Secure is what lets
// the cookie travel between the app subdomains.
func sessionCookie(domain string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// SetSessionCookie writes the session credential cookie with the given lifetime.
func SetSessionCookie(w http.ResponseWriter, domain, credential string, ttl time.Duration) {
	c := sessionCookie(domain)
	c.Value = credential
	c.MaxAge = int(ttl.Seconds())
	http.SetCookie(w, c)
}

// ClearSessionCookie expires the session cookie. Attributes must match the
// ones used when setting it or browsers keep the original cookie alive.
func ClearSessionCookie(w http.ResponseWriter, domain string) {
	c := sessionCookie(domain)
	c.MaxAge = -1 // serializes as Max-Age=0
	http.SetCookie(w, c)
}

// SessionCredentialFromRequest extracts the session credential, returning ""
// when the cookie is absent.
func SessionCredentialFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
