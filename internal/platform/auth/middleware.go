package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie   = "lms_session"
	ctxPrincipalKey = "principal"

	AdminLoginPath   = "/admin-login"
	StudentLoginPath = "/student-login"
)

// ResolveSession parses the session cookie and, when the token is valid AND
// the referenced row still exists, stores the principal on the request
// context. Any failure leaves the request unauthenticated; the role guards
// decide what to do with that.
func ResolveSession(secret []byte, checker PrincipalChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}

		p, err := ParseToken(tokenStr, secret)
		if err != nil {
			c.Next()
			return
		}

		ok, err := checker.Exists(c.Request.Context(), p)
		if err != nil || !ok {
			c.Next()
			return
		}

		c.Set(ctxPrincipalKey, p)
		c.Next()
	}
}

// CurrentPrincipal returns the principal resolved for this request, if any.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(ctxPrincipalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// RequireAdmin redirects to the admin login instead of raising a hard error,
// also when a student session hits an admin route.
func RequireAdmin() gin.HandlerFunc {
	return requireKind(KindAdmin, AdminLoginPath)
}

func RequireStudent() gin.HandlerFunc {
	return requireKind(KindStudent, StudentLoginPath)
}

func requireKind(kind Kind, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok || p.Kind != kind {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
