package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/usecase"
)

// RetryAfterSeconds is advertised while the session identity is restored.
const RetryAfterSeconds = "1"

// ViewerSource reports who is looking at the page.
type ViewerSource interface {
	Viewer() usecase.Viewer
}

// Guard re-evaluates route authorization on every request. Redirects are
// answered with 303 and a Location header.
func Guard(source ViewerSource, access usecase.Access, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := source.Viewer()
		decision := usecase.Authorize(access, viewer)

		switch {
		case decision.Allow:
			c.Next()
		case decision.Pending:
			log.Debugf("Middleware: Session still loading, deferring %s", c.Request.URL.Path)
			c.Header("Retry-After", RetryAfterSeconds)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"Status":  "Fail",
				"Message": "Session is loading, please retry",
			})
		default:
			log.Infof("Middleware: Redirecting %s viewer from %s to %s", viewer, c.Request.URL.Path, decision.RedirectTo)
			c.Header("Location", decision.RedirectTo)
			c.AbortWithStatusJSON(http.StatusSeeOther, gin.H{
				"Status":  "Fail",
				"Message": "Redirecting",
				"Data":    gin.H{"redirectTo": decision.RedirectTo},
			})
		}
	}
}
