package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const AgeGatePath = "/age-gate"

type AgeVerifier interface {
	Verified() bool
}

// AgeGate blocks every path except the exempt ones with 451 until the
// visitor has confirmed their age.
func AgeGate(verifier AgeVerifier, log *logrus.Logger, exempt ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok || verifier.Verified() {
			c.Next()
			return
		}
		log.Debugf("Middleware: Age not verified, blocking %s", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusUnavailableForLegalReasons, gin.H{
			"Status":  "Fail",
			"Message": "Please confirm you are 18 or older",
			"Data":    gin.H{"redirectTo": AgeGatePath},
		})
	}
}
