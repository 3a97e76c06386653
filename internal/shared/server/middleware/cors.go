package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/shared/server/respond"
)

const (
	corsAllowMethods   = "GET, POST, OPTIONS"
	corsDefaultHeaders = "Content-Type, X-Request-Id"
	corsExposeHeaders  = "X-Request-Id"
	corsMaxAge         = 600
)

// corsPolicy decides which browser origins may call the API. A "*" entry
// admits every origin but then omits credentials, as browsers require.
type corsPolicy struct {
	origins  map[string]struct{}
	wildcard bool
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{})}
	for _, o := range allowedOrigins {
		switch o = strings.TrimRight(strings.TrimSpace(o), "/"); o {
		case "":
		case "*":
			p.wildcard = true
		default:
			p.origins[o] = struct{}{}
		}
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	if p.wildcard {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

func (p corsPolicy) writeOrigin(h http.Header, origin string) {
	h.Add("Vary", "Origin")
	if p.wildcard {
		h.Set("Access-Control-Allow-Origin", "*")
		return
	}
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Credentials", "true")
}

// CORS answers preflight requests itself and decorates actual requests from
// allowed origins. Preflights from other origins are rejected with 400.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	policy := newCORSPolicy(allowedOrigins)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		preflight := c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != ""
		if !policy.allows(origin) {
			if preflight {
				respond.Error(c, http.StatusBadRequest, "cors_rejected", "Disallowed CORS origin", nil)
				return
			}
			c.Next()
			return
		}

		h := c.Writer.Header()
		policy.writeOrigin(h, origin)
		if !preflight {
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			c.Next()
			return
		}

		allowHeaders := corsDefaultHeaders
		if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
			allowHeaders = requested
			h.Add("Vary", "Access-Control-Request-Headers")
		}
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", allowHeaders)
		h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
		c.AbortWithStatus(http.StatusNoContent)
	}
}
