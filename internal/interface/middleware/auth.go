package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/pkg/response"
)

const ctxPrincipalKey = "principal"

// PrincipalResolver is implemented by application.UserService.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (entity.Principal, error)
}

// Auth resolves the session token into a principal and stores it in the Gin context.
// The token is read from "Authorization: Bearer <t>" or from the "token" header.
func Auth(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := resolver.Resolve(c.Request.Context(), tokenFrom(c))
		if err != nil {
			var ae *application.Error
			if !errors.As(err, &ae) {
				_ = c.Error(err)
				response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
				return
			}
			response.Abort(c, http.StatusUnauthorized, ae.Message, gin.H{"kind": ae.Kind.Error(), "op": ae.Op})
			return
		}
		c.Set(ctxPrincipalKey, p)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by Auth, or entity.Anonymous.
func PrincipalFrom(c *gin.Context) entity.Principal {
	if v, ok := c.Get(ctxPrincipalKey); ok {
		if p, ok := v.(entity.Principal); ok {
			return p
		}
	}
	return entity.Anonymous
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
	}
	t := strings.TrimSpace(c.GetHeader("token"))
	if rest, ok := strings.CutPrefix(t, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return t
}
