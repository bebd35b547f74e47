package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

const ctxRealIPKey = "real_ip"

// TrustProxies decides which forwarding headers ClientIP may read. With no
// proxies and no platform only the socket address counts. platform names a
// CDN header such as gin.PlatformCloudflare.
func TrustProxies(r *gin.Engine, proxies []string, platform string) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return err
	}
	r.TrustedPlatform = platform
	return nil
}

// RealIP stores gin's ClientIP under "real_ip" and attaches helpers.ClientInfo
// to the request context for the audit log, so it must run after RequestID.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		c.Set(ctxRealIPKey, ip)
		ctx := helpers.WithClientInfo(c.Request.Context(), helpers.ClientInfo{
			IP:        ip,
			UserAgent: c.Request.UserAgent(),
			RequestID: c.GetString(ctxRequestIDKey),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
