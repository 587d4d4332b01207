package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/usthb-datascience/tic-projects/backend/internal/services"
)

// AuditLog records authenticated write operations (POST/PUT/DELETE) to the
// system_logs table. Credential routes are recorded without their bodies.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "DELETE" {
			c.Next()
			return
		}

		var bodySnippet string
		if c.Request.Body != nil && !isCredentialRoute(c.FullPath()) {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = string(bodyBytes)
			if len(bodySnippet) > 1000 {
				bodySnippet = bodySnippet[:1000] + "...[truncated]"
			}
		}

		c.Next()

		userID := GetUserID(c)
		if userID == 0 {
			// Anonymous writes are already rejected by the auth gate; nothing
			// useful to attribute.
			return
		}
		uid := userID

		module, action := routeInfo(c.FullPath(), method)
		services.LogInfo(module, action, auditMessage(GetUsername(c), method, c.Request.URL.Path, c.Writer.Status()),
			&uid, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
				"method": method,
				"path":   c.Request.URL.Path,
				"status": c.Writer.Status(),
				"body":   bodySnippet,
			})
	}
}

func isCredentialRoute(fullPath string) bool {
	return strings.HasPrefix(fullPath, "/auth")
}

// routeInfo derives an audit module/action from the route pattern, e.g.
// "/projects/:id" + PUT → ("projects", "update").
func routeInfo(fullPath, method string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/")
	parts := strings.SplitN(path, "/", 2)
	module = parts[0]
	if module == "" {
		module = "unknown"
	}

	switch method {
	case "POST":
		action = "create"
	case "PUT":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}

	if strings.HasSuffix(fullPath, "/reviews") {
		module = "reviews"
	}
	return module, action
}

func auditMessage(username, method, path string, status int) string {
	outcome := "failed"
	if status >= 200 && status < 300 {
		outcome = "ok"
	}
	return username + " " + method + " " + path + " " + outcome
}
