package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/customer_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains routes that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":       true,
	"/swagger/*any": true,
}

// routeEventName turns a route pattern into an event name, dropping path parameters:
// "/api/v1/customers/:customer_id/transactions/stock" -> "customers_transactions_stock".
func routeEventName(fullPath string) string {
	segments := strings.Split(strings.Trim(fullPath, "/"), "/")
	kept := make([]string, 0, len(segments))
	for i, seg := range segments {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		if i < 2 && (seg == "api" || seg == "v1") {
			continue
		}
		kept = append(kept, strings.ReplaceAll(seg, "-", "_"))
	}
	return strings.Join(kept, "_")
}

// PosthogMiddleware tracks successful API calls per operator.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || pathsToSkip[c.FullPath()] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}
		eventName := routeEventName(c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		if customerID := c.Param("customer_id"); customerID != "" {
			props["customer_id"] = customerID
		}
		posthogClient.Enqueue(userID, eventName, props)
	}
}

// PosthogEvent sends a custom event from a handler, e.g. the number of records appended.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}
	userID, exists := GetUserIDFromContext(c)
	if !exists {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.FullPath()
	posthogClient.Enqueue(userID, eventName, properties)
}
