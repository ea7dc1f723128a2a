package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/response"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/service"
)

// premiumPathPrefixes lists the route surface reserved for subscribers.
// Document downloads are not here: free documents stay downloadable for
// everyone, so that gate lives in the document service per document.
var premiumPathPrefixes = []string{
	"/api/v1/quizzes",
}

// IsPremiumRoute reports whether a request path belongs to the
// subscriber-only surface. Pure string check, no I/O.
func IsPremiumRoute(path string) bool {
	for _, prefix := range premiumPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequirePremium gates a route group on an active subscription. The check
// goes through the ledger, so a stale cached flag cannot grant access.
func RequirePremium(premiumService *service.PremiumService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsPremiumRoute(c.FullPath()) {
			c.Next()
			return
		}

		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		isPremium, err := premiumService.IsPremium(userID)
		if err != nil {
			response.ServerError(c, "vérification de l'abonnement impossible")
			c.Abort()
			return
		}

		if !isPremium {
			response.PremiumError(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole restricts a route group to the given roles.
func RequireRole(authService *service.AuthService, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		user, err := authService.GetUserByID(userID)
		if err != nil {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Set(UserRoleKey, user.Role)
				c.Next()
				return
			}
		}

		response.PermissionError(c, "")
		c.Abort()
	}
}
