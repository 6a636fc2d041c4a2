package utils

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionPromoKey = "applied_promo_code"

// CheckSessionStore verifies the cookie session store is usable
func CheckSessionStore(c *gin.Context) error {
	session := sessions.Default(c)
	session.Set("test", "test")
	if err := session.Save(); err != nil {
		return fmt.Errorf("session store check failed: %v", err)
	}
	session.Delete("test")
	return session.Save()
}

// SetAppliedPromo remembers the promo code a user previewed at checkout so a
// page reload does not lose it. The code is re-validated at initiation; the
// session value is a convenience, never an authorization.
func SetAppliedPromo(c *gin.Context, code string) error {
	session := sessions.Default(c)
	session.Set(sessionPromoKey, code)
	return session.Save()
}

// GetAppliedPromo returns the promo code previewed in this session, if any
func GetAppliedPromo(c *gin.Context) string {
	session := sessions.Default(c)
	if code, ok := session.Get(sessionPromoKey).(string); ok {
		return code
	}
	return ""
}

// ClearAppliedPromo drops the previewed promo code from the session
func ClearAppliedPromo(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(sessionPromoKey)
	return session.Save()
}
