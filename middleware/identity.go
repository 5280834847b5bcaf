package middleware

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const UserIDKey = "user_id"

var errNoUserClaim = errors.New("token has no user_id claim")

// Identity resolves the caller from an optional "Authorization: Bearer"
// token signed with HS256. Requests without a token continue anonymously;
// requests with an invalid token are rejected. Issuing tokens happens
// elsewhere.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a bearer token"})
			return
		}

		userID, err := ParseUserToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RequireUser rejects anonymous requests. It must run after Identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(UserIDKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		c.Next()
	}
}

func ParseUserToken(tokenString, secret string) (uint, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}

	// User ids are 32-bit row ids; JSON numbers decode as float64.
	raw, ok := claims[UserIDKey].(float64)
	if !ok || raw <= 0 || raw > math.MaxUint32 || raw != math.Trunc(raw) {
		return 0, errNoUserClaim
	}
	return uint(raw), nil
}

// SignUserToken creates a token ParseUserToken accepts.
func SignUserToken(userID uint, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{UserIDKey: userID})
	return token.SignedString([]byte(secret))
}
