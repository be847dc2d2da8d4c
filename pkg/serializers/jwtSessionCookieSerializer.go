package serializers

import (
	"fmt"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/Alcereo/scoregate/pkg/crypt"
	"github.com/dgrijalva/jwt-go"
)

const cookieKeyInfo = "scoregate session cookie"

type jwtSessionCookieSerializer struct {
	hmacSecret []byte
}

func NewJwtSessionCookieSerializer(secret string) *jwtSessionCookieSerializer {
	if secret == "" {
		panic("Secret is required to sign session cookies")
	}
	return &jwtSessionCookieSerializer{
		hmacSecret: crypt.DeriveKey(secret, cookieKeyInfo, 32),
	}
}

func (serializer *jwtSessionCookieSerializer) Serialize(session *common.Session) (string, error) {
	claims := jwt.StandardClaims{
		Id: string(session.Cookie),
	}
	if !session.Expires.IsZero() {
		claims.ExpiresAt = session.Expires.Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(serializer.hmacSecret)
}

func (serializer *jwtSessionCookieSerializer) Deserialize(value string) (common.SessionCookie, error) {
	claims := &jwt.StandardClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return serializer.hmacSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("Session cookie verification error. Reason: %v", err)
	}
	if claims.Id == "" {
		return "", fmt.Errorf("Session cookie verification error. Reason: empty cookie key")
	}
	return common.SessionCookie(claims.Id), nil
}
