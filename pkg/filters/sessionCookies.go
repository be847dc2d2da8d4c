package filters

import (
	"errors"
	"fmt"
	"github.com/Alcereo/scoregate/pkg/common"
	"gopkg.in/go-playground/validator.v9"
	"net/http"
)

var validate = validator.New()

type SessionCookieSerializer interface {
	Serialize(session *common.Session) (string, error)
	Deserialize(value string) (common.SessionCookie, error)
}

// SessionCookies reads and writes the signed cookie carrying the session key.
type SessionCookies struct {
	Name       string                  `validate:"required"`
	Path       string                  `validate:"required"`
	Domain     string
	Secure     bool
	Serializer SessionCookieSerializer `validate:"required"`
}

func NewSessionCookies(
	name string,
	path string,
	domain string,
	secure bool,
	serializer SessionCookieSerializer,
) *SessionCookies {
	cookies := &SessionCookies{
		Name:       name,
		Path:       path,
		Domain:     domain,
		Secure:     secure,
		Serializer: serializer,
	}
	if err := validate.Struct(cookies); err != nil {
		panic(err.Error())
	}
	return cookies
}

func (cookies *SessionCookies) ReadCookie(request *http.Request) (common.SessionCookie, error) {
	cookie, err := request.Cookie(cookies.Name)
	if err != nil || cookie == nil || cookie.Value == "" {
		return "", errors.New("session cookie not found in the request")
	}
	return cookies.Serializer.Deserialize(cookie.Value)
}

func (cookies *SessionCookies) WriteCookie(writer http.ResponseWriter, session *common.Session) error {
	value, err := cookies.Serializer.Serialize(session)
	if err != nil {
		return fmt.Errorf("Session cookie signing error. Reason: %v", err)
	}
	http.SetCookie(writer, &http.Cookie{
		Name:     cookies.Name,
		Value:    value,
		Expires:  session.Expires,
		Path:     cookies.Path,
		Domain:   cookies.Domain,
		Secure:   cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
