package auth

import (
	"context"
	"errors"
	"github.com/Alcereo/scoregate/pkg/common"
	log "github.com/sirupsen/logrus"
	"net/http"
)

// userAuthenticationFilter admits only authenticated sessions. Anything else is
// redirected to the login page and the next handler is never reached.
type userAuthenticationFilter struct {
	next         *common.RequestHandler
	sessionStore *SessionStore
	Name         string
	loginUrl     string
}

func NewUserAuthenticationFilter(
	sessionStore *SessionStore,
	name string,
	loginUrl string,
) *userAuthenticationFilter {
	if sessionStore == nil {
		panic("Session store is required to create user authentication filter")
	}
	if loginUrl == "" {
		panic("Login url is required to create user authentication filter")
	}
	return &userAuthenticationFilter{
		next:         nil,
		sessionStore: sessionStore,
		Name:         name,
		loginUrl:     loginUrl,
	}
}

func (filter *userAuthenticationFilter) Handle(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("filterName", filter.Name)
	enchantedRequest, err := filter.updateRequestContext(log, request)
	if err != nil {
		log.Debugf("Access denied. Redirecting to %v. Reason: %v", filter.loginUrl, err.Error())
		http.Redirect(writer, request, filter.loginUrl, http.StatusFound)
		return
	}
	if filter.next != nil {
		(*filter.next).Handle(log, writer, enchantedRequest)
	} else {
		log.Debugf("User authentication filter: %v doesn't have next handler", filter.Name)
	}
}

func (filter *userAuthenticationFilter) updateRequestContext(log *log.Entry, request *http.Request) (*http.Request, error) {
	session, found := common.RequestSession(request)
	if !found {
		return request, errors.New("session not found in the request context")
	}
	log.Debugf("Found Session in request context. Id: %v", session.Id)

	userData, found := filter.sessionStore.Find(session)
	if !found {
		return request, errors.New("session is not authenticated")
	}
	log.Debugf("User data found and put to context. Username: %v", userData.Username)
	newContext := context.WithValue(request.Context(), common.UserDataContextKey, userData)
	return request.WithContext(newContext), nil
}

func (filter *userAuthenticationFilter) SetNext(handler common.RequestHandler) {
	filter.next = &handler
}
