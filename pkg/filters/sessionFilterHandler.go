package filters

import (
	"context"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/sirupsen/logrus"
	"net/http"
	"time"
)

type SessionCachePort interface {
	PutSession(session *common.Session) error
	RefreshSession(session *common.Session) error
	GetSession(cookie common.SessionCookie) (*common.Session, bool)
	RemoveSession(session *common.Session)
	CreateNewIdentifier() common.SessionId
	CreateNewCookie() common.SessionCookie
}

type SessionFilterHandler struct {
	Name         string
	next         *common.RequestHandler
	Cookies      *SessionCookies
	SessionCache SessionCachePort
}

func CreateSessionFilter(
	name string,
	cookies *SessionCookies,
	provider SessionCachePort,
) *SessionFilterHandler {
	return &SessionFilterHandler{
		Name:         name,
		next:         nil,
		Cookies:      cookies,
		SessionCache: provider,
	}
}

func (filter *SessionFilterHandler) SetNext(nextHandler common.RequestHandler) {
	filter.next = &nextHandler
}

func (filter *SessionFilterHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("filterName", filter.Name)

	session := filter.getOrCreateSession(log, writer, request)
	log.Debugf("Retrieved session: %v", session.Id)
	newContext := context.WithValue(request.Context(), common.SessionContextKey, session)
	newRequest := request.WithContext(newContext)

	if filter.next != nil {
		(*filter.next).Handle(log, writer, newRequest)
	} else {
		log.Debugf("Session filter error: %v. Next handler is empty", filter.Name)
	}
}

func (filter *SessionFilterHandler) getOrCreateSession(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) *common.Session {
	cookie, err := filter.Cookies.ReadCookie(request)
	if err != nil {
		log.Tracef("Valid session cookie was not found. Creating new session. Reason: %v", err)
		return filter.createNewSession(log, writer)
	}

	log.Tracef("Found cookie in the request: %v", cookie)
	session, found := filter.SessionCache.GetSession(cookie)
	if !found {
		log.Warnf("Session was not found in the cache. Creating new session.")
		return filter.createNewSession(log, writer)
	}
	if !session.Expires.IsZero() && !time.Now().Before(session.Expires) {
		log.Tracef("Session expired. Creating new.")
		filter.SessionCache.RemoveSession(session)
		return filter.createNewSession(log, writer)
	}
	log.Tracef("Session is valid")
	return session
}

func (filter *SessionFilterHandler) createNewSession(log *logrus.Entry, writer http.ResponseWriter) *common.Session {
	session := &common.Session{
		Id:     filter.SessionCache.CreateNewIdentifier(),
		Cookie: filter.SessionCache.CreateNewCookie(),
	}

	if err := filter.SessionCache.PutSession(session); err != nil {
		log.Errorf("Storing new session error. Reason: %v", err)
	}
	if err := filter.Cookies.WriteCookie(writer, session); err != nil {
		log.Errorf("Writing session cookie error. Reason: %v", err)
	}
	return session
}
