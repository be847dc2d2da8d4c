package auth

import (
	"errors"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/Alcereo/scoregate/pkg/filters"
	log "github.com/sirupsen/logrus"
	"net/http"
	"time"
)

const DefaultPersistentLifetime = 7 * 24 * time.Hour

type UserAuthCachePort interface {
	FindUserData(session *common.Session) (*common.UserData, bool)
	PutUserData(session *common.Session, userData *common.UserData) error
	RemoveUserData(session *common.Session)
}

// SessionStore owns the authenticated part of a session. Every write replaces
// the whole UserData record, so username and token never diverge.
type SessionStore struct {
	cacheProvider      UserAuthCachePort
	sessionCache       filters.SessionCachePort
	cookieWriter       common.SessionCookieWriter
	persistentLifetime time.Duration
	now                func() time.Time
}

func NewSessionStore(
	cacheProvider UserAuthCachePort,
	sessionCache filters.SessionCachePort,
	cookieWriter common.SessionCookieWriter,
	persistentLifetime time.Duration,
) *SessionStore {
	if persistentLifetime <= 0 {
		persistentLifetime = DefaultPersistentLifetime
	}
	return &SessionStore{
		cacheProvider:      cacheProvider,
		sessionCache:       sessionCache,
		cookieWriter:       cookieWriter,
		persistentLifetime: persistentLifetime,
		now:                time.Now,
	}
}

// WithClock replaces the time source used for expiry checks.
func (store *SessionStore) WithClock(now func() time.Time) *SessionStore {
	store.now = now
	return store
}

func (store *SessionStore) Establish(
	writer http.ResponseWriter,
	session *common.Session,
	username string,
	authToken string,
	persistent bool,
) error {
	if session == nil {
		return errors.New("session is required to establish authentication")
	}
	if username == "" || authToken == "" {
		return errors.New("username and auth token are both required to establish authentication")
	}

	now := store.now()
	userData := &common.UserData{
		Username:      username,
		AuthToken:     authToken,
		Persistent:    persistent,
		EstablishedAt: now,
	}
	if persistent {
		userData.ExpiresAt = now.Add(store.persistentLifetime)
	}

	rotated := &common.Session{
		Id:     store.sessionCache.CreateNewIdentifier(),
		Cookie: store.sessionCache.CreateNewCookie(),
	}
	if err := store.cacheProvider.PutUserData(rotated, userData); err != nil {
		return newErr("Storing user data error.", err)
	}

	// Identifiers issued before login, and CSRF tokens bound to them, die here.
	store.sessionCache.RemoveSession(session)
	store.cacheProvider.RemoveUserData(session)
	log.Debugf("Session %v rotated to %v on login", session.Id, rotated.Id)
	session.Id = rotated.Id
	session.Cookie = rotated.Cookie

	store.retainSession(writer, session, userData.ExpiresAt)
	return nil
}

func (store *SessionStore) Clear(writer http.ResponseWriter, session *common.Session) {
	if session == nil {
		return
	}
	store.cacheProvider.RemoveUserData(session)
	if !session.Expires.IsZero() {
		store.retainSession(writer, session, time.Time{})
	}
}

// Find returns the live record of an authenticated session. Incomplete or
// expired records are treated as anonymous, and expired ones are dropped.
func (store *SessionStore) Find(session *common.Session) (*common.UserData, bool) {
	if session == nil {
		return nil, false
	}
	userData, found := store.cacheProvider.FindUserData(session)
	if !found || !userData.IsComplete() {
		return nil, false
	}
	if userData.ExpiredAt(store.now()) {
		log.Debugf("Persistent session %v expired at %v", session.Id, userData.ExpiresAt)
		store.cacheProvider.RemoveUserData(session)
		return nil, false
	}
	return userData, true
}

func (store *SessionStore) IsAuthenticated(session *common.Session) bool {
	_, found := store.Find(session)
	return found
}

// retainSession aligns the transport session and its cookie with the record
// lifetime. Zero expires means a browser-session cookie.
func (store *SessionStore) retainSession(writer http.ResponseWriter, session *common.Session, expires time.Time) {
	session.Expires = expires
	if err := store.sessionCache.RefreshSession(session); err != nil {
		log.Errorf("Refreshing session %v error. Reason: %v", session.Id, err)
	}
	if err := store.cookieWriter.WriteCookie(writer, session); err != nil {
		log.Errorf("Writing session %v cookie error. Reason: %v", session.Id, err)
	}
}
