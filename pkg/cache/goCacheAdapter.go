package cache

import (
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/patrickmn/go-cache"
	"github.com/satori/go.uuid"
	"time"
)

// Entries are stored by value and handed out as copies, so a request may
// change its session without touching the ones other requests hold.
type goCacheSessionCacheAdapter struct {
	cookieCache *cache.Cache
}

func NewGoCacheSessionCacheProvider(expirationTimeHours int, evictScheduleTimeHours int) *goCacheSessionCacheAdapter {
	cookieCache := cache.New(
		time.Hour*time.Duration(expirationTimeHours),
		time.Hour*time.Duration(evictScheduleTimeHours),
	)
	return &goCacheSessionCacheAdapter{
		cookieCache: cookieCache,
	}
}

func (adapter *goCacheSessionCacheAdapter) PutSession(session *common.Session) error {
	return adapter.cookieCache.Add(sessionKey(session.Cookie), *session, expirationOf(session.Expires))
}

func (adapter *goCacheSessionCacheAdapter) RefreshSession(session *common.Session) error {
	adapter.cookieCache.Set(sessionKey(session.Cookie), *session, expirationOf(session.Expires))
	return nil
}

func (adapter *goCacheSessionCacheAdapter) GetSession(cookie common.SessionCookie) (*common.Session, bool) {
	session, found := adapter.cookieCache.Get(sessionKey(cookie))
	if found {
		copied := session.(common.Session)
		return &copied, true
	} else {
		return nil, false
	}
}

func (adapter *goCacheSessionCacheAdapter) RemoveSession(session *common.Session) {
	adapter.cookieCache.Delete(sessionKey(session.Cookie))
}

func (*goCacheSessionCacheAdapter) CreateNewIdentifier() common.SessionId {
	return common.SessionId(uuid.NewV4().String())
}

func (*goCacheSessionCacheAdapter) CreateNewCookie() common.SessionCookie {
	return common.SessionCookie(uuid.NewV4().String())
}

// UserAuthCachePort implementation

func (adapter *goCacheSessionCacheAdapter) FindUserData(session *common.Session) (*common.UserData, bool) {
	userData, found := adapter.cookieCache.Get(userDataKey(session.Id))
	if found {
		copied := userData.(common.UserData)
		return &copied, true
	} else {
		return nil, false
	}
}

func (adapter *goCacheSessionCacheAdapter) PutUserData(session *common.Session, userData *common.UserData) error {
	adapter.cookieCache.Set(userDataKey(session.Id), *userData, expirationOf(userData.ExpiresAt))
	return nil
}

func (adapter *goCacheSessionCacheAdapter) RemoveUserData(session *common.Session) {
	adapter.cookieCache.Delete(userDataKey(session.Id))
}

func expirationOf(expires time.Time) time.Duration {
	if expires.IsZero() {
		return cache.DefaultExpiration
	}
	ttl := time.Until(expires)
	if ttl <= 0 {
		// go-cache treats non-positive durations as "no expiration"
		return time.Nanosecond
	}
	return ttl
}

func sessionKey(cookie common.SessionCookie) string {
	return "session:" + string(cookie)
}

func userDataKey(id common.SessionId) string {
	return "user:" + string(id)
}
