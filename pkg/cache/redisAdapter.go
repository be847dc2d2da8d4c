package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/redis/go-redis/v9"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"time"
)

const (
	redisKeyPrefix   = "scoregate:"
	redisCallTimeout = 2 * time.Second
)

// redisSessionCacheAdapter keeps sessions outside the process, so persistent
// sessions survive a gateway restart.
type redisSessionCacheAdapter struct {
	client     *redis.Client
	expiration time.Duration
}

func NewRedisSessionCacheProvider(addr string, password string, db int, expirationTimeHours int) *redisSessionCacheAdapter {
	if addr == "" {
		panic("Redis address is required to create redis cache adapter")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisSessionCacheAdapter{
		client:     client,
		expiration: time.Hour * time.Duration(expirationTimeHours),
	}
}

func (adapter *redisSessionCacheAdapter) Ping(ctx context.Context) error {
	return adapter.client.Ping(ctx).Err()
}

func (adapter *redisSessionCacheAdapter) PutSession(session *common.Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	value, err := json.Marshal(session)
	if err != nil {
		return err
	}
	stored, err := adapter.client.SetNX(ctx, adapter.sessionKey(session.Cookie), value, adapter.ttlOf(session.Expires)).Result()
	if err != nil {
		return err
	}
	if !stored {
		return fmt.Errorf("Item %s already exists", session.Cookie)
	}
	return nil
}

func (adapter *redisSessionCacheAdapter) RefreshSession(session *common.Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	value, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return adapter.client.Set(ctx, adapter.sessionKey(session.Cookie), value, adapter.ttlOf(session.Expires)).Err()
}

func (adapter *redisSessionCacheAdapter) GetSession(cookie common.SessionCookie) (*common.Session, bool) {
	var session common.Session
	if !adapter.load(adapter.sessionKey(cookie), &session) {
		return nil, false
	}
	return &session, true
}

func (adapter *redisSessionCacheAdapter) RemoveSession(session *common.Session) {
	adapter.remove(adapter.sessionKey(session.Cookie))
}

func (*redisSessionCacheAdapter) CreateNewIdentifier() common.SessionId {
	return common.SessionId(uuid.NewV4().String())
}

func (*redisSessionCacheAdapter) CreateNewCookie() common.SessionCookie {
	return common.SessionCookie(uuid.NewV4().String())
}

// UserAuthCachePort implementation

func (adapter *redisSessionCacheAdapter) FindUserData(session *common.Session) (*common.UserData, bool) {
	var userData common.UserData
	if !adapter.load(adapter.userDataKey(session.Id), &userData) {
		return nil, false
	}
	return &userData, true
}

func (adapter *redisSessionCacheAdapter) PutUserData(session *common.Session, userData *common.UserData) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	value, err := json.Marshal(userData)
	if err != nil {
		return err
	}
	return adapter.client.Set(ctx, adapter.userDataKey(session.Id), value, adapter.ttlOf(userData.ExpiresAt)).Err()
}

func (adapter *redisSessionCacheAdapter) RemoveUserData(session *common.Session) {
	adapter.remove(adapter.userDataKey(session.Id))
}

func (adapter *redisSessionCacheAdapter) load(key string, target interface{}) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	value, err := adapter.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.Errorf("Redis cache read error. Key: %v. Reason: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(value, target); err != nil {
		logrus.Errorf("Redis cache decode error. Key: %v. Reason: %v", key, err)
		return false
	}
	return true
}

func (adapter *redisSessionCacheAdapter) remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	if err := adapter.client.Del(ctx, key).Err(); err != nil {
		logrus.Errorf("Redis cache delete error. Key: %v. Reason: %v", key, err)
	}
}

func (adapter *redisSessionCacheAdapter) ttlOf(expires time.Time) time.Duration {
	if expires.IsZero() {
		return adapter.expiration
	}
	ttl := time.Until(expires)
	if ttl < time.Millisecond {
		return time.Millisecond
	}
	return ttl
}

func (adapter *redisSessionCacheAdapter) sessionKey(cookie common.SessionCookie) string {
	return redisKeyPrefix + sessionKey(cookie)
}

func (adapter *redisSessionCacheAdapter) userDataKey(id common.SessionId) string {
	return redisKeyPrefix + userDataKey(id)
}
