package common

import "time"

// User data

const UserDataContextKey string = "UserDataContextKey"

// UserData is the authenticated part of a session. Username and AuthToken are
// written and removed together.
type UserData struct {
	Username      string
	AuthToken     string
	Persistent    bool
	EstablishedAt time.Time
	// Zero unless Persistent
	ExpiresAt time.Time
}

func (userData *UserData) IsComplete() bool {
	return userData != nil && userData.Username != "" && userData.AuthToken != ""
}

func (userData *UserData) ExpiredAt(now time.Time) bool {
	return userData.Persistent && !now.Before(userData.ExpiresAt)
}

// Session

const SessionContextKey string = "SessionContextKey"

const CsrfTokenContextKey string = "CsrfTokenContextKey"

type Session struct {
	Id     SessionId
	Cookie SessionCookie
	// Zero means a browser-session cookie
	Expires time.Time
}

type SessionId string
type SessionCookie string

// Scores

// ScoreEntry is one leaderboard row as returned by the backend. BestScore keeps
// the decoded JSON value so callers can tell integers from anything else.
type ScoreEntry struct {
	Name      string                 `json:"name"`
	BestScore interface{}            `json:"bestScore"`
	Fields    map[string]interface{} `json:"-"`
}
