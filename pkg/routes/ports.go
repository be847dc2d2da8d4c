package routes

import (
	"context"
	"github.com/Alcereo/scoregate/pkg/backend"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/sirupsen/logrus"
	"gopkg.in/go-playground/validator.v9"
	"net/http"
	"net/url"
	"strings"
)

var validate = validator.New()

type ScoreBackend interface {
	Login(ctx context.Context, log *logrus.Entry, username string, password string) (*backend.Result, error)
	Register(ctx context.Context, log *logrus.Entry, username string, password string) (*backend.Result, error)
	GetScore(ctx context.Context, log *logrus.Entry, username string) (*backend.Result, error)
	SetScore(ctx context.Context, log *logrus.Entry, username string, score int) (*backend.Result, error)
	GetScores(ctx context.Context, log *logrus.Entry) []common.ScoreEntry
}

type SessionStore interface {
	Establish(writer http.ResponseWriter, session *common.Session, username string, authToken string, persistent bool) error
	Clear(writer http.ResponseWriter, session *common.Session)
	Find(session *common.Session) (*common.UserData, bool)
}

type errorModel struct {
	Error string `json:"error"`
}

// withError appends the message as the "error" query parameter understood by
// the login page.
func withError(target string, message string) string {
	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}
	return target + separator + url.Values{"error": {message}}.Encode()
}

func requireUrl(name string, value string) {
	if value == "" {
		panic("Url '" + name + "' is required")
	}
}
