package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/Alcereo/scoregate/pkg/backend"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/sirupsen/logrus"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

var testLog = logrus.NewEntry(logrus.StandardLogger())

type backendReply struct {
	result *backend.Result
	err    error
}

type stubBackend struct {
	calls   []string
	replies map[string]backendReply
	scores  []common.ScoreEntry
	scored  []int
}

func newStubBackend() *stubBackend {
	return &stubBackend{replies: map[string]backendReply{}}
}

func (stub *stubBackend) reply(action string, status int, payload interface{}) *stubBackend {
	stub.replies[action] = backendReply{result: &backend.Result{StatusCode: status, Payload: payload}}
	return stub
}

func (stub *stubBackend) fail(action string, err error) *stubBackend {
	stub.replies[action] = backendReply{err: err}
	return stub
}

func (stub *stubBackend) answer(action string) (*backend.Result, error) {
	stub.calls = append(stub.calls, action)
	reply, found := stub.replies[action]
	if !found {
		return &backend.Result{StatusCode: http.StatusInternalServerError}, nil
	}
	return reply.result, reply.err
}

func (stub *stubBackend) Login(ctx context.Context, log *logrus.Entry, username string, password string) (*backend.Result, error) {
	return stub.answer("login")
}

func (stub *stubBackend) Register(ctx context.Context, log *logrus.Entry, username string, password string) (*backend.Result, error) {
	return stub.answer("register")
}

func (stub *stubBackend) GetScore(ctx context.Context, log *logrus.Entry, username string) (*backend.Result, error) {
	return stub.answer("get-score")
}

func (stub *stubBackend) SetScore(ctx context.Context, log *logrus.Entry, username string, score int) (*backend.Result, error) {
	stub.scored = append(stub.scored, score)
	return stub.answer("set-score")
}

func (stub *stubBackend) GetScores(ctx context.Context, log *logrus.Entry) []common.ScoreEntry {
	stub.calls = append(stub.calls, "get-scores")
	if stub.scores == nil {
		return []common.ScoreEntry{}
	}
	return stub.scores
}

type stubSessionStore struct {
	users      map[common.SessionId]*common.UserData
	clears     int
	establishs int
	err        error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{users: map[common.SessionId]*common.UserData{}}
}

func (store *stubSessionStore) Establish(writer http.ResponseWriter, session *common.Session, username string, authToken string, persistent bool) error {
	store.establishs++
	if store.err != nil {
		return store.err
	}
	store.users[session.Id] = &common.UserData{Username: username, AuthToken: authToken, Persistent: persistent}
	return nil
}

func (store *stubSessionStore) Clear(writer http.ResponseWriter, session *common.Session) {
	store.clears++
	delete(store.users, session.Id)
}

func (store *stubSessionStore) Find(session *common.Session) (*common.UserData, bool) {
	userData, found := store.users[session.Id]
	return userData, found
}

type renderedView struct {
	View  View                   `json:"view"`
	Model map[string]interface{} `json:"model"`
}

func decodeView(recorder *httptest.ResponseRecorder) renderedView {
	var view renderedView
	_ = json.Unmarshal(recorder.Body.Bytes(), &view)
	return view
}

func formRequest(method string, target string, values url.Values) *http.Request {
	request := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

func jsonRequest(method string, target string, body string) *http.Request {
	request := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	request.Header.Set("Content-Type", "application/json")
	return request
}

func withSession(request *http.Request, session *common.Session) *http.Request {
	return request.WithContext(context.WithValue(request.Context(), common.SessionContextKey, session))
}

func withUser(request *http.Request, username string) *http.Request {
	userData := &common.UserData{Username: username, AuthToken: "token-" + username}
	return request.WithContext(context.WithValue(request.Context(), common.UserDataContextKey, userData))
}
