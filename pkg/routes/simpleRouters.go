package routes

import (
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/sirupsen/logrus"
	"net/http"
)

type redirectRouter struct {
	targetUrl string
}

func NewRedirectRouter(targetUrl string) *redirectRouter {
	requireUrl("redirect", targetUrl)
	return &redirectRouter{targetUrl: targetUrl}
}

func (router *redirectRouter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	http.Redirect(writer, request, router.targetUrl, http.StatusFound)
}

// logoutRouter clears the session and always succeeds.
type logoutRouter struct {
	sessions    SessionStore
	redirectUrl string
}

func NewLogoutRouter(sessions SessionStore, redirectUrl string) *logoutRouter {
	requireUrl("logout redirect", redirectUrl)
	return &logoutRouter{
		sessions:    sessions,
		redirectUrl: redirectUrl,
	}
}

func (router *logoutRouter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("router", "logout")
	if session, found := common.RequestSession(request); found {
		router.sessions.Clear(writer, session)
		log.Debugf("Session %v cleared", session.Id)
	}
	http.Redirect(writer, request, router.redirectUrl, http.StatusFound)
}

type staticViewRouter struct {
	renderer Renderer
	view     View
}

func NewStaticViewRouter(renderer Renderer, view View) *staticViewRouter {
	return &staticViewRouter{
		renderer: renderer,
		view:     view,
	}
}

func (router *staticViewRouter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	router.renderer.Render(log, writer, http.StatusOK, router.view, nil)
}
