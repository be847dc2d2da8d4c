package routes

import (
	"errors"
	"github.com/Alcereo/scoregate/pkg/backend"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/sirupsen/logrus"
	"net/http"
)

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Remember bool
}

type loginModel struct {
	Error string `json:"error,omitempty"`
}

type loginPageRouter struct {
	renderer Renderer
}

func NewLoginPageRouter(renderer Renderer) *loginPageRouter {
	return &loginPageRouter{renderer: renderer}
}

func (router *loginPageRouter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	router.renderer.Render(log, writer, http.StatusOK, LoginView, loginModel{
		Error: request.URL.Query().Get("error"),
	})
}

type loginRouter struct {
	backend         ScoreBackend
	sessions        SessionStore
	renderer        Renderer
	successLoginUrl string
}

func NewLoginRouter(backend ScoreBackend, sessions SessionStore, renderer Renderer, successLoginUrl string) *loginRouter {
	requireUrl("success login", successLoginUrl)
	return &loginRouter{
		backend:         backend,
		sessions:        sessions,
		renderer:        renderer,
		successLoginUrl: successLoginUrl,
	}
}

func (router *loginRouter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("router", "login")

	session, found := common.RequestSession(request)
	if !found {
		log.Errorf("Login error. Reason: session not found. Session filter required to be performed before login")
		router.renderer.Render(log, writer, http.StatusInternalServerError, ErrorView, errorModel{UnknownErrorMessage})
		return
	}

	form := loginForm{
		Username: request.PostFormValue("username"),
		Password: request.PostFormValue("password"),
		Remember: request.PostFormValue("remember") == "on",
	}
	if err := validate.Struct(form); err != nil {
		log.Debugf("Login rejected before backend call. Reason: %v", err)
		router.renderer.Render(log, writer, http.StatusBadRequest, LoginView, loginModel{MissingCredentialsMessage})
		return
	}
	log = log.WithField("username", form.Username)

	result, err := router.backend.Login(request.Context(), log, form.Username, form.Password)
	var violation *backend.ContractViolationError
	if errors.As(err, &violation) {
		log.Errorf("Login error. Reason: %v", violation)
		router.renderer.Render(log, writer, http.StatusBadGateway, ErrorView, errorModel{ContractViolationMessage})
		return
	}
	if err != nil || result.StatusCode != http.StatusOK {
		message := classifyLogin(result, err)
		log.Infof("Login failed. Reason: %v; Error: %v", message, err)
		router.renderer.Render(log, writer, http.StatusOK, LoginView, loginModel{message})
		return
	}

	token, _ := result.StringField("token")
	if err := router.sessions.Establish(writer, session, form.Username, token, form.Remember); err != nil {
		log.Errorf("Login error. Reason: %v", err)
		router.renderer.Render(log, writer, http.StatusInternalServerError, ErrorView, errorModel{UnknownErrorMessage})
		return
	}

	log.Infof("User logged in. Persistent: %v", form.Remember)
	http.Redirect(writer, request, router.successLoginUrl, http.StatusFound)
}
