package routes

import (
	"github.com/sirupsen/logrus"
	"net/http"
)

type registerForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type registerModel struct {
	Error string `json:"error,omitempty"`
}

type registerPageRouter struct {
	renderer Renderer
}

func NewRegisterPageRouter(renderer Renderer) *registerPageRouter {
	return &registerPageRouter{renderer: renderer}
}

func (router *registerPageRouter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	router.renderer.Render(log, writer, http.StatusOK, RegisterView, registerModel{})
}

// registerRouter creates the account and sends the user to the login page.
// It never logs the user in.
type registerRouter struct {
	backend    ScoreBackend
	renderer   Renderer
	successUrl string
}

func NewRegisterRouter(backend ScoreBackend, renderer Renderer, successUrl string) *registerRouter {
	requireUrl("success registration", successUrl)
	return &registerRouter{
		backend:    backend,
		renderer:   renderer,
		successUrl: successUrl,
	}
}

func (router *registerRouter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("router", "register")

	form := registerForm{
		Username: request.PostFormValue("username"),
		Password: request.PostFormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		log.Debugf("Registration rejected before backend call. Reason: %v", err)
		router.renderer.Render(log, writer, http.StatusBadRequest, RegisterView, registerModel{MissingCredentialsMessage})
		return
	}
	log = log.WithField("username", form.Username)

	result, err := router.backend.Register(request.Context(), log, form.Username, form.Password)
	if err != nil || result.StatusCode != http.StatusCreated {
		message := classify(result, err)
		log.Infof("Registration failed. Reason: %v; Error: %v", message, err)
		router.renderer.Render(log, writer, http.StatusOK, RegisterView, registerModel{message})
		return
	}

	log.Infof("User registered")
	http.Redirect(writer, request, router.successUrl, http.StatusFound)
}
