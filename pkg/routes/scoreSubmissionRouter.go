package routes

import (
	"encoding/json"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/sirupsen/logrus"
	"net/http"
)

const maxScoreBodyBytes = 4 << 10

type scoreSubmission struct {
	Score *int `json:"score" validate:"required"`
}

type scoreSubmissionRouter struct {
	backend  ScoreBackend
	renderer Renderer
	loginUrl string
}

func NewScoreSubmissionRouter(backend ScoreBackend, renderer Renderer, loginUrl string) *scoreSubmissionRouter {
	requireUrl("login", loginUrl)
	return &scoreSubmissionRouter{
		backend:  backend,
		renderer: renderer,
		loginUrl: loginUrl,
	}
}

func (router *scoreSubmissionRouter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("router", "score-submission")

	userData, found := common.RequestUserData(request)
	if !found {
		log.Warnf("Score submission error. Reason: user data not found. User authentication filter required")
		http.Redirect(writer, request, router.loginUrl, http.StatusFound)
		return
	}
	log = log.WithField("username", userData.Username)

	var submission scoreSubmission
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxScoreBodyBytes))
	if err := decoder.Decode(&submission); err != nil {
		log.Debugf("Score submission rejected before backend call. Reason: %v", err)
		router.renderer.Render(log, writer, http.StatusBadRequest, ErrorView, errorModel{MissingScoreMessage})
		return
	}
	if err := validate.Struct(submission); err != nil {
		log.Debugf("Score submission rejected before backend call. Reason: %v", err)
		router.renderer.Render(log, writer, http.StatusBadRequest, ErrorView, errorModel{MissingScoreMessage})
		return
	}

	result, err := router.backend.SetScore(request.Context(), log, userData.Username, *submission.Score)
	if err == nil && result.StatusCode == http.StatusCreated {
		log.Debugf("Score %v submitted", *submission.Score)
		writer.WriteHeader(http.StatusCreated)
		return
	}

	message := classify(result, err)
	log.Warnf("Score submission error. Reason: %v; Error: %v", message, err)
	http.Redirect(writer, request, withError(router.loginUrl, message), http.StatusFound)
}
