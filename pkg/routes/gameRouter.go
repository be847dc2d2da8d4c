package routes

import (
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/sirupsen/logrus"
	"net/http"
)

type gameModel struct {
	Username  string `json:"username"`
	Score     int    `json:"score"`
	CsrfToken string `json:"csrfToken,omitempty"`
}

// gameRouter must run behind the user authentication filter. A user whose
// best score cannot be read is sent back to the login page with the error.
type gameRouter struct {
	backend  ScoreBackend
	renderer Renderer
	loginUrl string
}

func NewGameRouter(backend ScoreBackend, renderer Renderer, loginUrl string) *gameRouter {
	requireUrl("login", loginUrl)
	return &gameRouter{
		backend:  backend,
		renderer: renderer,
		loginUrl: loginUrl,
	}
}

func (router *gameRouter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("router", "game")

	userData, found := common.RequestUserData(request)
	if !found {
		log.Warnf("Game state error. Reason: user data not found. User authentication filter required")
		http.Redirect(writer, request, router.loginUrl, http.StatusFound)
		return
	}
	log = log.WithField("username", userData.Username)

	result, err := router.backend.GetScore(request.Context(), log, userData.Username)
	if err == nil && result.StatusCode == http.StatusOK {
		if score, found := result.IntField("bestScore"); found {
			csrfToken, _ := common.RequestCsrfToken(request)
			router.renderer.Render(log, writer, http.StatusOK, GameView, gameModel{
				Username:  userData.Username,
				Score:     score,
				CsrfToken: csrfToken,
			})
			return
		}
	}

	message := classify(result, err)
	log.Warnf("Game state error. Reason: %v; Error: %v", message, err)
	http.Redirect(writer, request, withError(router.loginUrl, message), http.StatusFound)
}
