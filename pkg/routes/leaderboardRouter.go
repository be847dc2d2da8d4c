package routes

import (
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/Alcereo/scoregate/pkg/leaderboard"
	"github.com/sirupsen/logrus"
	"net/http"
)

type leaderboardModel struct {
	Scores    []common.ScoreEntry    `json:"scores"`
	Username  string                 `json:"username,omitempty"`
	Placement *leaderboard.Placement `json:"placement,omitempty"`
}

// leaderboardRouter is public and never fails: a missing listing renders as
// an empty board.
type leaderboardRouter struct {
	backend  ScoreBackend
	sessions SessionStore
	renderer Renderer
}

func NewLeaderboardRouter(backend ScoreBackend, sessions SessionStore, renderer Renderer) *leaderboardRouter {
	return &leaderboardRouter{
		backend:  backend,
		sessions: sessions,
		renderer: renderer,
	}
}

func (router *leaderboardRouter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("router", "leaderboard")

	model := leaderboardModel{
		Scores: router.backend.GetScores(request.Context(), log),
	}
	if model.Scores == nil {
		model.Scores = []common.ScoreEntry{}
	}

	if session, found := common.RequestSession(request); found {
		if userData, found := router.sessions.Find(session); found {
			model.Username = userData.Username
			model.Placement = leaderboard.Place(userData.Username, model.Scores)
		}
	}

	router.renderer.Render(log, writer, http.StatusOK, LeaderboardView, model)
}
