package routes

import (
	"encoding/json"
	"github.com/sirupsen/logrus"
	"net/http"
)

type View string

const (
	LoginView       View = "login"
	RegisterView    View = "register"
	GameView        View = "game"
	LeaderboardView View = "leaderboard"
	ForgotView      View = "forgot"
	ErrorView       View = "error"
)

// Renderer is the presentation layer. Handlers decide status and view model,
// the renderer decides the markup.
type Renderer interface {
	Render(log *logrus.Entry, writer http.ResponseWriter, status int, view View, model interface{})
}

type jsonRenderer struct {
}

func NewJsonRenderer() *jsonRenderer {
	return &jsonRenderer{}
}

func (*jsonRenderer) Render(log *logrus.Entry, writer http.ResponseWriter, status int, view View, model interface{}) {
	body, err := json.Marshal(struct {
		View  View        `json:"view"`
		Model interface{} `json:"model,omitempty"`
	}{view, model})
	if err != nil {
		log.Errorf("Rendering view %v error. Reason: %v", view, err)
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = writer.Write(body)
}
