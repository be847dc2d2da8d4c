package filters

import (
	"bytes"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/sirupsen/logrus"
	"net/http"
	templ "text/template"
)

// LogFilterHandler writes one templated line per request. The template sees
// the request, the transport session and, behind the user authentication
// filter, the username.
type LogFilterHandler struct {
	next     *common.RequestHandler
	template *templ.Template
	Name     string
}

type logLineData struct {
	Request   *http.Request
	Filter    *LogFilterHandler
	SessionId common.SessionId
	Username  string
}

func (filter *LogFilterHandler) SetNext(nextHandler common.RequestHandler) {
	filter.next = &nextHandler
}

func (filter *LogFilterHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	log = log.WithField("filterName", filter.Name)

	line, err := filter.render(request)
	if err != nil {
		log.Warnf("Log filter error: %v. Template error: %v", filter.Name, err)
	} else {
		log.Info(line)
	}

	if filter.next == nil {
		log.Debugf("Log filter error: %v. Next handler is empty", filter.Name)
		return
	}
	(*filter.next).Handle(log, writer, request)
}

func (filter *LogFilterHandler) render(request *http.Request) (string, error) {
	data := logLineData{
		Request: request,
		Filter:  filter,
	}
	if session, found := common.RequestSession(request); found {
		data.SessionId = session.Id
	}
	if userData, found := common.RequestUserData(request); found {
		data.Username = userData.Username
	}

	var line bytes.Buffer
	if err := filter.template.Execute(&line, data); err != nil {
		return "", err
	}
	return line.String(), nil
}

// Factory

// CreateLogFilter returns nil when the template does not parse, so the chain
// builder can skip it.
func CreateLogFilter(name string, template string) *LogFilterHandler {
	parsed, err := templ.New(name).Parse(template)
	if err != nil {
		logrus.Warnf("Log filter template error: %v. Skip filter", err)
		return nil
	}
	return &LogFilterHandler{
		Name:     name,
		template: parsed,
	}
}
