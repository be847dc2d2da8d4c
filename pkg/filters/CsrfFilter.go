package filters

import (
	"context"
	"fmt"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/Alcereo/scoregate/pkg/crypt"
	"github.com/sirupsen/logrus"
	"net/http"
)

type methodsSet struct {
	methodsMap map[string]bool
}

func newMethodsSet(methods []string) *methodsSet {
	methodsMap := make(map[string]bool)
	for _, method := range methods {
		methodsMap[method] = true
	}
	return &methodsSet{methodsMap: methodsMap}
}

func (set *methodsSet) Contains(method string) bool {
	return set.methodsMap[method]
}

type CsrfFilter struct {
	next           *common.RequestHandler
	Name           string           `validate:"required"`
	HeaderName     string           `validate:"required"`
	SafeMethodsSet *methodsSet      `validate:"required"`
	Encryptor      *crypt.Encryptor `validate:"required"`
}

func NewCsrfFilter(name string, headerName string, safeMethods []string, encryptor *crypt.Encryptor) *CsrfFilter {
	filter := &CsrfFilter{
		Name:           name,
		HeaderName:     headerName,
		SafeMethodsSet: newMethodsSet(safeMethods),
		Encryptor:      encryptor,
	}
	err := validate.Struct(filter)
	if err != nil {
		panic(err.Error())
	}
	return filter
}

func (filter *CsrfFilter) SetNext(nextHandler common.RequestHandler) {
	filter.next = &nextHandler
}

func (filter *CsrfFilter) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	const stage = "Csrf filter error. Reason: %v"
	log = log.WithField("filterName", filter.Name)

	session, found := common.RequestSession(request)
	if !found {
		log.Errorf(stage, "session not found. Session filter required to be performed before CSRF filter")
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	if !filter.SafeMethodsSet.Contains(request.Method) {
		if err := filter.checkCsrfHeader(request.Header, session); err != nil {
			log.Debugf(stage, err)
			writer.WriteHeader(http.StatusForbidden)
			_, _ = fmt.Fprint(writer, err.Error())
			return
		}
	} else {
		newCsrfToken, err := filter.Encryptor.EncryptFact(string(session.Id))
		if err != nil {
			log.Errorf(stage, err)
			writer.WriteHeader(http.StatusInternalServerError)
			return
		}
		writer.Header().Set(filter.HeaderName, newCsrfToken)
		request = request.WithContext(context.WithValue(request.Context(), common.CsrfTokenContextKey, newCsrfToken))
	}

	if filter.next != nil {
		(*filter.next).Handle(log, writer, request)
	} else {
		log.Debugf("Csrf filter error: %v. Next handler is empty", filter.Name)
	}
}

func (filter *CsrfFilter) checkCsrfHeader(headers http.Header, session *common.Session) error {
	csrfHeader := headers.Get(filter.HeaderName)
	if csrfHeader == "" {
		return fmt.Errorf("resolving CSRF header error. CSRF header: %v is empty", filter.HeaderName)
	}
	value, err := filter.Encryptor.DecryptFact(csrfHeader)
	if err != nil {
		return fmt.Errorf("decrypt CSRF header error. Reason: %v", err.Error())
	}
	if value != string(session.Id) {
		return fmt.Errorf("invalid CSRF token")
	}
	return nil
}
