package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
)

// ServiceStub answers with the first registered mock whose checks all pass.
// Mocks sharing method and url are tried in registration order.
type ServiceStub struct {
	*httptest.Server
	mutex sync.Mutex
	calls map[string]int
}

func CreateServiceStub(mocks []RequestMock) *ServiceStub {
	stub := &ServiceStub{calls: make(map[string]int)}
	mux := http.NewServeMux()

	var patterns []string
	grouped := make(map[string][]RequestMock)
	for _, mock := range mocks {
		pattern := mock.Request.Method + " " + mock.Request.Url
		if _, found := grouped[pattern]; !found {
			patterns = append(patterns, pattern)
		}
		grouped[pattern] = append(grouped[pattern], mock)
	}

	for _, pattern := range patterns {
		candidates := grouped[pattern]
		mux.HandleFunc(pattern, func(writer http.ResponseWriter, request *http.Request) {
			stub.record(request.Method + " " + request.URL.Path)

			bytes, err := io.ReadAll(request.Body)
			if err != nil {
				writer.WriteHeader(500)
				_, _ = fmt.Fprint(writer, "Reading body error: "+err.Error())
				return
			}

			var mismatch error
			for _, mock := range candidates {
				if mismatch = mock.Request.check(bytes, request); mismatch == nil {
					mock.Response.write(writer)
					return
				}
			}
			writer.WriteHeader(400)
			_, _ = fmt.Fprint(writer, "Request not matched: "+mismatch.Error())
		})
	}

	stub.Server = httptest.NewServer(mux)
	return stub
}

func (stub *ServiceStub) record(call string) {
	stub.mutex.Lock()
	defer stub.mutex.Unlock()
	stub.calls[call]++
}

// Calls returns how many times method and path were requested.
func (stub *ServiceStub) Calls(method string, path string) int {
	stub.mutex.Lock()
	defer stub.mutex.Unlock()
	return stub.calls[method+" "+path]
}

type RequestMock struct {
	Request  Request
	Response Response
}

type Header struct {
	Name   string
	Regexp string
}

type Request struct {
	Method  string
	Url     string
	Headers []Header
	Body    []BodyCheck
}

func (expected *Request) check(body []byte, request *http.Request) error {
	for _, check := range expected.Headers {
		header := request.Header.Get(check.Name)
		matched, err := regexp.MatchString(check.Regexp, header)
		if err != nil {
			return fmt.Errorf("parsing header regexp error: %v. Detail: %v", check.Regexp, err)
		}
		if !matched {
			return fmt.Errorf("header not matched regexp. Header: %v. Regexp: %v", header, check.Regexp)
		}
	}
	for _, check := range expected.Body {
		if err := check.checkBody(body, request); err != nil {
			return fmt.Errorf("body not match: %v", err)
		}
	}
	return nil
}

type BodyCheck interface {
	checkBody([]byte, *http.Request) error
}

type URLPropsBody struct {
	Props map[string]string
}

func (check URLPropsBody) checkBody(body []byte, req *http.Request) error {

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return fmt.Errorf("parsing queries from body errror. %v", err.Error())
	}

	for key, value := range check.Props {
		if values.Get(key) != value {
			return fmt.Errorf("property %v=%v not match with expected: %v", key, values.Get(key), value)
		}
	}

	return nil
}

// JsonPropsBody compares top level fields of a JSON object body by their
// printed value, so 12 matches both an int and a float64.
type JsonPropsBody struct {
	Props map[string]interface{}
}

func (check JsonPropsBody) checkBody(body []byte, req *http.Request) error {
	if !strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
		return fmt.Errorf("json content type expected. Actual: %v", req.Header.Get("Content-Type"))
	}
	var values map[string]interface{}
	if err := json.Unmarshal(body, &values); err != nil {
		return fmt.Errorf("parsing json body error. %v", err.Error())
	}
	for key, value := range check.Props {
		if fmt.Sprint(values[key]) != fmt.Sprint(value) {
			return fmt.Errorf("property %v=%v not match with expected: %v", key, values[key], value)
		}
	}
	return nil
}

type StringedBody interface {
	getString() ([]byte, error)
}

type Response struct {
	Status  int
	Headers map[string]string
	Body    StringedBody
}

func (response *Response) write(writer http.ResponseWriter) {
	for header, value := range response.Headers {
		writer.Header().Add(header, value)
	}
	if response.Body == nil {
		writer.WriteHeader(response.Status)
		return
	}
	bodyBytes, err := response.Body.getString()
	if err != nil {
		writer.WriteHeader(500)
		_, _ = fmt.Fprint(writer, "Writing body error: "+err.Error())
		return
	}
	writer.WriteHeader(response.Status)
	_, _ = writer.Write(bodyBytes)
}

type JsonMap map[string]interface{}

func (s JsonMap) getString() ([]byte, error) {
	return json.Marshal(s)
}

type JsonList []interface{}

func (s JsonList) getString() ([]byte, error) {
	return json.Marshal(s)
}

// RawBody is sent as is, for payloads that are not valid JSON.
type RawBody string

func (s RawBody) getString() ([]byte, error) {
	return []byte(s), nil
}
