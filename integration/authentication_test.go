package integration_test

import (
	"bytes"
	"encoding/json"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"golang.org/x/net/publicsuffix"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

var _ = Describe("In scoregate gateway", func() {

	It("Login establishes a session and opens the game", func() {
		client := buildClient()
		resp, _ := login(client, "alice", "secret", false)
		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/game"))

		resp, message := getByClient(client, server.URL+"/game")
		Expect(resp.StatusCode).To(Equal(200))

		view := unmarshalToMap(message)
		Expect(view).To(HaveKeyWithValue("view", "game"))
		Expect(view["model"]).To(HaveKeyWithValue("username", "alice"))
		Expect(view["model"]).To(HaveKeyWithValue("score", 7.0))
	})

	It("Session cookie is signed and survives across requests", func() {
		client := buildClient()
		login(client, "alice", "secret", false)

		cookie := sessionCookie(client)
		Expect(cookie).NotTo(BeNil())
		Expect(cookie.Value).To(MatchRegexp(`^[\w-]+\.[\w-]+\.[\w-]+$`))

		resp, _ := getByClient(client, server.URL+"/game")
		Expect(resp.StatusCode).To(Equal(200))
		Expect(resp.Header.Get("Set-Cookie")).To(BeEmpty())
	})

	It("Login replaces the anonymous session cookie", func() {
		client := buildClient()
		getByClient(client, server.URL+"/login")
		anonymous := sessionCookie(client)
		Expect(anonymous).NotTo(BeNil())

		login(client, "alice", "secret", false)
		authenticated := sessionCookie(client)
		Expect(authenticated.Value).NotTo(Equal(anonymous.Value))

		replayed := buildClient()
		target, _ := url.Parse(server.URL)
		replayed.Jar.SetCookies(target, []*http.Cookie{anonymous})
		resp, _ := getByClient(replayed, server.URL+"/game")
		Expect(resp.StatusCode).To(Equal(302))
	})

	It("Remember me issues a persistent cookie", func() {
		client := buildClient()
		resp, _ := login(client, "alice", "secret", true)
		Expect(resp.StatusCode).To(Equal(302))

		cookies := resp.Cookies()
		Expect(cookies).NotTo(BeEmpty())
		Expect(cookies[len(cookies)-1].Expires.IsZero()).To(BeFalse())
	})

	It("Browser session cookie has no expiry", func() {
		client := buildClient()
		resp, _ := login(client, "alice", "secret", false)

		for _, cookie := range resp.Cookies() {
			Expect(cookie.Expires.IsZero()).To(BeTrue())
			Expect(cookie.HttpOnly).To(BeTrue())
		}
	})

	It("Rejected credentials re-render the login page", func() {
		client := buildClient()
		resp, message := login(client, "alice", "wrong", false)
		Expect(resp.StatusCode).To(Equal(200))

		view := unmarshalToMap(message)
		Expect(view).To(HaveKeyWithValue("view", "login"))
		Expect(view["model"]).To(HaveKeyWithValue("error", "Username or password incorrect"))

		resp, _ = getByClient(client, server.URL+"/game")
		Expect(resp.StatusCode).To(Equal(302))
	})

	It("Login without token is a bad gateway and establishes nothing", func() {
		client := buildClient()
		resp, _ := login(client, "ghost", "secret", false)
		Expect(resp.StatusCode).To(Equal(502))

		resp, _ = getByClient(client, server.URL+"/game")
		Expect(resp.StatusCode).To(Equal(302))
	})

	It("Login without password never reaches the backend", func() {
		before := backendStub.Calls("POST", "/login")
		resp, _ := postFormByClient(buildClient(), server.URL+"/login", url.Values{"username": {"alice"}})
		Expect(resp.StatusCode).To(Equal(400))
		Expect(backendStub.Calls("POST", "/login")).To(Equal(before))
	})

	It("Register sends a new user to the login page", func() {
		resp, _ := postFormByClient(buildClient(), server.URL+"/register", url.Values{
			"username": {"carol"},
			"password": {"secret"},
		})
		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/login"))
	})

	It("Register shows the backend message for a taken name", func() {
		resp, message := postFormByClient(buildClient(), server.URL+"/register", url.Values{
			"username": {"alice"},
			"password": {"secret"},
		})
		Expect(resp.StatusCode).To(Equal(200))

		view := unmarshalToMap(message)
		Expect(view).To(HaveKeyWithValue("view", "register"))
		Expect(view["model"]).To(HaveKeyWithValue("error", "User already exists"))
	})

	It("Logout clears the session", func() {
		client := buildClient()
		login(client, "alice", "secret", false)

		resp, _ := getByClient(client, server.URL+"/logout")
		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/login"))

		resp, _ = getByClient(client, server.URL+"/game")
		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/login"))
	})

	It("Static pages are served", func() {
		resp, message := get(server.URL + "/forgot")
		Expect(resp.StatusCode).To(Equal(200))
		Expect(unmarshalToMap(message)).To(HaveKeyWithValue("view", "forgot"))

		resp, _ = get(server.URL + "/")
		Expect(resp.StatusCode).To(Equal(302))
		Expect(resp.Header.Get("Location")).To(Equal("/game"))
	})
})

func unmarshalToMap(message []byte) map[string]interface{} {
	messageMap := make(map[string]interface{})
	if err := json.Unmarshal(message, &messageMap); err != nil {
		Fail(err.Error())
	}
	return messageMap
}

func get(url string) (*http.Response, []byte) {
	return getByClient(buildClient(), url)
}

func getByClient(client *http.Client, url string) (*http.Response, []byte) {
	resp, err := client.Get(url)
	if err != nil {
		Fail(err.Error())
	}
	return readResponse(resp)
}

func login(client *http.Client, username string, password string, remember bool) (*http.Response, []byte) {
	values := url.Values{"username": {username}, "password": {password}}
	if remember {
		values.Set("remember", "on")
	}
	return postFormByClient(client, server.URL+"/login", values)
}

func postFormByClient(client *http.Client, target string, values url.Values) (*http.Response, []byte) {
	resp, err := client.PostForm(target, values)
	if err != nil {
		Fail(err.Error())
	}
	return readResponse(resp)
}

type requestMutator func(r *http.Request) *http.Request

func postJsonByClient(client *http.Client, url string, body interface{}, mutator requestMutator) (*http.Response, []byte) {
	bytesValue, err := json.Marshal(body)
	if err != nil {
		Fail(err.Error())
	}
	request, err := http.NewRequest(
		"POST",
		url,
		bytes.NewReader(bytesValue),
	)
	if err != nil {
		Fail(err.Error())
	}
	request.Header.Set("Content-Type", "application/json")
	if mutator != nil {
		request = mutator(request)
	}
	resp, err := client.Do(request)
	if err != nil {
		Fail(err.Error())
	}
	return readResponse(resp)
}

func readResponse(resp *http.Response) (*http.Response, []byte) {
	message, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		Fail(err.Error())
	}
	return resp, message
}

func sessionCookie(client *http.Client) *http.Cookie {
	serverUrl, _ := url.Parse(server.URL)
	for _, cookie := range client.Jar.Cookies(serverUrl) {
		if cookie.Name == "session" {
			return cookie
		}
	}
	return nil
}

// buildClient keeps cookies and never follows redirects.
func buildClient() *http.Client {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		log.Fatal(err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
