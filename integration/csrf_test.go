package integration_test

import (
	. "github.com/Alcereo/scoregate/integration/utils"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"net/http"
)

var _ = Describe("CSRF", func() {
	const headerName = "X-CSRF-TOKEN"

	withToken := func(token string) requestMutator {
		return func(req *http.Request) *http.Request {
			req.Header.Add(headerName, token)
			return req
		}
	}

	It("Game page hands out a CSRF token", func() {
		client := buildClient()
		login(client, "alice", "secret", false)

		resp, message := getByClient(client, server.URL+"/game")
		Expect(resp.StatusCode).To(Equal(200))
		Expect(resp.Header.Get(headerName)).NotTo(BeEmpty(), "CSRF token not found in header: %v", headerName)
		Expect(unmarshalToMap(message)["model"]).To(HaveKeyWithValue("csrfToken", resp.Header.Get(headerName)))
	})

	It("Score submission with CSRF token is accepted", func() {
		client := buildClient()
		login(client, "alice", "secret", false)
		resp, _ := getByClient(client, server.URL+"/game")
		csrfToken := resp.Header.Get(headerName)

		resp, bytes := postJsonByClient(client, server.URL+"/scores", JsonMap{"score": 12}, withToken(csrfToken))

		Expect(resp.StatusCode).To(Equal(201))
		Expect(bytes).To(BeEmpty())
	})

	It("Score submission without CSRF token is denied", func() {
		client := buildClient()
		login(client, "alice", "secret", false)

		before := backendStub.Calls("POST", "/scores")
		resp, bytes := postJsonByClient(client, server.URL+"/scores", JsonMap{"score": 12}, nil)

		Expect(resp.StatusCode).To(Equal(403))
		Expect(string(bytes)).To(Equal("resolving CSRF header error. CSRF header: X-CSRF-TOKEN is empty"))
		Expect(backendStub.Calls("POST", "/scores")).To(Equal(before))
	})

	It("CSRF token of another session is denied", func() {
		other := buildClient()
		login(other, "alice", "secret", false)
		resp, _ := getByClient(other, server.URL+"/game")
		foreignToken := resp.Header.Get(headerName)

		client := buildClient()
		login(client, "alice", "secret", false)
		resp, _ = postJsonByClient(client, server.URL+"/scores", JsonMap{"score": 12}, withToken(foreignToken))

		Expect(resp.StatusCode).To(Equal(403))
	})

	It("Score submission without score never reaches the backend", func() {
		client := buildClient()
		login(client, "alice", "secret", false)
		resp, _ := getByClient(client, server.URL+"/game")
		csrfToken := resp.Header.Get(headerName)

		before := backendStub.Calls("POST", "/scores")
		resp, _ = postJsonByClient(client, server.URL+"/scores", JsonMap{}, withToken(csrfToken))

		Expect(resp.StatusCode).To(Equal(400))
		Expect(backendStub.Calls("POST", "/scores")).To(Equal(before))
	})
})
