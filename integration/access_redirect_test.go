package integration_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("UserAuthenticationFilter", func() {

	It("redirect when access denied", func() {
		for _, path := range []string{"/game", "/logout"} {
			resp, _ := get(server.URL + path)
			Expect(resp.StatusCode).To(Equal(302))
			Expect(resp.Header.Get("Location")).To(Equal("/login"))
		}
	})

	It("score submission of anonymous user never reaches the backend", func() {
		before := backendStub.Calls("POST", "/scores")
		resp, _ := postJsonByClient(buildClient(), server.URL+"/scores", map[string]int{"score": 3}, nil)

		Expect(resp.StatusCode).To(Equal(302))
		Expect(backendStub.Calls("POST", "/scores")).To(Equal(before))
	})

	It("login page shows the error passed by a redirect", func() {
		resp, message := get(server.URL + "/login?error=An+unknown+error+occurred")
		Expect(resp.StatusCode).To(Equal(200))

		view := unmarshalToMap(message)
		Expect(view).To(HaveKeyWithValue("view", "login"))
		Expect(view["model"]).To(HaveKeyWithValue("error", "An unknown error occurred"))
	})
})

var _ = Describe("Leaderboard", func() {

	It("is public and unranked for anonymous users", func() {
		resp, message := get(server.URL + "/leaderboard")
		Expect(resp.StatusCode).To(Equal(200))

		view := unmarshalToMap(message)
		Expect(view).To(HaveKeyWithValue("view", "leaderboard"))
		model := view["model"].(map[string]interface{})
		Expect(model["scores"]).To(HaveLen(2))
		Expect(model).NotTo(HaveKey("placement"))
	})

	It("places the authenticated user", func() {
		client := buildClient()
		login(client, "alice", "secret", false)

		resp, message := getByClient(client, server.URL+"/leaderboard")
		Expect(resp.StatusCode).To(Equal(200))

		model := unmarshalToMap(message)["model"].(map[string]interface{})
		Expect(model).To(HaveKeyWithValue("username", "alice"))
		Expect(model).To(HaveKeyWithValue("placement", map[string]interface{}{"rank": 2.0, "score": 7.0}))
	})
})
