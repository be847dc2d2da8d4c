package common

import "net/http"

func RequestSession(request *http.Request) (*Session, bool) {
	session, ok := request.Context().Value(SessionContextKey).(*Session)
	return session, ok && session != nil
}

// RequestCsrfToken returns the token issued for this request, so views can
// embed it next to the response header.
func RequestCsrfToken(request *http.Request) (string, bool) {
	token, ok := request.Context().Value(CsrfTokenContextKey).(string)
	return token, ok && token != ""
}

func RequestUserData(request *http.Request) (*UserData, bool) {
	userData, ok := request.Context().Value(UserDataContextKey).(*UserData)
	return userData, ok && userData != nil
}
