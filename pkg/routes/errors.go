package routes

import (
	"github.com/Alcereo/scoregate/pkg/backend"
	"net/http"
)

const (
	CredentialsRejectedMessage = "Username or password incorrect"
	UnknownErrorMessage        = "An unknown error occurred"
	MissingCredentialsMessage  = "Username and password are required"
	MissingScoreMessage        = "Score is required"
	ContractViolationMessage   = "The scoring service returned an invalid response"
)

// classify turns a failed backend call into the message shown to the user.
// A transport error or an unusable body is reported as an unknown error.
func classify(result *backend.Result, err error) string {
	if err != nil || result == nil {
		return UnknownErrorMessage
	}
	if message, found := result.Message(); found {
		return message
	}
	return UnknownErrorMessage
}

// classifyLogin additionally maps rejected credentials to a fixed message.
func classifyLogin(result *backend.Result, err error) string {
	if err == nil && result != nil && result.StatusCode == http.StatusUnauthorized {
		return CredentialsRejectedMessage
	}
	return classify(result, err)
}
