package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/sirupsen/logrus"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultUrl     = "http://localhost:8081"
	DefaultTimeout = 10 * time.Second

	maxBodyBytes    = 1 << 20
	maxListingBytes = 16 << 20
)

type Client struct {
	baseUrl    string
	httpClient *http.Client
	// Responses over the limit are dropped whole.
	bodyLimit    int64
	listingLimit int64
}

func NewClient(baseUrl string, timeout time.Duration) *Client {
	if baseUrl == "" {
		baseUrl = DefaultUrl
	}
	parsed, err := url.Parse(baseUrl)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		panic(fmt.Errorf("Invalid backend url: %v.\n", baseUrl))
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseUrl:      strings.TrimRight(baseUrl, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		bodyLimit:    maxBodyBytes,
		listingLimit: maxListingBytes,
	}
}

type credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type scoreUpdate struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Login fails with *ContractViolationError when a 200 response has no token.
func (client *Client) Login(ctx context.Context, log *logrus.Entry, username string, password string) (*Result, error) {
	result, err := client.perform(ctx, log, client.bodyLimit, http.MethodPost, "/login", credentials{username, password})
	if err != nil {
		return nil, newErr("Login request error.", err)
	}
	if result.StatusCode == http.StatusOK {
		if _, found := result.StringField("token"); !found {
			return result, &ContractViolationError{
				Action:     "login",
				StatusCode: result.StatusCode,
				Field:      "token",
			}
		}
	}
	return result, nil
}

func (client *Client) Register(ctx context.Context, log *logrus.Entry, username string, password string) (*Result, error) {
	result, err := client.perform(ctx, log, client.bodyLimit, http.MethodPost, "/users", credentials{username, password})
	if err != nil {
		return nil, newErr("Register request error.", err)
	}
	return result, nil
}

func (client *Client) GetScore(ctx context.Context, log *logrus.Entry, username string) (*Result, error) {
	result, err := client.perform(ctx, log, client.bodyLimit, http.MethodGet, "/scores/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, newErr("Get score request error.", err)
	}
	return result, nil
}

func (client *Client) SetScore(ctx context.Context, log *logrus.Entry, username string, score int) (*Result, error) {
	result, err := client.perform(ctx, log, client.bodyLimit, http.MethodPost, "/scores", scoreUpdate{username, score})
	if err != nil {
		return nil, newErr("Set score request error.", err)
	}
	return result, nil
}

// GetScores never fails: any failure degrades to an empty listing.
func (client *Client) GetScores(ctx context.Context, log *logrus.Entry) []common.ScoreEntry {
	result, err := client.perform(ctx, log, client.listingLimit, http.MethodGet, "/scores", nil)
	if err != nil {
		log.Warnf("Get scores request error. Reason: %v", err)
		return []common.ScoreEntry{}
	}
	if result.StatusCode < 200 || result.StatusCode > 299 {
		log.Warnf("Get scores request error. Status: %v", result.StatusCode)
		return []common.ScoreEntry{}
	}
	entries := scoreEntries(result.Payload)
	if entries == nil {
		log.Warnf("Get scores request error. Malformed listing")
		return []common.ScoreEntry{}
	}
	return entries
}

func (client *Client) perform(ctx context.Context, log *logrus.Entry, limit int64, method string, path string, body interface{}) (*Result, error) {
	req, err := client.buildRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, newErr("Performing request error.", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		log.Debugf("Reading backend response body error. Reason: %v", err)
		responseBody = nil
	}
	if int64(len(responseBody)) > limit {
		log.WithFields(logrus.Fields{
			"backendMethod": method,
			"backendPath":   path,
		}).Warnf("Backend response body exceeds %v bytes. Body dropped", limit)
		responseBody = nil
	}

	log.WithFields(logrus.Fields{
		"backendMethod": method,
		"backendPath":   path,
		"backendStatus": resp.StatusCode,
		"elapsed":       time.Since(started),
	}).Debugf("Backend call finished")
	log.Tracef("Got response body: %s", responseBody)

	return &Result{
		StatusCode: resp.StatusCode,
		Payload:    decodePayload(responseBody),
	}, nil
}

func (client *Client) buildRequest(ctx context.Context, method string, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, newErr("Encoding request body error.", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, client.baseUrl+path, reader)
	if err != nil {
		return nil, newErr("Building request error.", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func newErr(stage string, reason interface{}) error {
	return fmt.Errorf("%v Reason: %v", stage, reason)
}
