package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/Alcereo/scoregate/pkg/common"
	"github.com/Alcereo/scoregate/pkg/leaderboard"
	"io"
)

// Result is the normalized outcome of a backend call. Payload is nil whenever
// the body was absent, empty or not JSON.
type Result struct {
	StatusCode int
	Payload    interface{}
}

func (result *Result) Object() (map[string]interface{}, bool) {
	if result == nil {
		return nil, false
	}
	object, ok := result.Payload.(map[string]interface{})
	return object, ok
}

func (result *Result) StringField(name string) (string, bool) {
	object, ok := result.Object()
	if !ok {
		return "", false
	}
	value, ok := object[name].(string)
	return value, ok && value != ""
}

func (result *Result) IntField(name string) (int, bool) {
	object, ok := result.Object()
	if !ok {
		return 0, false
	}
	return leaderboard.IntegerScore(object[name])
}

// Message is the human readable error text the backend puts in error bodies.
func (result *Result) Message() (string, bool) {
	return result.StringField("message")
}

// ContractViolationError reports a success status whose payload lacks a field
// the protocol requires.
type ContractViolationError struct {
	Action     string
	StatusCode int
	Field      string
}

func (err *ContractViolationError) Error() string {
	return fmt.Sprintf(
		"Backend contract violation. Action: %v; Status: %v; Missing field: %v",
		err.Action,
		err.StatusCode,
		err.Field,
	)
}

func decodePayload(body []byte) interface{} {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var payload interface{}
	if err := decoder.Decode(&payload); err != nil {
		return nil
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil
	}
	return payload
}

func scoreEntries(payload interface{}) []common.ScoreEntry {
	rows, ok := payload.([]interface{})
	if !ok {
		return nil
	}
	entries := make([]common.ScoreEntry, 0, len(rows))
	for _, row := range rows {
		fields, ok := row.(map[string]interface{})
		if !ok {
			return nil
		}
		name, _ := fields["name"].(string)
		entries = append(entries, common.ScoreEntry{
			Name:      name,
			BestScore: fields["bestScore"],
			Fields:    fields,
		})
	}
	return entries
}
