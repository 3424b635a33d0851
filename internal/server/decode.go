package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/Tomlord1122/task-tracker/internal/apperr"
	"github.com/Tomlord1122/task-tracker/internal/domain"
	"github.com/Tomlord1122/task-tracker/internal/service"
)

const maxBodyBytes = 1 << 20

// taskBody is the decoded body of a create or update request.
type taskBody struct {
	Title       domain.Field[string]
	Description domain.Field[string]
	Done        domain.Field[bool]
}

func (b taskBody) createRequest() service.CreateTaskRequest {
	return service.CreateTaskRequest{Title: b.Title, Description: b.Description, Done: b.Done}
}

func (b taskBody) updateRequest() service.UpdateTaskRequest {
	return service.UpdateTaskRequest{Title: b.Title, Description: b.Description, Done: b.Done}
}

// decodeTaskBody reads a JSON object with the task fields. Each field is
// decoded separately so that type errors can name the offending field.
func decodeTaskBody(w http.ResponseWriter, r *http.Request) (taskBody, error) {
	var body taskBody

	raw, err := decodeObject(w, r)
	if err != nil {
		return body, err
	}

	for _, key := range sortedKeys(raw) {
		switch key {
		case "title", "description", "done":
		default:
			return body, apperr.Validation("Request body contains unknown field %q", key)
		}
	}

	if body.Title, err = decodeField[string](raw, "title", "Title", "a string"); err != nil {
		return body, err
	}
	if body.Description, err = decodeField[string](raw, "description", "Description", "a string"); err != nil {
		return body, err
	}
	if body.Done, err = decodeField[bool](raw, "done", "Done", "a boolean"); err != nil {
		return body, err
	}
	return body, nil
}

func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxError):
			return nil, apperr.Validation("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, apperr.Validation("Request body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			return nil, apperr.Validation("Request body must be a JSON object")
		case errors.Is(err, io.EOF):
			return nil, apperr.Validation("Request body must not be empty")
		case errors.As(err, &maxBytesError):
			return nil, apperr.Validation("Request body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return nil, apperr.Internal("decode request body", err)
		}
	}
	if raw == nil {
		return nil, apperr.Validation("Request body must be a JSON object")
	}
	if dec.More() {
		return nil, apperr.Validation("Request body must only contain a single JSON object")
	}
	return raw, nil
}

func decodeField[T any](raw map[string]json.RawMessage, key, label, kind string) (domain.Field[T], error) {
	value, ok := raw[key]
	if !ok {
		return domain.Omitted[T](), nil
	}
	var f domain.Field[T]
	if err := json.Unmarshal(value, &f); err != nil {
		return f, apperr.Validation("%s must be %s", label, kind)
	}
	return f, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

