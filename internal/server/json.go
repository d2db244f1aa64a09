package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/bcorrigan/shelfcontrol/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeXML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeStoreError renders a ClientError as a 200 with an error body, the
// legacy wire contract inherited from the original search engine's own
// error-to-JSON mapping; any opaque store failure becomes a 500.
func writeStoreError(w http.ResponseWriter, err error) {
	var ce *model.ClientError
	if errors.As(err, &ce) {
		writeJSON(w, http.StatusOK, ce.ResponseJSON())
		return
	}
	var se *model.StoreError
	if errors.As(err, &se) {
		if se.Kind == model.KindClientError {
			writeJSON(w, http.StatusOK, se.Client.ResponseJSON())
			return
		}
		writeJSON(w, http.StatusInternalServerError, model.NewClientError("InternalError", se.Error()).ResponseJSON())
		return
	}
	writeJSON(w, http.StatusInternalServerError, model.NewClientError("InternalError", err.Error()).ResponseJSON())
}

// parseIntParam reads an integer query parameter, returning def when the
// parameter is absent and a ClientError when it is present but malformed.
func parseIntParam(q map[string][]string, name string, def int) (int, error) {
	vals, ok := q[name]
	if !ok || len(vals) == 0 || vals[0] == "" {
		return def, nil
	}
	n, err := strconv.Atoi(vals[0])
	if err != nil {
		return 0, model.NewClientError(model.ErrExpectedInt, "parameter "+name+" must be an integer")
	}
	return n, nil
}

// parseBoolParam reads a boolean query parameter, returning def when the
// parameter is absent and a ClientError when it is present but not a
// literal "true"/"false".
func parseBoolParam(q map[string][]string, name string, def bool) (bool, error) {
	vals, ok := q[name]
	if !ok || len(vals) == 0 || vals[0] == "" {
		return def, nil
	}
	switch vals[0] {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, model.NewClientError(model.ErrSyntaxError, "parameter "+name+" must be true or false")
	}
}
