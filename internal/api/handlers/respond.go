package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/himanshinagori/buddyboard/internal/api/dto"
)

// writeJSON responds with the success envelope.
func writeJSON(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.Response{
		Status:  status,
		Data:    data,
		Message: message,
	})
}

// decodeJSON reads the request body into dst. A malformed body is a client
// error, not a server one.
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
