package api

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as the response body. Bodies are written flat (no envelope);
// the analyze result carries its own meta block.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
