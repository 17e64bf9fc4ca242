package main

import "net/http"

// detailError is the error body shape used by every non-2xx response.
type detailError struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailError{Detail: detail})
}
