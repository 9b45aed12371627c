package handler

import "net/http"

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	// fall back to an empty 500 if the envelope cannot be encoded
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

// failedValidationResponse returns 422 UnprocessableEntity status: the request is well-formed
// but its values are out of range, so repeating it unchanged fails the same way.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

// badRequestResponse returns 400 BadRequest status, used for malformed JSON and path values.
func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

func unauthorizedResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusUnauthorized, "authorization required")
}

// internalErrorResponse returns 500 InternalServerError status.
func internalErrorResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusInternalServerError, message)
}
