package main

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type askRequest struct {
	Message string `json:"message" validate:"required"`
}

type quizRequest struct {
	Topic string `json:"topic" validate:"required"`
}

type reviewRequest struct {
	Code string `json:"code" validate:"required"`
}

// HandleAsk answers HTML questions as a patient tutor.
func (a *App) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Field 'message' is required")
		return
	}
	text, err := a.Tutor.AnswerQuestion(r.Context(), req.Message)
	if err != nil {
		a.generationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": text})
}

// HandleQuiz generates an HTML quiz for the requested topic.
func (a *App) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Field 'topic' is required")
		return
	}
	text, err := a.Tutor.GenerateQuiz(r.Context(), req.Topic)
	if err != nil {
		a.generationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"quiz": text})
}

// HandleReview reviews HTML code and suggests improvements.
func (a *App) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Field 'code' is required")
		return
	}
	text, err := a.Tutor.ReviewCode(r.Context(), req.Code)
	if err != nil {
		a.generationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"review": text})
}

// generationError surfaces a backend failure as a real error status so
// callers never have to parse a 200 body to detect one.
func (a *App) generationError(w http.ResponseWriter, r *http.Request, err error) {
	logrus.WithFields(logrus.Fields{
		"request_id": requestID(r.Context()),
		"path":       r.URL.Path,
	}).WithError(err).Error("generation failed")
	writeError(w, http.StatusInternalServerError, "Generation failed: "+err.Error())
}
