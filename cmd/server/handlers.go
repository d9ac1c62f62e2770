package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"interview-coach/internal/app"
	"interview-coach/internal/httputil"
	"interview-coach/internal/interview"
	"interview-coach/internal/jobdoc"
	"interview-coach/internal/provider"
	"interview-coach/internal/transcribe"
)

const maxJSONBody = 8 << 20

type saveKeyRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

type generateRequest struct {
	JobRole        string `json:"job_role" validate:"max=200"`
	JobDescription string `json:"job_description" validate:"max=20000"`
}

type scoreRequest struct {
	Question string `json:"question" validate:"max=5000"`
	Answer   string `json:"answer" validate:"max=20000"`
}

// decodeJSON reads an optional JSON body; an empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func apiKeyStatusHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, deps.Keys.Status())
	}
}

func saveAPIKeyHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveKeyRequest
		if err := decodeJSON(w, r, &req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		req.APIKey = strings.TrimSpace(req.APIKey)
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		masked, err := deps.Keys.Save(req.APIKey)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to save api key", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"saved":      true,
			"masked_key": masked,
		})
	}
}

func generateHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		questions, err := deps.Coach.GenerateQuestions(r.Context(), req.JobRole, req.JobDescription, interview.DefaultQuestionCount)
		if err != nil {
			httputil.AIError(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"questions": questions})
	}
}

func generateUploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize)

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusBadRequest)
			return
		}
		description, err := jobdoc.ExtractText(header.Filename, header.Header.Get("Content-Type"), content)
		switch {
		case errors.Is(err, jobdoc.ErrUnsupportedType), errors.Is(err, jobdoc.ErrEmpty):
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		case err != nil:
			httputil.Fail(deps.Log, w, "failed to read document", err, http.StatusBadRequest)
			return
		}

		req := generateRequest{JobRole: r.FormValue("job_role"), JobDescription: description}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		questions, err := deps.Coach.GenerateQuestions(r.Context(), req.JobRole, req.JobDescription, interview.DefaultQuestionCount)
		if err != nil {
			httputil.AIError(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"questions": questions})
	}
}

func scoreHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := decodeJSON(w, r, &req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		result, err := deps.Coach.ScoreAnswer(r.Context(), req.Question, req.Answer)
		if err != nil {
			httputil.AIError(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}

func transcribeHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize)

		file, header, err := r.FormFile("audio")
		if err != nil {
			httputil.Fail(deps.Log, w, "Missing audio file in form-data under key 'audio'.", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read audio", err, http.StatusBadRequest)
			return
		}
		audio := transcribe.Audio{
			Data:     data,
			Filename: header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
		}
		if audio.Filename == "" {
			audio.Filename = "audio.webm"
		}
		if audio.MIMEType == "" {
			audio.MIMEType = "audio/webm"
		}

		result, err := deps.Transcriber.Transcribe(r.Context(), audio)
		if err != nil {
			if provider.IsAuthFailure(err) {
				deps.Log.Warn("speech credential rejected", "err", err)
				httputil.WriteJSON(w, http.StatusOK, transcribe.Result{Warning: transcribe.AuthWarning})
				return
			}
			httputil.AIError(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}

func realtimeScoreHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, deps.Config.MaxUploadSize))
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read request", err, http.StatusBadRequest)
			return
		}
		req, err := parseRealtimeRequest(body)
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}

		result, err := deps.Coach.RealtimeScore(r.Context(), req)
		if err != nil {
			httputil.AIError(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}
