package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"interview-coach/internal/app"
	"interview-coach/internal/config"
	"interview-coach/internal/credentials"
	"interview-coach/internal/heuristic"
	"interview-coach/internal/interview"
	"interview-coach/internal/provider"
	"interview-coach/internal/transcribe"
)

type testDeps struct {
	keys        *credentials.MockManager
	coach       *app.MockCoach
	transcriber *app.MockTranscriber
}

func newTestServer(t *testing.T, setup func(testDeps)) *httptest.Server {
	t.Helper()
	td := testDeps{
		keys:        new(credentials.MockManager),
		coach:       new(app.MockCoach),
		transcriber: new(app.MockTranscriber),
	}
	if setup != nil {
		setup(td)
	}
	deps := app.Deps{
		Config: config.Config{
			MaxUploadSize:         1024 * 1024, // 1MB for tests
			RequestTimeoutSeconds: 5,
		},
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Keys:        td.keys,
		Coach:       td.coach,
		Transcriber: td.transcriber,
	}
	srv := httptest.NewServer(newRouter(deps))
	t.Cleanup(func() {
		srv.Close()
		td.keys.AssertExpectations(t)
		td.coach.AssertExpectations(t)
		td.transcriber.AssertExpectations(t)
	})
	return srv
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type formFile struct {
	field, filename, contentType string
	data                         []byte
}

func postMultipart(t *testing.T, url string, fields map[string]string, file *formFile) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.filename+`"`)
		if file.contentType != "" {
			h.Set("Content-Type", file.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	resp, err := http.Post(url, w.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAPIKeySettings(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := newTestServer(t, func(d testDeps) {
			d.keys.On("Status").Return(credentials.Status{Configured: true, Source: credentials.SourceSaved, MaskedKey: "nvap****1234"}).Once()
		})

		resp, err := http.Get(srv.URL + "/settings/api-key")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, true, body["configured"])
		assert.Equal(t, "saved", body["source"])
		assert.Equal(t, "nvap****1234", body["masked_key"])
	})

	tests := []struct {
		name       string
		body       string
		setup      func(testDeps)
		wantStatus int
		want       map[string]any
	}{
		{
			name: "saves trimmed key",
			body: `{"api_key": "  abcdef  "}`,
			setup: func(d testDeps) {
				d.keys.On("Save", "abcdef").Return("******", nil).Once()
			},
			wantStatus: http.StatusOK,
			want:       map[string]any{"saved": true, "masked_key": "******"},
		},
		{
			name:       "blank key",
			body:       `{"api_key": "   "}`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "api_key is required."},
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "api_key is required."},
		},
		{
			name:       "malformed json",
			body:       `{"api_key":`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "invalid payload"},
		},
		{
			name: "store failure",
			body: `{"api_key": "nvapi-1234567890"}`,
			setup: func(d testDeps) {
				d.keys.On("Save", "nvapi-1234567890").Return("", errors.New("read-only fs")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			want:       map[string]any{"error": "failed to save api key"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.setup)
			resp := postJSON(t, srv.URL+"/settings/api-key", tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.want, decodeBody(t, resp))
		})
	}
}

func TestGenerateHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(testDeps)
		wantStatus int
		want       map[string]any
	}{
		{
			name: "returns questions",
			body: `{"job_role": "Backend Engineer", "job_description": "Go"}`,
			setup: func(d testDeps) {
				d.coach.On("GenerateQuestions", mock.Anything, "Backend Engineer", "Go", 5).
					Return([]string{"1. Reverse an array."}, nil).Once()
			},
			wantStatus: http.StatusOK,
			want:       map[string]any{"questions": []any{"1. Reverse an array."}},
		},
		{
			name: "missing credential is 400",
			body: `{}`,
			setup: func(d testDeps) {
				d.coach.On("GenerateQuestions", mock.Anything, "", "", 5).
					Return(nil, &provider.MissingCredentialError{Instructions: "NVIDIA_API_KEY is missing."}).Once()
			},
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "NVIDIA_API_KEY is missing."},
		},
		{
			name: "auth failure is 401",
			body: `{"job_role": "x"}`,
			setup: func(d testDeps) {
				d.coach.On("GenerateQuestions", mock.Anything, "x", "", 5).
					Return(nil, &provider.HTTPError{Status: 401, Message: "Unauthorized"}).Once()
			},
			wantStatus: http.StatusUnauthorized,
			want:       map[string]any{"error": "NVIDIA authentication failed. Verify NVIDIA_API_KEY and regenerate if needed."},
		},
		{
			name:       "role too long",
			body:       `{"job_role": "` + strings.Repeat("r", 201) + `"}`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "job_role must be at most 200 characters."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.setup)
			resp := postJSON(t, srv.URL+"/generate", tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.want, decodeBody(t, resp))
		})
	}
}

func TestGenerateUploadHandler(t *testing.T) {
	tests := []struct {
		name       string
		file       *formFile
		setup      func(testDeps)
		wantStatus int
		want       map[string]any
	}{
		{
			name: "text job description",
			file: &formFile{field: "file", filename: "jd.txt", contentType: "text/plain", data: []byte(" Build payment APIs \n")},
			setup: func(d testDeps) {
				d.coach.On("GenerateQuestions", mock.Anything, "Engineer", "Build payment APIs", 5).
					Return([]string{"1. Q"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			want:       map[string]any{"questions": []any{"1. Q"}},
		},
		{
			name:       "missing file",
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "file is required"},
		},
		{
			name:       "unsupported type",
			file:       &formFile{field: "file", filename: "jd.docx", contentType: "application/msword", data: []byte("x")},
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "unsupported file type (only PDF and TXT allowed)"},
		},
		{
			name:       "broken pdf",
			file:       &formFile{field: "file", filename: "jd.pdf", contentType: "application/pdf", data: []byte("nope")},
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "failed to read document"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.setup)
			resp := postMultipart(t, srv.URL+"/generate/upload", map[string]string{"job_role": "Engineer"}, tt.file)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.want, decodeBody(t, resp))
		})
	}
}

func TestScoreHandler(t *testing.T) {
	t.Run("returns score", func(t *testing.T) {
		srv := newTestServer(t, func(d testDeps) {
			d.coach.On("ScoreAnswer", mock.Anything, "Why Go?", "Simple concurrency.").
				Return(interview.AnswerScore{Score: 7, Feedback: []string{"Concise"}, Improvements: []string{"Give an example"}}, nil).Once()
		})
		resp := postJSON(t, srv.URL+"/score", `{"question": "Why Go?", "answer": "Simple concurrency."}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, map[string]any{
			"score":        float64(7),
			"feedback":     []any{"Concise"},
			"improvements": []any{"Give an example"},
		}, decodeBody(t, resp))
	})

	t.Run("unreachable is 503", func(t *testing.T) {
		srv := newTestServer(t, func(d testDeps) {
			d.coach.On("ScoreAnswer", mock.Anything, "", "").
				Return(interview.AnswerScore{}, &provider.UnreachableError{Reason: "timeout"}).Once()
		})
		resp := postJSON(t, srv.URL+"/score", `{}`)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestTranscribeHandler(t *testing.T) {
	clip := []byte("RIFF....WAVE")
	wantAudio := transcribe.Audio{Data: clip, Filename: "answer.wav", MIMEType: "audio/wav"}

	tests := []struct {
		name       string
		file       *formFile
		setup      func(testDeps)
		wantStatus int
		want       map[string]any
	}{
		{
			name: "remote transcript",
			file: &formFile{field: "audio", filename: "answer.wav", contentType: "audio/wav", data: clip},
			setup: func(d testDeps) {
				d.transcriber.On("Transcribe", mock.Anything, wantAudio).Return(transcribe.Result{Text: "hello"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			want:       map[string]any{"text": "hello"},
		},
		{
			name: "fallback warning passes through",
			file: &formFile{field: "audio", filename: "answer.wav", contentType: "audio/wav", data: clip},
			setup: func(d testDeps) {
				d.transcriber.On("Transcribe", mock.Anything, wantAudio).
					Return(transcribe.Result{Text: "local", Warning: transcribe.FallbackWarning, Fallback: true}, nil).Once()
			},
			wantStatus: http.StatusOK,
			want:       map[string]any{"text": "local", "warning": transcribe.FallbackWarning},
		},
		{
			name: "auth failure becomes warning",
			file: &formFile{field: "audio", filename: "answer.wav", contentType: "audio/wav", data: clip},
			setup: func(d testDeps) {
				d.transcriber.On("Transcribe", mock.Anything, wantAudio).
					Return(transcribe.Result{}, &provider.HTTPError{Status: 401, Message: "Unauthorized"}).Once()
			},
			wantStatus: http.StatusOK,
			want:       map[string]any{"text": "", "warning": transcribe.AuthWarning},
		},
		{
			name: "defaults content type",
			file: &formFile{field: "audio", filename: "clip", data: clip},
			setup: func(d testDeps) {
				d.transcriber.On("Transcribe", mock.Anything, transcribe.Audio{Data: clip, Filename: "clip", MIMEType: "audio/webm"}).
					Return(transcribe.Result{Text: "ok"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			want:       map[string]any{"text": "ok"},
		},
		{
			name: "provider error maps to status",
			file: &formFile{field: "audio", filename: "answer.wav", contentType: "audio/wav", data: clip},
			setup: func(d testDeps) {
				d.transcriber.On("Transcribe", mock.Anything, wantAudio).
					Return(transcribe.Result{}, &provider.HTTPError{Status: 500, Message: "internal"}).Once()
			},
			wantStatus: http.StatusInternalServerError,
			want:       map[string]any{"error": "NVIDIA API error: internal"},
		},
		{
			name:       "missing audio",
			wantStatus: http.StatusBadRequest,
			want:       map[string]any{"error": "Missing audio file in form-data under key 'audio'."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.setup)
			resp := postMultipart(t, srv.URL+"/transcribe-audio", nil, tt.file)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.want, decodeBody(t, resp))
		})
	}
}

func TestRealtimeScoreHandler(t *testing.T) {
	score := heuristic.Score{
		OverallScore: 6, ToneScore: 5, PostureScore: 6, OutfitScore: 6, ConfidenceScore: 4,
		Summary: "s", Feedback: []string{"f"}, Improvements: []string{"i"},
	}

	t.Run("passes parsed request", func(t *testing.T) {
		srv := newTestServer(t, func(d testDeps) {
			d.coach.On("RealtimeScore", mock.Anything, mock.MatchedBy(func(r interview.RealtimeRequest) bool {
				return r.Role == "Candidate" && r.SessionSeconds == 45 && r.FillerWords == 3 &&
					r.Transcript == "hello there" && r.Overrides.Posture != nil && *r.Overrides.Posture == 8 &&
					r.FaceDetected != nil && *r.FaceDetected
			})).Return(score, nil).Once()
		})
		resp := postJSON(t, srv.URL+"/realtime-score",
			`{"transcript": "hello there", "session_seconds": "45", "filler_words": 3, "posture": 8, "face_detected": "yes"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, float64(6), body["overall_score"])
		assert.Equal(t, "s", body["summary"])
	})

	t.Run("error maps through AIError", func(t *testing.T) {
		srv := newTestServer(t, func(d testDeps) {
			d.coach.On("RealtimeScore", mock.Anything, mock.Anything).
				Return(heuristic.Score{}, &provider.HTTPError{Status: 401, Message: "bad key"}).Once()
		})
		resp := postJSON(t, srv.URL+"/realtime-score", `{}`)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed json", func(t *testing.T) {
		srv := newTestServer(t, nil)
		resp := postJSON(t, srv.URL+"/realtime-score", `{"transcript":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestParseRealtimeRequest(t *testing.T) {
	req, err := parseRealtimeRequest([]byte(`{
		"role": "Nurse",
		"session_seconds": 0,
		"filler_words": -2,
		"eye_contact": "7",
		"posture": "tall",
		"outfit": 4.9,
		"confidence_signal": "abc",
		"lighting_score": 9,
		"face_detected": false
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Nurse", req.Role)
	assert.Equal(t, 1, req.SessionSeconds)
	assert.Equal(t, 0, req.FillerWords)
	require.NotNil(t, req.Overrides.EyeContact)
	assert.Equal(t, 7, *req.Overrides.EyeContact)
	assert.Nil(t, req.Overrides.Posture)
	require.NotNil(t, req.Overrides.Outfit)
	assert.Equal(t, 4, *req.Overrides.Outfit)
	assert.Equal(t, heuristic.NeutralSignal, req.ConfidenceSignal)
	assert.Equal(t, 9, req.LightingScore)
	require.NotNil(t, req.FaceDetected)
	assert.False(t, *req.FaceDetected)

	defaults, err := parseRealtimeRequest(nil)
	require.NoError(t, err)
	assert.Equal(t, "Candidate", defaults.Role)
	assert.Equal(t, 1, defaults.SessionSeconds)
	assert.Equal(t, heuristic.NeutralSignal, defaults.LightingScore)
	assert.Nil(t, defaults.FaceDetected)

	huge, err := parseRealtimeRequest([]byte(`{"posture": 1e300, "outfit": -1e300, "session_seconds": 1e300}`))
	require.NoError(t, err)
	require.NotNil(t, huge.Overrides.Posture)
	assert.Equal(t, math.MaxInt32, *huge.Overrides.Posture)
	require.NotNil(t, huge.Overrides.Outfit)
	assert.Equal(t, math.MinInt32, *huge.Overrides.Outfit)
	assert.Equal(t, math.MaxInt32, huge.SessionSeconds)

	_, err = parseRealtimeRequest([]byte(`[1,2]`))
	assert.ErrorIs(t, err, errNotObject)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
