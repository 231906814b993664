package email

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetMessage(t *testing.T) {
	msg := PasswordResetMessage("asha@college.edu", "Asha", "http://localhost:5173/reset-password/abc123")

	assert.Equal(t, "asha@college.edu", msg.To)
	assert.Contains(t, msg.HTML, "http://localhost:5173/reset-password/abc123")
	assert.Contains(t, msg.Text, "http://localhost:5173/reset-password/abc123")
	assert.Contains(t, msg.HTML, "30 minutes")
}

func TestNewSender(t *testing.T) {
	logger := zerolog.Nop()

	s, err := NewSender(Config{Provider: "log"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	s, err = NewSender(Config{Provider: "sendgrid", SendGridAPIKey: "key"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SendGridSender{}, s)

	s, err = NewSender(Config{Provider: "smtp", SMTPHost: "smtp.example.com", SMTPPort: 587}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	_, err = NewSender(Config{Provider: "pigeon"}, logger)
	assert.Error(t, err)
}

func TestLogSender_Send(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(zerolog.New(&buf))

	require.NoError(t, s.Send(context.Background(), Message{To: "a@b.c", Subject: "Hi", Text: "body"}))
	assert.Contains(t, buf.String(), `"to":"a@b.c"`)
}

func TestSMTPSender_WithoutCredentialsOnlyLogs(t *testing.T) {
	var buf bytes.Buffer
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587}, zerolog.New(&buf))

	require.NoError(t, s.Send(context.Background(), Message{To: "a@b.c", Subject: "Hi"}))
	assert.Contains(t, buf.String(), "SMTP credentials not configured")
}

func TestSendGridSender_Send(t *testing.T) {
	var payload map[string]interface{}
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		if r.URL.Path != sendGridEndpoint {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGridSender("sg-key", "Placement Portal", "no-reply@portal.test", zerolog.Nop())
	s.host = srv.URL

	err := s.Send(context.Background(), PasswordResetMessage("asha@college.edu", "Asha", "http://x/reset-password/t"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer sg-key", auth)
	assert.Equal(t, "no-reply@portal.test", payload["from"].(map[string]interface{})["email"])
}

func TestSendGridSender_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewSendGridSender("bad-key", "Placement Portal", "no-reply@portal.test", zerolog.Nop())
	s.host = srv.URL

	err := s.Send(context.Background(), Message{To: "asha@college.edu", Subject: "x", Text: "x", HTML: "x"})
	assert.Error(t, err)
}
