package resumeanalyzer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPAnalyzer_Analyze(t *testing.T) {
	var gotOption, gotJD, gotFile, gotContent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotOption = r.FormValue("analysis_option")
		gotJD = r.FormValue("job_description")

		f, h, err := r.FormFile("resume")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotFile = h.Filename
		gotContent = string(b)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Score: 82/100"}`))
	}))
	defer srv.Close()

	a := NewHTTPAnalyzer(srv.URL, 5*time.Second)
	analysis, err := a.Analyze(context.Background(), Request{
		Resume:         strings.NewReader("%PDF-1.4 resume"),
		Filename:       "cv.pdf",
		JobDescription: "Backend engineer",
	})
	require.NoError(t, err)

	assert.JSONEq(t, `"Score: 82/100"`, string(analysis))
	assert.Equal(t, DefaultOption, gotOption)
	assert.Equal(t, "Backend engineer", gotJD)
	assert.Equal(t, "cv.pdf", gotFile)
	assert.Equal(t, "%PDF-1.4 resume", gotContent)
}

func TestHTTPAnalyzer_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewHTTPAnalyzer(srv.URL, 5*time.Second)
	_, err := a.Analyze(context.Background(), Request{Resume: strings.NewReader("x"), Filename: "cv.pdf"})
	assert.ErrorIs(t, err, ErrAnalyzerFailed)
}

func TestHTTPAnalyzer_Unreachable(t *testing.T) {
	a := NewHTTPAnalyzer("http://127.0.0.1:1/analyze", time.Second)
	_, err := a.Analyze(context.Background(), Request{Resume: strings.NewReader("x"), Filename: "cv.pdf"})
	assert.ErrorIs(t, err, ErrAnalyzerFailed)
}

func TestUnwrapResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "wrapped", in: `{"response":{"score":80}}`, want: `{"score":80}`},
		{name: "bare object", in: `{"score":80}`, want: `{"score":80}`},
		{name: "plain text", in: `Score 80`, want: `"Score 80"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, string(unwrapResponse([]byte(tt.in))))
		})
	}
}
