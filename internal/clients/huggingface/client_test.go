package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func TestClassifyTextParsesTopLabel(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[{"label":"POSITIVE","score":0.98},{"label":"NEGATIVE","score":0.02}]]`))
	}))
	defer srv.Close()

	c, err := New(testLogger(t), Config{Endpoint: srv.URL, Token: "tok"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	label, err := c.ClassifyText(context.Background(), "Had a great day")
	if err != nil {
		t.Fatalf("ClassifyText: %v", err)
	}
	if label != "POSITIVE" {
		t.Fatalf("label: want=POSITIVE got=%q", label)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("auth header: want=%q got=%q", "Bearer tok", gotAuth)
	}
	if gotBody["inputs"] != "Had a great day" {
		t.Fatalf("request inputs: want=%q got=%q", "Had a great day", gotBody["inputs"])
	}
}

func TestClassifyTextNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := New(testLogger(t), Config{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.ClassifyText(context.Background(), "text"); err == nil {
		t.Fatalf("ClassifyText: expected error for 503 response")
	}
}

func TestClassifyTextMalformedPayloadIsError(t *testing.T) {
	cases := []string{
		`{"label":"POSITIVE"}`,
		`[]`,
		`[[]]`,
		`[[{"score":0.5}]]`,
		`not json`,
	}
	for _, payload := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(payload))
		}))
		c, err := New(testLogger(t), Config{Endpoint: srv.URL})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if _, err := c.ClassifyText(context.Background(), "text"); err == nil {
			t.Fatalf("ClassifyText: expected error for payload %q", payload)
		}
		srv.Close()
	}
}

func TestClassifyTextTimesOut(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	c, err := New(testLogger(t), Config{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	start := time.Now()
	if _, err := c.ClassifyText(context.Background(), "text"); err == nil {
		t.Fatalf("ClassifyText: expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("ClassifyText: timeout took too long: %v", elapsed)
	}
}
