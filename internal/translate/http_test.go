package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewReturnsNilWithoutURL(t *testing.T) {
	if tr := New(Config{}); tr != nil {
		t.Fatalf("New without url = %T, want nil", tr)
	}
	if tr := New(Config{URL: "  "}); tr != nil {
		t.Fatalf("New with blank url = %T, want nil", tr)
	}
	if tr := New(Config{URL: "http://localhost:9000/translate"}); tr == nil {
		t.Fatal("New with url returned nil")
	}
}

func TestHTTPTranslatorTranslate(t *testing.T) {
	var gotReq translateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"translated_text": "नमस्ते"})
	}))
	defer srv.Close()

	tr := NewHTTPTranslator(srv.URL, time.Second, 0)
	out, err := tr.Translate(context.Background(), "hello", "en", "hi")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "नमस्ते" {
		t.Fatalf("out = %q", out)
	}
	if gotReq.Text != "hello" || gotReq.SourceLang != "en" || gotReq.TargetLang != "hi" {
		t.Fatalf("request payload = %+v", gotReq)
	}
}

func TestHTTPTranslatorAcceptsTextField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "bonjour"})
	}))
	defer srv.Close()

	tr := NewHTTPTranslator(srv.URL, time.Second, 0)
	out, err := tr.Translate(context.Background(), "hello", "en", "fr")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "bonjour" {
		t.Fatalf("out = %q", out)
	}
}

func TestHTTPTranslatorRetriesServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"translated_text": "done"})
	}))
	defer srv.Close()

	tr := NewHTTPTranslator(srv.URL, 5*time.Second, 2)
	out, err := tr.Translate(context.Background(), "hello", "en", "hi")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "done" || calls != 2 {
		t.Fatalf("out = %q, calls = %d", out, calls)
	}
}

func TestHTTPTranslatorEmptyResponseFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	tr := NewHTTPTranslator(srv.URL, time.Second, 0)
	if _, err := tr.Translate(context.Background(), "hello", "en", "hi"); err == nil {
		t.Fatal("want error for response without text")
	}
}
