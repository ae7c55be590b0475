package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
)

func TestWriteTwiMLWithMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeTwiML(rec, "Your listing has been saved!")

	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("expected application/xml, got %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<Message>Your listing has been saved!</Message>") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestWriteTwiMLEmptyReply(t *testing.T) {
	rec := httptest.NewRecorder()
	writeTwiML(rec, "")

	if got := rec.Body.String(); got != emptyTwiMLResponse {
		t.Errorf("expected empty envelope, got %s", got)
	}
}

func TestWriteTwiMLEscapesMarkup(t *testing.T) {
	rec := httptest.NewRecorder()
	writeTwiML(rec, "use <b>bold</b> & more")

	body := rec.Body.String()
	if strings.Contains(body, "<b>") {
		t.Errorf("markup not escaped: %s", body)
	}
	if !strings.Contains(body, "&lt;b&gt;bold&lt;/b&gt; &amp; more") {
		t.Errorf("unexpected escaping: %s", body)
	}
}

func TestWriteJSONResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSONResponse(rec, 200, models.Success("ok"))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("unexpected status %q", resp.Status)
	}
}
