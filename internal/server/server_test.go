package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/archetype-cli/archetype/pkg/pipeline"
)

func testServer() *Server {
	return New(pipeline.NewRunner(nil, nil, nil), nil)
}

func postInventory(t *testing.T, ts *httptest.Server) generateResponse {
	t.Helper()

	body := `{
		"title": "Test Architecture",
		"servers": [
			{"server_name": "web01", "server_type": "Web Server", "operating_system": "Windows Server 2019", "memory_gb": 8},
			{"server_name": "db01", "server_type": "Database Server", "recommendation": "Azure SQL Database"}
		],
		"insights": {"technologies": [{"category": "web", "keyword": "iis", "confidence": "high"}]}
	}`

	resp, err := http.Post(ts.URL+"/api/v1/diagrams", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST status = %d, body = %s", resp.StatusCode, data)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return gen
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(testServer().Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGenerateAndFetch(t *testing.T) {
	ts := httptest.NewServer(testServer().Routes())
	defer ts.Close()

	gen := postInventory(t, ts)
	if gen.DiagramID == "" {
		t.Fatal("response has no diagram id")
	}
	if gen.Title != "Test Architecture" {
		t.Errorf("Title = %q", gen.Title)
	}
	if gen.Components < 2 {
		t.Errorf("Components = %d, want at least the two servers", gen.Components)
	}

	// JSON retrieval round-trips the component count
	resp, err := http.Get(ts.URL + "/api/v1/diagrams/" + gen.DiagramID)
	if err != nil {
		t.Fatalf("GET json error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET json status = %d", resp.StatusCode)
	}
	var fetched struct {
		Components []json.RawMessage `json:"components"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode diagram: %v", err)
	}
	if len(fetched.Components) != gen.Components {
		t.Errorf("fetched %d components, generate reported %d", len(fetched.Components), gen.Components)
	}
}

func TestFetchFormats(t *testing.T) {
	ts := httptest.NewServer(testServer().Routes())
	defer ts.Close()

	gen := postInventory(t, ts)

	tests := []struct {
		path        string
		contentType string
		want        string
	}{
		{"/svg", "image/svg+xml", "<svg"},
		{"/dot", "text/vnd.graphviz", "digraph"},
	}

	for _, tt := range tests {
		resp, err := http.Get(ts.URL + "/api/v1/diagrams/" + gen.DiagramID + tt.path)
		if err != nil {
			t.Fatalf("GET %s error: %v", tt.path, err)
		}
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", tt.path, resp.StatusCode)
			continue
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
			t.Errorf("GET %s Content-Type = %q, want %q", tt.path, ct, tt.contentType)
		}
		if !bytes.Contains(data, []byte(tt.want)) {
			t.Errorf("GET %s body missing %q", tt.path, tt.want)
		}
	}
}

func TestFetchDOTRendered(t *testing.T) {
	ts := httptest.NewServer(testServer().Routes())
	defer ts.Close()

	gen := postInventory(t, ts)

	resp, err := http.Get(ts.URL + "/api/v1/diagrams/" + gen.DiagramID + "/dot?render=svg")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("body is not SVG")
	}
	if bytes.Contains(data, []byte("digraph")) {
		t.Error("body is raw DOT, not the rendered graph")
	}
}

func TestFetchPackage(t *testing.T) {
	ts := httptest.NewServer(testServer().Routes())
	defer ts.Close()

	gen := postInventory(t, ts)

	resp, err := http.Get(ts.URL + "/api/v1/diagrams/" + gen.DiagramID + "/package")
	if err != nil {
		t.Fatalf("GET package error: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET package status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Package-Degraded") == "" {
		// Full archive: zip local file header magic
		if !bytes.HasPrefix(data, []byte("PK")) {
			t.Error("package body is not a zip archive")
		}
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, gen.DiagramID) {
		t.Errorf("Content-Disposition = %q, want diagram id", cd)
	}
}

func TestNotFound(t *testing.T) {
	ts := httptest.NewServer(testServer().Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/diagrams/nope")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	var envelope errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Code != "DIAGRAM_NOT_FOUND" {
		t.Errorf("Code = %q", envelope.Code)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	ts := httptest.NewServer(testServer().Routes())
	defer ts.Close()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "{nope"},
		{"empty inventory", `{"servers": []}`},
	}

	for _, tt := range tests {
		resp, err := http.Post(ts.URL+"/api/v1/diagrams", "application/json", strings.NewReader(tt.body))
		if err != nil {
			t.Fatalf("%s: POST error: %v", tt.name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, resp.StatusCode)
		}
	}
}
