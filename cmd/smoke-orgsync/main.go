package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

func main() {
	base := os.Getenv("ORGSYNC_API_ADDR")
	if base == "" {
		base = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 10 * time.Second}
	probe := uuid.NewString()

	get(client, base+"/healthz", probe, http.StatusOK)
	get(client, base+"/readyz", probe, http.StatusOK)

	resp := get(client, base+"/v1/info", probe, http.StatusOK)
	var info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(resp, &info); err != nil {
		log.Fatalf("decode /v1/info: %v", err)
	}
	if info.Name == "" || info.Version == "" {
		log.Fatalf("incomplete build info: %s", resp)
	}

	// An invalid role must be rejected before any remote call is issued,
	// so this probe is safe to run against a live deployment.
	body, _ := json.Marshal(map[string]any{
		"fullName":   "Smoke Probe " + probe,
		"userEmail":  "smoke-" + probe + "@example.invalid",
		"wsRole":     "smokeTestRole",
		"ghOrgNames": []string{"smoke-" + probe},
	})
	req, err := http.NewRequest(http.MethodPut, base+"/createAndAssignUser", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", probe)
	r, err := client.Do(req)
	if err != nil {
		log.Fatalf("createAndAssignUser probe: %v", err)
	}
	payload, _ := io.ReadAll(r.Body)
	r.Body.Close()
	if r.StatusCode != http.StatusBadRequest {
		log.Fatalf("expected 400 for invalid role, got %d: %s", r.StatusCode, payload)
	}
	var verr struct {
		Kind  string `json:"kind"`
		Field string `json:"field"`
	}
	if err := json.Unmarshal(payload, &verr); err != nil {
		log.Fatalf("decode validation error: %v", err)
	}
	if verr.Kind != "validation" || verr.Field != "role" {
		log.Fatalf("unexpected validation payload: %s", payload)
	}
	if got := r.Header.Get("X-Request-Id"); got != probe {
		log.Fatalf("request id not echoed: got %q want %q", got, probe)
	}

	fmt.Printf("✅ orgsync-api smoke test passed: %s %s\n", info.Name, info.Version)
}

func get(client *http.Client, url, probe string, want int) []byte {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		log.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Request-Id", probe)
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		log.Fatalf("GET %s: expected %d, got %d: %s", url, want, resp.StatusCode, body)
	}
	return body
}
