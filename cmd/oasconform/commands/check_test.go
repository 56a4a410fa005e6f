package commands

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasconform/conformance"
)

const healthDoc = `openapi: 3.1.0
info: {title: Health, version: '1'}
paths:
  /health:
    get:
      operationId: health
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: object
                required: [status]
                properties:
                  status: {type: string, enum: [ok]}
`

func healthServer(t *testing.T, status string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "` + status + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSetupCheckFlags_EnvDefaults(t *testing.T) {
	t.Setenv("OASCONFORM_BASE_URL", "http://env.test")
	t.Setenv("OASCONFORM_TIMEOUT", "3s")
	t.Setenv("OASCONFORM_CONCURRENCY", "4")

	fs, flags := SetupCheckFlags()
	assert.Equal(t, "http://env.test", flags.BaseURL)
	assert.Equal(t, 3*time.Second, flags.Timeout)
	assert.Equal(t, 4, flags.Concurrency)

	require.NoError(t, fs.Parse([]string{"--base-url", "http://flag.test", "--operation", "a", "--operation", "b", "api.yaml"}))
	assert.Equal(t, "http://flag.test", flags.BaseURL)
	assert.Equal(t, stringList{"a", "b"}, flags.Operations)
}

func TestCheckFlags_Options(t *testing.T) {
	tests := []struct {
		name    string
		flags   CheckFlags
		wantErr string
	}{
		{"defaults", CheckFlags{Timeout: time.Second, Concurrency: 1}, ""},
		{"credentials and headers", CheckFlags{Timeout: time.Second, Concurrency: 1, Credentials: stringList{"apiKey=s"}, Headers: stringList{"X-A: 1"}}, ""},
		{"bad credential", CheckFlags{Credentials: stringList{"apiKey"}}, "invalid --credential"},
		{"bad header", CheckFlags{Headers: stringList{"novalue"}}, "invalid --header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.flags.options()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHandleCheck_Pass(t *testing.T) {
	srv := healthServer(t, "ok")
	spec := writeFile(t, "health.yaml", healthDoc)
	metricsPath := filepath.Join(t.TempDir(), "oasconform.prom")

	out, _ := captureOutput(t)
	err := HandleCheck([]string{
		"--base-url", srv.URL, "--header", "X-Extra: yes",
		"--metrics-textfile", metricsPath, spec,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[Pass] GET /health health#default -> 200")
	assert.Contains(t, out.String(), "1 case in")
	assert.Contains(t, out.String(), "Pass: 1")

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `oasconform_conformance_cases_total{outcome="pass"} 1`)
}

func TestHandleCheck_ValidationFailedJSON(t *testing.T) {
	srv := healthServer(t, "down")
	spec := writeFile(t, "health.yaml", healthDoc)

	out, _ := captureOutput(t)
	err := HandleCheck([]string{"--base-url", srv.URL, "--header", "X-Extra: yes", "--format", "json", spec})
	require.ErrorIs(t, err, ErrFailed)

	var report conformance.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Entries, 1)
	entry := report.Entries[0]
	assert.Equal(t, conformance.OutcomeValidationFailed, entry.Outcome)
	assert.Equal(t, 200, entry.ActualStatus)
	require.Len(t, entry.Errors, 1)
	assert.Equal(t, "/status", entry.Errors[0].Location)
	assert.NotEmpty(t, report.RunID)
}

func TestHandleCheck_Plan(t *testing.T) {
	out, _ := captureOutput(t)
	require.NoError(t, HandleCheck([]string{"--plan", "--format", "json", "--operation", "createPet", petstore}))

	var cases []plannedCase
	require.NoError(t, json.Unmarshal(out.Bytes(), &cases))
	require.Len(t, cases, 2)
	assert.Equal(t, "createPet#request/application/json/rex", cases[0].ID)
	assert.Equal(t, "POST", cases[0].Method)
	assert.JSONEq(t, `{"name": "Rex", "tag": "dog"}`, cases[0].Body)
	assert.Equal(t, []string{"201"}, cases[0].ExpectStatus)
}

func TestHandleCheck_PlanText(t *testing.T) {
	out, _ := captureOutput(t)
	require.NoError(t, HandleCheck([]string{"--plan", petstore}))
	assert.Contains(t, out.String(), "DELETE  /pets/{petId}  deletePet#default  expect 204\n")
}

func TestHandleCheck_Errors(t *testing.T) {
	spec := writeFile(t, "health.yaml", healthDoc)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, "exactly one specification"},
		{"bad format", []string{"--format", "html", spec}, "invalid format"},
		{"no servers", []string{spec}, "declares no servers"},
		{"bad concurrency", []string{"--base-url", "http://x", "--concurrency", "0", spec}, "concurrency"},
		{"bad credential", []string{"--credential", "nope", spec}, "invalid --credential"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OASCONFORM_BASE_URL", "")
			captureOutput(t)
			err := HandleCheck(tt.args)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrFailed)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
