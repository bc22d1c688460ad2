package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ritzprobe/internal/config"
	"ritzprobe/internal/fakezone"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "RITZONE_") {
			name, _, _ := strings.Cut(kv, "=")
			t.Setenv(name, "")
		}
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	clearEnv(t)
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func fakeBackend(t *testing.T, opts fakezone.Options) string {
	t.Helper()
	srv, err := fakezone.New(opts)
	require.NoError(t, err)
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	return hs.URL
}

func TestRun_SmokeSuite(t *testing.T) {
	url := fakeBackend(t, fakezone.Options{})

	out, _, err := execute(t, "--api-url", url, "--suite", "smoke", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, "[+] PASS: Backend Health Check - backend is running")
	assert.Contains(t, out, "[+] PASS: User Registration")
	assert.Contains(t, out, "RitZone Probe Summary (suite: smoke)")
	assert.Contains(t, out, "Success Rate:  100.0%")
	assert.Contains(t, out, `"suite": "smoke"`)
	assert.Contains(t, out, `"passed": 10`)
	assert.Contains(t, out, "[+] PASS: Search Products - search \"wireless\" returned 1 result")
	assert.Contains(t, out, "[+] PASS: Currency Conversion")
	assert.NotContains(t, out, "FAIL")
}

func TestRun_UnreachableBackend(t *testing.T) {
	out, _, err := execute(t, "--api-url", "http://127.0.0.1:1", "--suite", "full")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[x] FAIL: Backend Health Check")
	assert.Contains(t, out, "NetworkFailure: ")
	assert.Contains(t, out, "Total Tests:   1\n")
	assert.Contains(t, out, "Failed:        1\n")
	assert.NotContains(t, out, "User Login")
}

func TestRun_ConfigErrors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		want      string
		configErr bool
	}{
		{"missing base URL", nil, "RITZONE_API_URL", true},
		{"bad base URL", []string{"--api-url", "localhost:8001"}, "invalid base URL", true},
		{"bad threshold", []string{"--api-url", "http://x", "--threshold", "120"}, "RITZONE_PASS_THRESHOLD", true},
		{"bad cod expectation", []string{"--api-url", "http://x", "--cod-expect", "maybe"}, "RITZONE_COD_EXPECT", true},
		{"unknown suite", []string{"--api-url", "http://x", "--suite", "nope"}, `unknown suite "nope"`, false},
		{"unknown flag", []string{"--nope"}, "unknown flag", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, tt.configErr, config.IsConfigError(err))
			if tt.configErr {
				assert.True(t, strings.HasPrefix(err.Error(), "invalid configuration: "), err.Error())
			}
		})
	}
}

func TestRun_EnvironmentConfig(t *testing.T) {
	url := fakeBackend(t, fakezone.Options{})
	clearEnv(t)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--suite", "profile"})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	t.Setenv("RITZONE_API_URL", url)

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "(suite: profile)")
	assert.Contains(t, out.String(), "[+] PASS: Verify Profile Update")
	assert.Contains(t, out.String(), "[+] PASS: Delete Review")
	assert.NotContains(t, out.String(), "FAIL")
}

const partialWorkflow = `
name: partial
steps:
  - {name: one, path: /ok}
  - {name: two, path: /ok}
  - {name: three, path: /ok}
  - {name: four, path: /broken}
  - {name: five, path: /ok}
  - {name: six, path: /broken}
  - {name: seven, path: /ok}
  - {name: eight, path: /ok}
`

func partialBackend(t *testing.T) (string, string) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	hs := httptest.NewServer(mux)
	t.Cleanup(hs.Close)

	file := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(file, []byte(partialWorkflow), 0o644))
	return hs.URL, file
}

func TestWorkflow_PartialFailureThresholds(t *testing.T) {
	url, file := partialBackend(t)

	out, _, err := execute(t, "workflow", "-f", file, "--api-url", url, "--threshold", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Tests:   8\n")
	assert.Contains(t, out, "Passed:        6\n")
	assert.Contains(t, out, "Failed:        2\n")
	assert.Contains(t, out, "Success Rate:  75.0%")
	assert.Contains(t, out, "MOSTLY WORKING")
	assert.Contains(t, out, "[x] FAIL: four")

	_, _, err = execute(t, "workflow", "-f", file, "--api-url", url, "--threshold", "80")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "75.0% is below the pass threshold 80.0%")
}

func TestWorkflow_Errors(t *testing.T) {
	_, _, err := execute(t, "workflow", "--api-url", "http://x")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--file is required")

	_, _, err = execute(t, "workflow", "-f", filepath.Join(t.TempDir(), "missing.yaml"), "--api-url", "http://x")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid workflow")
}

func TestSuitesCommand(t *testing.T) {
	out, _, err := execute(t, "suites")
	require.NoError(t, err)
	assert.Contains(t, out, "smoke      health, auth, catalog\n")
	assert.Contains(t, out, "checkout   health, auth, cart, checkout, protection, cors\n")
	assert.Contains(t, out, "profile    health, auth, profile, addresses, payment-methods, wishlist, reviews\n")
}

func TestFakeZoneCommand_InvalidShape(t *testing.T) {
	_, _, err := execute(t, "fakezone", "--shape", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown login shape")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "below threshold")))

	wrapped := WrapExitError(ExitCommandError, "invalid configuration", errors.New("missing"))
	assert.Equal(t, "invalid configuration: missing", wrapped.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(errors.Join(errors.New("other"), wrapped)))
}

const cartWorkflow = `
name: cart from fixture
authenticate: true
data:
  terms:
    file: terms.csv
steps:
  - name: Search
    path: /products/search/${data.terms.q}
    expect:
      data: "*"
    extract:
      product_id: $.data[0].id
  - name: Add To Cart
    method: POST
    path: /cart/add
    body: '{"productId":"${product_id}","quantity":${data.terms.qty}}'
    expect:
      data.item.quantity: ${data.terms.qty}
  - name: Cart Requires Auth
    path: /cart
    anonymous: true
    expect_status: [401]
`

func TestWorkflow_FixturesAndAuth(t *testing.T) {
	url := fakeBackend(t, fakezone.Options{})
	dir := t.TempDir()
	file := filepath.Join(dir, "cart.yaml")
	require.NoError(t, os.WriteFile(file, []byte(cartWorkflow), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terms.csv"), []byte("q,qty\nshirt,3\n"), 0o644))

	out, _, err := execute(t, "workflow", "-f", file, "--api-url", url)

	require.NoError(t, err, out)
	assert.Contains(t, out, "[+] PASS: Authenticate")
	assert.Contains(t, out, "[+] PASS: Search - GET /products/search/shirt -> 200")
	assert.Contains(t, out, "[+] PASS: Add To Cart")
	assert.Contains(t, out, "[+] PASS: Cart Requires Auth")
	assert.Contains(t, out, "(suite: cart from fixture)")
}
