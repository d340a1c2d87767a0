package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aravindadityxa/nayamai/config"
	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/kv"
	"github.com/aravindadityxa/nayamai/locale"
)

type cliEnv struct {
	backend  *httptest.Server
	dataDir  string
	cfgPath  string
	chatDown atomic.Bool
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"NAYAM_BACKEND_URL", "NAYAM_DATA_DIR", "NAYAM_STORAGE",
		"NAYAM_BRIDGE_ADDR", "NAYAM_BRIDGE_TOKEN", "NAYAM_DEV_MODE",
		"NAYAM_REQUEST_TIMEOUT", "OTEL_EXPORTER_OTLP_ENDPOINT", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}

	env := &cliEnv{
		dataDir: filepath.Join(home, "data"),
		cfgPath: filepath.Join(home, "config.yaml"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"message":"Login successful","token":"backend-token"}`))
	})
	mux.HandleFunc("POST /chat/public", func(w http.ResponseWriter, r *http.Request) {
		if env.chatDown.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"response":"Please rest and drink fluids","language":"en"}`))
	})
	mux.HandleFunc("POST /nearby", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hospitals":[{"name":"City Hospital","lat":12.97,"lon":77.59,"phone":"080-1234"}]}`))
	})
	mux.HandleFunc("POST /forgot-password", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok","security_questions":["Pet?","City?"]}`))
	})
	mux.HandleFunc("POST /reset-password", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SecurityAnswers map[string]string `json:"security_answers"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.SecurityAnswers["pet_name"] != "rex" || body.SecurityAnswers["birth_city"] != "Chennai" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Security answers do not match"}`))
			return
		}
		w.Write([]byte(`{"message":"Password reset successful"}`))
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	})
	env.backend = httptest.NewServer(mux)
	t.Cleanup(env.backend.Close)
	return env
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// run executes one nayam invocation against the fake backend.
func (e *cliEnv) run(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()

	opts := &rootOptions{version: "1.2.3", commit: "abc1234", date: "today"}
	root := newRootCmd(opts)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args,
		"--config", e.cfgPath,
		"--backend", e.backend.URL,
		"--data-dir", e.dataDir,
	))

	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run(t, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "nayam version 1.2.3 (commit: abc1234, built: today)")
}

func TestDisplayVersion(t *testing.T) {
	assert.Equal(t, "v1.0.0 (abc1234)", (&rootOptions{version: "1.0.0", commit: "abc1234"}).displayVersion())
	assert.Equal(t, "v1.0.0", (&rootOptions{version: "1.0.0", commit: "none"}).displayVersion())
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	env := newCLIEnv(t)
	fileCfg := config.DefaultConfig()
	fileCfg.BackendURL = "https://from-file.example"
	fileCfg.DataDir = "/from/file"
	require.NoError(t, config.Save(env.cfgPath, fileCfg))

	opts := &rootOptions{cfgFile: env.cfgPath, storage: kv.BackendMemory, devMode: true}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://from-file.example", cfg.BackendURL)
	assert.Equal(t, kv.BackendMemory, cfg.Storage)
	assert.True(t, cfg.DevMode)

	opts.storage = "redis"
	_, err = opts.loadConfig()
	assert.Error(t, err)
}

func TestChat_OneShot(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "", "chat", "I", "have", "a", "fever")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Please rest and drink fluids")

	res = env.run(t, "", "history", "export", "-")
	require.NoError(t, res.err)
	var doc history.Export
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, 2, doc.TotalMessages)
	assert.Equal(t, "I have a fever", doc.ChatHistory[0].Content)
}

func TestChat_DegradedReplyFails(t *testing.T) {
	env := newCLIEnv(t)
	env.chatDown.Store(true)

	res := env.run(t, "", "chat", "hello")
	require.Error(t, res.err)
	var reported *reportedError
	assert.ErrorAs(t, res.err, &reported)
	assert.Contains(t, res.stdout, locale.For(locale.English).ChatError)
}

func TestLoginLogout(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "user@example.com\nsecret1\n", "login")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Logged in as user@example.com")
	assert.NotContains(t, res.stdout+res.stderr, "backend-token")

	res = env.run(t, "", "whoami")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Logged in as user@example.com")

	res = env.run(t, "n\n", "logout")
	require.NoError(t, res.err)
	assert.Contains(t, env.run(t, "", "whoami").stdout, "user@example.com")

	res = env.run(t, "", "logout", "--yes")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Logged out")
	assert.Contains(t, env.run(t, "", "whoami").stdout, "Not logged in")
}

func TestLogin_SwitchesLanguage(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "secret1\n", "login", "--email", "user@example.com", "--lang", "kn")
	require.NoError(t, res.err)

	res = env.run(t, "", "language")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "* kn")
}

func TestLogin_Failure(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "user@example.com\nwrong\n", "login")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Invalid credentials")
	assert.Contains(t, env.run(t, "", "whoami").stdout, "Not logged in")
}

func TestRegister_Validation(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "user@example.com\nabc\n", "register")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Password must be at least 6 characters long")
}

func TestResetPassword(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "rex\nChennai\nnewpass\nnewpass\n", "reset-password", "--email", "user@example.com")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Pet?")
	assert.Contains(t, res.stdout, "Password reset successful")

	res = env.run(t, "rex\nMumbai\nnewpass\nnewpass\n", "reset-password", "--email", "user@example.com")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Security answers do not match")

	res = env.run(t, "rex\nChennai\nnewpass\nother1\n", "reset-password", "--email", "user@example.com")
	require.Error(t, res.err)
}

func TestThemeAndLanguage(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "", "theme")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Theme: light")

	res = env.run(t, "", "theme", "toggle")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Theme: dark")

	res = env.run(t, "", "theme", "sepia")
	require.Error(t, res.err)

	res = env.run(t, "", "language", "ta")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, locale.Tamil.Name())

	res = env.run(t, "", "lang", "xx")
	require.Error(t, res.err)
}

func TestHistory_ListAndClear(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, env.run(t, "", "chat", "headache").err)

	res := env.run(t, "", "history")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Today")
	assert.Contains(t, res.stdout, "2 messages")

	res = env.run(t, "n\n", "history", "clear")
	require.NoError(t, res.err)
	assert.Contains(t, env.run(t, "", "history", "list").stdout, "2 messages")

	res = env.run(t, "", "history", "clear", "-y")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Chat history cleared")
	assert.Contains(t, env.run(t, "", "history", "list").stdout, locale.For(locale.English).NoChatHistory)
}

func TestHistory_Show(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, env.run(t, "", "chat", "headache").err)

	res := env.run(t, "", "history", "export", "-")
	require.NoError(t, res.err)
	var doc history.Export
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	day := doc.ChatHistory[0].Timestamp.Local().Format("2006-01-02")

	res = env.run(t, "", "history", "show", day)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "headache")
	assert.Contains(t, res.stdout, assistantName)

	res = env.run(t, "", "history", "show", "2001-01-01")
	require.Error(t, res.err)
}

func TestHistory_Export(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "", "history", "export")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "No chat history to export")

	require.NoError(t, env.run(t, "", "chat", "cough").err)
	path := filepath.Join(t.TempDir(), "export.json")
	res = env.run(t, "", "history", "export", path)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"totalMessages": 2`)
}

func TestHistory_RemoteRequiresLogin(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run(t, "", "history", "remote")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "not logged in")
}

func TestNearby(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "", "nearby", "--lat", "12.97", "--lon", "77.59")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "City Hospital")
	assert.Contains(t, res.stdout, "080-1234")
	assert.Contains(t, res.stdout, "openstreetmap.org")

	res = env.run(t, "", "nearby", "--lat", "120", "--lon", "77.59")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Invalid location coordinates")

	res = env.run(t, "", "nearby")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Geolocation is not supported")
}

func TestHealth(t *testing.T) {
	env := newCLIEnv(t)
	res := env.run(t, "", "health")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Backend reachable at "+env.backend.URL)
}

func TestREPL(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "/help\nI feel dizzy\n/whoami\n/quit\n")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, locale.Greeting(locale.English))
	assert.Contains(t, res.stdout, "/nearby <lat> <lon>")
	assert.Contains(t, res.stdout, "Please rest and drink fluids")
	assert.Contains(t, res.stdout, "Not logged in")

	res = env.run(t, "", "history", "export", "-")
	require.NoError(t, res.err)
	var doc history.Export
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, 3, doc.TotalMessages, "greeting plus one exchange")
}

func TestREPL_LanguageRegreets(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "/lang hi\n")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, locale.Greeting(locale.Hindi))

	res = env.run(t, "", "history", "export", "-")
	require.NoError(t, res.err)
	var doc history.Export
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	require.Len(t, doc.ChatHistory, 1)
	assert.Equal(t, locale.Hindi, doc.ChatHistory[0].Language)
}

func TestREPL_ClearAsksFirst(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, env.run(t, "", "chat", "headache").err)

	res := env.run(t, "/clear\nn\n/quit\n")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, locale.For(locale.English).ClearConfirm)

	res = env.run(t, "/clear\ny\n/quit\n")
	require.NoError(t, res.err)

	res = env.run(t, "", "history", "export", "-")
	require.NoError(t, res.err)
	var doc history.Export
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	require.Len(t, doc.ChatHistory, 1)
	assert.Equal(t, history.SenderAssistant, doc.ChatHistory[0].Sender)
}

func TestInit(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run(t, "\nsqlite\n\n", "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Config saved to "+env.cfgPath)

	cfg, err := config.Load(env.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, kv.BackendSQLite, cfg.Storage)
	assert.Equal(t, config.DefaultBridgeAddr, cfg.Bridge.Addr)

	res = env.run(t, "\nmemory\n\nn\n", "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Aborted.")
}

func TestMapURL(t *testing.T) {
	assert.Equal(t,
		"https://www.openstreetmap.org/?mlat=12.970000&mlon=77.590000#map=17/12.970000/77.590000",
		mapURL(12.97, 77.59))
}
