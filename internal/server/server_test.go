package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"stackhand/internal/config"
	"stackhand/internal/db"
	"stackhand/internal/operations"
	"stackhand/internal/relocate"
	"stackhand/internal/testutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const composeYAML = "services:\n  web:\n    image: nginx\n"

type testEnv struct {
	server  *Server
	ops     *operations.StackOperations
	stacks  *db.StackRepository
	cfg     *config.GlobalConfig
	runtime *testutil.MockRuntime
}

func newTestEnv(t *testing.T, token string) *testEnv {
	t.Helper()
	database := testutil.SetupTestDB(t)

	cfg := config.DefaultGlobalConfig()
	cfg.Storage.StacksPath = filepath.Join(t.TempDir(), "stacks")
	cfg.Storage.DatabasePath = ":memory:"

	runtime := testutil.NewMockRuntime()
	stacks := db.NewStackRepository(database)
	ops := operations.NewStackOperations(cfg, stacks, db.NewExternalPathRepository(database), runtime)

	return &testEnv{
		server:  New(DefaultConfig(), ops, database, runtime, NewTokenAuthorizer(token)),
		ops:     ops,
		stacks:  stacks,
		cfg:     cfg,
		runtime: runtime,
	}
}

// do sends a request through the full middleware and routing stack
func (e *testEnv) do(t *testing.T, method, target string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := testutil.NewJSONRequest(method, target, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *testutil.ErrorResponse {
	t.Helper()
	resp, err := testutil.ParseErrorResponse(rec.Result())
	require.NoError(t, err)
	return resp
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, testutil.DecodeJSON(rec.Body, &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Database)
	assert.Equal(t, uint(2), resp.SchemaVersion)
	assert.Equal(t, "healthy", resp.Runtime)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHandleBasePath(t *testing.T) {
	env := newTestEnv(t, "")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/stacks/base-path", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, env.server.handleBasePath(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp BasePathResponse
	require.NoError(t, testutil.DecodeJSON(rec.Body, &resp))
	assert.Equal(t, env.cfg.Storage.StacksPath, resp.BasePath)
}

func TestHandleRelocateStack(t *testing.T) {
	tests := []struct {
		name           string
		stackName      string
		query          string
		createRecord   bool
		noopRelocator  bool
		body           func(oldDir, newDir string) map[string]string
		expectedStatus int
		checkResponse  func(t *testing.T, rec *httptest.ResponseRecorder, newDir string)
	}{
		{
			name:         "successful relocation",
			stackName:    "web",
			query:        "?env=2",
			createRecord: true,
			body: func(oldDir, newDir string) map[string]string {
				return map[string]string{"oldDir": oldDir, "newComposePath": filepath.Join(newDir, "compose.yaml")}
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, newDir string) {
				var resp operations.RelocateResponse
				require.NoError(t, testutil.DecodeJSON(rec.Body, &resp))
				assert.True(t, resp.Success)
				assert.True(t, resp.Persisted)
				assert.ElementsMatch(t, []string{"compose.yaml", ".env"}, resp.MovedFiles)
				assert.Equal(t, composeYAML, resp.ComposeContent)
				require.Len(t, resp.EnvVars, 1)
				assert.Equal(t, "TAG", resp.EnvVars[0].Key)
			},
		},
		{
			name:          "compose file not at destination",
			stackName:     "web",
			query:         "?env=2",
			createRecord:  true,
			noopRelocator: true,
			body: func(oldDir, newDir string) map[string]string {
				return map[string]string{"oldDir": oldDir, "newComposePath": filepath.Join(newDir, "compose.yaml")}
			},
			expectedStatus: http.StatusConflict,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, newDir string) {
				var resp operations.RelocateResponse
				require.NoError(t, testutil.DecodeJSON(rec.Body, &resp))
				assert.False(t, resp.Persisted)
				assert.Equal(t, "MANIFEST_NOT_MOVED", string(resp.Code))
			},
		},
		{
			name:      "unknown stack",
			stackName: "ghost",
			body: func(oldDir, newDir string) map[string]string {
				return map[string]string{"oldDir": oldDir, "newComposePath": filepath.Join(newDir, "compose.yaml")}
			},
			expectedStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, newDir string) {
				assert.Equal(t, "STACK_NOT_FOUND", decodeError(t, rec).Code)
			},
		},
		{
			name:      "missing fields",
			stackName: "web",
			body: func(oldDir, newDir string) map[string]string {
				return map[string]string{"oldDir": oldDir}
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, newDir string) {
				assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
			},
		},
		{
			name:      "invalid env",
			stackName: "web",
			query:     "?env=abc",
			body: func(oldDir, newDir string) map[string]string {
				return map[string]string{"oldDir": oldDir, "newComposePath": filepath.Join(newDir, "compose.yaml")}
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, newDir string) {
				assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			base := t.TempDir()
			oldDir := testutil.WriteStack(t, filepath.Join(base, "old"), map[string]string{
				"compose.yaml": composeYAML,
				".env":         "TAG=latest\n",
			})
			newDir := filepath.Join(base, "new")

			if tt.createRecord {
				require.NoError(t, env.stacks.Create(context.Background(), &db.Stack{
					Name:          tt.stackName,
					EnvironmentID: testutil.Int64Ptr(2),
					ComposePath:   filepath.Join(oldDir, "compose.yaml"),
				}))
			}
			if tt.noopRelocator {
				env.ops.SetRelocator(noopRelocator{})
			}

			rec := env.do(t, http.MethodPost, "/api/stacks/"+tt.stackName+"/relocate"+tt.query, tt.body(oldDir, newDir), "")
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.checkResponse != nil {
				tt.checkResponse(t, rec, newDir)
			}
		})
	}
}

type noopRelocator struct{}

func (noopRelocator) Relocate(plan relocate.Plan) (*relocate.Result, error) {
	return &relocate.Result{MovedFiles: []string{}, Errors: []string{}, FailedFiles: []string{}}, nil
}

func TestHandleValidatePath(t *testing.T) {
	env := newTestEnv(t, "")
	dir := t.TempDir()

	rec := env.do(t, http.MethodPost, "/api/stacks/validate-path", PathRequest{Path: dir}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)

	// Invalid paths are still a 200
	rec = env.do(t, http.MethodPost, "/api/stacks/validate-path", PathRequest{Path: filepath.Join(dir, "missing")}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Valid bool   `json:"valid"`
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	require.NoError(t, testutil.DecodeJSON(rec.Body, &result))
	assert.False(t, result.Valid)
	assert.Equal(t, "NOT_FOUND", result.Code)
	assert.Equal(t, "Path does not exist", result.Error)
}

func TestHandleScanAndAdopt(t *testing.T) {
	env := newTestEnv(t, "")
	root := t.TempDir()
	webDir := testutil.WriteStack(t, filepath.Join(root, "web"), map[string]string{"compose.yaml": composeYAML})

	rec := env.do(t, http.MethodPost, "/api/stacks/scan", map[string]string{"path": root}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var scan struct {
		Discovered []map[string]interface{} `json:"discovered"`
		Skipped    []map[string]interface{} `json:"skipped"`
	}
	require.NoError(t, testutil.DecodeJSON(rec.Body, &scan))
	require.Len(t, scan.Discovered, 1)
	assert.Equal(t, filepath.Join(webDir, "compose.yaml"), scan.Discovered[0]["composePath"])
	assert.Equal(t, false, scan.Discovered[0]["isRunning"])

	rec = env.do(t, http.MethodPost, "/api/stacks/adopt", map[string]interface{}{
		"stacks":        scan.Discovered,
		"environmentId": 1,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"adopted":["web"],"failed":[]}`, rec.Body.String())

	// Adopted stacks are skipped on the next scan
	rec = env.do(t, http.MethodPost, "/api/stacks/scan", map[string]string{"path": root}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, testutil.DecodeJSON(rec.Body, &scan))
	assert.Empty(t, scan.Discovered)
	assert.Len(t, scan.Skipped, 1)

	rec = env.do(t, http.MethodPost, "/api/stacks/adopt", map[string]interface{}{"stacks": []interface{}{}, "environmentId": 1}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFiles(t *testing.T) {
	env := newTestEnv(t, "")
	dir := testutil.WriteStack(t, t.TempDir(), map[string]string{
		"compose.yaml":  composeYAML,
		"data/keep.txt": "x",
	})

	rec := env.do(t, http.MethodGet, "/api/system/files?path="+dir, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Path    string  `json:"path"`
		Parent  *string `json:"parent"`
		Entries []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"entries"`
	}
	require.NoError(t, testutil.DecodeJSON(rec.Body, &listing))
	require.Len(t, listing.Entries, 2)
	assert.Equal(t, "data", listing.Entries[0].Name)
	assert.Equal(t, "directory", listing.Entries[0].Type)
	require.NotNil(t, listing.Parent)

	rec = env.do(t, http.MethodGet, "/api/system/files/content?path="+filepath.Join(dir, "compose.yaml"), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nginx")

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"missing path param", "/api/system/files/content", http.StatusBadRequest, "INVALID_PATH"},
		{"file not found", "/api/system/files/content?path=" + filepath.Join(dir, "nope"), http.StatusNotFound, "NOT_FOUND"},
		{"read a directory", "/api/system/files/content?path=" + dir, http.StatusBadRequest, "IS_A_DIRECTORY"},
		{"list a file", "/api/system/files?path=" + filepath.Join(dir, "compose.yaml"), http.StatusBadRequest, "NOT_A_DIRECTORY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.target, nil, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestHandleExternalPaths(t *testing.T) {
	env := newTestEnv(t, "")
	dir := t.TempDir()

	rec := env.do(t, http.MethodPost, "/api/settings/external-paths", PathRequest{Path: dir}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/settings/external-paths", PathRequest{Path: dir}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "OVERLAP_CONFLICT", decodeError(t, rec).Code)

	rec = env.do(t, http.MethodGet, "/api/settings/external-paths", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list ExternalPathsResponse
	require.NoError(t, testutil.DecodeJSON(rec.Body, &list))
	assert.Equal(t, []operations.ExternalPathInfo{{Path: dir, Source: "database"}}, list.Paths)

	rec = env.do(t, http.MethodDelete, "/api/settings/external-paths?path="+dir, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/settings/external-paths?path="+dir, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthorization(t *testing.T) {
	const token = "s3cret"
	env := newTestEnv(t, token)

	tests := []struct {
		name   string
		method string
		target string
		token  string
		status int
	}{
		{"base path is public", http.MethodGet, "/api/stacks/base-path", "", http.StatusOK},
		{"path hints need a session", http.MethodGet, "/api/stacks/path-hints?name=web", "", http.StatusUnauthorized},
		{"path hints with token", http.MethodGet, "/api/stacks/path-hints?name=web", token, http.StatusOK},
		{"scan without token", http.MethodPost, "/api/stacks/scan", "", http.StatusForbidden},
		{"scan with wrong token", http.MethodPost, "/api/stacks/scan", "nope", http.StatusForbidden},
		{"scan with token", http.MethodPost, "/api/stacks/scan", token, http.StatusOK},
		{"files without token", http.MethodGet, "/api/system/files?path=/", "", http.StatusForbidden},
		{"settings without token", http.MethodGet, "/api/settings/external-paths", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.target, nil, tt.token)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestTokenAuthorizer(t *testing.T) {
	e := echo.New()
	newCtx := func(header string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	disabled := NewTokenAuthorizer("").Authorize(newCtx(""))
	assert.False(t, disabled.AuthEnabled)
	assert.True(t, disabled.Can("stacks", "edit"))

	authz := NewTokenAuthorizer("abc")
	ok := authz.Authorize(newCtx("Bearer abc"))
	assert.True(t, ok.IsAuthenticated)
	assert.True(t, ok.Can("settings", "edit"))

	for _, header := range []string{"", "abc", "Bearer abcd", "Basic abc"} {
		ac := authz.Authorize(newCtx(header))
		assert.True(t, ac.AuthEnabled)
		assert.False(t, ac.IsAuthenticated, header)
		assert.False(t, ac.Can("stacks", "create"), header)
	}
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(echo.NewHTTPError(http.StatusNotFound, "route not found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "route not found", resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestConfigFromGlobal(t *testing.T) {
	g := config.DefaultGlobalConfig()
	g.Server.Host = "0.0.0.0"
	g.Server.Port = 9443
	g.Server.TLSCertFile = "/etc/stackhand/cert.pem"
	g.Server.TLSKeyFile = "/etc/stackhand/key.pem"

	cfg := ConfigFromGlobal(g)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9443, cfg.Port)
	assert.Equal(t, "/etc/stackhand/cert.pem", cfg.TLSCertFile)
	assert.True(t, strings.HasSuffix(cfg.TLSKeyFile, "key.pem"))
}
