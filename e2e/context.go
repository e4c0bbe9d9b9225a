package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TestContext carries one scenario's identities, saved values and last response.
type TestContext struct {
	BaseURL    string
	HTTPClient *http.Client

	signingKey []byte
	issuer     string
	audience   string
	location   *time.Location

	identities map[string]identity
	current    string
	saved      map[string]string

	LastStatus int
	LastBody   []byte
}

type identity struct {
	userID string
	token  string
}

// NewTestContext reads MOODLOG_E2E_BASE_URL and the same JWT settings the server uses.
func NewTestContext() *TestContext {
	loc, err := time.LoadLocation(envOr("MOODLOG_TIMEZONE", "UTC"))
	if err != nil {
		loc = time.UTC
	}
	return &TestContext{
		BaseURL:    strings.TrimRight(envOr("MOODLOG_E2E_BASE_URL", "http://localhost:8080"), "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		signingKey: []byte(envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production")),
		issuer:     envOr("JWT_ISSUER", "moodlog-identity"),
		audience:   envOr("JWT_AUDIENCE", "moodlog"),
		location:   loc,
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.identities = make(map[string]identity)
	tc.saved = make(map[string]string)
	tc.current = ""
	tc.LastStatus = 0
	tc.LastBody = nil
}

// ActAs switches the caller to alias, minting a fresh user and token the first time.
func (tc *TestContext) ActAs(alias, role string) error {
	if _, ok := tc.identities[alias]; !ok {
		userID := uuid.NewString()
		now := time.Now()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": userID,
			"role":    role,
			"iss":     tc.issuer,
			"aud":     []string{tc.audience},
			"iat":     now.Unix(),
			"exp":     now.Add(time.Hour).Unix(),
			"jti":     uuid.NewString(),
		}).SignedString(tc.signingKey)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		tc.identities[alias] = identity{userID: userID, token: token}
	}
	tc.current = alias
	return nil
}

func (tc *TestContext) UserID(alias string) (string, error) {
	ident, ok := tc.identities[alias]
	if !ok {
		return "", fmt.Errorf("unknown identity %q", alias)
	}
	return ident.userID, nil
}

func (tc *TestContext) Save(key, value string) {
	tc.saved[key] = value
}

// Expand replaces {{name}}, {{id:alias}} and {{today}} / {{today-N}} placeholders.
func (tc *TestContext) Expand(s string) (string, error) {
	var out strings.Builder
	for {
		start := strings.Index(s, "{{")
		if start < 0 {
			out.WriteString(s)
			return out.String(), nil
		}
		end := strings.Index(s[start:], "}}")
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in %q", s)
		}
		out.WriteString(s[:start])
		value, err := tc.resolve(strings.TrimSpace(s[start+2 : start+end]))
		if err != nil {
			return "", err
		}
		out.WriteString(value)
		s = s[start+end+2:]
	}
}

func (tc *TestContext) resolve(name string) (string, error) {
	if alias, ok := strings.CutPrefix(name, "id:"); ok {
		return tc.UserID(alias)
	}
	if rest, ok := strings.CutPrefix(name, "today"); ok {
		offset := 0
		if rest != "" {
			n, err := strconv.Atoi(rest)
			if err != nil {
				return "", fmt.Errorf("bad date offset %q", name)
			}
			offset = n
		}
		return time.Now().In(tc.location).AddDate(0, 0, offset).Format(time.DateOnly), nil
	}
	if v, ok := tc.saved[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("nothing saved as %q", name)
}

func (tc *TestContext) Do(ctx context.Context, method, path, body string) error {
	path, err := tc.Expand(path)
	if err != nil {
		return err
	}
	var reader io.Reader
	if body != "" {
		expanded, err := tc.Expand(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBufferString(expanded)
	}
	req, err := http.NewRequestWithContext(ctx, method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ident, ok := tc.identities[tc.current]; ok {
		req.Header.Set("Authorization", "Bearer "+ident.token)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	tc.LastStatus = resp.StatusCode
	tc.LastBody, err = io.ReadAll(resp.Body)
	return err
}

// Field walks a dotted path such as "assignments.0.id" through the last JSON body.
func (tc *TestContext) Field(path string) (any, error) {
	var cur any
	if err := json.Unmarshal(tc.LastBody, &cur); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in %s", path, tc.LastBody)
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, path)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q", path)
		}
	}
	return cur, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (tc *TestContext) Status() int {
	return tc.LastStatus
}

func (tc *TestContext) Body() string {
	return string(tc.LastBody)
}
