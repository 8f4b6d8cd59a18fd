package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pocketlist/pocketlist/internal/gateway"
	"github.com/pocketlist/pocketlist/internal/models"
)

// =============================================================================
// Exit Codes Tests
// =============================================================================

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{CodeUsage, ExitUsage},
		{CodeNotFound, ExitNotFound},
		{CodeAuth, ExitAuth},
		{CodeForbidden, ExitForbidden},
		{CodeNetwork, ExitNetwork},
		{CodeAPI, ExitAPI},
		{"unknown_code", ExitAPI}, // Unknown codes default to ExitAPI
		{"", ExitAPI},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := ExitCodeFor(tt.code); got != tt.expected {
				t.Errorf("ExitCodeFor(%q) = %d, want %d", tt.code, got, tt.expected)
			}
		})
	}
}

// =============================================================================
// Error Tests
// =============================================================================

func TestErrorInterface(t *testing.T) {
	e := &Error{Code: CodeUsage, Message: "bad flag"}
	if e.Error() != "bad flag" {
		t.Errorf("Error() = %q, want %q", e.Error(), "bad flag")
	}

	e.Hint = "try --help"
	if e.Error() != "bad flag: try --help" {
		t.Errorf("Error() = %q, want %q", e.Error(), "bad flag: try --help")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	e := ErrNetwork(cause)

	if !errors.Is(e, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !e.Retryable {
		t.Error("network errors should be retryable")
	}
	if e.ExitCode() != ExitNetwork {
		t.Errorf("ExitCode() = %d, want %d", e.ExitCode(), ExitNetwork)
	}
}

func TestErrAuth(t *testing.T) {
	e := ErrAuth("Not logged in")
	if e.Code != CodeAuth {
		t.Errorf("Code = %q, want %q", e.Code, CodeAuth)
	}
	if !strings.Contains(e.Hint, "pocketlist auth login") {
		t.Errorf("Hint = %q, want login instruction", e.Hint)
	}
}

func TestErrNotFound(t *testing.T) {
	e := ErrNotFound("photo", "abc_todoPhoto.jpg")
	if e.Message != "photo not found: abc_todoPhoto.jpg" {
		t.Errorf("Message = %q", e.Message)
	}
	if e.ExitCode() != ExitNotFound {
		t.Errorf("ExitCode() = %d, want %d", e.ExitCode(), ExitNotFound)
	}
}

func TestAsErrorWithOutputError(t *testing.T) {
	original := ErrUsage("bad")
	wrapped := fmt.Errorf("running add: %w", original)

	if got := AsError(wrapped); got != original {
		t.Errorf("AsError should return the wrapped *Error, got %#v", got)
	}
}

func TestAsErrorMapsGatewayErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"not found", fmt.Errorf("read photo: %w", gateway.ErrNotFound), CodeNotFound},
		{"access level", fmt.Errorf("write: %w", gateway.ErrUnsupportedAccessLevel), CodeForbidden},
		{"invalid key", fmt.Errorf("write: %w", gateway.ErrInvalidKey), CodeUsage},
		{"deadline", fmt.Errorf("list: %w", context.DeadlineExceeded), CodeNetwork},
		{"other", errors.New("boom"), CodeAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := AsError(tt.err)
			if e.Code != tt.code {
				t.Errorf("Code = %q, want %q", e.Code, tt.code)
			}
			if !errors.Is(e, tt.err) && e.Cause != tt.err {
				t.Errorf("Cause should be preserved")
			}
		})
	}
}

// =============================================================================
// Writer Tests
// =============================================================================

func TestWriterOK(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatJSON, Writer: &buf})

	items := []models.Item{{ID: "1", Name: "Milk"}}
	if err := w.OK(items, WithSummary("1 todo")); err != nil {
		t.Fatalf("OK() failed: %v", err)
	}

	var resp struct {
		OK      bool          `json:"ok"`
		Data    []models.Item `json:"data"`
		Summary string        `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal output: %v", err)
	}

	if !resp.OK {
		t.Error("OK field should be true")
	}
	if resp.Summary != "1 todo" {
		t.Errorf("Summary = %q, want %q", resp.Summary, "1 todo")
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Milk" {
		t.Errorf("Data = %+v", resp.Data)
	}
}

func TestWriterErr(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatJSON, Writer: &buf})

	if err := w.Err(ErrAuth("Not logged in")); err != nil {
		t.Fatalf("Err() failed: %v", err)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal output: %v", err)
	}

	if resp.OK {
		t.Error("OK field should be false")
	}
	if resp.Code != CodeAuth {
		t.Errorf("Code = %q, want %q", resp.Code, CodeAuth)
	}
	if resp.Hint == "" {
		t.Error("Hint should be set")
	}
}

func TestWriterQuietFormat(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatQuiet, Writer: &buf})

	if err := w.OK(map[string]string{"name": "Milk"}, WithSummary("ignored")); err != nil {
		t.Fatalf("OK() failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "summary") || strings.Contains(out, `"ok"`) {
		t.Errorf("quiet output should contain data only, got: %s", out)
	}
	if !strings.Contains(out, "Milk") {
		t.Errorf("quiet output missing data, got: %s", out)
	}
}

func TestWriterYAMLFormat(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatYAML, Writer: &buf})

	items := []models.Item{{Name: "Milk", Image: "a_todoPhoto.jpg"}}
	if err := w.OK(items, WithSummary("1 todo")); err != nil {
		t.Fatalf("OK() failed: %v", err)
	}

	var resp map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v\n%s", err, buf.String())
	}
	if resp["ok"] != true {
		t.Errorf("ok = %v, want true", resp["ok"])
	}
	data, ok := resp["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("data = %#v", resp["data"])
	}
	first := data[0].(map[string]any)
	if first["image"] != "a_todoPhoto.jpg" {
		t.Errorf("image = %v", first["image"])
	}
	if _, hasID := first["id"]; hasID {
		t.Error("empty id should be omitted, matching the JSON shape")
	}
}

func TestWriterJQFilter(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatJSON, Writer: &buf, JQ: "[.[].name]"})

	items := []models.Item{{Name: "Milk"}, {Name: "Eggs"}}
	if err := w.OK(items); err != nil {
		t.Fatalf("OK() failed: %v", err)
	}

	var resp struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal output: %v", err)
	}
	if strings.Join(resp.Data, ",") != "Milk,Eggs" {
		t.Errorf("Data = %v, want [Milk Eggs]", resp.Data)
	}
}

func TestWriterJQInvalidExpression(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatJSON, Writer: &buf, JQ: ".[["})

	err := w.OK([]string{"a"})
	if err == nil {
		t.Fatal("expected error for invalid jq expression")
	}
	if AsError(err).Code != CodeUsage {
		t.Errorf("Code = %q, want %q", AsError(err).Code, CodeUsage)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on jq error")
	}
}

func TestApplyJQMultipleResults(t *testing.T) {
	got, err := ApplyJQ(".[]", []any{1, 2})
	if err != nil {
		t.Fatalf("ApplyJQ failed: %v", err)
	}
	results, ok := got.([]any)
	if !ok || len(results) != 2 {
		t.Errorf("got %#v, want two results", got)
	}
}

func TestWriterStyledEmitsANSI(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{
		Format: FormatStyled,
		Writer: &buf, // bytes.Buffer is not a TTY, but FormatStyled forces ANSI
	})

	if err := w.Err(ErrNotFound("photo", "123")); err != nil {
		t.Fatalf("Err() failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Error:") {
		t.Errorf("Styled output should contain 'Error:', got: %s", output)
	}
}

func TestWriterStyledTable(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatStyled, Writer: &buf})

	items := []models.Item{
		{ID: "1", Name: "Milk", Description: "two liters"},
		{Name: "Eggs"},
	}
	if err := w.OK(items, WithSummary(Count(2, "todo", "todos"))); err != nil {
		t.Fatalf("OK() failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"2 todos", "Name", "Description", "Milk", "Eggs", "two liters"} {
		if !strings.Contains(out, want) {
			t.Errorf("styled output missing %q:\n%s", want, out)
		}
	}
}

func TestWriterStyledEmptyList(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Format: FormatStyled, Writer: &buf})

	if err := w.OK([]models.Item{}); err != nil {
		t.Fatalf("OK() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "(no todos)") {
		t.Errorf("expected empty marker, got: %s", buf.String())
	}
}

func TestNewWithNilWriter(t *testing.T) {
	w := New(Options{Format: FormatJSON})
	if w.opts.Writer == nil {
		t.Error("Writer should default to stdout")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":       FormatAuto,
		"auto":   FormatAuto,
		"json":   FormatJSON,
		"yaml":   FormatYAML,
		"styled": FormatStyled,
		"quiet":  FormatQuiet,
	} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

// =============================================================================
// Helpers
// =============================================================================

func TestCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 todos"},
		{1, "1 todo"},
		{2, "2 todos"},
		{12345, "12,345 todos"},
	}
	for _, tt := range tests {
		if got := Count(tt.n, "todo", "todos"); got != tt.want {
			t.Errorf("Count(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestNormalizeDataWithStruct(t *testing.T) {
	data := NormalizeData([]models.Item{{ID: "1", Name: "Milk"}})
	maps, ok := data.([]map[string]any)
	if !ok {
		t.Fatalf("expected []map[string]any, got %T", data)
	}
	if maps[0]["name"] != "Milk" {
		t.Errorf("name = %v", maps[0]["name"])
	}
}

func TestNormalizeDataWithJSONRawMessage(t *testing.T) {
	data := NormalizeData(json.RawMessage(`[{"id":"1"}]`))
	if _, ok := data.([]map[string]any); !ok {
		t.Errorf("expected []map[string]any, got %T", data)
	}
}

func TestFormatCellTruncatesWide(t *testing.T) {
	long := strings.Repeat("写", 30) // 60 columns
	got := formatCell(long)
	if w := len([]rune(got)); w >= 30 {
		t.Errorf("expected truncation, got %d runes", w)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got)
	}
}

func TestFormatCellFirstLineOnly(t *testing.T) {
	if got := formatCell("line one\nline two"); got != "line one …" {
		t.Errorf("formatCell = %q", got)
	}
}

func TestImageLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"1718_todoPhoto.jpg", "1718_todoPhoto.jpg"},
		{"file:///data/photos/a.png", "a.png"},
		{"https://bucket.example/k/b.jpg?X-Amz-Expires=3600", "b.jpg"},
	}
	for _, tt := range tests {
		if got := imageLabel(tt.in); got != tt.want {
			t.Errorf("imageLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
