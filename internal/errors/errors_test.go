package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "tree error",
			code:    "E101",
			wantMsg: "Child index out of range",
			wantCat: CategoryTree,
		},
		{
			name:    "config error",
			code:    "E202",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "script error",
			code:    "E303",
			wantMsg: "Unknown script operation",
			wantCat: CategoryScript,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("E101")
	if got := err.Error(); got != "E101: Child index out of range" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := New("E301").Wrap(fmt.Errorf("open x.yaml: no such file"))
	if !strings.HasSuffix(wrapped.Error(), ": open x.yaml: no such file") {
		t.Errorf("Error() = %q, want wrapped cause suffix", wrapped.Error())
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("replay: %w", New("E303"))

	if !HasCode(err, "E303") {
		t.Error("HasCode(E303) = false, want true")
	}
	if HasCode(err, "E101") {
		t.Error("HasCode(E101) = true, want false")
	}
	if HasCode(stderrors.New("plain"), "E303") {
		t.Error("HasCode on plain error = true")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E202") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E101")
	if got := FromError(fmt.Errorf("ctx: %w", orig), "E202"); got != orig {
		t.Error("FromError should return the existing *Error from the chain")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "E202")
	if got.Code != "E202" || !stderrors.Is(got, plain) {
		t.Errorf("FromError(plain) = %v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E101").WithSuggestion("insert siblings in index order")
	out := err.Format()

	for _, want := range []string{"ERROR E101: Child index out of range", "Hint: insert siblings in index order"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q longer than 20", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}
