package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestResolver() *Resolver {
	return NewResolver([]string{"en", "vi"})
}

func TestResolve(t *testing.T) {
	r := newTestResolver()

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"exact match", "en", "en"},
		{"regional variant maps to base", "en-GB", "en"},
		{"weighted list picks best supported", "fr;q=0.9, en;q=0.8", "en"},
		{"vietnamese exact", "vi", "vi"},
		{"vietnamese regional", "vi-VN,en;q=0.9", "vi"},
		{"no supported language falls back", "fr-CA, de;q=0.8", "en"},
		{"empty header falls back", "", "en"},
		{"malformed header falls back", ";;;not a header;;;", "en"},
		{"wildcard falls back", "*", "en"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Resolve(tc.header))
		})
	}
}

// Vietnamese wins whenever it appears, regardless of the q-values the
// browser sent — the deliberate priority override.
func TestResolve_VietnamesePriority(t *testing.T) {
	r := newTestResolver()

	cases := []string{
		"en;q=1.0, vi;q=0.1",
		"fr, en, vi;q=0.01",
		"vi;q=0.2, en-US;q=0.9, en;q=0.8",
		"de;q=0.9, vi-VN;q=0.1",
	}

	for _, header := range cases {
		assert.Equal(t, "vi", r.Resolve(header), "header %q should resolve to vi", header)
	}
}

func TestResolve_AlwaysReturnsSupportedLocale(t *testing.T) {
	r := newTestResolver()

	headers := []string{"", "zz", "ja,ko;q=0.9", "garbage;;;", "en-US,fr;q=0.5", "vi"}
	for _, header := range headers {
		got := r.Resolve(header)
		assert.True(t, r.Supported(got), "Resolve(%q) = %q is not a supported locale", header, got)
	}
}

func TestNewResolver_FirstEntryIsDefault(t *testing.T) {
	r := NewResolver([]string{"vi", "en"})

	assert.Equal(t, "vi", r.Default())
	assert.Equal(t, "vi", r.Resolve(""), "the fallback must be the first supported locale")
}

func TestNewResolver_SkipsUnparseableEntries(t *testing.T) {
	r := NewResolver([]string{"en", "!!not-a-tag!!", "vi"})

	assert.True(t, r.Supported("en"))
	assert.True(t, r.Supported("vi"))
	assert.False(t, r.Supported("!!not-a-tag!!"))
}

func TestNewResolver_EmptyConfigFallsBackToEnglish(t *testing.T) {
	r := NewResolver(nil)

	assert.Equal(t, "en", r.Default())
	assert.Equal(t, "en", r.Resolve("fr"))
}

func TestSupported(t *testing.T) {
	r := newTestResolver()

	assert.True(t, r.Supported("en"))
	assert.True(t, r.Supported("vi"))
	assert.False(t, r.Supported("fr"))
	assert.False(t, r.Supported("english"))
	assert.False(t, r.Supported(""))
}
