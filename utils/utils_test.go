package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold tag", "<b>hi</b> there", "hi there"},
		{"plain text untouched", "  plain  ", "plain"},
		{"nested markup", "<p>Fixed in <a href=\"x\">PR</a></p>", "Fixed in PR"},
		{"entities decoded", "fish &amp; chips", "fish & chips"},
		{"empty", "", ""},
		{"blocks and breaks keep words apart", "<p>one</p><p>two</p>line<br>break", "one\ntwo\nline\nbreak"},
		{"list items", "<ul><li>first</li><li>second</li></ul>", "first\nsecond"},
		{"inline markup stays on one line", "<div>see <i>this</i> <code>x</code></div>", "see this x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.input))
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc…", Truncate("abcdef", 4))
}

func TestAssertInvariant(t *testing.T) {
	assert.NotPanics(t, func() { AssertInvariant(true, "ok") })
	assert.PanicsWithValue(t, "invariant violated - boom", func() { AssertInvariant(false, "boom") })
}
