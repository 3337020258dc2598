package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "Acme Ltda", Text("  <b>Acme</b> Ltda "))
	assert.Equal(t, "", Text("<script>alert(1)</script>"))
	assert.Equal(t, "plain", Text("plain\x00"))
	assert.Equal(t, "Pérez & Cía", Text("Pérez & Cía"))
}

func TestOptionalText(t *testing.T) {
	assert.Nil(t, OptionalText(nil))

	blank := "  <i></i> "
	assert.Nil(t, OptionalText(&blank))

	v := "Santiago"
	got := OptionalText(&v)
	if assert.NotNil(t, got) {
		assert.Equal(t, "Santiago", *got)
	}
}
