package export

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSheetNamer(t *testing.T) {
	n := newSheetNamer()

	assert.Equal(t, "Q1", n.next("Q1"))
	assert.Equal(t, "Q1_1", n.next("Q1"))
	assert.Equal(t, "Q1_2", n.next("Q1"))
	assert.Equal(t, "a_b_c_d_e_f_g_", n.next(`a\b/c*d?e:f[g]`))
	assert.Equal(t, "Chart", n.next(""))
	assert.Equal(t, "Chart_1", n.next("''"))
	assert.Equal(t, "quoted", n.next("'quoted'"))
}

func TestSheetNamer_Length(t *testing.T) {
	n := newSheetNamer()
	title := strings.Repeat("Revenue by region ", 4)

	first := n.next(title)
	assert.Equal(t, 28, utf8.RuneCountInString(first))

	for i := 0; i < 150; i++ {
		name := n.next(title)
		assert.LessOrEqual(t, utf8.RuneCountInString(name), maxSheetName, name)
	}
}

func TestSheetNamer_MultiByte(t *testing.T) {
	n := newSheetNamer()
	name := n.next(strings.Repeat("数据", 20))
	assert.Equal(t, 28, utf8.RuneCountInString(name))
	assert.True(t, utf8.ValidString(name))
}
