package slides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/chart-extractor/internal/testutil"
)

func TestRead_PicturesPerSlide(t *testing.T) {
	first := testutil.PNG(4, 4)
	second := testutil.PNG(8, 8)
	deck := testutil.PPTX([][][]byte{
		{first, second},
		nil,
	}, nil)

	slides, err := Read(deck)
	require.NoError(t, err)
	require.Len(t, slides, 2)

	assert.Equal(t, 1, slides[0].Number)
	require.Len(t, slides[0].Pictures, 2)
	assert.Equal(t, first, slides[0].Pictures[0].Data)
	assert.Equal(t, "ppt/media/image1.png", slides[0].Pictures[0].Name)
	assert.Equal(t, second, slides[0].Pictures[1].Data)

	assert.Equal(t, 2, slides[1].Number)
	assert.Empty(t, slides[1].Pictures)
}

func TestRead_FollowsPresentationOrder(t *testing.T) {
	a := testutil.PNG(2, 2)
	b := testutil.PNG(3, 3)
	deck := testutil.PPTX([][][]byte{{a}, {b}}, []int{2, 1})

	slides, err := Read(deck)
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, b, slides[0].Pictures[0].Data)
	assert.Equal(t, a, slides[1].Pictures[0].Data)
}

func TestRead_NotAnArchive(t *testing.T) {
	_, err := Read([]byte("not a zip"))
	assert.Error(t, err)
}

func TestResolveTarget(t *testing.T) {
	assert.Equal(t, "ppt/media/image1.png", resolveTarget("ppt/slides/slide1.xml", "../media/image1.png"))
	assert.Equal(t, "ppt/slides/slide2.xml", resolveTarget("ppt/presentation.xml", "slides/slide2.xml"))
	assert.Equal(t, "ppt/media/x.png", resolveTarget("ppt/slides/slide1.xml", "/ppt/media/x.png"))
	assert.Equal(t, "ppt/slides/_rels/slide1.xml.rels", relsPathFor("ppt/slides/slide1.xml"))
}
