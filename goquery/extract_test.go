package goquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsnare"
	"docsnare/goquery"
)

func TestExtract_DocumentOrder(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a href="/2024">2024</a>
		<a href="/2023">2023</a>
		<a href="/2022">2022</a>
	</body></html>`

	set, err := goquery.NewExtractor().Extract(html)
	require.NoError(t, err)

	links := set.Links()
	require.Len(t, links, 3)
	assert.Equal(t, "/2024", links[0].Href)
	assert.Equal(t, "/2023", links[1].Href)
	assert.Equal(t, "/2022", links[2].Href)
}

func TestExtract_FirstWinsOnDuplicateHref(t *testing.T) {
	t.Parallel()

	html := `<a href="/a">A</a><a href="/a">A2</a>`

	set, err := goquery.NewExtractor().Extract(html)
	require.NoError(t, err)

	links := set.Links()
	require.Len(t, links, 1)
	assert.Equal(t, "/a", links[0].Href)
	assert.Equal(t, "A", links[0].Text)
}

func TestExtract_OptionalMetadata(t *testing.T) {
	t.Parallel()

	html := `<a href="/report.pdf" title="Annual report" aria-label="Download report"
		rel="noopener" target="_blank" class=" btn  btn-download ">Report</a>
		<a href="/plain">Plain</a>`

	set, err := goquery.NewExtractor().Extract(html)
	require.NoError(t, err)

	links := set.Links()
	require.Len(t, links, 2)

	rich := links[0]
	assert.Equal(t, "Annual report", rich.Title)
	assert.Equal(t, "Download report", rich.AriaLabel)
	assert.Equal(t, "noopener", rich.Rel)
	assert.Equal(t, "_blank", rich.Target)
	assert.Equal(t, []string{"btn", "btn-download"}, rich.Classes)

	plain := links[1]
	assert.Empty(t, plain.Title)
	assert.Empty(t, plain.AriaLabel)
	assert.Nil(t, plain.Classes)
}

func TestExtract_HrefAsFound(t *testing.T) {
	t.Parallel()

	// No normalization: relative paths, query-only refs and absolute URLs
	// are all recorded literally.
	html := `<a href="?id=99">query only</a>
		<a href="../up/one">relative</a>
		<a href="https://example.com/abs">absolute</a>`

	set, err := goquery.NewExtractor().Extract(html)
	require.NoError(t, err)

	links := set.Links()
	require.Len(t, links, 3)
	assert.Equal(t, "?id=99", links[0].Href)
	assert.Equal(t, "../up/one", links[1].Href)
	assert.Equal(t, "https://example.com/abs", links[2].Href)
}

func TestExtract_SkipsEmptyHref(t *testing.T) {
	t.Parallel()

	html := `<a href="">empty</a><a name="anchor">no href</a><a href="/ok">ok</a>`

	set, err := goquery.NewExtractor().Extract(html)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	html := `<a href="/a" class="x y">A</a><a href="/b">B</a><a href="/a">dup</a>`

	e := goquery.NewExtractor()
	first, err := e.Extract(html)
	require.NoError(t, err)
	second, err := e.Extract(html)
	require.NoError(t, err)

	assert.Equal(t, first.Links(), second.Links())
}

func TestExtract_ImplementsLinkExtractor(t *testing.T) {
	t.Parallel()

	var _ docsnare.LinkExtractor = goquery.NewExtractor()
}
