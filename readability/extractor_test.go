package readability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsnare"
	"docsnare/readability"
)

// Ensure Extractor implements docsnare.Extractor at compile time.
var _ docsnare.Extractor = (*readability.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts article content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Permit Renewal Notice</title></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>Permit Renewal Notice</h1>
<p>All operating permits issued before January must be renewed within ninety days.
Applications received after the deadline are treated as new submissions and
reviewed under the current standard.</p>
<p>Renewal forms are available at the district office or through the portal.</p>
</article>
<footer>Contact us</footer>
</body>
</html>`

		ext := readability.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Permit Renewal Notice", result.Title)
		assert.Contains(t, result.ContentHTML, "renewed within ninety days")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		ext := readability.NewExtractor()
		_, err := ext.Extract("")

		require.Error(t, err)
		assert.Equal(t, docsnare.EINVALID, docsnare.ErrorCode(err))
	})
}
