package sanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageURL(t *testing.T) {
	c := New(Config{ProjectID: "abc123", Dataset: "production"})

	url, err := c.ImageURL("image-f9a01b37c2-1200x800-jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.sanity.io/images/abc123/production/f9a01b37c2-1200x800.jpg", url)
}

func TestImageURLMalformedRef(t *testing.T) {
	c := New(Config{ProjectID: "abc123", Dataset: "production"})

	for _, ref := range []string{
		"",
		"image-f9a01b37c2-jpg",
		"file-f9a01b37c2-1200x800-jpg",
		"image-f9a01b37c2-noDims-jpg",
		"not-even-close",
	} {
		_, err := c.ImageURL(ref)
		assert.Error(t, err, "ref %q should be rejected", ref)
	}
}
