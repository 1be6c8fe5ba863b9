package sanity

import (
	"fmt"
	"strings"
)

// ImageURL resolves an image asset reference of the form
// "image-<assetID>-<width>x<height>-<format>" to a fetchable CDN URL:
//
//	https://cdn.sanity.io/images/<project>/<dataset>/<assetID>-<width>x<height>.<format>
//
// Asset serving is delegated entirely to the store's CDN; no image bytes
// pass through this application.
func (c *Client) ImageURL(ref string) (string, error) {
	parts := strings.Split(ref, "-")
	if len(parts) != 4 || parts[0] != "image" {
		return "", fmt.Errorf("malformed image asset ref %q", ref)
	}
	assetID, dimensions, format := parts[1], parts[2], parts[3]
	if assetID == "" || !strings.Contains(dimensions, "x") || format == "" {
		return "", fmt.Errorf("malformed image asset ref %q", ref)
	}
	return fmt.Sprintf("https://cdn.sanity.io/images/%s/%s/%s-%s.%s",
		c.config.ProjectID, c.config.Dataset, assetID, dimensions, format), nil
}
