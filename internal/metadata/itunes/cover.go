package itunes

import "regexp"

// ArtworkSize is the size requested from the iTunes artwork CDN.
// iTunes serves the largest available size up to this.
const ArtworkSize = "600x600bb.jpg"

// sizePattern matches iTunes artwork size patterns like "100x100bb.jpg"
var sizePattern = regexp.MustCompile(`/\d+x\d+bb\.jpg$`)

// ArtworkURL rewrites an iTunes artwork URL to request ArtworkSize.
func ArtworkURL(url string) string {
	if url == "" {
		return ""
	}
	return sizePattern.ReplaceAllString(url, "/"+ArtworkSize)
}
