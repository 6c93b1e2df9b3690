package link

import "net/url"

// qrEndpoint is the external image generation service used by the
// admin listing. QR rendering is never done in-process.
const qrEndpoint = "https://api.qrserver.com/v1/create-qr-code/"

// QRImageURL returns the image URL encoding the given short URL, or
// "" when there is no short URL to encode.
func QRImageURL(shortURL string) string {
	if shortURL == "" {
		return ""
	}

	q := url.Values{}
	q.Set("size", "140x140")
	q.Set("data", shortURL)

	return qrEndpoint + "?" + q.Encode()
}
