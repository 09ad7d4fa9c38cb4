package resolve_test

import (
	"testing"

	"github.com/hbomb79/mediagrab/internal/resolve"
	"github.com/stretchr/testify/assert"
)

func Test_ValidateURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://example.com/video", true},
		{"http://example.com", true},
		{"https://example.com/", true},
		{"HTTPS://EXAMPLE.COM/VIDEO", true},
		{"https://www.tiktok.com/@a/video/123?lang=en", true},
		{"https://example.com?x=1", true},
		{"https://example.com.", true},
		{"http://localhost", true},
		{"http://localhost:5000/download", true},
		{"http://192.168.1.1:8080/x", true},
		{"http://999.999.999.999", true}, // octets are not range checked
		{"https://sub-domain.example.co.uk/p", true},
		{"ftp://example.com", false},
		{"not a url", false},
		{"example.com", false},
		{"https://", false},
		{"https://-bad.com", false},
		{"https://bad-.com", false},
		{"https://example.c", false},
		{"https://example.com/with space", false},
		{"https://example", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.valid, resolve.ValidateURL(tt.url))
		})
	}
}

func Test_DetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		platform resolve.Platform
	}{
		{"https://www.instagram.com/p/abc", resolve.Instagram},
		{"https://notinstagram.com/x", resolve.Instagram},
		{"https://facebook.com/watch?v=1", resolve.Facebook},
		{"https://fb.com/1", resolve.Facebook},
		{"https://www.TikTok.com/@a/video/1", resolve.TikTok},
		{"https://youtube.com/watch?v=1", resolve.YouTube},
		{"https://youtu.be/1", resolve.YouTube},
		{"https://twitter.com/a/status/1", resolve.Twitter},
		{"https://x.com/a/status/1", resolve.Twitter},
		{"https://vimeo.com/1", resolve.UnknownPlatform},
		// Precedence: earlier rules win when several domains appear
		{"https://instagram.com/?ref=tiktok.com", resolve.Instagram},
		{"https://tiktok.com/?ref=youtube.com", resolve.TikTok},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.platform, resolve.DetectPlatform(tt.url))
		})
	}
}
