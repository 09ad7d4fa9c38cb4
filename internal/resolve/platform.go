package resolve

import "strings"

type (
	// Platform is the social media platform a URL appears to belong to. It
	// is informational only and does not alter how a URL is resolved.
	Platform string

	platformRule struct {
		domains  []string
		platform Platform
	}
)

const (
	Instagram       Platform = "instagram"
	Facebook        Platform = "facebook"
	TikTok          Platform = "tiktok"
	YouTube         Platform = "youtube"
	Twitter         Platform = "twitter"
	UnknownPlatform Platform = "unknown"
)

// platformRules are evaluated in order against the whole lower-cased URL, so
// 'https://notinstagram.com' is detected as Instagram.
var platformRules = []platformRule{
	{domains: []string{"instagram.com"}, platform: Instagram},
	{domains: []string{"facebook.com", "fb.com"}, platform: Facebook},
	{domains: []string{"tiktok.com"}, platform: TikTok},
	{domains: []string{"youtube.com", "youtu.be"}, platform: YouTube},
	{domains: []string{"twitter.com", "x.com"}, platform: Twitter},
}

// DetectPlatform returns the first platform whose domains appear anywhere
// in the URL provided, or UnknownPlatform.
func DetectPlatform(url string) Platform {
	lowered := strings.ToLower(url)
	for _, rule := range platformRules {
		for _, domain := range rule.domains {
			if strings.Contains(lowered, domain) {
				return rule.platform
			}
		}
	}

	return UnknownPlatform
}
