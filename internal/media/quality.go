package media

import (
	"fmt"
	"strings"
)

type (
	// Tier is one of the canonical quality buckets a video
	// Item can be presented under.
	Tier string

	// QualityMap holds at most one video Item per Tier. Tiers
	// which received no item are absent from the map.
	QualityMap map[Tier]Item

	// qualityRule assigns a Tier to any quality label which
	// contains at least one of the keywords.
	qualityRule struct {
		keywords []string
		tier     Tier
	}
)

const (
	Tier380p  Tier = "380p"
	Tier720p  Tier = "720p"
	Tier1080p Tier = "1080p"
)

// tierOrder is the order in which unclassified items fill empty tiers.
var tierOrder = []Tier{Tier380p, Tier720p, Tier1080p}

// qualityRules are evaluated in order; the first rule with a matching keyword
// decides the tier. Note that 'no_watermark' must be tested before 'watermark'.
var qualityRules = []qualityRule{
	{keywords: []string{"hd_no_watermark", "1080", "high"}, tier: Tier1080p},
	{keywords: []string{"720", "medium", "no_watermark"}, tier: Tier720p},
	{keywords: []string{"380", "480", "low", "watermark"}, tier: Tier380p},
}

func (rule qualityRule) matches(label string) bool {
	for _, keyword := range rule.keywords {
		if strings.Contains(label, keyword) {
			return true
		}
	}

	return false
}

// ClassifyQuality returns the Tier for the (already lower-cased) quality
// label provided. False is returned if no rule matches the label.
func ClassifyQuality(label string) (Tier, bool) {
	for _, rule := range qualityRules {
		if rule.matches(label) {
			return rule.tier, true
		}
	}

	return "", false
}

// MapQualities assigns each video Item to a Tier. Within a tier, the first
// item wins and later items are discarded from the map. Items whose quality
// cannot be classified fill the first empty tier (380p, 720p then 1080p).
// Non-video items are ignored. An error is returned if any video item has a
// quality which is not a string.
func MapQualities(items []Item) (QualityMap, error) {
	qualities := make(QualityMap, len(tierOrder))
	for i, item := range items {
		if item.Type() != VideoItemType {
			continue
		}

		label, err := item.Quality()
		if err != nil {
			return nil, fmt.Errorf("video media at index %d: %w", i, err)
		}
		if tier, ok := ClassifyQuality(label); ok {
			if _, taken := qualities[tier]; !taken {
				qualities[tier] = item
			}

			continue
		}

		for _, tier := range tierOrder {
			if _, taken := qualities[tier]; !taken {
				qualities[tier] = item
				break
			}
		}
	}

	return qualities, nil
}
