package media

import (
	"errors"
	"fmt"

	"github.com/hbomb79/mediagrab/pkg/util"
	"github.com/mitchellh/mapstructure"
)

const (
	defaultTitle  = "No title available"
	defaultAuthor = "Unknown"
	defaultType   = "single"

	mediasKey = "medias"
)

// ErrProcessing is returned when an upstream payload cannot be normalized. No
// partial Result is ever returned alongside it.
var ErrProcessing = errors.New("media payload could not be processed")

type (
	// Result is the normalized, display-ready form of an upstream
	// resolution. HasMultipleQualities and HasAudio are only set when
	// the upstream returned at least one media item.
	Result struct {
		URL                  string     `json:"url"`
		Source               string     `json:"source"`
		Title                string     `json:"title"`
		Author               string     `json:"author"`
		Thumbnail            string     `json:"thumbnail"`
		Duration             any        `json:"duration"`
		Medias               []Item     `json:"medias"`
		Type                 string     `json:"type"`
		QualityMap           QualityMap `json:"quality_map,omitempty"`
		HasMultipleQualities *bool      `json:"has_multiple_qualities,omitempty"`
		HasAudio             *bool      `json:"has_audio,omitempty"`
		Error                bool       `json:"error"`
	}

	// payload is the typed view of the top-level upstream fields. Pointer
	// fields distinguish an absent (or null) value from an empty one.
	payload struct {
		URL       string  `mapstructure:"url"`
		Source    string  `mapstructure:"source"`
		Title     *string `mapstructure:"title"`
		Author    *string `mapstructure:"author"`
		UniqueID  *string `mapstructure:"unique_id"`
		Thumbnail string  `mapstructure:"thumbnail"`
		Duration  any     `mapstructure:"duration"`
		Medias    []Item  `mapstructure:"medias"`
		Type      *string `mapstructure:"type"`
	}
)

// Normalize reshapes a raw upstream payload in to a Result. Any failure, be it a
// wrongly typed field or an unformattable size, results in an error wrapping
// ErrProcessing.
func Normalize(raw map[string]any) (*Result, error) {
	p, err := decodePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	result := newResult(p)
	if len(result.Medias) == 0 {
		return result, nil
	}

	if err := annotateMedias(result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	return result, nil
}

func decodePayload(raw map[string]any) (*payload, error) {
	if medias, ok := raw[mediasKey]; ok && isBlank(medias) {
		raw = withoutKey(raw, mediasKey)
	}

	var p payload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &p,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	return &p, nil
}

// newResult extracts the top-level fields, applying the defaults for
// any which are absent.
func newResult(p *payload) *Result {
	var duration any = 0
	if p.Duration != nil {
		duration = p.Duration
	}

	medias := p.Medias
	if medias == nil {
		medias = []Item{}
	}

	return &Result{
		URL:       p.URL,
		Source:    p.Source,
		Title:     util.NotNilOrDefault(p.Title, defaultTitle),
		Author:    util.FirstNotNilOrDefault(defaultAuthor, p.Author, p.UniqueID),
		Thumbnail: p.Thumbnail,
		Duration:  duration,
		Medias:    medias,
		Type:      util.NotNilOrDefault(p.Type, defaultType),
		Error:     false,
	}
}

// annotateMedias attaches formatted sizes to every item, and computes the
// quality map and audio/video flags for the result.
func annotateMedias(result *Result) error {
	for i, item := range result.Medias {
		if item == nil {
			return fmt.Errorf("media at index %d is null", i)
		}

		if err := item.attachFormattedSize(); err != nil {
			return fmt.Errorf("media at index %d: %w", i, err)
		}
	}

	video, audio := Partition(result.Medias)
	hasMultipleQualities := len(video) > 1
	if hasMultipleQualities {
		qualities, err := MapQualities(video)
		if err != nil {
			return err
		}
		result.QualityMap = qualities
	}

	hasAudio := len(audio) > 0
	result.HasMultipleQualities = &hasMultipleQualities
	result.HasAudio = &hasAudio

	return nil
}

// isBlank reports whether a decoded JSON value carries nothing: null, false,
// zero, an empty string or an empty list/object.
func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		f, err := numberToFloat(v)
		return err == nil && f == 0
	}
}

func withoutKey(raw map[string]any, key string) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != key {
			out[k] = v
		}
	}

	return out
}
