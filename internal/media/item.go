package media

import (
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// Item is a single downloadable asset (a video or audio stream) as
	// described by the upstream. The upstream's fields are passed through
	// untouched; only 'formatted_size' is ever added.
	Item map[string]any

	// ItemType is the 'type' of a media Item.
	ItemType string
)

const (
	VideoItemType ItemType = "video"
	AudioItemType ItemType = "audio"

	typeKey          = "type"
	qualityKey       = "quality"
	dataSizeKey      = "data_size"
	formattedSizeKey = "formatted_size"
)

// Type returns the type of the item, or an empty string if the
// upstream did not provide a string type.
func (item Item) Type() ItemType {
	if t, ok := item[typeKey].(string); ok {
		return ItemType(t)
	}

	return ""
}

// Quality returns the lower-cased quality label of the item. An absent
// label is returned as an empty string; a label which is present but
// not a string is an error.
func (item Item) Quality() (string, error) {
	raw, ok := item[qualityKey]
	if !ok || raw == nil {
		return "", nil
	}

	label, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("media quality %v (%T) is not a string", raw, raw)
	}

	return strings.ToLower(label), nil
}

// HasDataSize returns true if the upstream provided a 'data_size' key
// for this item, regardless of its value.
func (item Item) HasDataSize() bool {
	_, ok := item[dataSizeKey]
	return ok
}

// FormattedSize returns the human readable size which has been attached
// to this item, if any.
func (item Item) FormattedSize() (string, bool) {
	s, ok := item[formattedSizeKey].(string)
	return s, ok
}

// attachFormattedSize formats the 'data_size' of this item and stores
// the result under 'formatted_size'. Items without a data_size are left
// untouched.
func (item Item) attachFormattedSize() error {
	raw, ok := item[dataSizeKey]
	if !ok {
		return nil
	}

	size, err := numberToFloat(raw)
	if err != nil {
		return fmt.Errorf("media data_size cannot be formatted: %w", err)
	}

	item[formattedSizeKey] = formatSize(size)
	return nil
}

func numberToFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return float64(i), nil
		}
		return v.Float64()
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", raw, raw)
	}
}

// Partition splits the items provided in to video and audio items, preserving
// their relative order. Items of any other type are excluded from both.
func Partition(items []Item) (video []Item, audio []Item) {
	video, audio = make([]Item, 0, len(items)), make([]Item, 0)
	for _, item := range items {
		switch item.Type() {
		case VideoItemType:
			video = append(video, item)
		case AudioItemType:
			audio = append(audio, item)
		}
	}

	return video, audio
}
