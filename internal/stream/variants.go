package stream

import (
	"context"
	"fmt"

	"github.com/bluenviron/gohlslib/v2/pkg/playlist"
)

// Variant is an informational description of one rendition in a master
// manifest.
type Variant struct {
	Bandwidth  int      `json:"bandwidth"`
	Resolution string   `json:"resolution,omitempty"`
	FrameRate  *float64 `json:"frameRate,omitempty"`
	URI        string   `json:"uri"`
}

// ParseVariants decodes a master manifest into its renditions. Quality
// negotiation does not depend on it.
func ParseVariants(manifest string) ([]Variant, error) {
	pl, err := playlist.Unmarshal([]byte(manifest))
	if err != nil {
		return nil, fmt.Errorf("decode master manifest: %w", err)
	}
	mv, ok := pl.(*playlist.Multivariant)
	if !ok {
		return nil, fmt.Errorf("expected multivariant playlist, got media")
	}

	out := make([]Variant, 0, len(mv.Variants))
	for _, v := range mv.Variants {
		out = append(out, Variant{
			Bandwidth:  v.Bandwidth,
			Resolution: v.Resolution,
			FrameRate:  v.FrameRate,
			URI:        v.URI,
		})
	}
	return out, nil
}

// Variants resolves the manifest and lists its renditions.
func (s *Stream) Variants(ctx context.Context) ([]Variant, error) {
	manifest, err := s.ResolveManifest(ctx)
	if err != nil {
		return nil, err
	}
	return ParseVariants(manifest)
}
