package model

import (
	"fmt"
	"io"
)

// ToMap returns the project as plain nested maps and slices using the same
// names as the JSON encoding. Absent optionals are nil.
func (p Project) ToMap() map[string]any {
	comps := make([]any, 0, len(p.Compositions))
	for _, c := range p.Compositions {
		comps = append(comps, c.ToMap())
	}
	footage := make([]any, 0, len(p.Footage))
	for _, f := range p.Footage {
		footage = append(footage, f.ToMap())
	}
	folders := make([]any, 0, len(p.Folders))
	for _, f := range p.Folders {
		folders = append(folders, f.Map())
	}
	return map[string]any{
		"name":                p.Name,
		"path":                p.Path,
		"version":             p.Version,
		"frame_rate":          p.FrameRate,
		"width":               p.Width,
		"height":              p.Height,
		"duration":            p.Duration,
		"bits_per_channel":    p.BitsPerChannel,
		"working_color_space": p.WorkingColorSpace,
		"expression_engine":   p.ExpressionEngine,
		"compositions":        comps,
		"footage":             footage,
		"folders":             folders,
	}
}

func (c Composition) ToMap() map[string]any {
	layers := make([]any, 0, len(c.Layers))
	for _, l := range c.Layers {
		layers = append(layers, l.ToMap())
	}
	return map[string]any{
		"name":               c.Name,
		"id":                 c.ID,
		"duration":           c.Duration,
		"frame_rate":         c.FrameRate,
		"width":              c.Width,
		"height":             c.Height,
		"pixel_aspect":       c.PixelAspect,
		"background_color":   c.BackgroundColor,
		"work_area_start":    c.WorkAreaStart,
		"work_area_duration": c.WorkAreaDuration,
		"layers":             layers,
		"markers":            markersToList(c.Markers),
	}
}

func (l Layer) ToMap() map[string]any {
	effects := make([]any, 0, len(l.Effects))
	for _, e := range l.Effects {
		effects = append(effects, map[string]any{"matchName": e.MatchName, "name": e.Name})
	}
	return map[string]any{
		"name":                  l.Name,
		"index":                 l.Index,
		"type":                  l.Type,
		"enabled":               l.Enabled,
		"solo":                  l.Solo,
		"shy":                   l.Shy,
		"in_point":              l.InPoint,
		"out_point":             l.OutPoint,
		"start_time":            l.StartTime,
		"stretch":               l.Stretch,
		"quality":               l.Quality,
		"source_name":           deref(l.SourceName),
		"source_path":           deref(l.SourcePath),
		"effects":               effects,
		"markers":               markersToList(l.Markers),
		"parent":                deref(l.Parent),
		"blending_mode":         l.BlendingMode,
		"three_d_layer":         l.ThreeDLayer,
		"preserve_transparency": l.PreserveTransparency,
	}
}

func (f Footage) ToMap() map[string]any {
	return map[string]any{
		"name":                f.Name,
		"id":                  f.ID,
		"path":                f.Path,
		"width":               deref(f.Width),
		"height":              deref(f.Height),
		"duration":            deref(f.Duration),
		"pixel_aspect":        f.PixelAspect,
		"has_video":           f.HasVideo,
		"has_audio":           f.HasAudio,
		"is_still":            f.IsStill,
		"native_fps":          deref(f.NativeFPS),
		"field_order":         deref(f.FieldOrder),
		"alpha_mode":          deref(f.AlphaMode),
		"is_sequence":         f.IsSequence,
		"sequence_start":      deref(f.SequenceStart),
		"sequence_duration":   deref(f.SequenceDuration),
		"sequence_frame_rate": deref(f.SequenceFrameRate),
	}
}

func markersToList(markers []Marker) []any {
	out := make([]any, 0, len(markers))
	for _, m := range markers {
		out = append(out, map[string]any(m))
	}
	return out
}

// deref returns *p, or an untyped nil so absent optionals compare equal to nil.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Summary writes a short human readable overview.
func (p Project) Summary(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Project: %s\nVersion: %s\nSize: %dx%d\nFrame rate: %g\n\nCompositions (%d):\n",
		p.Name, p.Version, p.Width, p.Height, p.FrameRate, len(p.Compositions),
	)
	if err != nil {
		return err
	}
	for _, c := range p.Compositions {
		if _, err := fmt.Fprintf(w, "\n- %s\n  Size: %dx%d\n  FPS: %g\n  Duration: %g\n  Layers: %d\n",
			c.Name, c.Width, c.Height, c.FrameRate, c.Duration, len(c.Layers)); err != nil {
			return err
		}
		for _, l := range c.Layers {
			if _, err := fmt.Fprintf(w, "    - %s (%s)\n", l.Name, l.Type); err != nil {
				return err
			}
			if l.SourcePath != nil {
				if _, err := fmt.Fprintf(w, "      Source: %s\n", *l.SourcePath); err != nil {
					return err
				}
			}
		}
	}
	if len(p.Footage) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nFootage (%d):\n", len(p.Footage)); err != nil {
		return err
	}
	for _, f := range p.Footage {
		if _, err := fmt.Fprintf(w, "\n- %s\n", f.Name); err != nil {
			return err
		}
		if f.Path != "" {
			if _, err := fmt.Fprintf(w, "  Path: %s\n", f.Path); err != nil {
				return err
			}
		}
		if f.Width != nil && f.Height != nil && *f.Width > 0 && *f.Height > 0 {
			if _, err := fmt.Fprintf(w, "  Size: %dx%d\n", *f.Width, *f.Height); err != nil {
				return err
			}
		}
		if f.IsSequence && f.SequenceFrameRate != nil {
			if _, err := fmt.Fprintf(w, "  Sequence: %g FPS\n", *f.SequenceFrameRate); err != nil {
				return err
			}
		}
	}
	return nil
}
