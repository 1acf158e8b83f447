// Package model holds the typed project entities built from a parsed analysis stream.
package model

// Project is one analysed project file.
type Project struct {
	Name              string        `json:"name"`
	Path              string        `json:"path"`
	Version           string        `json:"version"`
	FrameRate         float64       `json:"frame_rate"`
	Width             int64         `json:"width"`
	Height            int64         `json:"height"`
	Duration          float64       `json:"duration"`
	BitsPerChannel    int64         `json:"bits_per_channel"`
	WorkingColorSpace string        `json:"working_color_space"`
	ExpressionEngine  string        `json:"expression_engine"`
	Compositions      []Composition `json:"compositions"`
	Footage           []Footage     `json:"footage"`
	Folders           []Folder      `json:"folders"`
}

type Composition struct {
	Name             string   `json:"name"`
	ID               string   `json:"id"`
	Duration         float64  `json:"duration"`
	FrameRate        float64  `json:"frame_rate"`
	Width            int64    `json:"width"`
	Height           int64    `json:"height"`
	PixelAspect      float64  `json:"pixel_aspect"`
	BackgroundColor  string   `json:"background_color"`
	WorkAreaStart    float64  `json:"work_area_start"`
	WorkAreaDuration float64  `json:"work_area_duration"`
	Layers           []Layer  `json:"layers"`
	Markers          []Marker `json:"markers"`
}

type Layer struct {
	Name                 string   `json:"name"`
	Index                int64    `json:"index"`
	Type                 string   `json:"type"`
	Enabled              bool     `json:"enabled"`
	Solo                 bool     `json:"solo"`
	Shy                  bool     `json:"shy"`
	InPoint              float64  `json:"in_point"`
	OutPoint             float64  `json:"out_point"`
	StartTime            float64  `json:"start_time"`
	Stretch              float64  `json:"stretch"`
	Quality              string   `json:"quality"`
	SourceName           *string  `json:"source_name"`
	SourcePath           *string  `json:"source_path"`
	Effects              []Effect `json:"effects"`
	Markers              []Marker `json:"markers"`
	Parent               *string  `json:"parent"`
	BlendingMode         string   `json:"blending_mode"`
	ThreeDLayer          bool     `json:"three_d_layer"`
	PreserveTransparency bool     `json:"preserve_transparency"`
}

type Effect struct {
	MatchName string `json:"matchName"`
	Name      string `json:"name"`
}

type Footage struct {
	Name              string   `json:"name"`
	ID                string   `json:"id"`
	Path              string   `json:"path"`
	Width             *int64   `json:"width"`
	Height            *int64   `json:"height"`
	Duration          *float64 `json:"duration"`
	PixelAspect       float64  `json:"pixel_aspect"`
	HasVideo          bool     `json:"has_video"`
	HasAudio          bool     `json:"has_audio"`
	IsStill           bool     `json:"is_still"`
	NativeFPS         *float64 `json:"native_fps"`
	FieldOrder        *string  `json:"field_order"`
	AlphaMode         *string  `json:"alpha_mode"`
	IsSequence        bool     `json:"is_sequence"`
	SequenceStart     *int64   `json:"sequence_start"`
	SequenceDuration  *float64 `json:"sequence_duration"`
	SequenceFrameRate *float64 `json:"sequence_frame_rate"`
}

// Marker is a free-form timeline marker. The analysis stream never carries
// markers today, so these lists are always empty.
type Marker map[string]any
