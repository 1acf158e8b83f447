package model

import (
	"errors"

	"github.com/danmuck/aeprobe/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrNotRecord = errors.New("model: input is not a root record")

// Stream keys, as written by the analysis script.
const (
	keyName                 = "name"
	keyPath                 = "path"
	keyVersion              = "version"
	keyFrameRate            = "frameRate"
	keyWidth                = "width"
	keyHeight               = "height"
	keyDuration             = "duration"
	keyBitsPerChannel       = "bitsPerChannel"
	keyWorkingColorSpace    = "workingColorSpace"
	keyExpressionEngine     = "expressionEngine"
	keyID                   = "id"
	keyPixelAspect          = "pixelAspect"
	keyBgColor              = "bgColor"
	keyWorkAreaStart        = "workAreaStart"
	keyWorkAreaDuration     = "workAreaDuration"
	keyIndex                = "index"
	keyType                 = "type"
	keyEnabled              = "enabled"
	keySolo                 = "solo"
	keyShy                  = "shy"
	keyInPoint              = "inPoint"
	keyOutPoint             = "outPoint"
	keyStartTime            = "startTime"
	keyStretch              = "stretch"
	keyQuality              = "quality"
	keySourceName           = "sourceName"
	keySourcePath           = "sourcePath"
	keyParent               = "parent"
	keyBlendingMode         = "blendingMode"
	keyThreeDLayer          = "threeDLayer"
	keyPreserveTransparency = "preserveTransparency"
	keyHasVideo             = "hasVideo"
	keyHasAudio             = "hasAudio"
	keyIsStill              = "isStill"
	keyNativeFPS            = "nativeFps"
	keyFieldOrder           = "fieldOrder"
	keyAlphaMode            = "alphaMode"
	keyIsSequence           = "isSequence"
	keySequenceStart        = "sequenceStart"
	keySequenceDuration     = "sequenceDuration"
	keySequenceFrameRate    = "sequenceFrameRate"
)

// Defaults for absent fields.
const (
	DefaultBitsPerChannel  = 8
	DefaultPixelAspect     = 1.0
	DefaultBackgroundColor = "#000000"
	DefaultStretch         = 100.0
	DefaultQuality         = "BEST"
	DefaultBlendingMode    = "normal"
)

// BuildProject converts a parsed root record into a Project. Every absent or
// mistyped field takes its default; only a nil or non-root record is an error.
func BuildProject(root *protocol.Record) (Project, error) {
	if root == nil || root.Section != protocol.SectionRoot {
		return Project{}, ErrNotRecord
	}
	r := reader{root}
	p := Project{
		Name:              r.str(keyName, ""),
		Path:              r.str(keyPath, ""),
		Version:           r.str(keyVersion, ""),
		FrameRate:         r.number(keyFrameRate, 0),
		Width:             r.integer(keyWidth, 0),
		Height:            r.integer(keyHeight, 0),
		Duration:          r.number(keyDuration, 0),
		BitsPerChannel:    r.integer(keyBitsPerChannel, DefaultBitsPerChannel),
		WorkingColorSpace: r.str(keyWorkingColorSpace, ""),
		ExpressionEngine:  r.str(keyExpressionEngine, ""),
		Compositions:      []Composition{},
		Footage:           []Footage{},
		Folders:           []Folder{},
	}
	for _, rec := range root.Children(protocol.ListCompositions) {
		p.Compositions = append(p.Compositions, buildComposition(rec))
	}
	for _, rec := range root.Children(protocol.ListFootage) {
		p.Footage = append(p.Footage, buildFootage(rec))
	}
	for _, rec := range root.Children(protocol.ListFolders) {
		p.Folders = append(p.Folders, Folder{Fields: append([]protocol.Field(nil), rec.Fields...)})
	}
	log.Debug().Msgf(
		"model.BuildProject name=%q compositions=%d footage=%d folders=%d",
		p.Name, len(p.Compositions), len(p.Footage), len(p.Folders),
	)
	return p, nil
}

func buildComposition(rec *protocol.Record) Composition {
	r := reader{rec}
	c := Composition{
		Name:             r.str(keyName, ""),
		ID:               r.str(keyID, ""),
		Duration:         r.number(keyDuration, 0),
		FrameRate:        r.number(keyFrameRate, 0),
		Width:            r.integer(keyWidth, 0),
		Height:           r.integer(keyHeight, 0),
		PixelAspect:      r.number(keyPixelAspect, DefaultPixelAspect),
		BackgroundColor:  r.str(keyBgColor, DefaultBackgroundColor),
		WorkAreaStart:    r.number(keyWorkAreaStart, 0),
		WorkAreaDuration: r.number(keyWorkAreaDuration, 0),
		Layers:           []Layer{},
		Markers:          []Marker{},
	}
	for _, lr := range rec.Children(protocol.ListLayers) {
		c.Layers = append(c.Layers, buildLayer(lr))
	}
	return c
}

func buildLayer(rec *protocol.Record) Layer {
	r := reader{rec}
	l := Layer{
		Name:                 r.str(keyName, ""),
		Index:                r.integer(keyIndex, 0),
		Type:                 r.str(keyType, ""),
		Enabled:              r.flag(keyEnabled, true),
		Solo:                 r.flag(keySolo, false),
		Shy:                  r.flag(keyShy, false),
		InPoint:              r.number(keyInPoint, 0),
		OutPoint:             r.number(keyOutPoint, 0),
		StartTime:            r.number(keyStartTime, 0),
		Stretch:              r.number(keyStretch, DefaultStretch),
		Quality:              r.str(keyQuality, DefaultQuality),
		SourceName:           r.optStr(keySourceName),
		SourcePath:           r.optStr(keySourcePath),
		Effects:              []Effect{},
		Markers:              []Marker{},
		Parent:               r.optStr(keyParent),
		BlendingMode:         r.str(keyBlendingMode, DefaultBlendingMode),
		ThreeDLayer:          r.flag(keyThreeDLayer, false),
		PreserveTransparency: r.flag(keyPreserveTransparency, false),
	}
	for _, er := range rec.Children(protocol.ListEffects) {
		e := reader{er}
		l.Effects = append(l.Effects, Effect{
			MatchName: e.str(protocol.EffectMatchNameKey, ""),
			Name:      e.str(protocol.EffectNameKey, ""),
		})
	}
	return l
}

func buildFootage(rec *protocol.Record) Footage {
	r := reader{rec}
	return Footage{
		Name:              r.str(keyName, ""),
		ID:                r.str(keyID, ""),
		Path:              r.str(keyPath, ""),
		Width:             r.optInt(keyWidth),
		Height:            r.optInt(keyHeight),
		Duration:          r.optFloat(keyDuration),
		PixelAspect:       r.number(keyPixelAspect, DefaultPixelAspect),
		HasVideo:          r.flag(keyHasVideo, false),
		HasAudio:          r.flag(keyHasAudio, false),
		IsStill:           r.flag(keyIsStill, false),
		NativeFPS:         r.optFloat(keyNativeFPS),
		FieldOrder:        r.optStr(keyFieldOrder),
		AlphaMode:         r.optStr(keyAlphaMode),
		IsSequence:        r.flag(keyIsSequence, false),
		SequenceStart:     r.optInt(keySequenceStart),
		SequenceDuration:  r.optFloat(keySequenceDuration),
		SequenceFrameRate: r.optFloat(keySequenceFrameRate),
	}
}

// reader is the total, default-filling view over one record.
type reader struct {
	rec *protocol.Record
}

func (r reader) str(key, def string) string {
	if v, ok := r.rec.Get(key); ok {
		s, _ := v.AsString()
		return s
	}
	return def
}

func (r reader) integer(key string, def int64) int64 {
	if v, ok := r.rec.Get(key); ok {
		if i, ok := v.AsInt(); ok {
			return i
		}
	}
	return def
}

func (r reader) number(key string, def float64) float64 {
	if v, ok := r.rec.Get(key); ok {
		if f, ok := v.AsFloat(); ok {
			return f
		}
	}
	return def
}

func (r reader) flag(key string, def bool) bool {
	if v, ok := r.rec.Get(key); ok {
		if b, ok := v.AsBool(); ok {
			return b
		}
	}
	return def
}

func (r reader) optStr(key string) *string {
	if v, ok := r.rec.Get(key); ok {
		s, _ := v.AsString()
		return &s
	}
	return nil
}

func (r reader) optInt(key string) *int64 {
	if v, ok := r.rec.Get(key); ok {
		if i, ok := v.AsInt(); ok {
			return &i
		}
	}
	return nil
}

func (r reader) optFloat(key string) *float64 {
	if v, ok := r.rec.Get(key); ok {
		if f, ok := v.AsFloat(); ok {
			return &f
		}
	}
	return nil
}
