// Package version decomposes catalog release strings into structured versions.
package version

import (
	"regexp"

	"github.com/danmuck/aeprobe/internal/signature"
	"github.com/rs/zerolog/log"
)

// Unknown fills every string field of an unrecognised version.
const Unknown = "Unknown"

// Status values reported with a Result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Version is a decomposed release string such as "2023, v23.5 BETA (Windows)".
type Version struct {
	FullVersion string `json:"full_version"`
	Year        string `json:"year"`
	Version     string `json:"version"`
	Platform    string `json:"platform"`
	Build       uint8  `json:"build"`
	IsBeta      bool   `json:"is_beta"`
}

// UnknownVersion is the sentinel for a signature that could not be resolved.
func UnknownVersion(build uint8) Version {
	return Version{
		FullVersion: Unknown,
		Year:        Unknown,
		Version:     Unknown,
		Platform:    Unknown,
		Build:       build,
	}
}

var releasePattern = regexp.MustCompile(`^(\d{4}),\s+v([\d.]+)\s*(BETA)?\s*\((.*?)\)`)

// Decompose matches s against the release pattern. Trailing text after the
// platform is accepted and kept in FullVersion.
func Decompose(s string, build uint8) (Version, bool) {
	m := releasePattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, false
	}
	return Version{
		FullVersion: s,
		Year:        m[1],
		Version:     m[2],
		Platform:    m[4],
		Build:       build,
		IsBeta:      m[3] != "",
	}, true
}

// Lookuper resolves a signature to a release string.
type Lookuper interface {
	Lookup(signature.Signature) (string, bool)
}

// Result is the resolved version for one scan. SignatureHex is nil when the
// scan found no signature.
type Result struct {
	Status       Status  `json:"version_status"`
	Version      Version `json:"version_info"`
	SignatureHex *string `json:"signature_hex"`
	// Known is true only for a catalog hit that also decomposed.
	Known bool `json:"-"`
}

// Resolve never fails: a missing signature, catalog miss or undecomposable
// release string all produce the Unknown sentinel with Status failed.
// A catalog hit that does not decompose is failed here, where older reports
// said success with Unknown info.
func Resolve(cat Lookuper, m signature.Match) Result {
	if !m.Found {
		return Result{Status: StatusFailed, Version: UnknownVersion(0)}
	}
	hex := m.Signature.Hex()
	res := Result{Status: StatusFailed, Version: UnknownVersion(m.Build), SignatureHex: &hex}
	if cat == nil {
		return res
	}
	raw, ok := cat.Lookup(m.Signature)
	if !ok {
		log.Debug().Msgf("version.Resolve catalog miss sig=%s build=%d", hex, m.Build)
		return res
	}
	v, ok := Decompose(raw, m.Build)
	if !ok {
		log.Warn().Msgf("version.Resolve undecomposable release sig=%s value=%q", hex, raw)
		return res
	}
	res.Status = StatusSuccess
	res.Version = v
	res.Known = true
	return res
}
