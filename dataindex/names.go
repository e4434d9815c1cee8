package dataindex

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// canonicalPatterns returns the filename patterns keyed by file type name.
// Matching is always anchored at the start of the name but need not consume
// all of it.
func canonicalPatterns() map[string]string {
	return map[string]string{
		"corr":          `(?P<chunk>[0-9]{8})_(?P<freq>[0-9]{4})\.h5`,
		"hfb":           `hfb_(?P<chunk>[0-9]{8})_(?P<freq>[0-9]{4})\.h5`,
		"hk":            `(?P<atmel>[A-Za-z]*)_(?P<chunk>[0-9]{8})\.h5`,
		"hkp":           `hkp_prom_(?P<date>[0-9]{8})\.h5`,
		"log":           `ch_(?P<source>master|hk)\.log`,
		"atmel_id":      `atmel_id\.dat`,
		"rawadc":        `rawadc\.npy|[0-9]{6}\.h5`,
		"pdf":           `(?:histogram|spectrum)_chan(?P<chan>[0-9]{1,2})\.pdf`,
		"pkl":           `(?P<kind>gains|gains_noisy)\.pkl`,
		"weather":       `(?P<date>20[12][0-9][01][0-9][0123][0-9])\.h5`,
		"calibration":   `[0-9]{8}\.h5`,
		"miscellaneous": `(?P<serial>[0-9]{8})_(?P<type>[A-Za-z][A-Za-z0-9_+-]*)\.misc\.tar(?:\.gz|\.bz2|\.xz)`,
	}
}

const acqNameSource = `(?P<date>[0-9]{8})T(?P<time>[0-9]{6})Z_(?P<inst>[A-Za-z0-9]*)_(?P<type>[A-Za-z]*)`

// DetectionOrder is the priority in which file type patterns are tried.
// Several patterns overlap (a weather file is also a valid calibration
// name), so the first match wins.
func DetectionOrder() []string {
	return []string{
		"corr",
		"hfb",
		"hk",
		"hkp",
		"log",
		"atmel_id",
		"rawadc",
		"pdf",
		"pkl",
		"weather",
		"calibration",
		"miscellaneous",
	}
}

// PatternSource returns the canonical pattern for a file type, unanchored.
func PatternSource(fileType string) (string, bool) {
	src, ok := canonicalPatterns()[fileType]
	return src, ok
}

func compileAnchored(src string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + src + `)`)
}

func mustCompileAnchored(src string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + src + `)`)
}

// Patterns is the compiled pattern table. Build it once with NewPatterns
// and pass it to whatever parses names; it is never mutated.
type Patterns struct {
	acq  *regexp.Regexp
	file map[string]*regexp.Regexp
}

func NewPatterns() *Patterns {
	sources := canonicalPatterns()
	p := &Patterns{
		acq:  mustCompileAnchored(acqNameSource),
		file: make(map[string]*regexp.Regexp, len(sources)),
	}
	for name, src := range sources {
		p.file[name] = mustCompileAnchored(src)
	}
	return p
}

func (p *Patterns) match(fileType string, name string) []string {
	return p.file[fileType].FindStringSubmatch(name)
}

func group(re *regexp.Regexp, m []string, name string) string {
	return m[re.SubexpIndex(name)]
}

// ParseAcqName splits an acquisition name into its timestamp, instrument
// and type tokens.
func (p *Patterns) ParseAcqName(name string) (stamp, inst, typ string, err error) {
	if !p.acq.MatchString(name) {
		return "", "", "", ErrValidation.New("bad acquisition name format for %q", name)
	}
	parts := strings.Split(name, "_")
	if len(parts) != 3 {
		return "", "", "", ErrValidation.New("bad acquisition name format for %q", name)
	}
	return parts[0], parts[1], parts[2], nil
}

// ParseCorrFileName returns the chunk and frequency index of a correlator file.
func (p *Patterns) ParseCorrFileName(name string) (chunk, freq int, err error) {
	m := p.match("corr", name)
	if m == nil {
		return 0, 0, ErrValidation.New("bad correlator file name format for %q", name)
	}
	re := p.file["corr"]
	return atoi(group(re, m, "chunk")), atoi(group(re, m, "freq")), nil
}

// ParseHFBFileName returns the chunk and frequency index of an HFB file.
func (p *Patterns) ParseHFBFileName(name string) (chunk, freq int, err error) {
	m := p.match("hfb", name)
	if m == nil {
		return 0, 0, ErrValidation.New("bad HFB file name format for %q", name)
	}
	re := p.file["hfb"]
	return atoi(group(re, m, "chunk")), atoi(group(re, m, "freq")), nil
}

// ParseHKFileName returns the chunk number and ATMEL board name of a
// housekeeping file.
func (p *Patterns) ParseHKFileName(name string) (chunk int, atmel string, err error) {
	m := p.match("hk", name)
	if m == nil {
		return 0, "", ErrValidation.New("bad housekeeping file name format for %q", name)
	}
	re := p.file["hk"]
	return atoi(group(re, m, "chunk")), group(re, m, "atmel"), nil
}

// ParseWeatherFileName returns the YYYYMMDD date of a weather file.
func (p *Patterns) ParseWeatherFileName(name string) (string, error) {
	m := p.match("weather", name)
	if m == nil {
		return "", ErrValidation.New("bad weather file name format for %q", name)
	}
	return group(p.file["weather"], m, "date"), nil
}

// ParseMiscFileName returns the serial number and data type of a
// miscellaneous tarball.
func (p *Patterns) ParseMiscFileName(name string) (serial int, dataType string, err error) {
	m := p.match("miscellaneous", name)
	if m == nil {
		return 0, "", ErrValidation.New("bad miscellaneous file name format for %q", name)
	}
	re := p.file["miscellaneous"]
	return atoi(group(re, m, "serial")), group(re, m, "type"), nil
}

// atoi is only called on captures that matched [0-9]+.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

type detectRule struct {
	fileType string
	re       *regexp.Regexp
}

// Detector classifies filenames by trying file type patterns in order.
type Detector struct {
	rules []detectRule
}

// NewDetector builds a detector over the canonical patterns.
func NewDetector(p *Patterns) *Detector {
	d := &Detector{}
	for _, name := range DetectionOrder() {
		d.rules = append(d.rules, detectRule{fileType: name, re: p.file[name]})
	}
	return d
}

// NewDetectorFromTypes builds a detector from FileType rows. Types without
// a pattern are left out. Canonical types keep their usual priority and
// any others follow in id order.
func NewDetectorFromTypes(types []FileType) (*Detector, error) {
	rank := make(map[string]int)
	for i, name := range DetectionOrder() {
		rank[name] = i
	}
	candidates := make([]FileType, 0, len(types))
	for _, t := range types {
		if t.Pattern == nil || strings.TrimSpace(*t.Pattern) == "" {
			continue
		}
		candidates = append(candidates, t)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, iok := rank[candidates[i].Name]
		rj, jok := rank[candidates[j].Name]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return candidates[i].ID < candidates[j].ID
		}
	})

	d := &Detector{}
	for _, t := range candidates {
		re, err := compileAnchored(*t.Pattern)
		if err != nil {
			return nil, ErrConfig.New("pattern of file type %q: %v", t.Name, err)
		}
		d.rules = append(d.rules, detectRule{fileType: t.Name, re: re})
	}
	return d, nil
}

// Detect returns the name of the first file type whose pattern matches.
func (d *Detector) Detect(name string) (string, bool) {
	for _, r := range d.rules {
		if r.re.MatchString(name) {
			return r.fileType, true
		}
	}
	return "", false
}
