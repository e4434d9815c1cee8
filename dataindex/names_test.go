package dataindex

import (
	"testing"
)

func TestParseAcqName(t *testing.T) {
	p := NewPatterns()

	stamp, inst, typ, err := p.ParseAcqName("20230101T000000Z_chime_corr")
	if err != nil {
		t.Fatal(err)
	}
	if stamp != "20230101T000000Z" || inst != "chime" || typ != "corr" {
		t.Fatalf("unexpected tokens: %q %q %q", stamp, inst, typ)
	}

	bad := []string{
		"",
		"chime_corr",
		"20230101T000000_chime_corr",
		"20230101T000000Z_chime_corr_extra",
		"20230101T000000Z_chime-1_corr",
	}
	for _, name := range bad {
		if _, _, _, err := p.ParseAcqName(name); !ErrValidation.Has(err) {
			t.Fatalf("ParseAcqName(%q): expected validation error, got %v", name, err)
		}
	}
}

func TestParseCorrFileName(t *testing.T) {
	p := NewPatterns()
	chunk, freq, err := p.ParseCorrFileName("00000001_0002.h5")
	if err != nil {
		t.Fatal(err)
	}
	if chunk != 1 || freq != 2 {
		t.Fatalf("got chunk=%d freq=%d", chunk, freq)
	}
	if _, _, err := p.ParseCorrFileName("0001_0002.h5"); !ErrValidation.Has(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseHFBFileName(t *testing.T) {
	p := NewPatterns()
	chunk, freq, err := p.ParseHFBFileName("hfb_00000123_0456.h5")
	if err != nil {
		t.Fatal(err)
	}
	if chunk != 123 || freq != 456 {
		t.Fatalf("got chunk=%d freq=%d", chunk, freq)
	}
	if _, _, err := p.ParseHFBFileName("00000123_0456.h5"); !ErrValidation.Has(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseHKFileName(t *testing.T) {
	p := NewPatterns()
	chunk, atmel, err := p.ParseHKFileName("mingun_00000042.h5")
	if err != nil {
		t.Fatal(err)
	}
	if chunk != 42 || atmel != "mingun" {
		t.Fatalf("got chunk=%d atmel=%q", chunk, atmel)
	}
}

func TestParseWeatherFileName(t *testing.T) {
	p := NewPatterns()
	date, err := p.ParseWeatherFileName("20230517.h5")
	if err != nil {
		t.Fatal(err)
	}
	if date != "20230517" {
		t.Fatalf("got %q", date)
	}
	if _, err := p.ParseWeatherFileName("19990517.h5"); !ErrValidation.Has(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseMiscFileName(t *testing.T) {
	p := NewPatterns()
	serial, dataType, err := p.ParseMiscFileName("00000007_holography+beam.misc.tar.gz")
	if err != nil {
		t.Fatal(err)
	}
	if serial != 7 || dataType != "holography+beam" {
		t.Fatalf("got serial=%d type=%q", serial, dataType)
	}
	if _, _, err := p.ParseMiscFileName("00000007_beam.misc.tar"); !ErrValidation.Has(err) {
		t.Fatalf("expected validation error for uncompressed tarball, got %v", err)
	}
}

func TestDetector_Detect(t *testing.T) {
	d := NewDetector(NewPatterns())
	cases := []struct {
		name string
		want string
	}{
		{"20230101_0000.h5", "corr"},
		{"hfb_20230101_0000.h5", "hfb"},
		{"mingun_00000001.h5", "hk"},
		{"hkp_prom_20230101.h5", "hkp"},
		{"ch_master.log", "log"},
		{"ch_hk.log", "log"},
		{"atmel_id.dat", "atmel_id"},
		{"rawadc.npy", "rawadc"},
		{"123456.h5", "rawadc"},
		{"histogram_chan3.pdf", "pdf"},
		{"spectrum_chan12.pdf", "pdf"},
		{"gains_noisy.pkl", "pkl"},
		{"20230101.h5", "weather"},
		{"19990101.h5", "calibration"},
		{"00000001_gains.misc.tar.gz", "miscellaneous"},
		{"garbage.xyz", ""},
	}
	for _, c := range cases {
		got, ok := d.Detect(c.name)
		if c.want == "" {
			if ok {
				t.Fatalf("Detect(%q) = %q, expected no match", c.name, got)
			}
			continue
		}
		if !ok || got != c.want {
			t.Fatalf("Detect(%q) = %q, %v; want %q", c.name, got, ok, c.want)
		}
	}
}

func TestNewDetectorFromTypes_CanonicalOrderThenID(t *testing.T) {
	pat := func(s string) *string { return &s }
	weather, _ := PatternSource("weather")
	calibration, _ := PatternSource("calibration")
	types := []FileType{
		{ID: 30, Name: "custom", Pattern: pat(`[0-9]{8}\.h5`)},
		{ID: 12, Name: "calibration", Pattern: pat(calibration)},
		{ID: 10, Name: "weather", Pattern: pat(weather)},
		{ID: 20, Name: "nopattern"},
		{ID: 25, Name: "text", Pattern: pat(`.*\.txt`)},
	}
	d, err := NewDetectorFromTypes(types)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := d.Detect("20230101.h5"); got != "weather" {
		t.Fatalf("expected weather to win, got %q", got)
	}
	if got, _ := d.Detect("19990101.h5"); got != "calibration" {
		t.Fatalf("expected canonical calibration before custom type, got %q", got)
	}
	if got, _ := d.Detect("notes.txt"); got != "text" {
		t.Fatalf("expected text, got %q", got)
	}
}

func TestNewDetectorFromTypes_BadPattern(t *testing.T) {
	bad := "([0-9"
	_, err := NewDetectorFromTypes([]FileType{{ID: 1, Name: "broken", Pattern: &bad}})
	if !ErrConfig.Has(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestDetectFileType(t *testing.T) {
	db := seededDB(t)
	d := NewDetector(NewPatterns())

	ft, err := DetectFileType(db, d, "20230101_0000.h5")
	if err != nil {
		t.Fatal(err)
	}
	if ft == nil || ft.Name != "corr" || ft.ID != 1 {
		t.Fatalf("unexpected file type: %+v", ft)
	}

	ft, err = DetectFileType(db, d, "garbage.xyz")
	if err != nil || ft != nil {
		t.Fatalf("expected no type, got %+v, %v", ft, err)
	}
}

func TestDetectFileType_Unseeded(t *testing.T) {
	db := openTestDB(t)
	_, err := DetectFileType(db, NewDetector(NewPatterns()), "20230101_0000.h5")
	if !ErrNotFound.Has(err) {
		t.Fatalf("expected missing reference data, got %v", err)
	}
}
