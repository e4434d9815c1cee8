package dataindex

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRegistry_ValidateSeeded(t *testing.T) {
	db := seededDB(t)
	if err := NewRegistry(NewPatterns()).Validate(db); err != nil {
		t.Fatal(err)
	}
}

func TestRegistry_ValidateUnknownClass(t *testing.T) {
	db := seededDB(t)
	mustCreate(t, db, &FileType{Name: "mystery", InfoClass: strp("MysteryFileInfo")})
	if err := NewRegistry(NewPatterns()).Validate(db); !ErrConfig.Has(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestRegistry_ValidateWrongKind(t *testing.T) {
	db := seededDB(t)
	mustCreate(t, db, &AcqType{Name: "confused", InfoClass: strp("CorrFileInfo")})
	if err := NewRegistry(NewPatterns()).Validate(db); !ErrConfig.Has(err) {
		t.Fatalf("file info class on an acq type should be rejected, got %v", err)
	}
}

func TestRegistry_SetProviderUnknownClass(t *testing.T) {
	r := NewRegistry(NewPatterns())
	if err := r.SetProvider("NopeInfo", nil); !ErrConfig.Has(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestRegistry_CreateCorrFileInfoFromName(t *testing.T) {
	db := seededDB(t)
	acq := testAcq(t, db, "20230101T000000Z_chime_corr", "corr")
	f := testFile(t, db, acq, "00000012_0345.h5", "corr")
	path := filepath.Join(t.TempDir(), f.Name)
	writeFile(t, path, "data")

	info, err := NewRegistry(NewPatterns()).CreateFileInfo(db, f, path)
	if err != nil {
		t.Fatal(err)
	}
	ci, ok := info.(*CorrFileInfo)
	if !ok {
		t.Fatalf("expected *CorrFileInfo, got %T", info)
	}
	if ci.FileID != f.ID || *ci.ChunkNumber != 12 || *ci.FreqNumber != 345 {
		t.Fatalf("unexpected info %+v", ci)
	}
	if ci.StartTime != nil {
		t.Fatalf("start time should be left unset by the name provider")
	}
}

func TestRegistry_CreateWeatherFileInfo(t *testing.T) {
	db := seededDB(t)
	acq := testAcq(t, db, "20230101T000000Z_drao_weather", "weather")
	f := testFile(t, db, acq, "20230102.h5", "weather")
	path := filepath.Join(t.TempDir(), f.Name)
	writeFile(t, path, "data")

	info, err := NewRegistry(NewPatterns()).CreateFileInfo(db, f, path)
	if err != nil {
		t.Fatal(err)
	}
	wi := info.(*WeatherFileInfo)
	if wi.Date == nil || *wi.Date != "20230102" {
		t.Fatalf("unexpected date %v", wi.Date)
	}
	const day = 1672617600 // 2023-01-02T00:00:00Z
	if *wi.StartTime != day || *wi.FinishTime != day+86400 {
		t.Fatalf("unexpected span %v-%v", *wi.StartTime, *wi.FinishTime)
	}
}

func TestRegistry_CalibrationDispatchesOnAcqType(t *testing.T) {
	db := seededDB(t)
	r := NewRegistry(NewPatterns())
	start := 100.0
	if err := r.SetProvider("CalibrationGainFileInfo", func(f *os.File) (map[string]any, error) {
		return map[string]any{"start_time": start, "FinishTime": start + 50}, nil
	}); err != nil {
		t.Fatal(err)
	}

	acq := testAcq(t, db, "20230101T000000Z_chime_gain", "gain")
	f := testFile(t, db, acq, "00000001.h5", "calibration")
	path := filepath.Join(t.TempDir(), f.Name)
	writeFile(t, path, "data")

	info, err := r.CreateFileInfo(db, f, path)
	if err != nil {
		t.Fatal(err)
	}
	gi, ok := info.(*CalibrationGainFileInfo)
	if !ok {
		t.Fatalf("expected *CalibrationGainFileInfo, got %T", info)
	}
	if *gi.StartTime != 100 || *gi.FinishTime != 150 {
		t.Fatalf("unexpected span %+v", gi.TimeRange)
	}

	// digitalgain has no provider, so nothing is created.
	dacq := testAcq(t, db, "20230101T000000Z_chime_digitalgain", "digitalgain")
	df := testFile(t, db, dacq, "00000001.h5", "calibration")
	info, err = r.CreateFileInfo(db, df, path)
	if err != nil || info != nil {
		t.Fatalf("expected no record, got %v, %v", info, err)
	}
}

func TestRegistry_ProviderErrorsPropagate(t *testing.T) {
	db := seededDB(t)
	r := NewRegistry(NewPatterns())
	boom := errors.New("unreadable header")
	if err := r.SetProvider("HKPFileInfo", func(f *os.File) (map[string]any, error) { return nil, boom }); err != nil {
		t.Fatal(err)
	}
	acq := testAcq(t, db, "20230101T000000Z_mingun_hkp", "hkp")
	f := testFile(t, db, acq, "hkp_prom_20230101.h5", "hkp")
	path := filepath.Join(t.TempDir(), f.Name)
	writeFile(t, path, "data")
	if _, err := r.CreateFileInfo(db, f, path); !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestRegistry_UnknownFieldRejected(t *testing.T) {
	db := seededDB(t)
	r := NewRegistry(NewPatterns())
	if err := r.SetProvider("HKPFileInfo", func(f *os.File) (map[string]any, error) {
		return map[string]any{"colour": "blue"}, nil
	}); err != nil {
		t.Fatal(err)
	}
	acq := testAcq(t, db, "20230101T000000Z_mingun_hkp", "hkp")
	f := testFile(t, db, acq, "hkp_prom_20230101.h5", "hkp")
	path := filepath.Join(t.TempDir(), f.Name)
	writeFile(t, path, "data")
	if _, err := r.CreateFileInfo(db, f, path); !ErrConfig.Has(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestRegistry_CreateAcqInfo(t *testing.T) {
	db := seededDB(t)
	r := NewRegistry(NewPatterns())
	if err := r.SetProvider("HKAcqInfo", func(f *os.File) (map[string]any, error) {
		return map[string]any{"atmel_id": "0x1234", "atmel_name": "mingun"}, nil
	}); err != nil {
		t.Fatal(err)
	}
	acq := testAcq(t, db, "20230101T000000Z_mingun_hk", "hk")
	path := filepath.Join(t.TempDir(), "atmel_id.dat")
	writeFile(t, path, "0x1234 mingun")

	has, err := r.HasAcqInfo(db, acq)
	if err != nil || has {
		t.Fatalf("unexpected HasAcqInfo %v, %v", has, err)
	}
	info, err := r.CreateAcqInfo(db, acq, path)
	if err != nil {
		t.Fatal(err)
	}
	hi := info.(*HKAcqInfo)
	if hi.AcqID != acq.ID || hi.AtmelName != "mingun" {
		t.Fatalf("unexpected info %+v", hi)
	}
	if has, _ := r.HasAcqInfo(db, acq); !has {
		t.Fatalf("expected acq info to exist")
	}
}

func TestRegistry_AttachFileInfoChecksTable(t *testing.T) {
	db := seededDB(t)
	r := NewRegistry(NewPatterns())
	acq := testAcq(t, db, "20230101T000000Z_mingun_hkp", "hkp")
	f := testFile(t, db, acq, "hkp_prom_20230101.h5", "hkp")

	start, finish := 10.0, 20.0
	wrong := &CorrFileInfo{FileID: f.ID}
	if err := r.AttachFileInfo(db, f, wrong); !ErrConstraint.Has(err) {
		t.Fatalf("expected mismatch to be rejected, got %v", err)
	}
	right := &HKPFileInfo{FileID: f.ID, TimeRange: TimeRange{StartTime: &start, FinishTime: &finish}}
	if err := r.AttachFileInfo(db, f, right); err != nil {
		t.Fatal(err)
	}
	again := &HKPFileInfo{FileID: f.ID}
	if err := r.AttachFileInfo(db, f, again); !ErrConstraint.Has(err) {
		t.Fatalf("second info record for a file should fail, got %v", err)
	}
}
