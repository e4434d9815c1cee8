package dataindex

import (
	"testing"
)

func TestAcqTimes(t *testing.T) {
	db := seededDB(t)
	acq := testAcq(t, db, "20230101T000000Z_chime_corr", "corr")
	f1 := testFile(t, db, acq, "00000000_0000.h5", "corr")
	f2 := testFile(t, db, acq, "00000001_0000.h5", "corr")
	testFile(t, db, acq, "ch_master.log", "log")

	span := func(s, f float64) TimeRange { return TimeRange{StartTime: &s, FinishTime: &f} }
	mustCreate(t, db, &CorrFileInfo{FileID: f1.ID, TimeRange: span(100, 200)})
	mustCreate(t, db, &CorrFileInfo{FileID: f2.ID, TimeRange: span(150, 250)})

	start, ok, err := AcqStartTime(db, acq.ID)
	if err != nil || !ok || start != 100 {
		t.Fatalf("start = %v, %v, %v", start, ok, err)
	}
	finish, ok, err := AcqFinishTime(db, acq.ID)
	if err != nil || !ok || finish != 250 {
		t.Fatalf("finish = %v, %v, %v", finish, ok, err)
	}

	timed, err := TimedFiles(db, acq.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(timed) != 2 || timed[0].ID != f1.ID || timed[1].ID != f2.ID {
		t.Fatalf("unexpected timed files %+v", timed)
	}
	n, err := CountTimedFiles(db, acq.ID)
	if err != nil || n != 2 {
		t.Fatalf("count = %d, %v", n, err)
	}
}

func TestAcqTimes_AcrossInfoTables(t *testing.T) {
	db := seededDB(t)
	acq := testAcq(t, db, "20230101T000000Z_chime_hk", "hk")
	hk := testFile(t, db, acq, "mingun_00000000.h5", "hk")
	hkp := testFile(t, db, acq, "hkp_prom_20230101.h5", "hkp")

	s1, f1 := 50.0, 60.0
	s2, f2 := 10.0, 500.0
	mustCreate(t, db, &HKFileInfo{FileID: hk.ID, AtmelName: "mingun", TimeRange: TimeRange{StartTime: &s1, FinishTime: &f1}})
	mustCreate(t, db, &HKPFileInfo{FileID: hkp.ID, TimeRange: TimeRange{StartTime: &s2, FinishTime: &f2}})

	start, _, err := AcqStartTime(db, acq.ID)
	if err != nil || start != 10 {
		t.Fatalf("start = %v, %v", start, err)
	}
	finish, _, err := AcqFinishTime(db, acq.ID)
	if err != nil || finish != 500 {
		t.Fatalf("finish = %v, %v", finish, err)
	}
}

func TestAcqTimes_NoTimedFiles(t *testing.T) {
	db := seededDB(t)
	acq := testAcq(t, db, "20230101T000000Z_chime_corr", "corr")
	testFile(t, db, acq, "ch_master.log", "log")

	if _, ok, err := AcqStartTime(db, acq.ID); err != nil || ok {
		t.Fatalf("expected no start time, got ok=%v err=%v", ok, err)
	}
	n, err := CountTimedFiles(db, acq.ID)
	if err != nil || n != 0 {
		t.Fatalf("count = %d, %v", n, err)
	}
}

func TestAcqTimes_OtherAcqIgnored(t *testing.T) {
	db := seededDB(t)
	a := testAcq(t, db, "20230101T000000Z_chime_corr", "corr")
	b := testAcq(t, db, "20230102T000000Z_chime_corr", "corr")
	fb := testFile(t, db, b, "00000000_0000.h5", "corr")
	s, f := 1.0, 2.0
	mustCreate(t, db, &CorrFileInfo{FileID: fb.ID, TimeRange: TimeRange{StartTime: &s, FinishTime: &f}})

	if _, ok, err := AcqFinishTime(db, a.ID); err != nil || ok {
		t.Fatalf("files of another acquisition leaked in: ok=%v err=%v", ok, err)
	}
}

func TestFilesWithInfo(t *testing.T) {
	db := seededDB(t)
	acq := testAcq(t, db, "20230101T000000Z_chime_hk", "hk")
	other := testAcq(t, db, "20230102T000000Z_chime_hk", "hk")
	hk := testFile(t, db, acq, "mingun_00000000.h5", "hk")
	testFile(t, db, acq, "ch_master.log", "log")
	stray := testFile(t, db, other, "mingun_00000000.h5", "hk")
	misc := testFile(t, db, acq, "notes.tar", "miscellaneous")

	mustCreate(t, db, &HKFileInfo{FileID: hk.ID, AtmelName: "mingun"})
	mustCreate(t, db, &HKFileInfo{FileID: stray.ID, AtmelName: "mingun"})
	mustCreate(t, db, &MiscFileInfo{FileID: misc.ID})

	got, err := FilesWithInfo(db, acq.ID, HKFileInfo{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != hk.ID {
		t.Fatalf("hk files = %+v", got)
	}
	got, err = FilesWithInfo(db, acq.ID, MiscFileInfo{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != misc.ID {
		t.Fatalf("misc files = %+v", got)
	}
	got, err = FilesWithInfo(db, acq.ID, WeatherFileInfo{})
	if err != nil || len(got) != 0 {
		t.Fatalf("weather files = %+v, %v", got, err)
	}
}
