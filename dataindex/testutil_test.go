package dataindex

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenDB(DatabaseConfig{Path: filepath.Join(t.TempDir(), "index.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// seededDB is a migrated database with every seed group applied.
func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t)
	if err := NewSeeder(db, zaptest.NewLogger(t)).Run(SeedGroups()...); err != nil {
		t.Fatal(err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// testAcq creates an acquisition of the given seeded type with a fresh name.
func testAcq(t *testing.T, db *gorm.DB, name string, acqType string) *ArchiveAcq {
	t.Helper()
	at, err := AcqTypeByName(db, acqType)
	if err != nil {
		t.Fatal(err)
	}
	acq := &ArchiveAcq{Name: name, TypeID: &at.ID}
	mustCreate(t, db, acq)
	return acq
}

func testFile(t *testing.T, db *gorm.DB, acq *ArchiveAcq, name string, fileType string) *ArchiveFile {
	t.Helper()
	ft, err := FileTypeByName(db, fileType)
	if err != nil {
		t.Fatal(err)
	}
	f := &ArchiveFile{AcqID: acq.ID, TypeID: &ft.ID, Name: name}
	mustCreate(t, db, f)
	return f
}
