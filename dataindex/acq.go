package dataindex

import (
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// timedFileIDs is a subquery over every timed info table yielding file ids.
func timedFileIDs() string {
	infos := timedFileInfos()
	parts := make([]string, 0, len(infos))
	for _, info := range infos {
		parts = append(parts, "SELECT file_id FROM "+info.TableName())
	}
	return strings.Join(parts, " UNION ")
}

// TimedFiles returns the files of an acquisition that carry a time span.
func TimedFiles(db *gorm.DB, acqID uint) ([]ArchiveFile, error) {
	var files []ArchiveFile
	err := db.Where("acq_id = ? AND id IN ("+timedFileIDs()+")", acqID).
		Order("name").
		Find(&files).Error
	return files, err
}

// FilesWithInfo returns the files of an acquisition that have a record in
// info's table, e.g. FilesWithInfo(db, id, CorrFileInfo{}) for the
// correlator files.
func FilesWithInfo(db *gorm.DB, acqID uint, info FileInfo) ([]ArchiveFile, error) {
	var files []ArchiveFile
	err := db.Where("acq_id = ? AND id IN (?)", acqID,
		db.Session(&gorm.Session{NewDB: true}).Table(info.TableName()).Select("file_id")).
		Order("name").
		Find(&files).Error
	return files, err
}

// CountTimedFiles counts the files of an acquisition that carry a time span.
func CountTimedFiles(db *gorm.DB, acqID uint) (int64, error) {
	var n int64
	err := db.Model(&ArchiveFile{}).
		Where("acq_id = ? AND id IN ("+timedFileIDs()+")", acqID).
		Count(&n).Error
	return n, err
}

// AcqStartTime is the earliest start time over all info records of the
// acquisition's files. ok is false when no record carries a start time.
func AcqStartTime(db *gorm.DB, acqID uint) (start float64, ok bool, err error) {
	return acqTimeBound(db, acqID, "MIN", "start_time")
}

// AcqFinishTime is the latest finish time over all info records of the
// acquisition's files. ok is false when no record carries a finish time.
func AcqFinishTime(db *gorm.DB, acqID uint) (finish float64, ok bool, err error) {
	return acqTimeBound(db, acqID, "MAX", "finish_time")
}

func acqTimeBound(db *gorm.DB, acqID uint, agg string, column string) (float64, bool, error) {
	var best float64
	found := false
	for _, info := range timedFileInfos() {
		table := info.TableName()
		var v sql.NullFloat64
		err := db.Table(table).
			Select(fmt.Sprintf("%s(%s.%s)", agg, table, column)).
			Joins(fmt.Sprintf("JOIN archivefile ON archivefile.id = %s.file_id", table)).
			Where("archivefile.acq_id = ?", acqID).
			Row().Scan(&v)
		if err != nil {
			return 0, false, err
		}
		if !v.Valid {
			continue
		}
		switch {
		case !found:
			best = v.Float64
		case agg == "MIN" && v.Float64 < best:
			best = v.Float64
		case agg == "MAX" && v.Float64 > best:
			best = v.Float64
		}
		found = true
	}
	return best, found, nil
}
