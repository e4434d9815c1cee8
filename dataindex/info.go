package dataindex

import (
	"gorm.io/datatypes"
)

// FileInfo is a per-type metadata record attached to exactly one ArchiveFile.
type FileInfo interface {
	TableName() string
	InfoFileID() uint
}

// TimedInfo is a FileInfo carrying the time span covered by its file.
type TimedInfo interface {
	FileInfo
	Range() (start, finish *float64)
}

// AcqInfo is a per-type metadata record attached to exactly one ArchiveAcq.
type AcqInfo interface {
	TableName() string
	InfoAcqID() uint
}

// TimeRange is embedded by every timed file info record. Times are UNIX seconds.
type TimeRange struct {
	StartTime  *float64
	FinishTime *float64
}

func (r TimeRange) Range() (start, finish *float64) { return r.StartTime, r.FinishTime }

// Acquisition info
// ================

type CorrAcqInfo struct {
	ID          uint        `gorm:"primaryKey"`
	AcqID       uint        `gorm:"not null;uniqueIndex"`
	Acq         *ArchiveAcq `gorm:"foreignKey:AcqID"`
	Integration *float64
	NFreq       *int `gorm:"column:nfreq"`
	NProd       *int `gorm:"column:nprod"`
}

func (CorrAcqInfo) TableName() string  { return "corracqinfo" }
func (i CorrAcqInfo) InfoAcqID() uint { return i.AcqID }

type HFBAcqInfo struct {
	ID          uint        `gorm:"primaryKey"`
	AcqID       uint        `gorm:"not null;uniqueIndex"`
	Acq         *ArchiveAcq `gorm:"foreignKey:AcqID"`
	Integration *float64
	NFreq       *int `gorm:"column:nfreq"`
	NSubFreq    *int `gorm:"column:nsubfreq"`
	NBeam       *int `gorm:"column:nbeam"`
}

func (HFBAcqInfo) TableName() string  { return "hfbacqinfo" }
func (i HFBAcqInfo) InfoAcqID() uint { return i.AcqID }

// HKAcqInfo names the ATMEL board of a housekeeping acquisition.
type HKAcqInfo struct {
	ID        uint        `gorm:"primaryKey"`
	AcqID     uint        `gorm:"not null;uniqueIndex"`
	Acq       *ArchiveAcq `gorm:"foreignKey:AcqID"`
	AtmelID   string      `gorm:"size:64;not null"`
	AtmelName string      `gorm:"size:64;not null"`
}

func (HKAcqInfo) TableName() string  { return "hkacqinfo" }
func (i HKAcqInfo) InfoAcqID() uint { return i.AcqID }

type RawadcAcqInfo struct {
	ID        uint        `gorm:"primaryKey"`
	AcqID     uint        `gorm:"not null;uniqueIndex"`
	Acq       *ArchiveAcq `gorm:"foreignKey:AcqID"`
	StartTime *float64
}

func (RawadcAcqInfo) TableName() string  { return "rawadcacqinfo" }
func (i RawadcAcqInfo) InfoAcqID() uint { return i.AcqID }

// File info
// =========

type CorrFileInfo struct {
	ID     uint         `gorm:"primaryKey"`
	FileID uint         `gorm:"not null;uniqueIndex"`
	File   *ArchiveFile `gorm:"foreignKey:FileID"`
	TimeRange
	ChunkNumber *int
	FreqNumber  *int
}

func (CorrFileInfo) TableName() string   { return "corrfileinfo" }
func (i CorrFileInfo) InfoFileID() uint { return i.FileID }

type HFBFileInfo struct {
	ID     uint         `gorm:"primaryKey"`
	FileID uint         `gorm:"not null;uniqueIndex"`
	File   *ArchiveFile `gorm:"foreignKey:FileID"`
	TimeRange
	ChunkNumber *int
	FreqNumber  *int
}

func (HFBFileInfo) TableName() string   { return "hfbfileinfo" }
func (i HFBFileInfo) InfoFileID() uint { return i.FileID }

type HKFileInfo struct {
	ID     uint         `gorm:"primaryKey"`
	FileID uint         `gorm:"not null;uniqueIndex"`
	File   *ArchiveFile `gorm:"foreignKey:FileID"`
	TimeRange
	AtmelName   string `gorm:"size:64;not null"`
	ChunkNumber *int
}

func (HKFileInfo) TableName() string   { return "hkfileinfo" }
func (i HKFileInfo) InfoFileID() uint { return i.FileID }

// HKPFileInfo covers the prometheus housekeeping archives.
type HKPFileInfo struct {
	ID     uint         `gorm:"primaryKey"`
	FileID uint         `gorm:"not null;uniqueIndex"`
	File   *ArchiveFile `gorm:"foreignKey:FileID"`
	TimeRange
}

func (HKPFileInfo) TableName() string   { return "hkpfileinfo" }
func (i HKPFileInfo) InfoFileID() uint { return i.FileID }

type RawadcFileInfo struct {
	ID     uint         `gorm:"primaryKey"`
	FileID uint         `gorm:"not null;uniqueIndex"`
	File   *ArchiveFile `gorm:"foreignKey:FileID"`
	TimeRange
}

func (RawadcFileInfo) TableName() string   { return "rawadcfileinfo" }
func (i RawadcFileInfo) InfoFileID() uint { return i.FileID }

// WeatherFileInfo holds one day of site weather; Date is YYYYMMDD.
type WeatherFileInfo struct {
	ID     uint         `gorm:"primaryKey"`
	FileID uint         `gorm:"not null;uniqueIndex"`
	File   *ArchiveFile `gorm:"foreignKey:FileID"`
	TimeRange
	Date *string `gorm:"size:8"`
}

func (WeatherFileInfo) TableName() string   { return "weatherfileinfo" }
func (i WeatherFileInfo) InfoFileID() uint { return i.FileID }

type DigitalGainFileInfo struct {
	ID     uint         `gorm:"primaryKey"`
	FileID uint         `gorm:"not null;uniqueIndex"`
	File   *ArchiveFile `gorm:"foreignKey:FileID"`
	TimeRange
}

func (DigitalGainFileInfo) TableName() string   { return "digitalgainfileinfo" }
func (i DigitalGainFileInfo) InfoFileID() uint { return i.FileID }

type CalibrationGainFileInfo struct {
	ID     uint         `gorm:"primaryKey"`
	FileID uint         `gorm:"not null;uniqueIndex"`
	File   *ArchiveFile `gorm:"foreignKey:FileID"`
	TimeRange
}

func (CalibrationGainFileInfo) TableName() string   { return "calibrationgainfileinfo" }
func (i CalibrationGainFileInfo) InfoFileID() uint { return i.FileID }

type FlagInputFileInfo struct {
	ID     uint         `gorm:"primaryKey"`
	FileID uint         `gorm:"not null;uniqueIndex"`
	File   *ArchiveFile `gorm:"foreignKey:FileID"`
	TimeRange
}

func (FlagInputFileInfo) TableName() string   { return "flaginputfileinfo" }
func (i FlagInputFileInfo) InfoFileID() uint { return i.FileID }

// MiscFileInfo describes a miscellaneous tarball. It has no time span;
// Metadata holds the free-form document shipped with the tarball.
type MiscFileInfo struct {
	ID       uint              `gorm:"primaryKey"`
	FileID   uint              `gorm:"not null;uniqueIndex"`
	File     *ArchiveFile      `gorm:"foreignKey:FileID"`
	DataType string            `gorm:"size:255;not null"`
	Metadata datatypes.JSONMap `gorm:"column:metadata"`
}

func (MiscFileInfo) TableName() string   { return "miscfileinfo" }
func (i MiscFileInfo) InfoFileID() uint { return i.FileID }

// timedFileInfos lists the file info tables that contribute to an
// acquisition's time span.
func timedFileInfos() []TimedInfo {
	return []TimedInfo{
		CorrFileInfo{},
		HFBFileInfo{},
		HKFileInfo{},
		WeatherFileInfo{},
		RawadcFileInfo{},
		HKPFileInfo{},
		DigitalGainFileInfo{},
		CalibrationGainFileInfo{},
		FlagInputFileInfo{},
	}
}
