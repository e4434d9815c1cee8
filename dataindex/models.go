package dataindex

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ArchiveInst is the instrument that took the data.
type ArchiveInst struct {
	ID    uint    `gorm:"primaryKey"`
	Name  string  `gorm:"uniqueIndex;size:64;not null"`
	Notes *string `gorm:"type:text"`
}

func (ArchiveInst) TableName() string { return "archiveinst" }

// AcqType is the kind of data taken in an acquisition (corr, hk, weather, ...).
// InfoClass names the acquisition info table in the Registry, if any.
type AcqType struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"uniqueIndex;size:64;not null"`
	InfoClass *string `gorm:"size:64"`
	Notes     *string `gorm:"type:text"`
}

func (AcqType) TableName() string { return "acqtype" }

// AcqFileTypes joins acquisition types to the file types they support.
type AcqFileTypes struct {
	AcqTypeID  uint      `gorm:"primaryKey;autoIncrement:false"`
	AcqType    *AcqType  `gorm:"foreignKey:AcqTypeID"`
	FileTypeID uint      `gorm:"primaryKey;autoIncrement:false"`
	FileType   *FileType `gorm:"foreignKey:FileTypeID"`
}

func (AcqFileTypes) TableName() string { return "acqfiletypes" }

// ArchiveAcq is a named collection of files from one data-taking session.
type ArchiveAcq struct {
	ID      uint         `gorm:"primaryKey"`
	Name    string       `gorm:"uniqueIndex;size:64;not null"`
	InstID  *uint        `gorm:"index"`
	Inst    *ArchiveInst `gorm:"foreignKey:InstID"`
	TypeID  *uint        `gorm:"index"`
	Type    *AcqType     `gorm:"foreignKey:TypeID"`
	Comment *string      `gorm:"type:text"`
}

func (ArchiveAcq) TableName() string { return "archiveacq" }

// FileType describes a kind of file. A type without Pattern is never
// auto-detected on import.
type FileType struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"uniqueIndex;size:64;not null"`
	InfoClass *string `gorm:"size:64"`
	Pattern   *string `gorm:"type:text"`
	Notes     *string `gorm:"type:text"`
}

func (FileType) TableName() string { return "filetype" }

// ArchiveFile is a file in an acquisition. Names are unique per acquisition.
type ArchiveFile struct {
	ID         uint        `gorm:"primaryKey"`
	AcqID      uint        `gorm:"not null;uniqueIndex:idx_archivefile_acq_name"`
	Acq        *ArchiveAcq `gorm:"foreignKey:AcqID"`
	TypeID     *uint       `gorm:"index"`
	Type       *FileType   `gorm:"foreignKey:TypeID"`
	Name       string      `gorm:"size:64;not null;uniqueIndex:idx_archivefile_acq_name"`
	SizeB      *int64      `gorm:"column:size_b"`
	MD5Sum     *string     `gorm:"column:md5sum;size:32"`
	Registered time.Time   `gorm:"<-:create;autoCreateTime"`
}

func (ArchiveFile) TableName() string { return "archivefile" }

// StorageGroup is a logical destination that may span several nodes.
// IOConfig, when set, must hold a JSON object; it is only checked by Config.
type StorageGroup struct {
	ID       uint           `gorm:"primaryKey"`
	Name     string         `gorm:"uniqueIndex;size:64;not null"`
	IOClass  *string        `gorm:"column:io_class;size:255"`
	IOConfig datatypes.JSON `gorm:"column:io_config"`
	Notes    *string        `gorm:"type:text"`
}

func (StorageGroup) TableName() string { return "storagegroup" }

// Config decodes IOConfig. A NULL config yields a nil map.
func (g *StorageGroup) Config() (map[string]any, error) {
	return decodeIOConfig(g.IOConfig, "storage group "+g.Name)
}

// StorageNode is a physical location (host + path) holding file copies.
type StorageNode struct {
	ID         uint           `gorm:"primaryKey"`
	Name       string         `gorm:"uniqueIndex;size:64;not null"`
	Root       *string        `gorm:"size:255"`
	Host       *string        `gorm:"size:64"`
	Username   *string        `gorm:"size:64"`
	Address    *string        `gorm:"size:255"`
	GroupID    uint           `gorm:"not null;index"`
	Group      *StorageGroup  `gorm:"foreignKey:GroupID"`
	IOClass    *string        `gorm:"column:io_class;size:255"`
	IOConfig   datatypes.JSON `gorm:"column:io_config"`
	Active     bool           `gorm:"not null;default:false"`
	AutoImport bool           `gorm:"not null;default:false"`
	AutoVerify int            `gorm:"not null;default:0"`
	// Deprecated: Suspect is no longer set by anything; kept for older readers.
	Suspect            bool        `gorm:"not null;default:false"`
	StorageType        StorageType `gorm:"size:1;not null;default:A;check:chk_storagenode_storage_type,storage_type IN ('A','T','F')"`
	MaxTotalGB         *float64    `gorm:"column:max_total_gb"`
	MinAvailGB         float64     `gorm:"column:min_avail_gb;not null"`
	AvailGB            *float64    `gorm:"column:avail_gb"`
	AvailGBLastChecked *time.Time  `gorm:"column:avail_gb_last_checked"`
	// MinDeleteAgeDays is a pointer so an explicit 0 is stored; nil takes the
	// column default of DefaultMinDeleteAgeDays.
	MinDeleteAgeDays *float64 `gorm:"column:min_delete_age_days;not null;default:30"`
	Notes            *string  `gorm:"type:text"`
}

func (StorageNode) TableName() string { return "storagenode" }

// Config decodes IOConfig. A NULL config yields a nil map.
func (n *StorageNode) Config() (map[string]any, error) {
	return decodeIOConfig(n.IOConfig, "storage node "+n.Name)
}

// DefaultMinDeleteAgeDays applies to nodes created without a minimum age.
const DefaultMinDeleteAgeDays = 30

// MinDeleteAge is the age a copy must reach before it may be deleted.
func (n *StorageNode) MinDeleteAge() time.Duration {
	days := float64(DefaultMinDeleteAgeDays)
	if n.MinDeleteAgeDays != nil {
		days = *n.MinDeleteAgeDays
	}
	return time.Duration(days * float64(24*time.Hour))
}

// UnderMinDeleteAge reports whether a copy that arrived at since is still
// too young to be deleted from this node at now.
func (n *StorageNode) UnderMinDeleteAge(since, now time.Time) bool {
	return now.Sub(since) < n.MinDeleteAge()
}

// ArchiveFileCopy records whether a node holds, and wants, a file.
type ArchiveFileCopy struct {
	ID         uint         `gorm:"primaryKey"`
	FileID     uint         `gorm:"not null;uniqueIndex:idx_archivefilecopy_file_node"`
	File       *ArchiveFile `gorm:"foreignKey:FileID"`
	NodeID     uint         `gorm:"not null;uniqueIndex:idx_archivefilecopy_file_node"`
	Node       *StorageNode `gorm:"foreignKey:NodeID"`
	HasFile    HasFile      `gorm:"size:1;not null;default:N;check:chk_archivefilecopy_has_file,has_file IN ('N','Y','M','X')"`
	WantsFile  WantsFile    `gorm:"size:1;not null;default:Y;check:chk_archivefilecopy_wants_file,wants_file IN ('Y','M','N')"`
	SizeB      *int64       `gorm:"column:size_b"`
	LastUpdate time.Time    `gorm:"autoUpdateTime"`
}

func (ArchiveFileCopy) TableName() string { return "archivefilecopy" }

// ArchiveFileCopyRequest asks for a file to be copied from a node to a group.
// At most one row exists per (file, group_to, node_from).
type ArchiveFileCopyRequest struct {
	FileID            uint          `gorm:"primaryKey;autoIncrement:false"`
	File              *ArchiveFile  `gorm:"foreignKey:FileID"`
	GroupToID         uint          `gorm:"primaryKey;autoIncrement:false"`
	GroupTo           *StorageGroup `gorm:"foreignKey:GroupToID"`
	NodeFromID        uint          `gorm:"primaryKey;autoIncrement:false"`
	NodeFrom          *StorageNode  `gorm:"foreignKey:NodeFromID"`
	Completed         bool          `gorm:"not null"`
	Cancelled         bool          `gorm:"not null;default:false"`
	Timestamp         time.Time     `gorm:"not null"`
	TransferStarted   *time.Time
	TransferCompleted *time.Time
	// Deprecated: Nice is ignored by current copy tooling.
	Nice int `gorm:"not null;default:0"`
	// Deprecated: NRequests is still incremented by RequestCopy but not read.
	NRequests int `gorm:"column:n_requests;not null;default:0"`
}

func (ArchiveFileCopyRequest) TableName() string { return "archivefilecopyrequest" }

// CopyRequestKey is the composite key of an ArchiveFileCopyRequest.
type CopyRequestKey struct {
	FileID     uint
	GroupToID  uint
	NodeFromID uint
}

func (k CopyRequestKey) where(db *gorm.DB) *gorm.DB {
	return db.Where("file_id = ? AND group_to_id = ? AND node_from_id = ?", k.FileID, k.GroupToID, k.NodeFromID)
}

// StorageTransferAction is a topology edge: files landing on NodeFrom are
// synced to GroupTo (Autosync) and the source copy released once GroupTo
// has them (Autoclean).
type StorageTransferAction struct {
	ID         uint          `gorm:"primaryKey"`
	NodeFromID uint          `gorm:"not null;uniqueIndex:idx_storagetransferaction_edge"`
	NodeFrom   *StorageNode  `gorm:"foreignKey:NodeFromID"`
	GroupToID  uint          `gorm:"not null;uniqueIndex:idx_storagetransferaction_edge"`
	GroupTo    *StorageGroup `gorm:"foreignKey:GroupToID"`
	Autosync   bool          `gorm:"not null;default:false"`
	Autoclean  bool          `gorm:"not null;default:false"`
}

func (StorageTransferAction) TableName() string { return "storagetransferaction" }

// Models lists every table of the data index, core tables first.
func Models() []any {
	return []any{
		&ArchiveInst{},
		&AcqType{},
		&FileType{},
		&AcqFileTypes{},
		&ArchiveAcq{},
		&ArchiveFile{},
		&StorageGroup{},
		&StorageNode{},
		&ArchiveFileCopy{},
		&ArchiveFileCopyRequest{},
		&StorageTransferAction{},

		&CorrAcqInfo{},
		&HFBAcqInfo{},
		&HKAcqInfo{},
		&RawadcAcqInfo{},

		&CorrFileInfo{},
		&HFBFileInfo{},
		&HKFileInfo{},
		&HKPFileInfo{},
		&RawadcFileInfo{},
		&WeatherFileInfo{},
		&DigitalGainFileInfo{},
		&CalibrationGainFileInfo{},
		&FlagInputFileInfo{},
		&MiscFileInfo{},
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
