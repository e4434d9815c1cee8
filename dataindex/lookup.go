package dataindex

import (
	"gorm.io/gorm"
)

func byName[T any](db *gorm.DB, what string, name string) (*T, error) {
	var rec T
	if err := db.Where("name = ?", name).Take(&rec).Error; err != nil {
		return nil, notFound(what, name, err)
	}
	return &rec, nil
}

func InstrumentByName(db *gorm.DB, name string) (*ArchiveInst, error) {
	return byName[ArchiveInst](db, "instrument", name)
}

func AcqTypeByName(db *gorm.DB, name string) (*AcqType, error) {
	return byName[AcqType](db, "acquisition type", name)
}

func FileTypeByName(db *gorm.DB, name string) (*FileType, error) {
	return byName[FileType](db, "file type", name)
}

func AcqByName(db *gorm.DB, name string) (*ArchiveAcq, error) {
	return byName[ArchiveAcq](db, "acquisition", name)
}

func StorageGroupByName(db *gorm.DB, name string) (*StorageGroup, error) {
	return byName[StorageGroup](db, "storage group", name)
}

func StorageNodeByName(db *gorm.DB, name string) (*StorageNode, error) {
	return byName[StorageNode](db, "storage node", name)
}

// FileByName finds a file within an acquisition.
func FileByName(db *gorm.DB, acqID uint, name string) (*ArchiveFile, error) {
	var f ArchiveFile
	if err := db.Where("acq_id = ? AND name = ?", acqID, name).Take(&f).Error; err != nil {
		return nil, notFound("file", name, err)
	}
	return &f, nil
}

// SupportedFileTypes returns the file types associated with an acquisition type.
func SupportedFileTypes(db *gorm.DB, acqTypeID uint) ([]FileType, error) {
	var out []FileType
	err := db.Joins("JOIN acqfiletypes ON acqfiletypes.file_type_id = filetype.id").
		Where("acqfiletypes.acq_type_id = ?", acqTypeID).
		Order("filetype.id").
		Find(&out).Error
	return out, err
}

// DetectFileType classifies name and loads the matching FileType row.
// An unrecognised name yields nil without error; a recognised type that was
// never seeded is ErrNotFound.
func DetectFileType(db *gorm.DB, det *Detector, name string) (*FileType, error) {
	typeName, ok := det.Detect(name)
	if !ok {
		return nil, nil
	}
	return FileTypeByName(db, typeName)
}
