package dataindex

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InfoProvider extracts metadata from a file opened read-only. The returned
// map is keyed by column (or field) name of the info record and is merged
// into the record when it is created.
type InfoProvider func(f *os.File) (map[string]any, error)

// CalibrationInfoClass is the info class of the calibration file type. Its
// concrete table depends on the acquisition type of the file.
const CalibrationInfoClass = "CalibrationFileInfo"

func calibrationClasses() map[string]string {
	return map[string]string{
		"digitalgain": "DigitalGainFileInfo",
		"gain":        "CalibrationGainFileInfo",
		"flaginput":   "FlagInputFileInfo",
	}
}

// InfoKind is one registered info record type.
type InfoKind struct {
	Class    string
	Table    string
	Acq      bool
	Timed    bool
	Provider InfoProvider
	newModel func() any
}

// Registry maps info_class names onto info record types and their
// providers. Everything is registered up front; Validate checks the
// database against it.
type Registry struct {
	kinds map[string]*InfoKind
}

// NewRegistry registers every info table. File info for types whose
// metadata is carried in the filename gets a provider built on p.
func NewRegistry(p *Patterns) *Registry {
	r := &Registry{kinds: make(map[string]*InfoKind)}

	r.add("CorrAcqInfo", true, false, func() any { return &CorrAcqInfo{} }, nil)
	r.add("HFBAcqInfo", true, false, func() any { return &HFBAcqInfo{} }, nil)
	r.add("HKAcqInfo", true, false, func() any { return &HKAcqInfo{} }, nil)
	r.add("RawadcAcqInfo", true, false, func() any { return &RawadcAcqInfo{} }, nil)

	r.add("CorrFileInfo", false, true, func() any { return &CorrFileInfo{} }, corrProvider(p))
	r.add("HFBFileInfo", false, true, func() any { return &HFBFileInfo{} }, hfbProvider(p))
	r.add("HKFileInfo", false, true, func() any { return &HKFileInfo{} }, hkProvider(p))
	r.add("HKPFileInfo", false, true, func() any { return &HKPFileInfo{} }, nil)
	r.add("RawadcFileInfo", false, true, func() any { return &RawadcFileInfo{} }, nil)
	r.add("WeatherFileInfo", false, true, func() any { return &WeatherFileInfo{} }, weatherProvider(p))
	r.add("DigitalGainFileInfo", false, true, func() any { return &DigitalGainFileInfo{} }, nil)
	r.add("CalibrationGainFileInfo", false, true, func() any { return &CalibrationGainFileInfo{} }, nil)
	r.add("FlagInputFileInfo", false, true, func() any { return &FlagInputFileInfo{} }, nil)
	r.add("MiscFileInfo", false, false, func() any { return &MiscFileInfo{} }, miscProvider(p))
	return r
}

func (r *Registry) add(class string, acq bool, timed bool, newModel func() any, provider InfoProvider) {
	table := newModel().(interface{ TableName() string }).TableName()
	r.kinds[class] = &InfoKind{
		Class:    class,
		Table:    table,
		Acq:      acq,
		Timed:    timed,
		Provider: provider,
		newModel: newModel,
	}
}

// Kind looks up a registered info class.
func (r *Registry) Kind(class string) (*InfoKind, bool) {
	k, ok := r.kinds[class]
	return k, ok
}

// Classes returns the registered info classes in sorted order.
func (r *Registry) Classes() []string {
	out := make([]string, 0, len(r.kinds))
	for c := range r.kinds {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SetProvider replaces the provider of a registered info class. A nil
// provider disables record creation for that class.
func (r *Registry) SetProvider(class string, provider InfoProvider) error {
	k, ok := r.kinds[class]
	if !ok {
		return ErrConfig.New("unknown info class %q", class)
	}
	k.Provider = provider
	return nil
}

// Validate checks that every info_class named by the AcqType and FileType
// tables is registered with the right kind of record.
func (r *Registry) Validate(db *gorm.DB) error {
	var acqTypes []AcqType
	if err := db.Where("info_class IS NOT NULL").Find(&acqTypes).Error; err != nil {
		return err
	}
	for _, at := range acqTypes {
		k, ok := r.kinds[*at.InfoClass]
		if !ok || !k.Acq {
			return ErrConfig.New("acquisition type %q names unknown info class %q", at.Name, *at.InfoClass)
		}
	}

	var fileTypes []FileType
	if err := db.Where("info_class IS NOT NULL").Find(&fileTypes).Error; err != nil {
		return err
	}
	for _, ft := range fileTypes {
		if *ft.InfoClass == CalibrationInfoClass {
			continue
		}
		k, ok := r.kinds[*ft.InfoClass]
		if !ok || k.Acq {
			return ErrConfig.New("file type %q names unknown info class %q", ft.Name, *ft.InfoClass)
		}
	}
	return nil
}

// FileKind resolves the info record type of a file from its FileType (and,
// for calibration files, its acquisition type). A file whose type has no
// info class yields nil.
func (r *Registry) FileKind(db *gorm.DB, file *ArchiveFile) (*InfoKind, error) {
	if file.TypeID == nil {
		return nil, nil
	}
	var ft FileType
	if err := db.Take(&ft, *file.TypeID).Error; err != nil {
		return nil, notFound("file type", *file.TypeID, err)
	}
	if ft.InfoClass == nil {
		return nil, nil
	}
	class := *ft.InfoClass
	if class == CalibrationInfoClass {
		at, err := acqTypeOf(db, file.AcqID)
		if err != nil {
			return nil, err
		}
		c, ok := calibrationClasses()[at.Name]
		if !ok {
			return nil, ErrConfig.New("no calibration info table for acquisition type %q", at.Name)
		}
		class = c
	}
	k, ok := r.kinds[class]
	if !ok || k.Acq {
		return nil, ErrConfig.New("file type %q names unknown info class %q", ft.Name, class)
	}
	return k, nil
}

// AcqKind resolves the info record type of an acquisition. An acquisition
// whose type has no info class yields nil.
func (r *Registry) AcqKind(db *gorm.DB, acq *ArchiveAcq) (*InfoKind, error) {
	if acq.TypeID == nil {
		return nil, nil
	}
	var at AcqType
	if err := db.Take(&at, *acq.TypeID).Error; err != nil {
		return nil, notFound("acquisition type", *acq.TypeID, err)
	}
	if at.InfoClass == nil {
		return nil, nil
	}
	k, ok := r.kinds[*at.InfoClass]
	if !ok || !k.Acq {
		return nil, ErrConfig.New("acquisition type %q names unknown info class %q", at.Name, *at.InfoClass)
	}
	return k, nil
}

func acqTypeOf(db *gorm.DB, acqID uint) (*AcqType, error) {
	var acq ArchiveAcq
	if err := db.Take(&acq, acqID).Error; err != nil {
		return nil, notFound("acquisition", acqID, err)
	}
	if acq.TypeID == nil {
		return nil, ErrNotFound.New("acquisition %q has no type", acq.Name)
	}
	var at AcqType
	if err := db.Take(&at, *acq.TypeID).Error; err != nil {
		return nil, notFound("acquisition type", *acq.TypeID, err)
	}
	return &at, nil
}

// CreateFileInfo runs the provider for the file's info class over the file
// at path and stores the result. It returns nil when the type has no info
// class or no provider. Provider errors are returned as they are.
func (r *Registry) CreateFileInfo(tx *gorm.DB, file *ArchiveFile, path string) (FileInfo, error) {
	kind, err := r.FileKind(tx, file)
	if err != nil || kind == nil || kind.Provider == nil {
		return nil, err
	}
	fields, err := runProvider(kind.Provider, path)
	if err != nil {
		return nil, err
	}
	if err := createFromFields(tx, kind, "file_id", file.ID, fields); err != nil {
		return nil, err
	}
	rec := kind.newModel()
	if err := tx.Where("file_id = ?", file.ID).Take(rec).Error; err != nil {
		return nil, err
	}
	return rec.(FileInfo), nil
}

// CreateAcqInfo is CreateFileInfo for acquisition info, using path as the
// representative file of the acquisition.
func (r *Registry) CreateAcqInfo(tx *gorm.DB, acq *ArchiveAcq, path string) (AcqInfo, error) {
	kind, err := r.AcqKind(tx, acq)
	if err != nil || kind == nil || kind.Provider == nil {
		return nil, err
	}
	fields, err := runProvider(kind.Provider, path)
	if err != nil {
		return nil, err
	}
	if err := createFromFields(tx, kind, "acq_id", acq.ID, fields); err != nil {
		return nil, err
	}
	rec := kind.newModel()
	if err := tx.Where("acq_id = ?", acq.ID).Take(rec).Error; err != nil {
		return nil, err
	}
	return rec.(AcqInfo), nil
}

// HasAcqInfo reports whether the acquisition already has its info record.
func (r *Registry) HasAcqInfo(db *gorm.DB, acq *ArchiveAcq) (bool, error) {
	kind, err := r.AcqKind(db, acq)
	if err != nil || kind == nil {
		return false, err
	}
	var n int64
	err = db.Table(kind.Table).Where("acq_id = ?", acq.ID).Count(&n).Error
	return n > 0, err
}

// AttachFileInfo stores a prebuilt info record for file. The record's table
// must be the one resolved from the file's type.
func (r *Registry) AttachFileInfo(tx *gorm.DB, file *ArchiveFile, info FileInfo) error {
	kind, err := r.FileKind(tx, file)
	if err != nil {
		return err
	}
	if kind == nil || kind.Table != info.TableName() {
		return ErrConstraint.New("%s record does not match the type of file %q", info.TableName(), file.Name)
	}
	if info.InfoFileID() != file.ID {
		return ErrConstraint.New("%s record belongs to file %d, not %q", info.TableName(), info.InfoFileID(), file.Name)
	}
	return ClassifyError(tx.Create(info).Error)
}

func runProvider(provider InfoProvider, path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return provider(f)
}

func createFromFields(tx *gorm.DB, kind *InfoKind, ownerColumn string, ownerID uint, fields map[string]any) error {
	model := kind.newModel()
	stmt := &gorm.Statement{DB: tx}
	if err := stmt.Parse(model); err != nil {
		return err
	}
	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		f := stmt.Schema.LookUpField(k)
		if f == nil || f.DBName == "" || f.PrimaryKey || f.DBName == ownerColumn {
			return ErrConfig.New("%s has no settable field %q", kind.Table, k)
		}
		values[f.DBName] = v
	}
	values[ownerColumn] = ownerID
	return ClassifyError(tx.Model(model).Create(values).Error)
}

// Filename-derived providers
// ==========================

func corrProvider(p *Patterns) InfoProvider {
	return func(f *os.File) (map[string]any, error) {
		chunk, freq, err := p.ParseCorrFileName(filepath.Base(f.Name()))
		if err != nil {
			return nil, err
		}
		return map[string]any{"chunk_number": chunk, "freq_number": freq}, nil
	}
}

func hfbProvider(p *Patterns) InfoProvider {
	return func(f *os.File) (map[string]any, error) {
		chunk, freq, err := p.ParseHFBFileName(filepath.Base(f.Name()))
		if err != nil {
			return nil, err
		}
		return map[string]any{"chunk_number": chunk, "freq_number": freq}, nil
	}
}

func hkProvider(p *Patterns) InfoProvider {
	return func(f *os.File) (map[string]any, error) {
		chunk, atmel, err := p.ParseHKFileName(filepath.Base(f.Name()))
		if err != nil {
			return nil, err
		}
		return map[string]any{"atmel_name": atmel, "chunk_number": chunk}, nil
	}
}

// weatherProvider spans the UTC day named by the file.
func weatherProvider(p *Patterns) InfoProvider {
	return func(f *os.File) (map[string]any, error) {
		date, err := p.ParseWeatherFileName(filepath.Base(f.Name()))
		if err != nil {
			return nil, err
		}
		out := map[string]any{"date": date}
		if day, err := time.Parse("20060102", date); err == nil {
			start := float64(day.Unix())
			out["start_time"] = start
			out["finish_time"] = start + 86400
		}
		return out, nil
	}
}

func miscProvider(p *Patterns) InfoProvider {
	return func(f *os.File) (map[string]any, error) {
		serial, dataType, err := p.ParseMiscFileName(filepath.Base(f.Name()))
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"data_type": dataType,
			"metadata":  datatypes.JSONMap{"serial": serial},
		}, nil
	}
}
