package dataindex

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IndexConfig struct {
	Database DatabaseConfig
	// Node names the storage node holding the imported files. Empty means
	// files are registered without copy records.
	Node string
	// QuarantineDir receives files that fail validation on import.
	QuarantineDir string
}

// ImportStats counts what an import did with each file it saw.
type ImportStats struct {
	Acquisitions int
	Registered   int
	Skipped      int
	Unknown      int
	Quarantined  int
	Failed       int
}

func (s *ImportStats) add(o ImportStats) {
	s.Acquisitions += o.Acquisitions
	s.Registered += o.Registered
	s.Skipped += o.Skipped
	s.Unknown += o.Unknown
	s.Quarantined += o.Quarantined
	s.Failed += o.Failed
}

// Index registers acquisition directories in the data index.
type Index struct {
	cfg      IndexConfig
	db       *gorm.DB
	log      *zap.Logger
	patterns *Patterns
	detector *Detector
	registry *Registry
}

func NewIndex(cfg IndexConfig, log *zap.Logger) (*Index, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := OpenDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	p := NewPatterns()
	i := &Index{
		cfg:      cfg,
		db:       db,
		log:      log,
		patterns: p,
		registry: NewRegistry(p),
	}
	if err := i.Reload(); err != nil {
		_ = i.Close()
		return nil, err
	}
	return i, nil
}

func (i *Index) DB() *gorm.DB { return i.db }

func (i *Index) Patterns() *Patterns { return i.patterns }

func (i *Index) Registry() *Registry { return i.registry }

func (i *Index) Detector() *Detector { return i.detector }

func (i *Index) Close() error {
	if i == nil || i.db == nil {
		return nil
	}
	sqlDB, err := i.db.DB()
	if err != nil {
		return err
	}
	err = sqlDB.Close()
	i.db = nil
	return err
}

// Reload rebuilds the detector from the FileType table and checks the
// info classes named there against the registry. Until file types with
// patterns are seeded the built-in patterns are used.
func (i *Index) Reload() error {
	var types []FileType
	if err := i.db.Where("pattern IS NOT NULL").Find(&types).Error; err != nil {
		return err
	}
	if len(types) == 0 {
		i.detector = NewDetector(i.patterns)
	} else {
		d, err := NewDetectorFromTypes(types)
		if err != nil {
			return err
		}
		i.detector = d
	}
	return i.registry.Validate(i.db)
}

// Seed runs the named seed groups and reloads.
func (i *Index) Seed(groups ...string) error {
	if err := NewSeeder(i.db, i.log).Run(groups...); err != nil {
		return err
	}
	return i.Reload()
}

// ImportAll imports every acquisition directory matched by globs. A
// failing acquisition does not stop the others; all errors are returned
// together.
func (i *Index) ImportAll(globs []string) (ImportStats, error) {
	var total ImportStats
	dirs, err := expandDirGlobs(globs)
	if err != nil {
		return total, err
	}
	var group errs.Group
	for _, dir := range dirs {
		stats, err := i.ImportAcquisition(dir)
		total.add(stats)
		if err != nil {
			i.log.Warn("import failed", zap.String("dir", dir), zap.Error(err))
			group.Add(err)
		}
	}
	i.log.Info("import finished",
		zap.Int("acquisitions", total.Acquisitions),
		zap.Int("registered", total.Registered),
		zap.Int("skipped", total.Skipped),
		zap.Int("unknown", total.Unknown),
		zap.Int("quarantined", total.Quarantined),
		zap.Int("failed", total.Failed))
	return total, group.Err()
}

// ImportAcquisition registers the files under dir, whose base name is the
// acquisition name. Each file is written in its own transaction together
// with its info record and, when a node is configured, its copy record.
func (i *Index) ImportAcquisition(dir string) (ImportStats, error) {
	var stats ImportStats
	acqName := filepath.Base(filepath.Clean(dir))
	_, instName, typeName, err := i.patterns.ParseAcqName(acqName)
	if err != nil {
		return stats, err
	}
	inst, err := InstrumentByName(i.db, instName)
	if err != nil {
		return stats, err
	}
	at, err := AcqTypeByName(i.db, typeName)
	if err != nil {
		return stats, err
	}
	var node *StorageNode
	if i.cfg.Node != "" {
		if node, err = StorageNodeByName(i.db, i.cfg.Node); err != nil {
			return stats, err
		}
	}

	acq, err := i.acquisition(acqName, inst, at)
	if err != nil {
		return stats, err
	}
	stats.Acquisitions = 1

	rels, err := listFiles(dir)
	if err != nil {
		return stats, err
	}
	log := i.log.With(zap.String("acq", acqName))

	var group errs.Group
	for _, rel := range rels {
		err := i.importFile(acq, node, dir, rel, &stats, log)
		if err == nil {
			continue
		}
		if ErrValidation.Has(err) && i.cfg.QuarantineDir != "" {
			dst, qerr := QuarantineFile(filepath.Join(dir, rel), i.cfg.QuarantineDir, filepath.Join(acqName, rel))
			if qerr == nil {
				stats.Quarantined++
				log.Warn("quarantined file", zap.String("file", rel), zap.String("to", dst), zap.Error(err))
				continue
			}
			err = errs.Combine(err, qerr)
		}
		stats.Failed++
		log.Warn("file not registered", zap.String("file", rel), zap.Error(err))
		group.Add(err)
	}
	return stats, group.Err()
}

func (i *Index) acquisition(name string, inst *ArchiveInst, at *AcqType) (*ArchiveAcq, error) {
	acq, err := AcqByName(i.db, name)
	if err == nil || !ErrNotFound.Has(err) {
		return acq, err
	}
	acq = &ArchiveAcq{Name: name, InstID: &inst.ID, TypeID: &at.ID}
	if err := i.db.Create(acq).Error; err != nil {
		return nil, ClassifyError(err)
	}
	i.log.Info("created acquisition", zap.String("acq", name))
	return acq, nil
}

func (i *Index) importFile(acq *ArchiveAcq, node *StorageNode, dir, rel string, stats *ImportStats, log *zap.Logger) error {
	name := filepath.ToSlash(rel)
	if _, err := FileByName(i.db, acq.ID, name); err == nil {
		stats.Skipped++
		log.Debug("already registered", zap.String("file", name))
		return nil
	} else if !ErrNotFound.Has(err) {
		return err
	}

	ft, err := DetectFileType(i.db, i.detector, path.Base(name))
	if err != nil {
		return err
	}
	if ft == nil {
		stats.Unknown++
		log.Debug("unknown file type", zap.String("file", name))
		return nil
	}

	full := filepath.Join(dir, rel)
	info, err := os.Stat(full)
	if err != nil {
		return err
	}
	sum, err := MD5SumFile(full)
	if err != nil {
		return err
	}
	size := info.Size()

	err = i.db.Transaction(func(tx *gorm.DB) error {
		f := ArchiveFile{
			AcqID:  acq.ID,
			TypeID: &ft.ID,
			Name:   name,
			SizeB:  &size,
			MD5Sum: &sum,
		}
		if err := tx.Create(&f).Error; err != nil {
			return ClassifyError(err)
		}
		if _, err := i.registry.CreateFileInfo(tx, &f, full); err != nil {
			return err
		}
		has, err := i.registry.HasAcqInfo(tx, acq)
		if err != nil {
			return err
		}
		if !has {
			if _, err := i.registry.CreateAcqInfo(tx, acq, full); err != nil {
				return err
			}
		}
		if node != nil {
			if _, err := AddCopy(tx, &f, node, HasFileYes, WantsFileYes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	stats.Registered++
	log.Debug("registered file", zap.String("file", name), zap.String("type", ft.Name), zap.String("md5", sum))
	return nil
}

// listFiles returns the regular files under dir, relative to it, in
// lexical order.
func listFiles(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
