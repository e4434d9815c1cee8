package dataindex

import (
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seed groups accepted by Seeder.Run.
const (
	SeedTypes       = "types"
	SeedInstruments = "instruments"
	SeedStorage     = "storage"
)

// SeedGroups lists every seed group in the order Run applies them.
func SeedGroups() []string {
	return []string{SeedTypes, SeedInstruments, SeedStorage}
}

// Seeder brings the reference tables to their canonical state. Rows that
// are not part of the canonical data are never touched.
type Seeder struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSeeder(db *gorm.DB, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{db: db, log: log}
}

// Run applies the named seed groups in order. An unknown group is
// rejected before anything is written.
func (s *Seeder) Run(groups ...string) error {
	for _, g := range groups {
		switch g {
		case SeedTypes, SeedInstruments, SeedStorage:
		default:
			return ErrConfig.New("unknown seed group %q", g)
		}
	}
	for _, g := range groups {
		var err error
		switch g {
		case SeedTypes:
			err = s.UpdateTypes()
		case SeedInstruments:
			err = s.UpdateInstruments()
		case SeedStorage:
			err = s.UpdateStorage()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// upsertByName inserts row when no row of that name exists and otherwise
// overwrites the existing row's columns with values.
func upsertByName[T any](tx *gorm.DB, name string, row *T, values map[string]any) (created bool, err error) {
	var existing T
	err = tx.Where("name = ?", name).Take(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, ClassifyError(tx.Create(row).Error)
	case err != nil:
		return false, err
	}
	return false, ClassifyError(tx.Model(&existing).Updates(values).Error)
}

// insertIfAbsent inserts row unless a row of that name exists.
func insertIfAbsent[T any](tx *gorm.DB, name string, row *T) (bool, error) {
	var n int64
	if err := tx.Model(new(T)).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return true, ClassifyError(tx.Create(row).Error)
}

// UpdateTypes upserts the acquisition types, the file types and their
// associations, each group in its own transaction. Associations of a
// canonical acquisition type to non-canonical file types are removed.
func (s *Seeder) UpdateTypes() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		n := 0
		for _, at := range AcqTypeSeeds() {
			at := at
			created, err := upsertByName(tx, at.Name, &at, map[string]any{
				"info_class": at.InfoClass,
				"notes":      at.Notes,
			})
			if err != nil {
				return err
			}
			s.logRow("acquisition type", at.Name, created)
			n++
		}
		s.log.Info("seeded acquisition types", zap.Int("count", n))
		return nil
	})
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		n := 0
		for _, ft := range FileTypeSeeds() {
			ft := ft
			created, err := upsertByName(tx, ft.Name, &ft, map[string]any{
				"info_class": ft.InfoClass,
				"pattern":    ft.Pattern,
				"notes":      ft.Notes,
			})
			if err != nil {
				return err
			}
			s.logRow("file type", ft.Name, created)
			n++
		}
		s.log.Info("seeded file types", zap.Int("count", n))
		return nil
	})
	if err != nil {
		return err
	}

	return s.db.Transaction(s.updateAssociations)
}

func (s *Seeder) updateAssociations(tx *gorm.DB) error {
	canonical := make(map[string][]string)
	for _, a := range AcqFileTypeSeeds() {
		canonical[a.AcqType] = append(canonical[a.AcqType], a.FileType)
	}
	acqNames := make([]string, 0, len(canonical))
	for name := range canonical {
		acqNames = append(acqNames, name)
	}
	sort.Strings(acqNames)

	for _, acqName := range acqNames {
		at, err := AcqTypeByName(tx, acqName)
		if err != nil {
			return err
		}
		fileIDs := make([]uint, 0, len(canonical[acqName]))
		for _, fileName := range canonical[acqName] {
			ft, err := FileTypeByName(tx, fileName)
			if err != nil {
				return err
			}
			fileIDs = append(fileIDs, ft.ID)
		}

		res := tx.Where("acq_type_id = ? AND file_type_id NOT IN ?", at.ID, fileIDs).Delete(&AcqFileTypes{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			s.log.Debug("removed stale file types", zap.String("acq_type", acqName), zap.Int64("count", res.RowsAffected))
		}

		for _, id := range fileIDs {
			var n int64
			if err := tx.Model(&AcqFileTypes{}).Where("acq_type_id = ? AND file_type_id = ?", at.ID, id).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if err := tx.Create(&AcqFileTypes{AcqTypeID: at.ID, FileTypeID: id}).Error; err != nil {
				return ClassifyError(err)
			}
			s.log.Debug("associated file type", zap.String("acq_type", acqName), zap.Uint("file_type_id", id))
		}
	}
	s.log.Info("seeded type associations", zap.Int("acq_types", len(acqNames)))
	return nil
}

// PopulateTypes inserts the canonical acquisition and file types that are
// missing by name. Existing rows are left as they are and no associations
// are made.
func (s *Seeder) PopulateTypes() error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, at := range AcqTypeSeeds() {
			at := at
			at.InfoClass = nil
			created, err := insertIfAbsent(tx, at.Name, &at)
			if err != nil {
				return err
			}
			if created {
				s.logRow("acquisition type", at.Name, true)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, ft := range FileTypeSeeds() {
			ft := ft
			ft.InfoClass = nil
			ft.Pattern = nil
			created, err := insertIfAbsent(tx, ft.Name, &ft)
			if err != nil {
				return err
			}
			if created {
				s.logRow("file type", ft.Name, true)
			}
		}
		return nil
	})
}

// UpdateInstruments upserts the canonical instruments.
func (s *Seeder) UpdateInstruments() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, inst := range InstrumentSeeds() {
			inst := inst
			created, err := upsertByName(tx, inst.Name, &inst, map[string]any{"notes": inst.Notes})
			if err != nil {
				return err
			}
			s.logRow("instrument", inst.Name, created)
		}
		s.log.Info("seeded instruments", zap.Int("count", len(InstrumentSeeds())))
		return nil
	})
}

// UpdateStorage creates the canonical storage groups and nodes whose ids
// are absent, then inserts the transfer edges. Edges are not checked
// first: running it against a database that already has them fails with
// ErrConstraint and nothing is written.
func (s *Seeder) UpdateStorage() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, g := range StorageGroupSeeds() {
			g := g
			created, err := insertByIDIfAbsent(tx, g.ID, &g)
			if err != nil {
				return err
			}
			if created {
				s.logRow("storage group", g.Name, true)
			}
		}

		for _, ns := range StorageNodeSeeds() {
			group, err := StorageGroupByName(tx, ns.Group)
			if err != nil {
				return err
			}
			node := ns.Node
			node.GroupID = group.ID
			created, err := insertByIDIfAbsent(tx, node.ID, &node)
			if err != nil {
				return err
			}
			if created {
				s.logRow("storage node", node.Name, true)
			}
		}

		for _, e := range TransferActionSeeds() {
			from, err := StorageNodeByName(tx, e.NodeFrom)
			if err != nil {
				return err
			}
			to, err := StorageGroupByName(tx, e.GroupTo)
			if err != nil {
				return err
			}
			edge := StorageTransferAction{
				NodeFromID: from.ID,
				GroupToID:  to.ID,
				Autosync:   e.Autosync,
				Autoclean:  e.Autoclean,
			}
			// Select pins the flags so that false is written rather than left
			// to the column default.
			if err := tx.Select("NodeFromID", "GroupToID", "Autosync", "Autoclean").Create(&edge).Error; err != nil {
				return ClassifyError(err)
			}
			s.log.Debug("added transfer action",
				zap.String("from", e.NodeFrom),
				zap.String("to", e.GroupTo),
				zap.Bool("autosync", e.Autosync),
				zap.Bool("autoclean", e.Autoclean))
		}
		s.log.Info("seeded storage topology", zap.Int("edges", len(TransferActionSeeds())))
		return nil
	})
}

func insertByIDIfAbsent[T any](tx *gorm.DB, id uint, row *T) (bool, error) {
	var n int64
	if err := tx.Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return true, ClassifyError(tx.Create(row).Error)
}

func (s *Seeder) logRow(what, name string, created bool) {
	if created {
		s.log.Debug("inserted "+what, zap.String("name", name))
		return
	}
	s.log.Debug("updated "+what, zap.String("name", name))
}
