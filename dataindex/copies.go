package dataindex

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// AddCopy records that node holds (or should hold) file. A second copy
// for the same file and node is ErrConstraint.
func AddCopy(db *gorm.DB, file *ArchiveFile, node *StorageNode, has HasFile, wants WantsFile) (*ArchiveFileCopy, error) {
	if !has.Valid() || !wants.Valid() {
		return nil, ErrValidation.New("bad copy state %q/%q", string(has), string(wants))
	}
	c := &ArchiveFileCopy{
		FileID:    file.ID,
		NodeID:    node.ID,
		HasFile:   has,
		WantsFile: wants,
		SizeB:     file.SizeB,
	}
	if err := db.Create(c).Error; err != nil {
		return nil, ClassifyError(err)
	}
	return c, nil
}

// UpdateCopyState sets the presence and retention state of a copy.
func UpdateCopyState(db *gorm.DB, c *ArchiveFileCopy, has HasFile, wants WantsFile) error {
	if !has.Valid() || !wants.Valid() {
		return ErrValidation.New("bad copy state %q/%q", string(has), string(wants))
	}
	err := db.Model(c).Updates(map[string]any{
		"has_file":   has,
		"wants_file": wants,
	}).Error
	if err != nil {
		return ClassifyError(err)
	}
	c.HasFile, c.WantsFile = has, wants
	return nil
}

// LiveCopyCount counts the nodes verified to hold file.
func LiveCopyCount(db *gorm.DB, fileID uint) (int64, error) {
	var n int64
	err := db.Model(&ArchiveFileCopy{}).
		Where("file_id = ? AND has_file = ?", fileID, HasFileYes).
		Count(&n).Error
	return n, err
}

// CreateCopyRequest inserts req as is. An existing request for the same
// file, group and source node is ErrConstraint.
func CreateCopyRequest(db *gorm.DB, req *ArchiveFileCopyRequest) error {
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}
	return ClassifyError(db.Create(req).Error)
}

// RequestCopy asks for file to be copied from nodeFrom to groupTo. If a
// request for that triple exists it is re-armed in place; otherwise a new
// one is created.
func RequestCopy(db *gorm.DB, fileID, groupToID, nodeFromID uint, now time.Time) (*ArchiveFileCopyRequest, error) {
	key := CopyRequestKey{FileID: fileID, GroupToID: groupToID, NodeFromID: nodeFromID}
	var req ArchiveFileCopyRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		err := key.where(tx).Take(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			req = ArchiveFileCopyRequest{
				FileID:     fileID,
				GroupToID:  groupToID,
				NodeFromID: nodeFromID,
				Timestamp:  now,
				NRequests:  1,
			}
			return ClassifyError(tx.Create(&req).Error)
		}
		if err != nil {
			return err
		}
		updates := map[string]any{
			"completed":          false,
			"cancelled":          false,
			"timestamp":          now,
			"transfer_started":   nil,
			"transfer_completed": nil,
			"n_requests":         gorm.Expr("n_requests + 1"),
		}
		if err := key.where(tx.Model(&ArchiveFileCopyRequest{})).Updates(updates).Error; err != nil {
			return ClassifyError(err)
		}
		return key.where(tx).Take(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// StartCopyRequest stamps the transfer start of an open request.
func StartCopyRequest(db *gorm.DB, key CopyRequestKey, at time.Time) error {
	return updateCopyRequest(db, key, map[string]any{"transfer_started": at})
}

// CompleteCopyRequest marks a request done.
func CompleteCopyRequest(db *gorm.DB, key CopyRequestKey, at time.Time) error {
	return updateCopyRequest(db, key, map[string]any{
		"completed":          true,
		"transfer_completed": at,
	})
}

// CancelCopyRequest withdraws a request.
func CancelCopyRequest(db *gorm.DB, key CopyRequestKey) error {
	return updateCopyRequest(db, key, map[string]any{"cancelled": true})
}

func updateCopyRequest(db *gorm.DB, key CopyRequestKey, updates map[string]any) error {
	res := key.where(db.Model(&ArchiveFileCopyRequest{})).Updates(updates)
	if res.Error != nil {
		return ClassifyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound.New("copy request %d/%d/%d", key.FileID, key.GroupToID, key.NodeFromID)
	}
	return nil
}

// PendingRequests returns the requests into groupTo that are neither
// completed nor cancelled, oldest first.
func PendingRequests(db *gorm.DB, groupToID uint) ([]ArchiveFileCopyRequest, error) {
	var out []ArchiveFileCopyRequest
	err := db.Where("group_to_id = ? AND completed = ? AND cancelled = ?", groupToID, false, false).
		Order("timestamp").
		Find(&out).Error
	return out, err
}
