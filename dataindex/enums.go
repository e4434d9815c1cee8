package dataindex

import "strings"

// HasFile records whether a node has been verified to hold a file.
type HasFile string

const (
	HasFileNo      HasFile = "N"
	HasFileYes     HasFile = "Y"
	HasFileMaybe   HasFile = "M"
	HasFileCorrupt HasFile = "X"
)

// WantsFile records whether a node should keep a file.
type WantsFile string

const (
	WantsFileYes   WantsFile = "Y"
	WantsFileMaybe WantsFile = "M"
	WantsFileNo    WantsFile = "N"
)

// StorageType is the kind of storage a node provides.
type StorageType string

const (
	StorageArchive StorageType = "A"
	StorageTransit StorageType = "T"
	StorageField   StorageType = "F"
)

func (h HasFile) Valid() bool {
	switch h {
	case HasFileNo, HasFileYes, HasFileMaybe, HasFileCorrupt:
		return true
	}
	return false
}

func (h HasFile) String() string {
	switch h {
	case HasFileNo:
		return "No"
	case HasFileYes:
		return "Yes"
	case HasFileMaybe:
		return "Maybe"
	case HasFileCorrupt:
		return "Corrupt"
	}
	return "unknown"
}

func (w WantsFile) Valid() bool {
	switch w {
	case WantsFileYes, WantsFileMaybe, WantsFileNo:
		return true
	}
	return false
}

func (w WantsFile) String() string {
	switch w {
	case WantsFileYes:
		return "Yes"
	case WantsFileMaybe:
		return "Maybe"
	case WantsFileNo:
		return "No"
	}
	return "unknown"
}

func (s StorageType) Valid() bool {
	switch s {
	case StorageArchive, StorageTransit, StorageField:
		return true
	}
	return false
}

func (s StorageType) String() string {
	switch s {
	case StorageArchive:
		return "Archive"
	case StorageTransit:
		return "Transit"
	case StorageField:
		return "Field"
	}
	return "unknown"
}

// ParseHasFile accepts either the stored code (Y, N, M, X) or the long name.
func ParseHasFile(v string) (HasFile, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "n", "no":
		return HasFileNo, nil
	case "y", "yes":
		return HasFileYes, nil
	case "m", "maybe":
		return HasFileMaybe, nil
	case "x", "corrupt":
		return HasFileCorrupt, nil
	}
	return "", ErrValidation.New("bad has_file value %q", v)
}

// ParseWantsFile accepts either the stored code (Y, M, N) or the long name.
func ParseWantsFile(v string) (WantsFile, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes":
		return WantsFileYes, nil
	case "m", "maybe":
		return WantsFileMaybe, nil
	case "n", "no":
		return WantsFileNo, nil
	}
	return "", ErrValidation.New("bad wants_file value %q", v)
}

// ParseStorageType accepts either the stored code (A, T, F) or the long name.
func ParseStorageType(v string) (StorageType, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "a", "archive":
		return StorageArchive, nil
	case "t", "transit":
		return StorageTransit, nil
	case "f", "field":
		return StorageField, nil
	}
	return "", ErrValidation.New("bad storage_type value %q", v)
}
