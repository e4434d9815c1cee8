package dataindex

// Canonical reference data. Ids are fixed so that every database seeded
// from here agrees on them.

func strp(s string) *string { return &s }

func floatp(f float64) *float64 { return &f }

// AcqTypeSeeds returns the canonical acquisition types.
func AcqTypeSeeds() []AcqType {
	return []AcqType{
		{ID: 1, Name: "corr", InfoClass: strp("CorrAcqInfo"), Notes: strp("Traditionally hand-tooled correlation products from a correlator.")},
		{ID: 2, Name: "hk", InfoClass: strp("HKAcqInfo"), Notes: strp("Housekeeping data.")},
		{ID: 3, Name: "rawadc", InfoClass: strp("RawadcAcqInfo"), Notes: strp("Raw ADC data taken for testing the status of a correlator.")},
		{ID: 5, Name: "weather", Notes: strp("Weather data scraped from the wview archive provided by DRAO.")},
		{ID: 6, Name: "hkp", Notes: strp("New prometheus based scheme for recording housekeeping data.")},
		{ID: 7, Name: "digitalgain", Notes: strp("FPGA digital gains from the F-Engine.")},
		{ID: 8, Name: "gain", Notes: strp("Complex gains from the calibration broker.")},
		{ID: 9, Name: "flaginput", Notes: strp("Good correlator input flags from the flagging broker.")},
		{ID: 10, Name: "misc", Notes: strp("Miscellaneous data products.")},
		{ID: 11, Name: "hfb", InfoClass: strp("HFBAcqInfo"), Notes: strp("21cm absorber (Hyper Fine Beam) data taken from a correlator.")},
	}
}

// FileTypeSeeds returns the canonical file types. Patterns come from the
// same table the parsers use.
func FileTypeSeeds() []FileType {
	pat := func(name string) *string {
		src, ok := PatternSource(name)
		if !ok {
			return nil
		}
		return &src
	}
	return []FileType{
		{ID: 1, Name: "corr", InfoClass: strp("CorrFileInfo"), Pattern: pat("corr"), Notes: strp("Traditionally hand-tooled correlation products from a correlator.")},
		{ID: 2, Name: "log", Pattern: pat("log"), Notes: strp("A human-readable log file produced by acquisition software.")},
		{ID: 3, Name: "hk", InfoClass: strp("HKFileInfo"), Pattern: pat("hk"), Notes: strp("A housekeeping file.")},
		{ID: 4, Name: "atmel_id", Pattern: pat("atmel_id"), Notes: strp("A short file listing the ATMEL ID's and human readable names in an HK acquisition.")},
		{ID: 5, Name: "rawadc", InfoClass: strp("RawadcFileInfo"), Pattern: pat("rawadc"), Notes: strp("A python numpy array with raw ADC values.")},
		{ID: 6, Name: "pdf", Pattern: pat("pdf"), Notes: strp("A portable document file.")},
		{ID: 10, Name: "weather", InfoClass: strp("WeatherFileInfo"), Pattern: pat("weather"), Notes: strp("DRAO weather data.")},
		{ID: 11, Name: "hkp", InfoClass: strp("HKPFileInfo"), Pattern: pat("hkp"), Notes: strp("Archive of the prometheus housekeeping data.")},
		{ID: 12, Name: "calibration", InfoClass: strp(CalibrationInfoClass), Pattern: pat("calibration"), Notes: strp("Calibration data products.")},
		{ID: 13, Name: "miscellaneous", InfoClass: strp("MiscFileInfo"), Pattern: pat("miscellaneous"), Notes: strp("A tarball of miscellaneous data files.")},
		{ID: 14, Name: "hfb", InfoClass: strp("HFBFileInfo"), Pattern: pat("hfb"), Notes: strp("21cm absorber (Hyper Fine Beam) data taken from a correlator.")},
		{ID: 15, Name: "pkl", Pattern: pat("pkl"), Notes: strp("A pickled set of gains from a raw ADC run.")},
	}
}

// AcqFileTypeSeed pairs an acquisition type with a file type it supports.
type AcqFileTypeSeed struct {
	AcqType  string
	FileType string
}

// AcqFileTypeSeeds returns the canonical acquisition/file type pairs.
func AcqFileTypeSeeds() []AcqFileTypeSeed {
	return []AcqFileTypeSeed{
		{"corr", "corr"},
		{"hk", "hk"},
		{"rawadc", "rawadc"},
		{"weather", "weather"},
		{"hkp", "hkp"},
		{"digitalgain", "calibration"},
		{"gain", "calibration"},
		{"flaginput", "calibration"},
		{"misc", "miscellaneous"},
		{"hfb", "hfb"},
	}
}

// InstrumentSeeds returns the canonical instruments.
func InstrumentSeeds() []ArchiveInst {
	return []ArchiveInst{
		{ID: 1, Name: "blanchard", Notes: strp("Pathfinder correlator, first generation.")},
		{ID: 2, Name: "pathfinder", Notes: strp("The CHIME pathfinder telescope.")},
		{ID: 3, Name: "stone", Notes: strp("Two-crate test correlator.")},
		{ID: 4, Name: "slotthree", Notes: strp("Single-board test correlator.")},
		{ID: 5, Name: "mingun", Notes: strp("Housekeeping system.")},
		{ID: 6, Name: "chime", Notes: strp("The full CHIME telescope.")},
		{ID: 7, Name: "chimestack", Notes: strp("Stacked CHIME correlator products.")},
		{ID: 8, Name: "chimeN2", Notes: strp("CHIME N-squared correlator products.")},
		{ID: 9, Name: "chimetiming", Notes: strp("CHIME timing-correction products.")},
		{ID: 10, Name: "chimecal", Notes: strp("CHIME calibration products.")},
		{ID: 11, Name: "chimehfb", Notes: strp("CHIME hyperfine beam products.")},
		{ID: 12, Name: "drao", Notes: strp("DRAO site data, including weather.")},
		{ID: 13, Name: "kko", Notes: strp("CHIME outrigger at Kelowna.")},
		{ID: 14, Name: "gbo", Notes: strp("CHIME outrigger at Green Bank.")},
		{ID: 15, Name: "hco", Notes: strp("CHIME outrigger at Hat Creek.")},
	}
}

// StorageGroupSeeds returns the canonical storage groups.
func StorageGroupSeeds() []StorageGroup {
	return []StorageGroup{
		{ID: 1, Name: "drao_storage", Notes: strp("Field storage at DRAO.")},
		{ID: 2, Name: "cedar_staging", Notes: strp("Transfer staging area on cedar.")},
		{ID: 3, Name: "cedar_offload", Notes: strp("Offload area feeding the cedar tape system.")},
		{ID: 4, Name: "cedar_nearline", Notes: strp("Tape-backed nearline storage on cedar.")},
		{ID: 5, Name: "cedar_online", Notes: strp("Disk storage on cedar.")},
		{ID: 6, Name: "scinet_staging", Notes: strp("Transfer staging area at SciNet.")},
		{ID: 7, Name: "scinet_hpss", Notes: strp("SciNet HPSS tape archive.")},
	}
}

// StorageNodeSeed is a canonical node together with the name of its group.
type StorageNodeSeed struct {
	Node  StorageNode
	Group string
}

// StorageNodeSeeds returns the canonical storage nodes.
func StorageNodeSeeds() []StorageNodeSeed {
	node := func(id uint, name, host, root string, kind StorageType) StorageNode {
		return StorageNode{
			ID:               id,
			Name:             name,
			Host:             strp(host),
			Root:             strp(root),
			StorageType:      kind,
			MinDeleteAgeDays: floatp(DefaultMinDeleteAgeDays),
		}
	}
	gong := node(1, "gong", "gong", "/mnt/gong/archive", StorageField)
	gong.Active = true
	gong.AutoImport = true
	gong.MinAvailGB = 1000

	smallfile := node(5, "cedar_smallfile", "cedar5", "/project/rpp-chime/chime/chime_smallfile", StorageArchive)
	smallfile.MaxTotalGB = floatp(10000)

	return []StorageNodeSeed{
		{gong, "drao_storage"},
		{node(2, "cedar_staging", "cedar5", "/scratch/chime/staging", StorageTransit), "cedar_staging"},
		{node(3, "cedar_offload", "cedar5", "/scratch/chime/offload", StorageTransit), "cedar_offload"},
		{node(4, "cedar_nearline", "cedar5", "/nearline/rpp-chime/chime", StorageArchive), "cedar_nearline"},
		{smallfile, "cedar_nearline"},
		{node(6, "cedar_online", "cedar5", "/project/rpp-chime/chime/chime_online", StorageArchive), "cedar_online"},
		{node(7, "scinet_staging", "nia-datamover1", "/scratch/c/chime/staging", StorageTransit), "scinet_staging"},
		{node(8, "scinet_hpss", "nia-datamover1", "/archive/c/chime", StorageArchive), "scinet_hpss"},
	}
}

// TransferActionSeed is a canonical topology edge by node and group name.
type TransferActionSeed struct {
	NodeFrom  string
	GroupTo   string
	Autosync  bool
	Autoclean bool
}

// TransferActionSeeds returns the standard archive pipeline: field site to
// staging, then staging to offload and HPSS, then offload to nearline.
func TransferActionSeeds() []TransferActionSeed {
	return []TransferActionSeed{
		{"gong", "cedar_staging", true, false},
		{"cedar_staging", "cedar_offload", true, false},
		{"cedar_staging", "scinet_staging", true, false},
		{"cedar_staging", "scinet_hpss", false, true},
		{"cedar_offload", "cedar_nearline", true, true},
		{"scinet_staging", "scinet_hpss", true, true},
	}
}
