package parser

import (
	"fmt"
	"time"

	"github.com/Velocidex/ordereddict"
)

// This file defines the inspector facing model of an MFT record.

type TimeStamps struct {
	CreateTime       time.Time
	FileModifiedTime time.Time
	MFTModifiedTime  time.Time
	AccessedTime     time.Time
}

type FilenameInfo struct {
	Times  TimeStamps
	Type   string
	Name   string
	Parent string
}

type AttributeInfo struct {
	Type     string
	TypeId   uint64
	Id       uint64
	Inode    string
	Resident bool
	Size     int64
	Name     string
}

// Describe a single MFT record.
type RecordInformation struct {
	Record       int64
	Reference    string
	InUse        bool
	IsDir        bool
	IsBaseRecord bool
	LinkCount    int64
	Size         int64
	SI_Times     *TimeStamps
	Filenames    []*FilenameInfo
	Attributes   []*AttributeInfo
}

func ModelMFTEntry(ntfs *NTFSContext, mft_entry *MFT_ENTRY) (
	*RecordInformation, error) {
	result := &RecordInformation{
		Record:       mft_entry.Index(),
		Reference:    mft_entry.FileReference().String(),
		InUse:        mft_entry.IsAllocated(),
		IsDir:        mft_entry.IsDirectory(),
		IsBaseRecord: mft_entry.IsBaseRecord(),
		LinkCount:    int64(mft_entry.Link_count()),
	}

	si, err := mft_entry.StandardInformation()
	if err == nil {
		result.SI_Times = &TimeStamps{
			CreateTime:       si.Create_time().Time,
			FileModifiedTime: si.File_altered_time().Time,
			MFTModifiedTime:  si.Mft_altered_time().Time,
			AccessedTime:     si.File_accessed_time().Time,
		}
	}

	for _, filename := range mft_entry.FileNames() {
		result.Filenames = append(result.Filenames, &FilenameInfo{
			Times: TimeStamps{
				CreateTime:       filename.Created().Time,
				FileModifiedTime: filename.File_modified().Time,
				MFTModifiedTime:  filename.Mft_modified().Time,
				AccessedTime:     filename.File_accessed().Time,
			},
			Type:   filename.NameType().Name,
			Name:   filename.Name(),
			Parent: filename.MftReference().String(),
		})
	}

	attrs, err := mft_entry.EnumerateAttributes()
	if err != nil {
		return nil, err
	}

	for _, attr := range attrs {
		attr_type := attr.Type()
		attr_id := attr.Attribute_id()

		if attr_type.Value == ATTR_TYPE_DATA && result.Size == 0 {
			result.Size = attr.DataSize()
		}

		result.Attributes = append(result.Attributes, &AttributeInfo{
			Type:   attr_type.Name,
			TypeId: attr_type.Value,
			Id:     uint64(attr_id),
			Inode: fmt.Sprintf("%v-%v-%v",
				mft_entry.Record_number(), attr_type.Value, attr_id),
			Resident: attr.IsResident(),
			Size:     attr.DataSize(),
			Name:     attr.Name(),
		})
	}

	return result, nil
}

// InspectVolume is the driver behind the inspect command: boot
// geometry, the model of record 0, the $MFT run list, and a proof
// read of a follow on record fetched through the MFT's own $DATA
// runs. Keys keep insertion order so the report serializes stably.
func InspectVolume(ntfs *NTFSContext) (*ordereddict.Dict, error) {
	boot := ordereddict.NewDict().
		Set("OemId", ntfs.Boot.OemId()).
		Set("SectorSize", ntfs.Boot.SectorSize()).
		Set("SectorsPerCluster", ntfs.Boot.SectorsPerCluster()).
		Set("ClusterSize", ntfs.ClusterSize).
		Set("RecordSize", ntfs.RecordSize).
		Set("MftCluster", ntfs.Boot.MftCluster()).
		Set("MftMirrorCluster", ntfs.Boot.MftMirrorCluster()).
		Set("MftOffset", ntfs.Boot.MftOffset()).
		Set("TotalSectors", ntfs.Boot.TotalSectors()).
		Set("SerialNumber", fmt.Sprintf("%#x", ntfs.Boot.SerialNumber()))

	root, err := ntfs.GetMFT(0)
	if err != nil {
		return nil, err
	}

	root_model, err := ModelMFTEntry(ntfs, root)
	if err != nil {
		return nil, err
	}

	runs := []string{}
	for _, run := range ntfs.MftRunReader().Runs() {
		runs = append(runs, run.String())
	}

	result := ordereddict.NewDict().
		Set("Boot", boot).
		Set("Mft", ordereddict.NewDict().
			Set("Name", root.Name()).
			Set("StreamSize", ntfs.MftRunReader().Size()).
			Set("RecordCount", ntfs.RecordCount()).
			Set("Runs", runs)).
		Set("Record0", root_model)

	// Walk the rest of the table through the $MFT runs and count
	// what we find - this exercises the self referential read path.
	live := 0
	directories := 0
	free := 0
	damaged := []string{}
	for id := int64(1); id < ntfs.RecordCount(); id++ {
		entry, err := ntfs.GetMFT(id)
		if err != nil {
			// Never formatted slots read back as zeros.
			if bad, ok := err.(*BadMagic); ok &&
				bad.Found == "\x00\x00\x00\x00" {
				free++
				continue
			}

			switch err.(type) {
			case *DamagedRecord, *FixupMismatch, *BadMagic, *NotAFileRecord:
				damaged = append(damaged, fmt.Sprintf("%d: %v", id, err))
				continue
			}
			return nil, err
		}

		if entry.IsAllocated() {
			live++
		}
		if entry.IsDirectory() {
			directories++
		}
	}

	result.Set("Records", ordereddict.NewDict().
		Set("Scanned", ntfs.RecordCount()-1).
		Set("InUse", live).
		Set("Directories", directories).
		Set("Free", free).
		Set("Damaged", damaged))

	return result, nil
}
