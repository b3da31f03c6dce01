package parser

import (
	"bytes"
	"encoding/binary"
)

// A synthetic NTFS volume, built byte by byte, with the geometry of
// scenario S1: 512 byte sectors, 8 sectors per cluster, the MFT at
// cluster 4 spanning 16 clusters, 1024 byte records.
//
// Record map:
//
//	0  $MFT      (non resident $DATA run 4+16, $BITMAP)
//	1  $MFTMirr  (non resident $DATA run 20+1)
//	2  hello.txt (resident $DATA)
//	3  torn record (second sector tail corrupted)
//	4  INDX record
//	5  BAAD record
//	6  a directory
//	7+ free (zeros)
const (
	testSectorSize  = 512
	testClusterSize = 4096
	testRecordSize  = 1024
	testMftCluster  = 4
	testMftClusters = 16
	testMftOffset   = testMftCluster * testClusterSize
	testMirrCluster = 20
	testImageSize   = 24 * testClusterSize

	testUSN uint16 = 0x0042

	// 1970-01-01 in FILETIME.
	testFiletime uint64 = 116444736000000000
)

func putU16(buf []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(buf[off:], v)
}

func putU32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

func putU64(buf []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(buf[off:], v)
}

func align8(v int) int {
	return (v + 7) &^ 7
}

func buildBootSector() []byte {
	buf := make([]byte, testSectorSize)

	copy(buf[0:3], []byte{0xEB, 0x52, 0x90})
	copy(buf[3:11], []byte(ntfs_oem_id))
	putU16(buf, 0x0B, testSectorSize)
	buf[0x0D] = 8
	putU64(buf, 0x28, testImageSize/testSectorSize)
	putU64(buf, 0x30, testMftCluster)
	putU64(buf, 0x38, testMirrCluster)
	putU32(buf, 0x40, uint32(0xFFFFFFF6)) // -10: records are 1<<10 bytes
	putU32(buf, 0x44, 1)
	putU64(buf, 0x48, 0x1122334455667788)
	putU16(buf, 0x1FE, 0xAA55)

	return buf
}

// Build one resident attribute.
func residentAttr(type_id uint32, attr_id uint16, flags uint16,
	content []byte) []byte {
	length := align8(0x18 + len(content))
	buf := make([]byte, length)

	putU32(buf, 0, type_id)
	putU32(buf, 4, uint32(length))
	buf[8] = 0 // resident
	putU16(buf, 10, 0x18)
	putU16(buf, 12, flags)
	putU16(buf, 14, attr_id)
	putU32(buf, 16, uint32(len(content)))
	putU16(buf, 20, 0x18)
	copy(buf[0x18:], content)

	return buf
}

// Build one non resident attribute with the given run list bytes.
func nonResidentAttr(type_id uint32, attr_id uint16, flags uint16,
	start_vcn, end_vcn, size uint64, runlist []byte) []byte {
	length := align8(0x40 + len(runlist))
	buf := make([]byte, length)

	putU32(buf, 0, type_id)
	putU32(buf, 4, uint32(length))
	buf[8] = 1 // non resident
	putU16(buf, 10, 0x40)
	putU16(buf, 12, flags)
	putU16(buf, 14, attr_id)
	putU64(buf, 16, start_vcn)
	putU64(buf, 24, end_vcn)
	putU16(buf, 32, 0x40)
	putU64(buf, 40, size)
	putU64(buf, 48, size)
	putU64(buf, 56, size)
	copy(buf[0x40:], runlist)

	return buf
}

func standardInformationContent() []byte {
	buf := make([]byte, 48)
	putU64(buf, 0, testFiletime)
	putU64(buf, 8, testFiletime+10000000)
	putU64(buf, 16, testFiletime+20000000)
	putU64(buf, 24, testFiletime+30000000)
	putU32(buf, 32, 0x06)
	return buf
}

func fileNameContent(parent FileReference, name string,
	namespace byte, size uint64) []byte {
	encoded := encodeUTF16(name)
	buf := make([]byte, 0x42+len(encoded))

	putU64(buf, 0, uint64(parent))
	putU64(buf, 8, testFiletime)
	putU64(buf, 16, testFiletime+10000000)
	putU64(buf, 24, testFiletime+20000000)
	putU64(buf, 32, testFiletime+30000000)
	putU64(buf, 40, size)
	putU64(buf, 48, size)
	putU32(buf, 56, 0x06)
	buf[64] = byte(len(name))
	buf[65] = namespace
	copy(buf[0x42:], encoded)

	return buf
}

// ASCII only, which is all the harness needs.
func encodeUTF16(name string) []byte {
	buf := make([]byte, len(name)*2)
	for i, c := range []byte(name) {
		buf[i*2] = c
	}
	return buf
}

// Assemble a record from attributes, then stamp the update sequence:
// park the real sector tails in the fixup array and write the USN
// over them, the way the volume does on write.
func buildRecord(record_number uint32, flags uint16, attrs ...[]byte) []byte {
	buf := make([]byte, testRecordSize)

	copy(buf[0:4], []byte(record_magic_file))
	putU16(buf, 0x04, 0x30) // fixup array offset
	putU16(buf, 0x06, 3)    // USN + one word per sector
	putU64(buf, 0x08, 0x1000+uint64(record_number))
	putU16(buf, 0x10, 1) // sequence number
	putU16(buf, 0x12, 1) // link count
	putU16(buf, 0x14, 0x38)
	putU16(buf, 0x16, flags)
	putU32(buf, 0x1C, testRecordSize)
	putU64(buf, 0x20, 0) // base record
	putU16(buf, 0x28, uint16(len(attrs))+1)
	putU32(buf, 0x2C, record_number)

	offset := 0x38
	for _, attr := range attrs {
		copy(buf[offset:], attr)
		offset += len(attr)
	}
	putU32(buf, offset, ATTR_TYPE_TERMINATOR)
	offset += 4

	putU32(buf, 0x18, uint32(offset)) // used size

	stampFixups(buf)
	return buf
}

func stampFixups(buf []byte) {
	putU16(buf, 0x30, testUSN)
	for sector := 0; sector < 2; sector++ {
		tail := (sector+1)*testSectorSize - 2
		// Park the real bytes in the array, stamp the USN.
		copy(buf[0x32+sector*2:], buf[tail:tail+2])
		putU16(buf, tail, testUSN)
	}
}

// The S4 run list: header 0x33, 3 byte length 16, 3 byte offset 4.
var mftDataRunList = []byte{0x33, 0x10, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00}

func buildTestImage() []byte {
	image := make([]byte, testImageSize)

	copy(image, buildBootSector())

	records := map[int][]byte{
		0: buildRecord(0, MFT_ENTRY_ALLOCATED,
			residentAttr(ATTR_TYPE_STANDARD_INFORMATION, 0, 0,
				standardInformationContent()),
			residentAttr(ATTR_TYPE_FILE_NAME, 3, 0,
				fileNameContent(MakeFileReference(5, 5), "$MFT",
					FILE_NAME_DOS_WIN32, testMftClusters*testClusterSize)),
			nonResidentAttr(ATTR_TYPE_DATA, 1, 0,
				0, testMftClusters-1, testMftClusters*testClusterSize,
				mftDataRunList),
			residentAttr(ATTR_TYPE_BITMAP, 5, 0,
				[]byte{0x7F, 0, 0, 0, 0, 0, 0, 0})),

		1: buildRecord(1, MFT_ENTRY_ALLOCATED,
			residentAttr(ATTR_TYPE_STANDARD_INFORMATION, 0, 0,
				standardInformationContent()),
			residentAttr(ATTR_TYPE_FILE_NAME, 3, 0,
				fileNameContent(MakeFileReference(5, 5), "$MFTMirr",
					FILE_NAME_DOS_WIN32, testClusterSize)),
			nonResidentAttr(ATTR_TYPE_DATA, 1, 0,
				0, 0, testClusterSize,
				[]byte{0x21, 0x01, 0x14, 0x00, 0x00})),

		2: buildRecord(2, MFT_ENTRY_ALLOCATED,
			residentAttr(ATTR_TYPE_STANDARD_INFORMATION, 0, 0,
				standardInformationContent()),
			residentAttr(ATTR_TYPE_FILE_NAME, 3, 0,
				fileNameContent(MakeFileReference(6, 1), "hello.txt",
					FILE_NAME_WIN32, 12)),
			residentAttr(ATTR_TYPE_DATA, 1, 0,
				[]byte("hello world\n"))),

		6: buildRecord(6, MFT_ENTRY_ALLOCATED|MFT_ENTRY_DIRECTORY,
			residentAttr(ATTR_TYPE_STANDARD_INFORMATION, 0, 0,
				standardInformationContent()),
			residentAttr(ATTR_TYPE_FILE_NAME, 3, 0,
				fileNameContent(MakeFileReference(5, 5), "somedir",
					FILE_NAME_WIN32, 0))),
	}

	// Record 3 is torn: its second sector tail does not match the
	// USN anymore.
	torn := buildRecord(3, MFT_ENTRY_ALLOCATED,
		residentAttr(ATTR_TYPE_STANDARD_INFORMATION, 0, 0,
			standardInformationContent()))
	putU16(torn, 2*testSectorSize-2, testUSN+1)
	records[3] = torn

	// Record 4 is an INDX record.
	indx := buildRecord(4, 0)
	copy(indx[0:4], []byte(record_magic_indx))
	records[4] = indx

	// Record 5 was marked BAAD by the volume.
	baad := buildRecord(5, 0)
	copy(baad[0:4], []byte(record_magic_baad))
	records[5] = baad

	for idx, record := range records {
		copy(image[testMftOffset+idx*testRecordSize:], record)
	}

	// The mirror cluster carries a copy of the first records.
	copy(image[testMirrCluster*testClusterSize:],
		image[testMftOffset:testMftOffset+4*testRecordSize])

	return image
}

func testImageReader() *bytes.Reader {
	return bytes.NewReader(buildTestImage())
}
