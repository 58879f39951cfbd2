package block

// Magic byte sequences for every block kind this library handles. ##DZ
// (deflate-compressed data) and the file-history/attachment/event blocks
// (##FH, ##AT, ##EV) are deliberately absent: a parser encountering them
// reports ErrUnexpectedMagic rather than silently skipping them.
var (
	MagicID = [4]byte{'#', '#', 'I', 'D'}
	MagicHD = [4]byte{'#', '#', 'H', 'D'}
	MagicDG = [4]byte{'#', '#', 'D', 'G'}
	MagicCG = [4]byte{'#', '#', 'C', 'G'}
	MagicCN = [4]byte{'#', '#', 'C', 'N'}
	MagicCC = [4]byte{'#', '#', 'C', 'C'}
	MagicTX = [4]byte{'#', '#', 'T', 'X'}
	MagicMD = [4]byte{'#', '#', 'M', 'D'}
	MagicSI = [4]byte{'#', '#', 'S', 'I'}
	MagicDT = [4]byte{'#', '#', 'D', 'T'}
	MagicDV = [4]byte{'#', '#', 'D', 'V'}
	MagicDL = [4]byte{'#', '#', 'D', 'L'}
	MagicSD = [4]byte{'#', '#', 'S', 'D'}
)
