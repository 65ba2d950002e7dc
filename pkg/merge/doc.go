// Package merge contains the core logic of the sector dump merger: reading two
// raw dumps of the same medium sector by sector, deciding for each index which
// copy ends up in the merged image, and validating, planning, recording and
// verifying a merge run. It is used by the CLI layer but can also be embedded
// in other tooling that recovers images from several imperfect reads.
package merge
