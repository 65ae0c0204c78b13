// Package metadata extracts date-bearing metadata fields from media files.
//
// Every backend implements [Provider]: given a path it returns a flat map of
// field name to raw string value, using exiftool's tag names
// (DateTimeOriginal, CreateDate, FileModifyDate, ...). The default backend
// talks to a single long-lived exiftool process; the native backend decodes
// JPEG/HEIC/PNG/WEBP EXIF and MOV/MP4 movie headers in-process for machines
// without exiftool.
package metadata
