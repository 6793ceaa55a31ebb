// Package archive reads and writes the zip archives exchanged with the file
// server.
//
// # Reading
//
// Open parses the central directory once; every later call on the Archive
// reads entries independently, so listing and extracting may be repeated or
// interleaved. Unparseable archives fail with apperr.ErrCorruptArchive.
//
// Extract refuses entry names that are absolute or that would land outside the
// destination directory (apperr.ErrUnsafePath). Content goes to a temporary
// file next to the target and is renamed into place once complete.
//
// # Writing
//
// ZipDir produces the mod pack from a flat directory of .jar files.
package archive
