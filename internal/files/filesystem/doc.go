// Package filesystem abstracts the file operations retrygen performs:
// walking source trees, reading Go files, and writing expanded output.
//
// Key interfaces:
//   - FileSystemProvider: opens directories, reads, stats and writes files
//   - Directory: Represents a directory that can be traversed
//   - File: Represents an individual file with metadata and content
//
// Implementations:
//   - OSFileSystem: Production implementation; writes replace files atomically
//   - MemoryFileSystem: In-memory implementation for testing
package filesystem
