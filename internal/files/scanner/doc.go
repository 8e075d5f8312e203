// Package scanner discovers the Go source files a command operates on.
//
// Arguments are files or directories; a trailing "/..." is accepted and
// ignored because directories are always walked recursively. Directory walks
// follow the go tool's conventions and skip vendor and testdata trees as well
// as files and directories whose names begin with "_" or ".".
//
// The scanner is filesystem-agnostic through filesystem.FileSystemProvider,
// enabling both production use with the OS filesystem and testing with
// in-memory filesystems.
package scanner
