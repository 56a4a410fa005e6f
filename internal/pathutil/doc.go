// Package pathutil provides JSON Pointer and reference helpers for OpenAPI
// document traversal.
//
// The primary type is [PathBuilder], which uses push/pop semantics to build
// JSON Pointers (RFC 6901) incrementally without allocating intermediate
// strings. Validation builds a pointer on every recursive call but only
// materializes it when reporting an error.
//
// # PathBuilder Usage
//
// Use [Get] to obtain a pooled PathBuilder, and [Put] to return it:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("tags")
//	path.PushIndex(0)
//	// ... recurse ...
//	path.Pop()
//	path.Pop()
//
//	path.String() // "/tags/0"
//
// Segments are escaped on output, so "a/b" becomes "a~1b".
//
// # Reference Builders
//
//	ref := pathutil.ComponentRef("schemas", "Pet") // "#/components/schemas/Pet"
//
// # Path Templates
//
// [TemplateParams] lists the variables of an OpenAPI path template and
// [ExpandTemplate] fills them with path-escaped values.
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] validates and cleans output file paths. It rejects
// symlinks and directories:
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
package pathutil
