// Package fileutil provides filtered directory scanning for the UI tree.
//
// ScanDirectory walks a directory and returns the files that pass every
// configured filter:
//   - Extensions: case-insensitive extension list (".h", "c", ".CPP" all work)
//   - Include: doublestar globs matched against the slash-separated path
//     relative to the root, e.g. "screens/**" or "**/*.{c,h}"
//   - ExcludeDirs: directory names to prune (e.g. "build", ".git")
//   - Recursive / MaxDepth: how deep to walk (MaxDepth 1 = root only)
//
// Directories starting with "." are skipped unless IncludeHidden is set.
// Output is sorted by absolute path and paired with root-relative paths in
// ScanResult.Rel.
//
// Non-fatal errors (an unreadable subdirectory, for example) are collected in
// ScanResult.Errors and the walk continues. A missing root or an invalid
// include pattern fails the scan.
//
// # Usage
//
// Finding the C sources and headers the header patcher should rewrite:
//
//	result, err := fileutil.ScanDirectory("components/ui", fileutil.ScanOptions{
//	    Extensions:  []string{".h", ".c", ".cpp", ".hpp"},
//	    Recursive:   true,
//	    ExcludeDirs: []string{"build"},
//	})
//	if err != nil {
//	    return err
//	}
//	for i, path := range result.Files {
//	    fmt.Println(result.Rel[i], path)
//	}
//
// Restricting the scan to generated screens:
//
//	result, err := fileutil.ScanDirectory(root, fileutil.ScanOptions{
//	    Include:   []string{"screens/**"},
//	    Recursive: true,
//	})
package fileutil
