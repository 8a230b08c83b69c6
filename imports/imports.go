// Package imports implements the pure, side-effect-free half of module
// resolution: turning an import's written module name into a filesystem
// path, and the naming rules (default prefix, explicit "mod.name"
// qualification) that govern how an imported scope's names land in the
// importing scope (spec §4.5, §6).
//
// Orchestration — reading the resolved file, parsing it, recursively
// compiling it, and re-exporting its scope — lives in package compile,
// which imports this package; imports never imports compile, so the two
// cannot form a cycle (adapted from original_source/import.c, which
// interleaves both concerns in one translation unit).
package imports

import (
	"os"
	"path/filepath"
	"strings"
)

// Ext is the default source file extension alma searches for when an
// import's module name carries none.
const Ext = ".alma"

// PathSep separates directories within ALMA_PATH (spec §6, "colon-
// separated list of directories").
const PathSep = ":"

// NameDelim separates a module prefix from a bare name in a qualified
// reference, e.g. "mod.word" (spec §4.5's "<alias>.<name>").
const NameDelim = "."

// Resolve searches searchPath (colon-separated directories, ALMA_PATH's
// format) for name, trying name verbatim and name+Ext. The current
// directory is searched only if searchPath itself names it; Resolve does
// not add it implicitly (spec §6: an embedder that wants cwd on the
// search path puts it there). It mirrors original_source/import.c's
// resolve_import.
func Resolve(searchPath, name string) (string, bool) {
	dirs := SplitPath(searchPath)
	for _, dir := range dirs {
		for _, candidate := range candidateNames(name) {
			full := filepath.Join(dir, candidate)
			if isRegularFile(full) {
				return full, true
			}
		}
	}
	return "", false
}

func candidateNames(name string) []string {
	if strings.HasSuffix(name, Ext) {
		return []string{name}
	}
	return []string{name, name + Ext}
}

// SplitPath splits a colon-separated ALMA_PATH value into its component
// directories, ignoring a fully empty value.
func SplitPath(almaPath string) []string {
	if almaPath == "" {
		return nil
	}
	return strings.Split(almaPath, PathSep)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Exists reports whether path names a regular file, for callers handling
// a "just-string" import's literal path directly (spec §6).
func Exists(path string) bool {
	return isRegularFile(path)
}

// ModuleBasename derives the default import prefix from a resolved file
// path: its base name with the .alma extension stripped.
func ModuleBasename(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Ext)
}

// PrefixedName joins a module prefix and a bare word name with NameDelim,
// the Go counterpart to original_source/import.c's prefix_symbol. An
// empty prefix returns name unchanged.
func PrefixedName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + NameDelim + name
}

// SplitPrefixed reverses PrefixedName: "mod.name" splits to ("mod",
// "name", true); a name with no delimiter returns ("", name, false),
// the Go counterpart to extract_mod_prefix.
func SplitPrefixed(qualified string) (prefix, name string, ok bool) {
	i := strings.LastIndex(qualified, NameDelim)
	if i < 0 {
		return "", qualified, false
	}
	return qualified[:i], qualified[i+1:], true
}
