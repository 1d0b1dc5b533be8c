package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BuiltinID identifies the built-in library in listings
const BuiltinID = "builtin"

// LibraryInfo describes a material library file from its header comments
type LibraryInfo struct {
	ID          string // Unique identifier
	Name        string // Display name
	Description string // Optional description
	Group       string // Grouping category
	FilePath    string // Path to the library file; empty for the built-in library
}

// ListLibraries scans dir for .pbrt material libraries. The built-in library
// is listed first, then files sorted by name. A missing directory lists only
// the built-in library.
func ListLibraries(dir string) ([]LibraryInfo, error) {
	builtin, err := ReadLibraryMetadata(strings.NewReader(builtinMaterials), BuiltinID)
	if err != nil {
		return nil, err
	}
	builtin.ID = BuiltinID
	libraries := []LibraryInfo{builtin}

	if _, err := os.Stat(dir); err != nil {
		return libraries, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.pbrt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan library directory: %w", err)
	}

	var found []LibraryInfo
	for _, filePath := range files {
		info, err := ParseLibraryMetadata(filePath)
		if err != nil {
			return nil, err
		}
		found = append(found, info)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})
	return append(libraries, found...), nil
}

// ParseLibraryMetadata extracts metadata from a library file's header comments
func ParseLibraryMetadata(filePath string) (LibraryInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	file, err := os.Open(filePath)
	if err != nil {
		return LibraryInfo{}, fmt.Errorf("failed to open library: %w", err)
	}
	defer file.Close()

	info, err := ReadLibraryMetadata(file, nameWithoutExt)
	if err != nil {
		return LibraryInfo{}, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	info.FilePath = filePath
	return info, nil
}

// ReadLibraryMetadata reads "# Key: value" header lines up to the first
// non-comment line. Missing fields fall back to values derived from id.
func ReadLibraryMetadata(r io.Reader, id string) (LibraryInfo, error) {
	info := LibraryInfo{
		ID:    "pbrt:" + id,
		Name:  titleCase(id),
		Group: "Libraries",
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Library":
			info.Name = value
		case "Description":
			info.Description = value
		case "Group":
			info.Group = value
		}
	}
	return info, scanner.Err()
}

// titleCase converts a filename-style string to title case
// e.g., "car-paint" -> "Car Paint"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
