package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-scattering/pkg/core"
)

// Library statement types
const (
	StatementTexture           = "Texture"
	StatementMakeNamedMaterial = "MakeNamedMaterial"
	StatementMaterial          = "Material"
)

// PBRTStatement is a texture or material definition in PBRT syntax
type PBRTStatement struct {
	Type       string               // Texture, MakeNamedMaterial or Material
	Name       string               // Texture or named material name; empty for Material
	Subtype    string               // Texture class or material kind
	ValueType  string               // Texture value type: "spectrum", "color" or "float"
	Parameters map[string]PBRTParam // Named parameters
	Line       int                  // Line the statement starts on
	Text       string               // Statement source, joined onto one line
}

// PBRTParam represents a parameter with type and value(s)
type PBRTParam struct {
	Type   string   // Parameter type (float, rgb, texture, string, bool, ...)
	Values []string // Parameter values; string values are unquoted
}

// PBRTLibrary holds the texture and material statements of a PBRT file in
// source order. Geometry, lights and camera statements are skipped.
type PBRTLibrary struct {
	Statements []PBRTStatement
}

// PBRTParser accumulates multi-line statements
type PBRTParser struct {
	library        *PBRTLibrary
	lineNumber     int
	statementStart int
	statementLines []string
}

// ParsePBRTLibrary parses PBRT content from an io.Reader
func ParsePBRTLibrary(reader io.Reader) (*PBRTLibrary, error) {
	parser := NewPBRTParser()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	// Process any remaining accumulated statement
	if err := parser.flush(); err != nil {
		return nil, err
	}
	return parser.library, nil
}

// LoadPBRTLibrary loads and parses a PBRT file
func LoadPBRTLibrary(filename string) (*PBRTLibrary, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PBRT file: %w", err)
	}
	defer file.Close()

	return ParsePBRTLibrary(file)
}

// NewPBRTParser creates a new PBRT parser instance
func NewPBRTParser() *PBRTParser {
	return &PBRTParser{library: &PBRTLibrary{}}
}

// processLine processes a single line of PBRT input
func (p *PBRTParser) processLine(line string) error {
	p.lineNumber++
	line = stripComment(line)
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	if isStatementStart(line) {
		if err := p.flush(); err != nil {
			return err
		}
		p.statementStart = p.lineNumber
		p.statementLines = []string{line}
		return nil
	}

	// Continue previous statement
	if len(p.statementLines) == 0 {
		return fmt.Errorf("line %d: unexpected continuation line: %s", p.lineNumber, line)
	}
	p.statementLines = append(p.statementLines, line)
	return nil
}

// flush parses the accumulated statement and keeps it if it is a library statement
func (p *PBRTParser) flush() error {
	if len(p.statementLines) == 0 {
		return nil
	}
	text := strings.Join(p.statementLines, " ")
	p.statementLines = nil

	stmt, err := parseStatement(text)
	if err != nil {
		return fmt.Errorf("line %d: error parsing statement '%s': %w", p.statementStart, text, err)
	}
	if stmt == nil {
		return nil
	}
	stmt.Line = p.statementStart
	stmt.Text = text
	p.library.Statements = append(p.library.Statements, *stmt)
	return nil
}

// stripComment removes a trailing # comment outside quoted strings
func stripComment(line string) string {
	inQuotes := false
	for i, char := range line {
		switch char {
		case '"':
			inQuotes = !inQuotes
		case '#':
			if !inQuotes {
				return line[:i]
			}
		}
	}
	return line
}

// validateFilePath validates a file path before it is opened
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.Clean(filename)
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".pbrt") {
		return fmt.Errorf("invalid file type: only .pbrt files are allowed")
	}
	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}
	return nil
}

// tokenizePBRT tokenizes a PBRT line respecting quoted strings and brackets
func tokenizePBRT(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	inBrackets := false

	for _, char := range line {
		switch char {
		case '"':
			current.WriteRune(char)
			if inBrackets {
				continue
			}
			if inQuotes {
				// End of quoted string
				tokens = append(tokens, current.String())
				current.Reset()
			}
			inQuotes = !inQuotes
		case '[':
			if inQuotes {
				current.WriteRune(char)
				continue
			}
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			current.WriteRune(char)
			inBrackets = true
		case ']':
			current.WriteRune(char)
			if !inQuotes && inBrackets {
				tokens = append(tokens, current.String())
				current.Reset()
				inBrackets = false
			}
		case ' ', '\t':
			if inQuotes || inBrackets {
				current.WriteRune(char)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	// Add final token if any
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func isQuoted(token string) bool {
	return len(token) >= 2 && strings.HasPrefix(token, "\"") && strings.HasSuffix(token, "\"")
}

// parseStatement parses a single statement. It returns nil for statements
// that are not part of a material library.
func parseStatement(line string) (*PBRTStatement, error) {
	parts := tokenizePBRT(line)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty statement")
	}

	stmt := &PBRTStatement{
		Type:       parts[0],
		Parameters: make(map[string]PBRTParam),
	}

	// Leading quoted strings name the statement; the rest are parameters
	var header []string
	parts = parts[1:]
	for len(parts) > 0 && isQuoted(parts[0]) && !strings.Contains(strings.TrimSpace(strings.Trim(parts[0], "\"")), " ") {
		header = append(header, strings.Trim(parts[0], "\""))
		parts = parts[1:]
	}

	switch stmt.Type {
	case StatementTexture:
		if len(header) != 3 {
			return nil, fmt.Errorf("Texture requires a name, a value type and a class")
		}
		stmt.Name, stmt.ValueType, stmt.Subtype = header[0], header[1], header[2]
	case StatementMakeNamedMaterial:
		if len(header) != 1 {
			return nil, fmt.Errorf("MakeNamedMaterial requires a name")
		}
		stmt.Name = header[0]
	case StatementMaterial:
		if len(header) != 1 {
			return nil, fmt.Errorf("Material requires a type")
		}
		stmt.Subtype = header[0]
	default:
		return nil, nil
	}

	if err := parseParameters(stmt, parts); err != nil {
		return nil, err
	}

	if stmt.Type == StatementMakeNamedMaterial {
		subtype, ok := stmt.GetStringParam("type")
		if !ok {
			return nil, fmt.Errorf("named material %q has no \"string type\" parameter", stmt.Name)
		}
		stmt.Subtype = subtype
		delete(stmt.Parameters, "type")
	}
	return stmt, nil
}

// parseParameters reads "type name" value pairs
func parseParameters(stmt *PBRTStatement, parts []string) error {
	for i := 0; i < len(parts); {
		if !isQuoted(parts[i]) {
			return fmt.Errorf("expected a parameter declaration, got %s", parts[i])
		}
		paramParts := strings.Fields(strings.Trim(parts[i], "\""))
		if len(paramParts) != 2 {
			return fmt.Errorf("invalid parameter declaration %s", parts[i])
		}
		paramType, paramName := paramParts[0], paramParts[1]
		i++
		if i >= len(parts) {
			return fmt.Errorf("parameter %q has no value", paramName)
		}

		var values []string
		if strings.HasPrefix(parts[i], "[") {
			values = tokenizePBRT(strings.Trim(parts[i], "[] "))
		} else {
			values = []string{parts[i]}
		}
		i++

		for j, v := range values {
			values[j] = strings.Trim(v, "\"")
		}
		stmt.Parameters[paramName] = PBRTParam{Type: paramType, Values: values}
	}
	return nil
}

// GetFloatParam extracts a float parameter from a PBRT statement
func (stmt *PBRTStatement) GetFloatParam(name string) (float64, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 || param.Type == "texture" {
		return 0, false
	}
	val, err := strconv.ParseFloat(param.Values[0], 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetRGBParam extracts an RGB color parameter. A single value is read as gray.
func (stmt *PBRTStatement) GetRGBParam(name string) (*core.Vec3, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || param.Type == "texture" {
		return nil, false
	}
	switch len(param.Values) {
	case 1:
		v, err := strconv.ParseFloat(param.Values[0], 64)
		if err != nil {
			return nil, false
		}
		return &core.Vec3{X: v, Y: v, Z: v}, true
	case 3:
		r, err1 := strconv.ParseFloat(param.Values[0], 64)
		g, err2 := strconv.ParseFloat(param.Values[1], 64)
		b, err3 := strconv.ParseFloat(param.Values[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, false
		}
		return &core.Vec3{X: r, Y: g, Z: b}, true
	}
	return nil, false
}

// GetStringParam extracts a string parameter from a PBRT statement
func (stmt *PBRTStatement) GetStringParam(name string) (string, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return "", false
	}
	return param.Values[0], true
}

// GetBoolParam extracts a bool parameter from a PBRT statement
func (stmt *PBRTStatement) GetBoolParam(name string) (bool, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return false, false
	}
	val, err := strconv.ParseBool(param.Values[0])
	if err != nil {
		return false, false
	}
	return val, true
}

// GetTextureParam returns the texture name bound to a parameter
func (stmt *PBRTStatement) GetTextureParam(name string) (string, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || param.Type != "texture" || len(param.Values) == 0 {
		return "", false
	}
	return param.Values[0], true
}

// isStatementStart determines if a line starts a new PBRT statement
func isStatementStart(line string) bool {
	statementTypes := []string{
		"Camera", "Film", "Sampler", "Integrator", "LookAt", "PixelFilter",
		"Material", "MakeNamedMaterial", "NamedMaterial", "Texture",
		"Shape", "LightSource", "AreaLightSource",
		"Translate", "Rotate", "Scale", "Transform", "ConcatTransform",
		"ReverseOrientation", "AttributeBegin", "AttributeEnd",
		"TransformBegin", "TransformEnd", "WorldBegin", "WorldEnd",
		"ObjectBegin", "ObjectEnd", "ObjectInstance", "Include",
	}

	for _, stmt := range statementTypes {
		if strings.HasPrefix(line, stmt+" ") || strings.HasPrefix(line, stmt+"\t") || line == stmt {
			return true
		}
	}
	return false
}
