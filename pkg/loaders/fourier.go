package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-scattering/pkg/bxdf"
)

var (
	// ErrInvalidFourierHeader is returned when a file is not a Fourier BSDF table
	ErrInvalidFourierHeader = errors.New("invalid fourier bsdf header")
	// ErrUnsupportedFourierTable is returned for valid tables using features we do not read
	ErrUnsupportedFourierTable = errors.New("unsupported fourier bsdf table")
	// ErrCorruptFourierTable is returned when table offsets or sizes are inconsistent
	ErrCorruptFourierTable = errors.New("corrupt fourier bsdf table")
)

var fourierMagic = [8]byte{'S', 'C', 'A', 'T', 'F', 'U', 'N', 0x01}

// fourierHeader is the fixed-size little-endian file header
type fourierHeader struct {
	Magic     [8]byte
	Flags     int32
	NMu       int32
	NCoeffs   int32
	MMax      int32
	NChannels int32
	NBases    int32
	_         [3]int32
	Eta       float32
	_         [4]int32
}

// fourierFlagBSDF marks a table of BSDF values, as opposed to other scattering data
const fourierFlagBSDF = 1

// Upper bound on array sizes read from a header
const maxFourierEntries = 1 << 28

// LoadFourierTable reads a Fourier BSDF table file
func LoadFourierTable(filename string) (*bxdf.FourierTable, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open fourier bsdf file: %w", err)
	}
	defer file.Close()

	table, err := ReadFourierTable(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return table, nil
}

// ReadFourierTable decodes a Fourier BSDF table. Values are stored as float32
// and widened to float64.
func ReadFourierTable(r io.Reader) (*bxdf.FourierTable, error) {
	var header fourierHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFourierHeader, err)
	}
	if header.Magic != fourierMagic {
		return nil, ErrInvalidFourierHeader
	}
	if header.Flags != fourierFlagBSDF || (header.NChannels != 1 && header.NChannels != 3) || header.NBases != 1 {
		return nil, fmt.Errorf("%w: flags=%d channels=%d bases=%d",
			ErrUnsupportedFourierTable, header.Flags, header.NChannels, header.NBases)
	}

	nMu := int(header.NMu)
	nCoeffs := int(header.NCoeffs)
	if nMu < 2 || nCoeffs < 0 || nMu*nMu > maxFourierEntries || nCoeffs > maxFourierEntries || header.MMax < 1 {
		return nil, fmt.Errorf("%w: nMu=%d nCoeffs=%d mMax=%d", ErrCorruptFourierTable, nMu, nCoeffs, header.MMax)
	}

	mu := make([]float32, nMu)
	cdf := make([]float32, nMu*nMu)
	offsetAndLength := make([]int32, 2*nMu*nMu)
	coeffs := make([]float32, nCoeffs)
	for _, section := range []struct {
		name string
		data any
	}{
		{"elevations", mu},
		{"cdf", cdf},
		{"offsets", offsetAndLength},
		{"coefficients", coeffs},
	} {
		if err := binary.Read(r, binary.LittleEndian, section.data); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", section.name, err)
		}
	}

	table := &bxdf.FourierTable{
		Eta:       float64(header.Eta),
		MMax:      int(header.MMax),
		NChannels: int(header.NChannels),
		Mu:        widen(mu),
		CDF:       widen(cdf),
		A:         widen(coeffs),
		M:         make([]int, nMu*nMu),
		AOffset:   make([]int, nMu*nMu),
	}
	for i := 0; i < nMu*nMu; i++ {
		offset, length := int(offsetAndLength[2*i]), int(offsetAndLength[2*i+1])
		// Every channel stores length coefficients
		if offset < 0 || length < 0 || length > table.MMax || offset+length*table.NChannels > nCoeffs {
			return nil, fmt.Errorf("%w: entry %d has offset %d and length %d", ErrCorruptFourierTable, i, offset, length)
		}
		table.AOffset[i] = offset
		table.M[i] = length
	}
	table.Finalize()
	return table, nil
}

// WriteFourierTable encodes a table in the format ReadFourierTable reads.
// The table must have been finalized.
func WriteFourierTable(w io.Writer, table *bxdf.FourierTable) error {
	nMu := table.NMu()
	if len(table.CDF) != nMu*nMu || len(table.M) != nMu*nMu || len(table.AOffset) != nMu*nMu {
		return fmt.Errorf("%w: table arrays do not match %d elevations", ErrCorruptFourierTable, nMu)
	}

	header := fourierHeader{
		Magic:     fourierMagic,
		Flags:     fourierFlagBSDF,
		NMu:       int32(nMu),
		NCoeffs:   int32(len(table.A)),
		MMax:      int32(table.MMax),
		NChannels: int32(table.NChannels),
		NBases:    1,
		Eta:       float32(table.Eta),
	}

	offsetAndLength := make([]int32, 2*nMu*nMu)
	for i := range table.M {
		offsetAndLength[2*i] = int32(table.AOffset[i])
		offsetAndLength[2*i+1] = int32(table.M[i])
	}

	for _, data := range []any{header, narrow(table.Mu), narrow(table.CDF), offsetAndLength, narrow(table.A)} {
		if err := binary.Write(w, binary.LittleEndian, data); err != nil {
			return fmt.Errorf("failed to write fourier bsdf table: %w", err)
		}
	}
	return nil
}

func widen(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func narrow(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
