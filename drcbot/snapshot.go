package drcbot

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/piperpilot/DRCBotV2/gerbparser"
)

// snapshotSchemaVersion changes whenever Snapshot changes incompatibly.
const snapshotSchemaVersion uint16 = 1

// Snapshot is the msgpack form of one parsed file.
type Snapshot struct {
	Schema      uint16             `msgpack:"schema"`
	Path        string             `msgpack:"path"`
	Error       string             `msgpack:"error,omitempty"`
	Format      string             `msgpack:"format,omitempty"`
	Unit        string             `msgpack:"unit,omitempty"`
	Apertures   []ApertureRecord   `msgpack:"apertures"`
	Macros      []string           `msgpack:"macros"`
	Commands    []CommandRecord    `msgpack:"commands"`
	Diagnostics []DiagnosticRecord `msgpack:"diagnostics"`
}

type ApertureRecord struct {
	Code     int       `msgpack:"code"`
	Type     string    `msgpack:"type"`
	Diameter float64   `msgpack:"diameter,omitempty"`
	XSize    float64   `msgpack:"x_size,omitempty"`
	YSize    float64   `msgpack:"y_size,omitempty"`
	HoleX    float64   `msgpack:"hole_x,omitempty"`
	HoleY    float64   `msgpack:"hole_y,omitempty"`
	Vertices int       `msgpack:"vertices,omitempty"`
	RotAngle float64   `msgpack:"rotation,omitempty"`
	Macro    string    `msgpack:"macro,omitempty"`
	Params   []float64 `msgpack:"params,omitempty"`
}

type CommandRecord struct {
	Op     string  `msgpack:"op"`
	Code   int32   `msgpack:"code,omitempty"`
	Value  float64 `msgpack:"value,omitempty"`
	Unit   string  `msgpack:"unit,omitempty"`
	Offset int     `msgpack:"offset"`
}

type DiagnosticRecord struct {
	Severity string `msgpack:"severity"`
	Code     string `msgpack:"code"`
	Offset   int    `msgpack:"offset"`
	Message  string `msgpack:"message"`
}

func newSnapshot(r fileResult) Snapshot {
	s := Snapshot{Schema: snapshotSchemaVersion, Path: r.Path}
	if r.Err != nil {
		s.Error = r.Err.Error()
		return s
	}
	m := r.Model
	s.Format = m.Format.String()
	if m.UnitSet {
		s.Unit = m.Unit.String()
	}
	for _, code := range m.Apertures.Codes() {
		apert, _ := m.Apertures.Get(code)
		s.Apertures = append(s.Apertures, ApertureRecord{
			Code:     apert.Code,
			Type:     apert.Type.String(),
			Diameter: apert.Diameter,
			XSize:    apert.XSize,
			YSize:    apert.YSize,
			HoleX:    apert.HoleX,
			HoleY:    apert.HoleY,
			Vertices: apert.Vertices,
			RotAngle: apert.RotAngle,
			Macro:    apert.MacroName,
			Params:   apert.MacroParams,
		})
	}
	s.Macros = m.Macros.Names()
	s.Commands = commandRecords(m.Commands)
	for _, d := range m.Diagnostics.Items() {
		s.Diagnostics = append(s.Diagnostics, DiagnosticRecord{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Offset:   d.Offset,
			Message:  d.Message,
		})
	}
	return s
}

func commandRecords(cs *gerbparser.CommandStream) []CommandRecord {
	retVal := make([]CommandRecord, 0, cs.Len())
	for _, n := range cs.Nodes() {
		rec := CommandRecord{Op: n.Op.String(), Offset: n.Offset}
		switch {
		case n.Op.IsCode():
			rec.Code = n.Code
		case n.Op.IsCoord():
			rec.Value = n.Value
		default:
			if n.Unit != 0 {
				rec.Unit = n.Unit.String()
			}
		}
		retVal = append(retVal, rec)
	}
	return retVal
}

// WriteSnapshots encodes snaps as one msgpack array.
func WriteSnapshots(w io.Writer, snaps []Snapshot) error {
	return msgpack.NewEncoder(w).Encode(snaps)
}

// ReadSnapshots decodes what WriteSnapshots wrote.
func ReadSnapshots(r io.Reader) ([]Snapshot, error) {
	var snaps []Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snaps); err != nil {
		return nil, err
	}
	for _, s := range snaps {
		if s.Schema != snapshotSchemaVersion {
			return nil, fmt.Errorf("%s: snapshot schema %d, want %d", s.Path, s.Schema, snapshotSchemaVersion)
		}
	}
	return snaps, nil
}

func writeSnapshotFile(path string, results []fileResult) (err error) {
	snaps := make([]Snapshot, 0, len(results))
	for _, r := range results {
		snaps = append(snaps, newSnapshot(r))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteSnapshots(f, snaps)
}
