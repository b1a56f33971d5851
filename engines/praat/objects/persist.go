package objects

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robbyt/go-praatscript/platform/session"
)

// fileHeader is read first to pick the decoder for the rest of the file.
type fileHeader struct {
	ObjectClass string `yaml:"objectClass"`
}

type textGridDisk struct {
	ObjectClass string     `yaml:"objectClass"`
	XMin        float64    `yaml:"xmin"`
	XMax        float64    `yaml:"xmax"`
	Tiers       []tierDisk `yaml:"tiers"`
}

type tierDisk struct {
	Class     string         `yaml:"class"`
	Name      string         `yaml:"name"`
	Intervals []intervalDisk `yaml:"intervals,omitempty"`
	Points    []pointDisk    `yaml:"points,omitempty"`
}

type intervalDisk struct {
	XMin float64 `yaml:"xmin"`
	XMax float64 `yaml:"xmax"`
	Text string  `yaml:"text"`
}

type pointDisk struct {
	Number float64 `yaml:"number"`
	Mark   string  `yaml:"mark"`
}

func (tg *TextGrid) toDisk() textGridDisk {
	out := textGridDisk{
		ObjectClass: ClassTextGrid,
		XMin:        tg.Start,
		XMax:        tg.End,
		Tiers:       make([]tierDisk, 0, len(tg.Tiers)),
	}
	for _, t := range tg.Tiers {
		td := tierDisk{Class: t.Kind.String(), Name: t.Name}
		for _, iv := range t.Intervals {
			td.Intervals = append(td.Intervals, intervalDisk{XMin: iv.Start, XMax: iv.End, Text: iv.Text})
		}
		for _, p := range t.Points {
			td.Points = append(td.Points, pointDisk{Number: p.Time, Mark: p.Mark})
		}
		out.Tiers = append(out.Tiers, td)
	}
	return out
}

func (d textGridDisk) toTextGrid() (*TextGrid, error) {
	if !(d.XMax > d.XMin) {
		return nil, newError(ErrInvalidDomain, "The end time should be greater than the start time.")
	}
	tg := &TextGrid{Start: d.XMin, End: d.XMax, Tiers: make([]*Tier, 0, len(d.Tiers))}
	for _, td := range d.Tiers {
		t := &Tier{Name: td.Name}
		switch td.Class {
		case IntervalTier.String():
			t.Kind = IntervalTier
			at := d.XMin
			for _, iv := range td.Intervals {
				if iv.XMin != at || !(iv.XMax > iv.XMin) {
					return nil, newError(ErrInvalidTier, "Tier %q has intervals that do not cover the time domain.", td.Name)
				}
				t.Intervals = append(t.Intervals, Interval{Start: iv.XMin, End: iv.XMax, Text: iv.Text})
				at = iv.XMax
			}
			if at != d.XMax {
				return nil, newError(ErrInvalidTier, "Tier %q has intervals that do not cover the time domain.", td.Name)
			}
		case PointTier.String():
			t.Kind = PointTier
			for i, p := range td.Points {
				if i > 0 && !(p.Number > td.Points[i-1].Number) {
					return nil, newError(ErrInvalidTier, "Tier %q has points out of order.", td.Name)
				}
				t.Points = append(t.Points, Point{Time: p.Number, Mark: p.Mark})
			}
		default:
			return nil, newError(ErrInvalidTier, "Unknown tier class %q.", td.Class)
		}
		tg.Tiers = append(tg.Tiers, t)
	}
	return tg, nil
}

// Encode writes obj in the YAML object format.
func Encode(w io.Writer, obj session.Object) error {
	var data any
	switch o := obj.(type) {
	case *TextGrid:
		data = o.toDisk()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, obj.ClassName())
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("objects: marshal %s: %w", obj.ClassName(), err)
	}
	return enc.Close()
}

// Decode reads one object in the YAML object format.
func Decode(r io.Reader) (session.Object, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var header fileHeader
	if err := yaml.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	switch header.ObjectClass {
	case ClassTextGrid:
		var disk textGridDisk
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&disk); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		tg, err := disk.toTextGrid()
		if err != nil {
			return nil, err
		}
		return tg, nil
	case "":
		return nil, fmt.Errorf("%w: missing objectClass", ErrDecode)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, header.ObjectClass)
	}
}

// Save writes obj to path.
func Save(path string, obj session.Object) error {
	var buf bytes.Buffer
	if err := Encode(&buf, obj); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("objects: write %s: %w", path, err)
	}
	return nil
}

// Read loads the object stored at path. The returned name is the file's base
// name without extension, which is what the object is called once added to a
// workspace.
func Read(path string) (session.Object, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = file.Close() }()

	obj, err := Decode(file)
	if err != nil {
		return nil, "", err
	}
	return obj, NameFromPath(path), nil
}

// NameFromPath is the object name Praat derives from a file name.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return session.CleanName(strings.TrimSuffix(base, filepath.Ext(base)))
}
