// Public domain.

// Package ssbin defines the parameter table produced by calibration and
// its file formats.
//
// A table file is TOML when its name ends in .toml and gob otherwise.
// TOML is the readable, editable form; gob is the compact form read by
// the command program.
package ssbin

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/ssengine"
)

// Pfn, the default parameter table file.
const Pfn = "siddhanta.params.toml"

// Table holds fitted parameters for one calibration run.
type Table struct {
	RunID     uuid.UUID
	Created   time.Time
	Reference string // oracle backend and reckoning the fit was made against
	Params    map[ssbody.Body]ssengine.Params
	RMS       map[ssbody.Body]float64 // arc minutes
}

// New allocates an empty table with a fresh run id.
func New(reference string) *Table {
	return &Table{
		RunID:     uuid.New(),
		Created:   time.Now().UTC().Truncate(time.Second),
		Reference: reference,
		Params:    make(map[ssbody.Body]ssengine.Params),
		RMS:       make(map[ssbody.Body]float64),
	}
}

// Set records parameters and fit error for b.
func (t *Table) Set(b ssbody.Body, p ssengine.Params, rms float64) {
	t.Params[b] = p
	t.RMS[b] = rms
}

// Engine returns an engine evaluating the table.
func (t *Table) Engine() *ssengine.Engine {
	return ssengine.New(t.Params)
}

// record is the TOML form of one body.
type record struct {
	Name             string  `toml:"name"`
	Revolutions      float64 `toml:"revolutions"`
	Offset           float64 `toml:"offset"`
	ApsisOffset      float64 `toml:"apsis_offset"`
	ApsisRevolutions float64 `toml:"apsis_revolutions"`
	RMS              float64 `toml:"rms_arcmin"`
}

type tomlTable struct {
	RunID     string    `toml:"run_id"`
	Created   time.Time `toml:"created"`
	Reference string    `toml:"reference"`
	Bodies    []record  `toml:"body"`
}

func isTOML(fn string) bool {
	return strings.EqualFold(filepath.Ext(fn), ".toml")
}

// WriteFile writes t to fn.
func (t *Table) WriteFile(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if isTOML(fn) {
		err = toml.NewEncoder(f).Encode(t.toTOML())
	} else {
		err = gob.NewEncoder(f).Encode(t)
	}
	if cErr := f.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", fn, err)
	}
	return nil
}

// ReadFile reads a table written by WriteFile.
func ReadFile(fn string) (*Table, error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	var t *Table
	if isTOML(fn) {
		t, err = parseTOML(b)
	} else {
		t = &Table{}
		err = gob.NewDecoder(bytes.NewReader(b)).Decode(t)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fn, err)
	}
	return t, nil
}

// toTOML lists bodies in table order.
func (t *Table) toTOML() tomlTable {
	tt := tomlTable{
		RunID:     t.RunID.String(),
		Created:   t.Created,
		Reference: t.Reference,
	}
	for _, b := range ssbody.All {
		p, ok := t.Params[b]
		if !ok {
			continue
		}
		tt.Bodies = append(tt.Bodies, record{
			Name:             b.String(),
			Revolutions:      p.Revolutions,
			Offset:           p.Offset,
			ApsisOffset:      p.ApsisOffset,
			ApsisRevolutions: p.ApsisRevolutions,
			RMS:              t.RMS[b],
		})
	}
	return tt
}

func parseTOML(b []byte) (*Table, error) {
	var tt tomlTable
	if err := toml.Unmarshal(b, &tt); err != nil {
		return nil, err
	}
	t := &Table{
		Created:   tt.Created,
		Reference: tt.Reference,
		Params:    make(map[ssbody.Body]ssengine.Params, len(tt.Bodies)),
		RMS:       make(map[ssbody.Body]float64, len(tt.Bodies)),
	}
	if tt.RunID != "" {
		id, err := uuid.Parse(tt.RunID)
		if err != nil {
			return nil, fmt.Errorf("run_id: %w", err)
		}
		t.RunID = id
	}
	for _, r := range tt.Bodies {
		b, err := ssbody.Parse(r.Name)
		if err != nil {
			return nil, err
		}
		t.Set(b, ssengine.Params{
			Revolutions:      r.Revolutions,
			Offset:           r.Offset,
			ApsisOffset:      r.ApsisOffset,
			ApsisRevolutions: r.ApsisRevolutions,
		}, r.RMS)
	}
	return t, nil
}
