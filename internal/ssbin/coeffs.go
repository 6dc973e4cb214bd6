// Public domain.

package ssbin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/ssharm"
)

// Cfn, the default correction file.  A correction file is JSON when its
// name ends in .json and msgpack otherwise.
const Cfn = "siddhanta.coeffs.json"

// Corrections holds harmonic corrections fitted to the residuals of one
// parameter table.
type Corrections struct {
	RunID       uuid.UUID // of the corrected parameter table
	Created     time.Time
	Reference   string
	StartDays   float64 // series origin, days since the Kali epoch
	Order       int
	Frequencies []string
	Bodies      []BodyCorrection
}

// BodyCorrection is the correction for one body.
type BodyCorrection struct {
	Body   ssbody.Body
	RMS    float64 // arc minutes remaining after correction
	Coeffs *ssharm.Coefficients
}

// NewCorrections collects fits made against params.
func NewCorrections(params *Table, m ssharm.Model, startDays float64, fits []ssharm.Fitted) *Corrections {
	c := &Corrections{
		RunID:     params.RunID,
		Created:   time.Now().UTC().Truncate(time.Second),
		Reference: params.Reference,
		StartDays: startDays,
		Order:     m.Order,
	}
	for _, f := range m.Freqs {
		c.Frequencies = append(c.Frequencies, f.Name)
	}
	for _, f := range fits {
		c.Bodies = append(c.Bodies, BodyCorrection{f.Body, f.RMS, f.Coeffs})
	}
	return c
}

// Model reconstructs the harmonic model the corrections were fitted with.
func (c *Corrections) Model() (ssharm.Model, error) {
	return ssharm.NewModel(c.Frequencies, c.Order)
}

// Coeffs returns the coefficients for b.  Ketu, if not present itself,
// shares the correction of Rahu.
func (c *Corrections) Coeffs(b ssbody.Body) (*ssharm.Coefficients, bool) {
	for _, bc := range c.Bodies {
		if bc.Body == b {
			return bc.Coeffs, true
		}
	}
	if b == ssbody.Ketu {
		return c.Coeffs(ssbody.Rahu)
	}
	return nil, false
}

// Correction returns the correction in degrees to add to the model
// longitude of b.  A body without coefficients gets zero.
func (c *Corrections) Correction(b ssbody.Body, days float64) (float64, error) {
	k, ok := c.Coeffs(b)
	if !ok {
		return 0, nil
	}
	v, err := k.Eval(days - c.StartDays)
	if err != nil {
		return 0, fmt.Errorf("%v correction: %w", b, err)
	}
	return v, nil
}

// wire form, shared by JSON and msgpack
type corrFile struct {
	RunID       string      `json:"run_id" msgpack:"run_id"`
	Created     time.Time   `json:"created" msgpack:"created"`
	Reference   string      `json:"reference" msgpack:"reference"`
	StartDays   float64     `json:"start_days" msgpack:"start_days"`
	Order       int         `json:"order" msgpack:"order"`
	Frequencies []string    `json:"frequencies" msgpack:"frequencies"`
	Bodies      []corrEntry `json:"bodies" msgpack:"bodies"`
}

type corrEntry struct {
	Body   string               `json:"body" msgpack:"body"`
	RMS    float64              `json:"rms_arcmin" msgpack:"rms_arcmin"`
	Coeffs *ssharm.Coefficients `json:"coefficients" msgpack:"coefficients"`
}

func isJSON(fn string) bool {
	return strings.EqualFold(filepath.Ext(fn), ".json")
}

// WriteFile writes c to fn.
func (c *Corrections) WriteFile(fn string) error {
	cf := corrFile{
		RunID:       c.RunID.String(),
		Created:     c.Created,
		Reference:   c.Reference,
		StartDays:   c.StartDays,
		Order:       c.Order,
		Frequencies: c.Frequencies,
	}
	for _, bc := range c.Bodies {
		cf.Bodies = append(cf.Bodies, corrEntry{bc.Body.String(), bc.RMS, bc.Coeffs})
	}
	var b []byte
	var err error
	if isJSON(fn) {
		b, err = json.MarshalIndent(cf, "", "  ")
	} else {
		b, err = msgpack.Marshal(cf)
	}
	if err == nil {
		err = os.WriteFile(fn, b, 0644)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", fn, err)
	}
	return nil
}

// ReadCorrections reads a file written by Corrections.WriteFile.
func ReadCorrections(fn string) (*Corrections, error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	c, err := parseCorrections(b, isJSON(fn))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fn, err)
	}
	return c, nil
}

func parseCorrections(b []byte, js bool) (*Corrections, error) {
	var cf corrFile
	var err error
	if js {
		err = json.Unmarshal(b, &cf)
	} else {
		err = msgpack.Unmarshal(b, &cf)
	}
	if err != nil {
		return nil, err
	}
	c := &Corrections{
		Created:     cf.Created,
		Reference:   cf.Reference,
		StartDays:   cf.StartDays,
		Order:       cf.Order,
		Frequencies: cf.Frequencies,
	}
	if cf.RunID != "" {
		if c.RunID, err = uuid.Parse(cf.RunID); err != nil {
			return nil, fmt.Errorf("run_id: %w", err)
		}
	}
	for _, e := range cf.Bodies {
		bd, err := ssbody.Parse(e.Body)
		if err != nil {
			return nil, err
		}
		if e.Coeffs == nil {
			return nil, fmt.Errorf("%v: no coefficients", bd)
		}
		c.Bodies = append(c.Bodies, BodyCorrection{bd, e.RMS, e.Coeffs})
	}
	return c, nil
}
