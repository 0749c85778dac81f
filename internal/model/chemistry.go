package model

import "fmt"

// Chemistry identifies a cell chemistry. It fixes the voltage band the
// simulation is allowed to operate in.
type Chemistry string

const (
	ChemistryLFP Chemistry = "LFP"
	// ChemistryNMC covers NMC/Li-ion/LTO generically; they share one band here.
	ChemistryNMC Chemistry = "NMC"
)

// VoltageBand describes the operating band for a chemistry.
// Units are volts.
type VoltageBand struct {
	Min     float64
	Max     float64
	Nominal float64

	// InitialMin/InitialMax bound the randomized starting voltage of a
	// freshly configured cell.
	InitialMin float64
	InitialMax float64
}

var chemistryBands = map[Chemistry]VoltageBand{
	ChemistryLFP: {Min: 2.8, Max: 3.6, Nominal: 3.2, InitialMin: 3.0, InitialMax: 3.4},
	ChemistryNMC: {Min: 3.2, Max: 4.0, Nominal: 3.6, InitialMin: 3.4, InitialMax: 3.8},
}

// Band returns the voltage band for the chemistry. Unknown chemistries get
// the generic NMC band so callers never have to handle a missing entry.
func (c Chemistry) Band() VoltageBand {
	if b, ok := chemistryBands[c]; ok {
		return b
	}
	return chemistryBands[ChemistryNMC]
}

// Valid reports whether the chemistry is one of the supported values.
func (c Chemistry) Valid() bool {
	_, ok := chemistryBands[c]
	return ok
}

// ParseChemistry validates a chemistry name from configuration input.
func ParseChemistry(s string) (Chemistry, error) {
	c := Chemistry(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown chemistry %q (supported: %s, %s)", s, ChemistryLFP, ChemistryNMC)
	}
	return c, nil
}

// Chemistries lists the supported chemistries in a stable order.
func Chemistries() []Chemistry {
	return []Chemistry{ChemistryLFP, ChemistryNMC}
}
