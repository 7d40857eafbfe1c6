package report

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	JurisdictionCA Jurisdiction = "CA"
	JurisdictionUS Jurisdiction = "US"

	// TaxCodeOther is the fallback code for categories absent from a
	// jurisdiction's table.
	TaxCodeOther = "OTHER"
)

// Jurisdiction identifies a tax regime (CRA for CA, IRS for US).
type Jurisdiction string

//go:embed taxcodes.yaml
var taxCodesYAML []byte

type taxCodeTable struct {
	Agency string            `yaml:"agency"`
	Form   string            `yaml:"form"`
	Codes  map[string]string `yaml:"codes"`
}

type taxCodeFile struct {
	Version       int                           `yaml:"version"`
	Jurisdictions map[Jurisdiction]taxCodeTable `yaml:"jurisdictions"`
}

var taxCodes taxCodeFile

func init() {
	if err := yaml.Unmarshal(taxCodesYAML, &taxCodes); err != nil {
		panic(fmt.Sprintf("parse embedded tax code tables: %v", err))
	}
}

// Valid reports whether j is a supported jurisdiction.
func (j Jurisdiction) Valid() bool {
	_, ok := taxCodes.Jurisdictions[j]
	return ok
}

// Agency returns the tax agency administering this jurisdiction.
func (j Jurisdiction) Agency() string {
	return taxCodes.Jurisdictions[j].Agency
}

// Form returns the reporting form the tax codes refer to.
func (j Jurisdiction) Form() string {
	return taxCodes.Jurisdictions[j].Form
}

// TaxCode maps a category name to the jurisdiction's reporting line code,
// falling back to TaxCodeOther for unknown categories.
func TaxCode(j Jurisdiction, category string) string {
	if code, ok := taxCodes.Jurisdictions[j].Codes[category]; ok {
		return code
	}
	return TaxCodeOther
}
