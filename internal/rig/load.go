package rig

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource string

// Error codes for rig loading.
const (
	ErrCodeRead     = "R001" // File read error
	ErrCodeCompile  = "R002" // CUE syntax or build error
	ErrCodeSchema   = "R003" // Schema violation
	ErrCodeNoBones  = "R004" // Rig has no body bones
	ErrCodeDupBone  = "R005" // Duplicate bone within one partial
	ErrCodeInternal = "R099"
)

// BoneDef describes one bone of a rig definition. Rotation is in Euler
// degrees; Limit caps the rendered rotation angle in degrees (0 = no limit).
type BoneDef struct {
	Name        string     `json:"name"`
	Partial     int        `json:"partial"`
	Position    [3]float64 `json:"position"`
	Rotation    [3]float64 `json:"rotation"`
	Scale       [3]float64 `json:"scale"`
	Limit       float64    `json:"limit"`
	PartialRoot bool       `json:"partialRoot"`
	Visible     bool       `json:"visible"`
}

// Definition is a decoded rig.
type Definition struct {
	Name        string    `json:"name"`
	ObjectIndex int       `json:"objectIndex"`
	Prop        bool      `json:"prop"`
	Timeline    bool      `json:"timeline"`
	Bones       []BoneDef `json:"bones"`
	MainHand    []BoneDef `json:"mainHand"`
	OffHand     []BoneDef `json:"offHand"`
}

// LoadError is a rig loading error with the CUE source position when known.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadFile reads and decodes a rig definition from a CUE file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Message: fmt.Sprintf("reading rig: %v", err)}
	}
	return Parse(data, path)
}

// Parse decodes a rig definition from CUE source, unifying it with the
// embedded schema so defaults are filled in.
func Parse(src []byte, filename string) (*Definition, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeInternal, Message: fmt.Sprintf("compiling schema: %v", err)}
	}

	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(ErrCodeCompile, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Rig")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(ErrCodeSchema, err)
	}

	var def Definition
	if err := unified.Decode(&def); err != nil {
		return nil, formatCUEError(ErrCodeSchema, err)
	}

	if len(def.Bones) == 0 {
		return nil, &LoadError{
			Code:    ErrCodeNoBones,
			Message: "rig must define at least one body bone",
			Pos:     unified.LookupPath(cue.ParsePath("bones")).Pos(),
		}
	}

	for _, group := range [][]BoneDef{def.Bones, def.MainHand, def.OffHand} {
		seen := make(map[boneKey]bool)
		for _, b := range group {
			key := boneKey{b.Partial, b.Name}
			if seen[key] {
				return nil, &LoadError{
					Code:    ErrCodeDupBone,
					Message: fmt.Sprintf("duplicate bone %q in partial %d", b.Name, b.Partial),
				}
			}
			seen[key] = true
		}
	}

	return &def, nil
}

type boneKey struct {
	partial int
	name    string
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(code string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
