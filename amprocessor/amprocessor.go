// Copyright 2018 Vasily Turchenko <turchenkov@gmail.com>. All rights reserved.
// Use of this source code is free

// Package amprocessor compiles and evaluates aperture macros.
package amprocessor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/piperpilot/DRCBotV2/calculator"
	"github.com/piperpilot/DRCBotV2/gerbparser"
)

var (
	ErrBadPrimitive = errors.New("bad aperture macro primitive")
	ErrBadVariable  = errors.New("bad aperture macro variable")
	ErrUnsupported  = errors.New("unsupported aperture macro primitive")
)

type AMPrimitiveType int

const (
	AMPrimitive_Comment    AMPrimitiveType = 0
	AMPrimitive_Circle     AMPrimitiveType = 1
	AMPrimitive_VectLine2  AMPrimitiveType = 2
	AMPrimitive_VectLine   AMPrimitiveType = 20
	AMPrimitive_CenterLine AMPrimitiveType = 21
	AMPRimitive_OutLine    AMPrimitiveType = 4
	AMPrimitive_Polygon    AMPrimitiveType = 5
	AMPrimitive_Moire      AMPrimitiveType = 6
	AMPrimitive_Thermal    AMPrimitiveType = 7
)

func (amp AMPrimitiveType) String() string {
	switch amp {
	case AMPrimitive_Comment:
		return "comment"
	case AMPrimitive_Circle:
		return "circle"
	case AMPrimitive_VectLine, AMPrimitive_VectLine2:
		return "vector line"
	case AMPrimitive_CenterLine:
		return "center line"
	case AMPRimitive_OutLine:
		return "outline"
	case AMPrimitive_Polygon:
		return "polygon"
	case AMPrimitive_Moire:
		return "moire"
	case AMPrimitive_Thermal:
		return "thermal"
	default:
		return "unknown"
	}
}

// modifier names, used for printing and for the minimum modifier count
var modifierNames = map[AMPrimitiveType][]string{
	AMPrimitive_Circle:     {"Exposure", "Diameter", "Center X", "Center Y"},
	AMPrimitive_VectLine:   {"Exposure", "Width", "Start X", "Start Y", "End X", "End Y", "Rotation"},
	AMPrimitive_VectLine2:  {"Exposure", "Width", "Start X", "Start Y", "End X", "End Y", "Rotation"},
	AMPrimitive_CenterLine: {"Exposure", "Width", "Height", "Center X", "Center Y", "Rotation"},
	AMPRimitive_OutLine:    {"Exposure", "# vertices", "Start X", "Start Y", "Point X", "Point Y", "Rotation"},
	AMPrimitive_Polygon:    {"Exposure", "# vertices", "Center X", "Center Y", "Diameter", "Rotation"},
	AMPrimitive_Moire:      {"Center X", "Center Y", "Outer diameter rings", "Ring thickness", "Gap", "Max # rings", "Crosshair thickness", "Crosshair length", "Rotation"},
	AMPrimitive_Thermal:    {"Center X", "Center Y", "Outer diameter", "Inner diameter", "Gap", "Rotation"},
}

// AMPrimitive is a primitive statement with its modifiers still unevaluated.
type AMPrimitive struct {
	PrimitiveType AMPrimitiveType
	AMModifiers   []string
}

func (amp AMPrimitive) String() string {
	return "Aperture macro primitive:\t" + amp.PrimitiveType.String() + "\n" +
		ArrayInfo(amp.AMModifiers, modifierNames[amp.PrimitiveType])
}

// AMVariable is a "$n=expr" statement. It runs before the primitive
// with index PrimitiveIndex.
type AMVariable struct {
	Name           string
	Value          string
	PrimitiveIndex int
}

func (amv AMVariable) String() string {
	return amv.Name + "=" + amv.Value + " (primitive index=" + strconv.Itoa(amv.PrimitiveIndex) + ")"
}

type ApertureMacro struct {
	Name       string // name from source string
	Comments   []string
	Variables  []AMVariable
	Primitives []AMPrimitive
}

func (am *ApertureMacro) MacroName() string {
	return am.Name
}

func (am *ApertureMacro) String() string {
	var sb strings.Builder
	sb.WriteString("\nAperture macro name:\t" + am.Name + "\nComments:\n")
	for i := range am.Comments {
		sb.WriteString("\t\t" + am.Comments[i] + "\n")
	}
	sb.WriteString("Variables:\n")
	for i := range am.Variables {
		sb.WriteString("\t\t" + am.Variables[i].String() + "\n")
	}
	sb.WriteString("Primitives:\n")
	for i := range am.Primitives {
		sb.WriteString("\t" + am.Primitives[i].String() + "\n")
	}
	return sb.String()
}

// Compiler builds ApertureMacro values from the blocks of an AM parameter.
type Compiler struct{}

var _ gerbparser.MacroCompiler = Compiler{}

func (Compiler) Compile(name string, lines []string) (gerbparser.CompiledMacro, error) {
	am, err := NewApertureMacro(name, lines)
	if err != nil {
		return nil, err
	}
	gerbparser.Logger().Debug("aperture macro compiled",
		"name", name, "primitives", len(am.Primitives), "variables", len(am.Variables))
	return am, nil
}

// NewApertureMacro compiles the statements of macro name. Blank lines are
// skipped.
func NewApertureMacro(name string, lines []string) (*ApertureMacro, error) {
	if len(name) == 0 {
		return nil, errors.New("aperture macro name not found")
	}
	retVal := &ApertureMacro{Name: name}
	for _, s := range lines {
		s = strings.TrimSpace(s)
		if len(s) == 0 {
			continue
		}
		if s == "0" || strings.HasPrefix(s, "0 ") {
			retVal.Comments = append(retVal.Comments, strings.TrimSpace(s[1:]))
			continue
		}
		if strings.HasPrefix(s, "$") {
			eqSignPos := strings.IndexByte(s, '=')
			if eqSignPos == -1 {
				return nil, fmt.Errorf("%w: %q", ErrBadVariable, s)
			}
			varName := strings.TrimSpace(s[:eqSignPos])
			if _, err := strconv.Atoi(varName[1:]); err != nil {
				return nil, fmt.Errorf("%w: %q", ErrBadVariable, s)
			}
			retVal.Variables = append(retVal.Variables,
				AMVariable{varName, strings.TrimSpace(s[eqSignPos+1:]), len(retVal.Primitives)})
			continue
		}
		prim, err := newAMPrimitive(s)
		if err != nil {
			return nil, err
		}
		retVal.Primitives = append(retVal.Primitives, prim)
	}
	return retVal, nil
}

func newAMPrimitive(s string) (AMPrimitive, error) {
	commaPos := strings.IndexByte(s, ',')
	if commaPos < 1 || commaPos > 2 {
		return AMPrimitive{}, fmt.Errorf("%w: %q", ErrBadPrimitive, s)
	}
	primTypeI, err := strconv.Atoi(s[:commaPos])
	if err != nil {
		return AMPrimitive{}, fmt.Errorf("%w: %q", ErrBadPrimitive, s)
	}
	primType := AMPrimitiveType(primTypeI)
	names, ok := modifierNames[primType]
	if !ok {
		return AMPrimitive{}, fmt.Errorf("%w: unknown code %d", ErrBadPrimitive, primTypeI)
	}
	modifiers := strings.Split(s[commaPos+1:], ",")
	for i := range modifiers {
		modifiers[i] = strings.Join(strings.Fields(modifiers[i]), "")
		if len(modifiers[i]) == 0 {
			return AMPrimitive{}, fmt.Errorf("%w: empty modifier %d in %q", ErrBadPrimitive, i+1, s)
		}
	}
	// circle rotation is optional and not listed
	minModifiers := len(names)
	if len(modifiers) < minModifiers {
		return AMPrimitive{}, fmt.Errorf("%w: %s needs %d modifiers, got %d",
			ErrBadPrimitive, primType, minModifiers, len(modifiers))
	}
	return AMPrimitive{primType, modifiers}, nil
}

/*
	evaluation
*/

// Primitive is a primitive with numeric modifiers.
type Primitive struct {
	Type      AMPrimitiveType
	Modifiers []float64
}

// Evaluate binds params to $1..$n, runs the variable definitions in order
// and evaluates the modifiers of every primitive.
func (am *ApertureMacro) Evaluate(params []float64) ([]Primitive, error) {
	vars := make(map[string]float64, len(params)+len(am.Variables))
	for i, p := range params {
		vars["$"+strconv.Itoa(i+1)] = p
	}
	retVal := make([]Primitive, 0, len(am.Primitives))
	v := 0
	for i, prim := range am.Primitives {
		for ; v < len(am.Variables) && am.Variables[v].PrimitiveIndex <= i; v++ {
			val, err := calculator.Eval(am.Variables[v].Value, vars)
			if err != nil {
				return nil, fmt.Errorf("macro %s: %s: %w", am.Name, am.Variables[v].Name, err)
			}
			vars[am.Variables[v].Name] = val
		}
		evaluated := Primitive{prim.PrimitiveType, make([]float64, len(prim.AMModifiers))}
		for j, m := range prim.AMModifiers {
			val, err := calculator.Eval(m, vars)
			if err != nil {
				return nil, fmt.Errorf("macro %s: primitive %d (%s) modifier %d: %w",
					am.Name, i, prim.PrimitiveType, j+1, err)
			}
			evaluated.Modifiers[j] = val
		}
		retVal = append(retVal, evaluated)
	}
	return retVal, nil
}

/*
	auxiliary functions
*/

// ArrayInfo prints one "\tname = value" line per item.
func ArrayInfo(inArray []string, itemNames []string) string {
	var sb strings.Builder
	for i := 0; i < len(inArray) || i < len(itemNames); i++ {
		sb.WriteByte('\t')
		if i < len(itemNames) {
			sb.WriteString(itemNames[i])
		} else {
			sb.WriteString("<unnamed>")
		}
		sb.WriteString(" = ")
		if i < len(inArray) {
			sb.WriteString(inArray[i])
		} else {
			sb.WriteString("<empty>")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
