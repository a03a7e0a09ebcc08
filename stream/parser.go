package stream

import (
	"strconv"
	"strings"

	"github.com/minor-industries/streamagg/agg"
	"github.com/minor-industries/streamagg/window"
	"github.com/pkg/errors"
)

// Parser builds operators from definitions like
//
//	"hr | sum 30"
//	"hr | max 100 daba"
//	"hr | avg 30 | gt 5"
//
// The first segment names the input series; each following segment is a
// function. Windowed functions take a window size in samples and an optional
// algorithm name (default twostacks).
type Parser struct {
}

func NewParser() *Parser {
	return &Parser{}
}

func trimSpace(parts []string) []string {
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func (p *Parser) Parse(s string) (string, Operator, error) {
	if len(s) == 0 {
		return "", nil, errors.New("empty series")
	}

	mainParts := trimSpace(strings.Split(s, "|"))

	var series string
	{
		seriesParts := trimSpace(strings.Fields(mainParts[0]))
		if len(seriesParts) != 1 {
			return "", nil, errors.New("invalid series name")
		}
		series = seriesParts[0]
	}

	switch len(mainParts) {
	case 1:
		return series, Identity{}, nil
	case 2:
		op, err := p.parseFunction(mainParts[1])
		return series, op, err
	default:
		op, err := p.parseChain(mainParts[1:])
		return series, op, err
	}
}

func (p *Parser) parseFunction(def string) (Operator, error) {
	functionParts := trimSpace(strings.Fields(def))

	if len(functionParts) == 0 {
		return nil, errors.New("invalid number of function parameters")
	}

	functionName := functionParts[0]
	switch functionName {
	case "sum", "max", "min", "avg":
		if len(functionParts) < 2 || len(functionParts) > 3 {
			return nil, errors.Errorf("%s: invalid number of function parameters", functionName)
		}

		size, err := strconv.Atoi(functionParts[1])
		if err != nil {
			return nil, errors.Wrap(err, "parse window size")
		}
		if size <= 0 {
			return nil, errors.New("window size must be positive")
		}

		algo := window.AlgoTwoStacks
		if len(functionParts) == 3 {
			algo = window.Algorithm(functionParts[2])
			if !window.Algorithms().Has(algo) {
				return nil, errors.Errorf("unknown window algorithm: %q", algo)
			}
		}

		return newWindowedFunction(functionName, size, algo)
	case "gt", "add":
		if len(functionParts) != 2 {
			return nil, errors.Errorf("%s: invalid number of function parameters", functionName)
		}
		x, err := strconv.ParseFloat(functionParts[1], 64)
		if err != nil {
			return nil, errors.Wrap(err, "invalid float")
		}
		if functionName == "gt" {
			return OpGt{X: x}, nil
		}
		return OpAdd{X: x}, nil
	default:
		return nil, errors.New("unknown function name")
	}
}

func newWindowedFunction(name string, size int, algo window.Algorithm) (Operator, error) {
	var op agg.Op[float64]
	switch name {
	case "sum", "avg":
		op = agg.Sum[float64]{}
	case "max":
		op = agg.MaxFloat64()
	case "min":
		op = agg.MinFloat64()
	}

	win, err := window.New(algo, op)
	if err != nil {
		return nil, errors.Wrap(err, "new window")
	}

	if name == "avg" {
		return NewMeanWindowed(win, size), nil
	}
	return NewWindowed(win, size), nil
}

func (p *Parser) parseChain(defs []string) (Operator, error) {
	var ops []Operator

	for _, def := range defs {
		op, err := p.parseFunction(def)
		if err != nil {
			return nil, errors.Wrap(err, "parse function")
		}
		ops = append(ops, op)
	}

	return chain{ops: ops}, nil
}
