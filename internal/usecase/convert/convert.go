// Package convert resuelve conversiones simples de unidades para el comando !convert.
package convert

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrUnsupported = errors.New("convert: unsupported input")

type category struct {
	pattern *regexp.Regexp
	// factor de cada unidad hacia la unidad base (m, m/s, l)
	factors map[string]float64
}

var categories = []category{
	{
		pattern: regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(ft|'|inch|"|m)$`),
		factors: map[string]float64{"ft": 0.3048, "'": 0.3048, "inch": 0.0254, `"`: 0.0254, "m": 1},
	},
	{
		pattern: regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(mph|kph|m/s)$`),
		factors: map[string]float64{"mph": 0.44704, "kph": 1 / 3.6, "m/s": 1},
	},
	{
		pattern: regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(gallon|gal|litre|liter|l)$`),
		factors: map[string]float64{"gallon": 3.78541, "gal": 3.78541, "litre": 1, "liter": 1, "l": 1},
	},
}

var temperaturePattern = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*(F|C)$`)

// Expression convierte "10 ft -> m" en "3.05 m".
func Expression(input string) (string, error) {
	from, to, ok := strings.Cut(input, "->")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, strings.TrimSpace(input))
	}
	return Convert(from, to)
}

// Convert convierte una medida ("10 ft") a la unidad destino ("m").
func Convert(measurement, toUnit string) (string, error) {
	measurement = strings.TrimSpace(measurement)
	toUnit = strings.TrimSpace(toUnit)

	for _, cat := range categories {
		match := cat.pattern.FindStringSubmatch(measurement)
		if match == nil {
			continue
		}
		value, _ := strconv.ParseFloat(match[1], 64)
		fromFactor := cat.factors[match[2]]
		toFactor, ok := cat.factors[toUnit]
		if !ok {
			return "", fmt.Errorf("%w: %s -> %s", ErrUnsupported, measurement, toUnit)
		}
		return format(roundTo(value*fromFactor/toFactor, 2), toUnit), nil
	}

	if match := temperaturePattern.FindStringSubmatch(measurement); match != nil {
		value, _ := strconv.ParseFloat(match[1], 64)
		result, err := convertTemperature(value, match[2], toUnit)
		if err != nil {
			return "", err
		}
		return format(result, toUnit), nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupported, measurement)
}

func convertTemperature(value float64, from, to string) (float64, error) {
	switch {
	case from == to && (to == "F" || to == "C"):
		return value, nil
	case from == "F" && to == "C":
		return roundTo((value-32)*5/9, 2), nil
	case from == "C" && to == "F":
		return roundTo(value*9/5+32, 2), nil
	}
	return 0, fmt.Errorf("%w: %s -> %s", ErrUnsupported, from, to)
}

func roundTo(n float64, digits int) float64 {
	m := math.Pow(10, float64(digits))
	return math.Round(n*m) / m
}

func format(value float64, unit string) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + unit
}
