/*
Package header writes encoded icons as an Arduino C/C++ header.

Each icon becomes a PROGMEM byte array and the weather code table becomes a
getWeatherIcon function returning a pointer to one of the arrays.
*/
package header

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bodgit/weathericons/bitmap"
	"github.com/bodgit/weathericons/weather"
)

const (
	bytesPerLine = 16
	indent       = "    "
)

var errBadLength = errors.New("header: bitmap has wrong length")

// Entry is one encoded icon.
type Entry struct {
	Icon   weather.Icon
	Bitmap bitmap.Bitmap
}

func preamble(size int) []string {
	return []string{
		"#pragma once",
		"",
		"#include <Arduino.h>",
		"",
		"// Weather icons for e-paper display",
		fmt.Sprintf("// Icons are %dx%d pixels, 1-bit (black pixels = 1)", size, size),
		"// Generated from Makin-Things/weather-icons SVG set",
		"",
		fmt.Sprintf("#define WEATHER_ICON_SIZE %d", size),
		fmt.Sprintf("#define WEATHER_ICON_BYTES (%d * %d / 8)", size, size),
		"",
	}
}

func array(name string, b bitmap.Bitmap) []string {
	lines := []string{fmt.Sprintf("const uint8_t %s[] PROGMEM = {", name)}
	for i := 0; i < len(b); i += bytesPerLine {
		end := i + bytesPerLine
		if end > len(b) {
			end = len(b)
		}
		hex := make([]string, 0, bytesPerLine)
		for _, v := range b[i:end] {
			hex = append(hex, fmt.Sprintf("0x%02X", v))
		}
		lines = append(lines, indent+strings.Join(hex, ", ")+",")
	}
	return append(lines, "};")
}

func caseLine(code int) string {
	label := fmt.Sprintf("case %d:", code)
	if d := weather.Describe(code); d != "" {
		return fmt.Sprintf("%s%-9s// %s", indent+indent, label, d)
	}
	return indent + indent + label
}

// Rules whose icons weren't encoded are dropped so their codes fall through
// to the default case
func resolver(table weather.Table, symbols map[weather.IconName]string) []string {
	lines := []string{
		"// Weather code to icon mapping function",
		"inline const uint8_t* getWeatherIcon(int weatherCode, bool isDay = true) {",
		indent + "switch (weatherCode) {",
	}

	for _, r := range table {
		day, hasDay := symbols[r.Day]
		night, hasNight := symbols[r.Night]

		var ret string
		switch {
		case hasDay && hasNight && day != night:
			ret = fmt.Sprintf("return isDay ? %s : %s;", day, night)
		case hasDay:
			ret = fmt.Sprintf("return %s;", day)
		case hasNight:
			ret = fmt.Sprintf("return %s;", night)
		default:
			continue
		}

		for _, c := range r.Codes {
			lines = append(lines, caseLine(c))
		}
		lines = append(lines, indent+indent+indent+ret)
	}

	ret := "return nullptr;"
	if s, ok := symbols[weather.Fallback]; ok {
		ret = fmt.Sprintf("return %s;", s)
	}

	return append(lines,
		indent+indent+"default:",
		indent+indent+indent+ret,
		indent+"}",
		"}",
	)
}

// Write writes a header for the given size by size icons to w, with a
// resolver function generated from table.
func Write(w io.Writer, size int, entries []Entry, table weather.Table) error {
	lines := preamble(size)
	symbols := make(map[weather.IconName]string, len(entries))

	for _, e := range entries {
		if len(e.Bitmap) != bitmap.Len(size) {
			return fmt.Errorf("%w: %s is %d bytes, expected %d", errBadLength, e.Icon.Symbol, len(e.Bitmap), bitmap.Len(size))
		}
		lines = append(lines, fmt.Sprintf("// %s.svg -> %s", e.Icon.Source, e.Icon.Symbol))
		lines = append(lines, array(e.Icon.Symbol, e.Bitmap)...)
		lines = append(lines, "")
		symbols[e.Icon.Name] = e.Icon.Symbol
	}

	lines = append(lines, resolver(table, symbols)...)

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}
