package header

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/bodgit/weathericons/bitmap"
	"github.com/bodgit/weathericons/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const small = `#pragma once

#include <Arduino.h>

// Weather icons for e-paper display
// Icons are 8x8 pixels, 1-bit (black pixels = 1)
// Generated from Makin-Things/weather-icons SVG set

#define WEATHER_ICON_SIZE 8
#define WEATHER_ICON_BYTES (8 * 8 / 8)

// clear-day_bw.svg -> BITMAP_SUN
const uint8_t BITMAP_SUN[] PROGMEM = {
    0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0xAB,
};

// cloudy_bw.svg -> BITMAP_CLOUD
const uint8_t BITMAP_CLOUD[] PROGMEM = {
    0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
};

// Weather code to icon mapping function
inline const uint8_t* getWeatherIcon(int weatherCode, bool isDay = true) {
    switch (weatherCode) {
        case 0:  // Clear sky
        case 1:  // Mainly clear
            return BITMAP_SUN;
        case 3:  // Overcast
            return BITMAP_CLOUD;
        default:
            return BITMAP_CLOUD;
    }
}`

func entry(t *testing.T, name weather.IconName, b bitmap.Bitmap) Entry {
	t.Helper()
	i, ok := weather.Lookup(name)
	require.True(t, ok)
	return Entry{Icon: i, Bitmap: b}
}

func TestWriteSmall(t *testing.T) {
	entries := []Entry{
		entry(t, weather.Sun, bitmap.Bitmap{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0xAB}),
		entry(t, weather.Cloud, bytes.Repeat([]byte{0xFF}, 8)),
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, 8, entries, weather.Rules()))
	assert.Equal(t, small, buf.String())
}

func TestWriteFull(t *testing.T) {
	var entries []Entry
	for i, icon := range weather.Icons() {
		b := make(bitmap.Bitmap, bitmap.Len(64))
		for j := range b {
			b[j] = byte(i*31 + j)
		}
		entries = append(entries, Entry{Icon: icon, Bitmap: b})
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, 64, entries, weather.Rules()))
	out := buf.String()

	assert.Contains(t, out, "#define WEATHER_ICON_SIZE 64\n")
	assert.Contains(t, out, "#define WEATHER_ICON_BYTES (64 * 64 / 8)\n")
	assert.Contains(t, out, "// clear-night_bw.svg -> BITMAP_MOON\nconst uint8_t BITMAP_MOON[] PROGMEM = {\n")
	assert.Contains(t, out, "            return isDay ? BITMAP_SUN : BITMAP_MOON;\n")
	assert.Contains(t, out, "        case 45: // Fog\n        case 48: // Depositing rime fog\n            return BITMAP_FOG;\n")
	assert.Contains(t, out, "        case 99: // Thunderstorm with heavy hail\n            return BITMAP_THUNDER;\n")
	assert.True(t, strings.HasSuffix(out, "        default:\n            return BITMAP_CLOUD;\n    }\n}"))

	line := regexp.MustCompile(`^    (0x[0-9A-F]{2}, ){15}0x[0-9A-F]{2},$`)
	var rows int
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "    0x") {
			assert.Regexp(t, line, l)
			rows++
		}
	}
	assert.Equal(t, len(entries)*bitmap.Len(64)/bytesPerLine, rows)
}

func TestWriteMissingIcons(t *testing.T) {
	entries := []Entry{
		entry(t, weather.Moon, make(bitmap.Bitmap, 8)),
		entry(t, weather.Rain, make(bitmap.Bitmap, 8)),
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, 8, entries, weather.Rules()))
	out := buf.String()

	assert.Contains(t, out, "        case 1:  // Mainly clear\n            return BITMAP_MOON;\n")
	assert.Contains(t, out, "            return BITMAP_RAIN;\n")
	assert.NotContains(t, out, "BITMAP_SUN")
	assert.NotContains(t, out, "case 71:")
	assert.NotContains(t, out, "BITMAP_CLOUD")
	assert.Contains(t, out, "        default:\n            return nullptr;\n")
}

func TestWriteBadLength(t *testing.T) {
	entries := []Entry{entry(t, weather.Sun, make(bitmap.Bitmap, 7))}

	var buf bytes.Buffer
	err := Write(&buf, 8, entries, weather.Rules())
	assert.ErrorIs(t, err, errBadLength)
	assert.Zero(t, buf.Len())
}
