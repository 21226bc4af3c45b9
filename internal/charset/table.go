package charset

// buildTable assembles the UTF-8 → device byte mapping.
//
// Keys are UTF-8 sequences of 1 to 4 bytes, values are raw device bytes.
// Most values are escape pairs (0x0E + data); Ů and Í are reserved single
// bytes in the device firmware. A few Unicode punctuation marks map to ASCII
// stand-ins because the panel only renders what the table names. Emoji are
// keyed by their base code point; U+FE0F (emoji variation selector) maps to
// an empty value so decorated forms collapse to the same glyph.
func buildTable() map[string]string {
	t := make(map[string]string, 96)

	// Czech lowercase.
	t["á"] = "\x0e\x20"
	t["í"] = "\x0e\x21"
	t["ó"] = "\x0e\x22"
	t["ú"] = "\x0e\x23"
	t["ň"] = "\x0e\x24"
	t["š"] = "\x0e\x28"
	t["ř"] = "\x0e\x29"
	t["é"] = "\x0e\x82"
	t["ď"] = "\x0e\x83"
	t["č"] = "\x0e\x87"
	t["ě"] = "\x0e\x88"
	t["ž"] = "\x0e\x91"
	t["ů"] = "\x0e\x96"
	t["ý"] = "\x0e\x98"
	t["ť"] = "\x0e\x9f"

	// Czech uppercase. Ů and Í are single-byte firmware glyphs.
	t["Ů"] = "\x96"
	t["Č"] = "\x0e\x80"
	t["Ď"] = "\x0e\x85"
	t["Ť"] = "\x0e\x86"
	t["Ě"] = "\x0e\x89"
	t["Á"] = "\x0e\x8f"
	t["É"] = "\x0e\x90"
	t["Í"] = "\x7f"
	t["Ň"] = "\x0e\xa5"
	t["Ž"] = "\x0e\x92"
	t["Ó"] = "\x0e\x95"
	t["Ú"] = "\x0e\x97"
	t["Ý"] = "\x0e\x9d"
	t["Š"] = "\x0e\x9b"
	t["Ř"] = "\x0e\x9e"

	// Transport pictograms.
	t["🚌"] = "\x0e\x72" // bus
	t["🚊"] = "\x0e\x73" // tram
	t["🚋"] = "\x0e\x73"
	t["🚎"] = "\x0e\xf4" // trolleybus
	t["🚂"] = "\x0e\x76" // locomotive
	t["🚆"] = "\x0e\x74" // train
	t["🚇"] = "\x0e\x74"
	t["✈"] = "\x0e\xf7" // airplane
	t["🛩"] = "\x0e\xf7"

	// Medical.
	t["🏥"] = "\x0e\x7a"
	t["⚕"] = "\x0e\x7a"
	t["🚑"] = "\x0e\x7a"
	t["❤"] = "\x0e\x7a"
	t["💊"] = "\x0e\x7a"
	t["🩺"] = "\x0e\x7a"

	// Culture.
	t["🎭"] = "\x0e\x2c"
	t["🎪"] = "\x0e\x2c"
	t["🎨"] = "\x0e\x2c"
	t["🎬"] = "\x0e\x2c"
	t["🎵"] = "\x0e\x2c"
	t["🎶"] = "\x0e\x2c"

	// Accessibility.
	t["♿"] = "\x0e\x2f"
	t["🦽"] = "\x0e\x2f"
	t["🦼"] = "\x0e\x2f"

	// Arrows.
	t["➡"] = "\x0e\x2a"
	t["→"] = "\x0e\x2a"
	t["↔"] = "\x0e\xf0" // terminal stop arrow
	t["⏩"] = "\x0e\xf0"
	t["⬅"] = "\x0e\x7c"
	t["←"] = "\x0e\x7c"
	t["⬆"] = "\x0e\x7d"
	t["↑"] = "\x0e\x7d"

	// Terminal stop.
	t["🛑"] = "\x0e\x71"
	t["🚏"] = "\x0e\x71"
	t["🚥"] = "\x0e\x71"
	t["🔚"] = "\x0e\x71"

	// Nautical.
	t["⚓"] = "\x0e\x75"
	t["🛳"] = "\x0e\x75"
	t["⛵"] = "\x0e\x75"
	t["🚢"] = "\x0e\x75"

	// Local flavour.
	t["🛡"] = "\x0e\xff" // Brno shield
	t["🦌"] = "\x0e\xf8"

	// Unicode punctuation the panel has no glyphs for. Czech text quotes
	// with the low-9 forms („takhle“), so those fold to ASCII too.
	t["…"] = "..."
	t["‘"] = "'"
	t["’"] = "'"
	t["‚"] = "'"
	t["“"] = "\""
	t["”"] = "\""
	t["„"] = "\""
	t["–"] = "-"
	t["—"] = "-"

	// Emoji variation selector: render nothing, the base glyph already matched.
	t["️"] = ""

	return t
}
