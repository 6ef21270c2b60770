// Package xmpembed writes captions into JPEG files as an XMP (APP1)
// metadata segment.
package xmpembed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// xmpHeader is the APP1 payload prefix that identifies an XMP packet.
const xmpHeader = "http://ns.adobe.com/xap/1.0/\x00"

const (
	markerPrefix = 0xFF
	markerSOI    = 0xD8
	markerEOI    = 0xD9
	markerSOS    = 0xDA
	markerAPP0   = 0xE0
	markerAPP1   = 0xE1
)

// Embed writes caption into the JPEG at path as a dc:description XMP
// packet, placed after any leading JFIF APP0 and EXIF APP1 segments per
// writer convention. An existing XMP segment is replaced; the rest of the
// file, including EXIF data, is preserved. The file is rewritten atomically
// via a temp file in the same directory.
func Embed(path, caption string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided input to a local tool
	if err != nil {
		return fmt.Errorf("xmpembed: read %s: %w", path, err)
	}

	if len(data) < 4 || data[0] != markerPrefix || data[1] != markerSOI {
		return fmt.Errorf("xmpembed: %s is not a JPEG file", path)
	}

	seg, err := xmpSegment(caption)
	if err != nil {
		return fmt.Errorf("xmpembed: %s: %w", path, err)
	}

	rest, err := stripXMP(data[2:])
	if err != nil {
		return fmt.Errorf("xmpembed: %s: %w", path, err)
	}

	insertAt := leadingAppEnd(rest)

	out := make([]byte, 0, len(data)+len(seg))
	out = append(out, data[:2]...)
	out = append(out, rest[:insertAt]...)
	out = append(out, seg...)
	out = append(out, rest[insertAt:]...)

	return writeAtomic(path, out)
}

// stripXMP walks the segment stream after SOI and returns it with any
// existing XMP APP1 segment removed. Entropy-coded data from SOS onward is
// copied verbatim.
func stripXMP(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	i := 0

	for i < len(data) {
		if data[i] != markerPrefix || i+1 >= len(data) {
			return nil, errors.New("corrupt segment marker")
		}

		marker := data[i+1]

		// Fill bytes before a marker are legal; pass them through.
		if marker == markerPrefix {
			out = append(out, data[i])
			i++
			continue
		}

		switch {
		case marker == markerSOS:
			// Scan data and everything after it pass through untouched.
			return append(out, data[i:]...), nil
		case marker == markerEOI:
			return append(out, data[i:i+2]...), nil
		case marker >= 0xD0 && marker <= 0xD7, marker == 0x01:
			// Standalone markers carry no length.
			out = append(out, data[i:i+2]...)
			i += 2
			continue
		}

		if i+4 > len(data) {
			return nil, errors.New("truncated segment header")
		}

		length := int(data[i+2])<<8 | int(data[i+3])
		end := i + 2 + length
		if length < 2 || end > len(data) {
			return nil, errors.New("truncated segment body")
		}

		isXMP := marker == markerAPP1 && bytes.HasPrefix(data[i+4:end], []byte(xmpHeader))
		if !isXMP {
			out = append(out, data[i:end]...)
		}

		i = end
	}

	return out, nil
}

// leadingAppEnd returns the offset just past the run of APP0/APP1 segments
// at the start of the post-SOI stream, so the XMP packet lands after the
// JFIF header and EXIF block.
func leadingAppEnd(data []byte) int {
	i := 0

	for i+4 <= len(data) && data[i] == markerPrefix {
		marker := data[i+1]
		if marker != markerAPP0 && marker != markerAPP1 {
			break
		}

		length := int(data[i+2])<<8 | int(data[i+3])
		end := i + 2 + length
		if length < 2 || end > len(data) {
			break
		}

		i = end
	}

	return i
}

// xmpSegment builds a complete APP1 segment (marker, length, namespace
// header, packet) carrying the caption.
func xmpSegment(caption string) ([]byte, error) {
	packet := buildPacket(caption)

	payloadLen := len(xmpHeader) + len(packet)
	if payloadLen+2 > 0xFFFF {
		return nil, errors.New("caption too large for an XMP segment")
	}

	seg := make([]byte, 0, payloadLen+4)
	seg = append(seg, markerPrefix, markerAPP1, byte((payloadLen+2)>>8), byte(payloadLen+2))
	seg = append(seg, xmpHeader...)
	seg = append(seg, packet...)

	return seg, nil
}

// buildPacket renders a minimal XMP packet with the caption as
// dc:description.
func buildPacket(caption string) []byte {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(caption))

	var b bytes.Buffer
	b.WriteString("<?xpacket begin=\"\xEF\xBB\xBF\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n")
	b.WriteString(`<x:xmpmeta xmlns:x="adobe:ns:meta/">` + "\n")
	b.WriteString(` <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` + "\n")
	b.WriteString(`  <rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/">` + "\n")
	b.WriteString(`   <dc:description><rdf:Alt><rdf:li xml:lang="x-default">`)
	b.Write(escaped.Bytes())
	b.WriteString(`</rdf:li></rdf:Alt></dc:description>` + "\n")
	b.WriteString(`  </rdf:Description>` + "\n")
	b.WriteString(` </rdf:RDF>` + "\n")
	b.WriteString(`</x:xmpmeta>` + "\n")
	b.WriteString(`<?xpacket end="w"?>`)

	return b.Bytes()
}

// writeAtomic replaces path's contents via a temp file and rename,
// preserving the original permissions.
func writeAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("xmpembed: stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".photocap-*")
	if err != nil {
		return fmt.Errorf("xmpembed: temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("xmpembed: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("xmpembed: close %s: %w", tmpName, err)
	}

	if err := os.Chmod(tmpName, info.Mode()); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("xmpembed: chmod %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("xmpembed: rename %s: %w", tmpName, err)
	}

	return nil
}
