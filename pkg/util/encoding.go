package util

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	textunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/edp1096/netdeck/internal/consts"
)

// TextFile is decoded netlist text plus the file texture needed to
// write it back the way it was found: encoding and line terminator.
type TextFile struct {
	Text     string // decoded, "\n" terminators
	Encoding string // candidate name, see encodings
	Newline  string // "\n" or "\r\n"
}

type candidate struct {
	name string
	enc  encoding.Encoding
}

// Candidates are tried in order; the BOM-carrying UTF-16 forms first so
// their leading marker is consumed, UTF-8 next, Windows-1252 as the
// 8-bit fallback (it decodes anything, so it must come last).
var encodings = []candidate{
	{"utf-16le", textunicode.UTF16(textunicode.LittleEndian, textunicode.ExpectBOM)},
	{"utf-16be", textunicode.UTF16(textunicode.BigEndian, textunicode.ExpectBOM)},
	{"utf-8-bom", textunicode.UTF8BOM},
	{"utf-8", textunicode.UTF8},
	{"windows-1252", charmap.Windows1252},
}

func findEncoding(name string) encoding.Encoding {
	for _, c := range encodings {
		if c.name == name {
			return c.enc
		}
	}
	return nil
}

// DecodeText auto-detects the encoding by trial-decoding a fixed-length
// prefix and checking it looks like netlist text. fallback names the
// encoding to use when no candidate validates; empty means fail.
func DecodeText(data []byte, fallback string) (*TextFile, error) {
	probe := data
	if len(probe) > consts.EncodingProbeSize {
		probe = probe[:consts.EncodingProbeSize]
	}

	name := ""
	for _, c := range encodings {
		// UTF8BOM decodes BOM-less text too; claim it only on a BOM.
		if c.name == "utf-8-bom" && !bytes.HasPrefix(probe, []byte{0xEF, 0xBB, 0xBF}) {
			continue
		}
		decoded, _, err := transform.Bytes(c.enc.NewDecoder(), probe)
		if err != nil {
			continue
		}
		if c.name == "utf-8" && !utf8.Valid(trimPartialRune(probe)) {
			continue
		}
		if looksLikeNetlist(decoded) {
			name = c.name
			break
		}
	}
	if name == "" {
		if fallback == "" {
			return nil, fmt.Errorf("cannot detect text encoding")
		}
		name = fallback
	}

	enc := findEncoding(name)
	if enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding as %s: %w", name, err)
	}

	text := string(decoded)
	newline := "\n"
	if strings.Contains(text, "\r\n") {
		newline = "\r\n"
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}

	return &TextFile{Text: text, Encoding: name, Newline: newline}, nil
}

// Encode re-applies the stored newline convention and encoding.
func (f *TextFile) Encode(text string) ([]byte, error) {
	if f.Newline != "\n" {
		text = strings.ReplaceAll(text, "\n", f.Newline)
	}
	enc := findEncoding(f.Encoding)
	if enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", f.Encoding)
	}
	out, _, err := transform.Bytes(enc.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding as %s: %w", f.Encoding, err)
	}
	return out, nil
}

// ReadTextFile loads and decodes one netlist file.
func ReadTextFile(path, fallback string) (*TextFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tf, err := DecodeText(data, fallback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tf, nil
}

// WriteTextFile writes text back with the file's original texture.
func WriteTextFile(path string, f *TextFile, text string) error {
	data, err := f.Encode(text)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// looksLikeNetlist checks the expected leading pattern: after
// whitespace, a printable character a netlist line can start with.
func looksLikeNetlist(decoded []byte) bool {
	s := strings.TrimLeft(string(decoded), " \t\r\n")
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return false
	}
	switch {
	case unicode.IsLetter(r) || unicode.IsDigit(r):
		return true
	case strings.ContainsRune("*;.+", r):
		return true
	}
	return false
}

// trimPartialRune drops the trailing bytes of a rune the probe cut in
// half, so a mid-rune boundary does not fail UTF-8 validation.
func trimPartialRune(p []byte) []byte {
	for i := 0; i < utf8.UTFMax-1 && len(p) > 0; i++ {
		r, size := utf8.DecodeLastRune(p)
		if r != utf8.RuneError || size > 1 {
			break
		}
		p = p[:len(p)-1]
	}
	return p
}
