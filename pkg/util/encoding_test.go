package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func utf16le(s string) []byte {
	out := []byte{0xFF, 0xFE}
	for _, b := range []byte(s) {
		out = append(out, b, 0x00)
	}
	return out
}

func TestDecodeUTF16LE(t *testing.T) {
	data := utf16le("* title\nR1 1 2 10k\n")
	tf, err := DecodeText(data, "")
	if err != nil {
		t.Fatal(err)
	}
	if tf.Encoding != "utf-16le" {
		t.Errorf("encoding = %q", tf.Encoding)
	}
	if tf.Text != "* title\nR1 1 2 10k\n" {
		t.Errorf("text = %q", tf.Text)
	}

	// Round trip restores the BOM and the 16-bit units.
	enc, err := tf.Encode(tf.Text)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(enc, data) {
		t.Errorf("round trip differs:\n got %x\nwant %x", enc, data)
	}
}

func TestDecodeUTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("* t\nR1 1 2 10k\n")...)
	tf, err := DecodeText(data, "")
	if err != nil {
		t.Fatal(err)
	}
	if tf.Encoding != "utf-8-bom" {
		t.Errorf("encoding = %q", tf.Encoding)
	}
	if tf.Text != "* t\nR1 1 2 10k\n" {
		t.Errorf("BOM leaked into text: %q", tf.Text)
	}

	enc, err := tf.Encode(tf.Text)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(enc, data) {
		t.Error("BOM not restored on encode")
	}
}

func TestDecodePlainUTF8(t *testing.T) {
	tf, err := DecodeText([]byte("* t\nR1 1 2 10k\n"), "")
	if err != nil {
		t.Fatal(err)
	}
	if tf.Encoding != "utf-8" {
		t.Errorf("encoding = %q", tf.Encoding)
	}

	// Plain UTF-8 must never gain a BOM on the way out.
	enc, err := tf.Encode(tf.Text)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.HasPrefix(enc, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("encode added a BOM")
	}
}

func TestDecodeWindows1252(t *testing.T) {
	// 0xB5 is micro sign in Windows-1252 and an invalid UTF-8 start byte.
	data := []byte("* 10\xb5F cap\nC1 1 0 10u\n")
	tf, err := DecodeText(data, "")
	if err != nil {
		t.Fatal(err)
	}
	if tf.Encoding != "windows-1252" {
		t.Errorf("encoding = %q", tf.Encoding)
	}
	if tf.Text != "* 10µF cap\nC1 1 0 10u\n" {
		t.Errorf("text = %q", tf.Text)
	}

	enc, err := tf.Encode(tf.Text)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(enc, data) {
		t.Error("windows-1252 round trip differs")
	}
}

func TestNewlinePreserved(t *testing.T) {
	tf, err := DecodeText([]byte("* t\r\nR1 1 2 10k\r\n"), "")
	if err != nil {
		t.Fatal(err)
	}
	if tf.Newline != "\r\n" {
		t.Errorf("newline = %q", tf.Newline)
	}
	if tf.Text != "* t\nR1 1 2 10k\n" {
		t.Errorf("text not normalized: %q", tf.Text)
	}

	enc, err := tf.Encode(tf.Text)
	if err != nil {
		t.Fatal(err)
	}
	if string(enc) != "* t\r\nR1 1 2 10k\r\n" {
		t.Errorf("CRLF not restored: %q", enc)
	}
}

func TestDecodeFallback(t *testing.T) {
	// No candidate accepts a leading '!', so detection gives up.
	data := []byte("!not a netlist\n")
	if _, err := DecodeText(data, ""); err == nil {
		t.Error("expected detection failure without fallback")
	}

	tf, err := DecodeText(data, "utf-8")
	if err != nil {
		t.Fatal(err)
	}
	if tf.Encoding != "utf-8" {
		t.Errorf("fallback encoding = %q", tf.Encoding)
	}
}

func TestReadWriteTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.cir")
	data := utf16le("* t\r\nR1 1 2 10k\r\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	tf, err := ReadTextFile(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if tf.Encoding != "utf-16le" || tf.Newline != "\r\n" {
		t.Errorf("texture = %q %q", tf.Encoding, tf.Newline)
	}

	// Writing unchanged text reproduces the original bytes.
	if err := WriteTextFile(path, tf, tf.Text); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("write back changed the file bytes")
	}
}
