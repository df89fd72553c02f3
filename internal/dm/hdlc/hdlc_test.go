package hdlc

import (
	"bufio"
	"bytes"
	"errors"
	"testing"
)

func TestChecksumKnownValue(t *testing.T) {
	// CRC-16/X-25 check value.
	if got := Checksum([]byte("123456789")); got != 0x906E {
		t.Errorf("Checksum(123456789) = 0x%04X, want 0x906E", got)
	}
}

func TestEncapsulateVersionInfo(t *testing.T) {
	got := Encapsulate([]byte{0x00})
	want := []byte{0x00, 0x78, 0xF0, 0x7E}
	if !bytes.Equal(got, want) {
		t.Errorf("Encapsulate(00) = % X, want % X", got, want)
	}
}

func TestEncapsulateEscapes(t *testing.T) {
	raw := []byte{0x7E, 0x01, 0x7D}
	frame := Encapsulate(raw)
	if frame[0] != EscapeByte || frame[1] != 0x5E {
		t.Errorf("0x7E not escaped: % X", frame)
	}
	if frame[3] != EscapeByte || frame[4] != 0x5D {
		t.Errorf("0x7D not escaped: % X", frame)
	}
	if bytes.IndexByte(frame[:len(frame)-1], FlagByte) >= 0 {
		t.Errorf("flag byte inside frame body: % X", frame)
	}
	if len(frame) != EncapsulatedLen(raw) {
		t.Errorf("len = %d, EncapsulatedLen = %d", len(frame), EncapsulatedLen(raw))
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"single byte", []byte{0x01}},
		{"nv read", append([]byte{0x26, 0xBA, 0x01}, make([]byte, 130)...)},
		{"special bytes", []byte{0x7E, 0x7D, 0x5E, 0x5D, 0x20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decapsulate(Encapsulate(tt.raw))
			if err != nil {
				t.Fatalf("Decapsulate: %v", err)
			}
			if !bytes.Equal(got, tt.raw) {
				t.Errorf("round trip = % X, want % X", got, tt.raw)
			}
		})
	}
}

func TestEncapsulateIntoTooSmall(t *testing.T) {
	dst := make([]byte, 3)
	n, err := EncapsulateInto(dst, []byte{0x00})
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("expected ErrBufferTooSmall, got %v", err)
	}
	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
	if !bytes.Equal(dst, []byte{0, 0, 0}) {
		t.Errorf("destination modified: % X", dst)
	}
}

func TestDecapsulateErrors(t *testing.T) {
	good := Encapsulate([]byte{0x0C})
	corrupt := append([]byte(nil), good...)
	corrupt[0] ^= 0x01

	tests := []struct {
		name  string
		frame []byte
		want  error
	}{
		{"no terminator", []byte{0x00, 0x78, 0xF0}, ErrNoTerminator},
		{"crc mismatch", corrupt, ErrCRCMismatch},
		{"too short", []byte{0x01, 0x7E}, ErrFrameTooShort},
		{"dangling escape", []byte{0x01, 0x02, 0x7D, 0x7E}, ErrBadEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decapsulate(tt.frame)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decapsulate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecapsulateLeadingFlag(t *testing.T) {
	frame := append([]byte{FlagByte}, Encapsulate([]byte{0x01})...)
	got, err := Decapsulate(frame)
	if err != nil {
		t.Fatalf("Decapsulate: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01}) {
		t.Errorf("payload = % X", got)
	}
}

func TestSplitter(t *testing.T) {
	var stream []byte
	stream = append(stream, Encapsulate([]byte{0x00})...)
	stream = append(stream, FlagByte)
	stream = append(stream, Encapsulate([]byte{0x01, 0x7E})...)

	sc := bufio.NewScanner(bytes.NewReader(stream))
	sc.Split(Splitter)

	var payloads [][]byte
	for sc.Scan() {
		p, err := Decapsulate(sc.Bytes())
		if err != nil {
			t.Fatalf("Decapsulate: %v", err)
		}
		payloads = append(payloads, p)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scanner: %v", err)
	}
	if len(payloads) != 2 {
		t.Fatalf("got %d frames, want 2", len(payloads))
	}
	if !bytes.Equal(payloads[1], []byte{0x01, 0x7E}) {
		t.Errorf("second payload = % X", payloads[1])
	}
}

func TestSplitterTruncated(t *testing.T) {
	sc := bufio.NewScanner(bytes.NewReader([]byte{0x00, 0x78}))
	sc.Split(Splitter)
	for sc.Scan() {
	}
	if !errors.Is(sc.Err(), ErrNoTerminator) {
		t.Errorf("scanner error = %v, want ErrNoTerminator", sc.Err())
	}
}
