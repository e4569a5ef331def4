package strings_storage

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

var testArray = []string{
	"%FSLAX25Y25*%",
	"%MOMM*%",
	"%ADD10C,0.5*%",
	"G01*",
	"D10*",
	"X100Y100D02*",
	"X200Y100D01*",
	"M02*",
}

var ext_storage *Storage

func TestMain(m *testing.M) {
	ext_storage = NewStorage()
	if ext_storage.Len() != 0 {
		log.Println("ext_storage.Len() == 0 failed")
	}
	os.Exit(m.Run())
}

func TestStorage_String(t *testing.T) {
	if ext_storage.String() != "" {
		t.Error("reading from the empty storage error")
	}
}

func TestNewStorage(t *testing.T) {
	const arrLen int = 1000
	var storageArray [arrLen]*Storage

	for i := 0; i < arrLen; i++ {
		storageArray[i] = NewStorage()
	}

	for i := range storageArray {
		for _, inString := range testArray {
			storageArray[i].Accept(inString)
		}
		storageArray[i].Accept("")
		if storageArray[i].Len() != len(testArray) {
			t.Error("storageArray[i].Len() != len(testArray)")
		}
	}

	for j := range testArray {
		for i := range storageArray {
			if testArray[j] != storageArray[i].String() {
				t.Error("testArray[j] not equal storageArray[i].String()")
			}
		}
	}
	// try to read beyond storage size
	for i := range storageArray {
		if storageArray[i].String() != "" {
			t.Error("read beyond storage size returned non-empty string!")
		}
	}
	for i := range storageArray {
		storageArray[i].ResetPos()
	}
	for j := range testArray {
		for i := range storageArray {
			if testArray[j] != storageArray[i].String() {
				t.Error("read after reset failed")
			}
		}
	}
}

func TestStorage_AcceptAt(t *testing.T) {
	s := NewStorage()
	s.AcceptAt("%MOMM*%", 14)
	s.Accept("D10*")
	s.AcceptAt("", 30)
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
	if str, off := s.At(0); str != "%MOMM*%" || off != 14 {
		t.Errorf("got (%q,%d)", str, off)
	}
	if _, off := s.At(1); off != -1 {
		t.Errorf("unknown offset must be -1, got %d", off)
	}
	arr := s.ToArray()
	arr[0] = "changed"
	if str, _ := s.At(0); str != "%MOMM*%" {
		t.Error("ToArray must return a copy")
	}
	s.Empty()
	if s.Len() != 0 || s.PeekPos() != 0 {
		t.Error("Empty() failed")
	}
}

func TestStorage_WriteTo(t *testing.T) {
	s := NewStorage()
	s.AcceptAt("%MOMM*%", 0)
	s.Accept("D10*")
	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := "0\t%MOMM*%\nD10*\n"
	if buf.String() != want || n != int64(len(want)) {
		t.Errorf("got %q (%d)", buf.String(), n)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("missing trailing newline")
	}
}
