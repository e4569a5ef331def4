/*
 Supplier and acceptor of source blocks
*/

package strings_storage

import (
	"bufio"
	"io"
	"strconv"
)

type StringsStorage interface {
	Supplier
	Consumer
}

type Supplier interface {
	String() string
	Len() int
}

type Consumer interface {
	Accept(string)
}

// OffsetConsumer remembers where in the source a string came from.
type OffsetConsumer interface {
	Consumer
	AcceptAt(s string, offset int)
}

type Storage struct {
	index   int
	strings []string
	offsets []int
}

func NewStorage() *Storage {
	return &Storage{
		strings: make([]string, 0),
		offsets: make([]int, 0),
	}
}

// String returns the next string, "" when the storage is exhausted.
func (storage *Storage) String() string {
	if storage.index >= len(storage.strings) {
		return ""
	}
	index := storage.index
	storage.index++
	return storage.strings[index]
}

// empty strings are discarded
func (storage *Storage) Accept(s string) {
	storage.AcceptAt(s, -1)
}

// AcceptAt stores s with its source offset, empty strings are discarded.
func (storage *Storage) AcceptAt(s string, offset int) {
	if len(s) > 0 {
		storage.strings = append(storage.strings, s)
		storage.offsets = append(storage.offsets, offset)
	}
}

func (storage *Storage) Len() int {
	return len(storage.strings)
}

func (storage *Storage) ResetPos() {
	storage.index = 0
}

func (storage *Storage) Empty() {
	storage.index = 0
	storage.strings = storage.strings[:0]
	storage.offsets = storage.offsets[:0]
}

func (storage *Storage) PeekPos() int {
	return storage.index
}

// At returns the i-th string and its offset, -1 if it was stored by Accept.
func (storage *Storage) At(i int) (string, int) {
	return storage.strings[i], storage.offsets[i]
}

func (storage *Storage) ToArray() []string {
	retVal := make([]string, len(storage.strings))
	copy(retVal, storage.strings)
	return retVal
}

// WriteTo dumps the storage one string per line, prefixed with its offset
// when known.
func (storage *Storage) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for i, s := range storage.strings {
		line := s + "\n"
		if off := storage.offsets[i]; off >= 0 {
			line = strconv.Itoa(off) + "\t" + line
		}
		n, err := bw.WriteString(line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}
