package tags

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Reader reads a tag stream from its textual form: a group code
// line followed by a value line.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

func (r *Reader) readLine() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	r.line++
	return strings.TrimRight(r.scanner.Text(), "\r"), nil
}

// Next reads the next tag. io.EOF is returned at the regular end
// of the stream.
func (r *Reader) Next() (Tag, error) {
	code, err := r.readLine()
	if err != nil {
		return Tag{}, err
	}
	c, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return Tag{}, fmt.Errorf("line %d: invalid group code %q", r.line, code)
	}
	value, err := r.readLine()
	if err != nil {
		if err == io.EOF {
			return Tag{}, fmt.Errorf("line %d: missing value for group code %d", r.line, c)
		}
		return Tag{}, err
	}
	return Tag{Code: c, Value: value}, nil
}

// ReadAll reads tags up to the end of the stream.
func (r *Reader) ReadAll() (Tags, error) {
	var ts Tags
	for {
		t, err := r.Next()
		if err != nil {
			if err == io.EOF {
				return ts, nil
			}
			return nil, err
		}
		ts = append(ts, t)
	}
}

func Parse(data string) (Tags, error) {
	return NewReader(strings.NewReader(data)).ReadAll()
}
