package interpreter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Host is the interpreter's window to the outside world.
type Host interface {
	// Output emits one line of program output.
	Output(text string)
	// GetInput reads one line of raw input, without the line terminator.
	// It returns io.EOF when no input remains.
	GetInput() (string, error)
}

// ConsoleHost writes to an io.Writer and reads lines from an io.Reader.
type ConsoleHost struct {
	out io.Writer
	in  *bufio.Reader
}

func NewConsoleHost(in io.Reader, out io.Writer) *ConsoleHost {
	return &ConsoleHost{out: out, in: bufio.NewReader(in)}
}

func (h *ConsoleHost) Output(text string) {
	fmt.Fprintln(h.out, text)
}

func (h *ConsoleHost) GetInput() (string, error) {
	line, err := h.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// BufferHost serves scripted input and records output. Fixtures and tests
// run programs through it.
type BufferHost struct {
	input  []string
	output []string
}

func NewBufferHost(input ...string) *BufferHost {
	return &BufferHost{input: append([]string(nil), input...)}
}

func (h *BufferHost) Output(text string) {
	h.output = append(h.output, text)
}

func (h *BufferHost) GetInput() (string, error) {
	if len(h.input) == 0 {
		return "", io.EOF
	}
	line := h.input[0]
	h.input = h.input[1:]
	return line, nil
}

// Lines returns every line emitted so far.
func (h *BufferHost) Lines() []string {
	return append([]string(nil), h.output...)
}

// Text returns the emitted lines joined with newlines.
func (h *BufferHost) Text() string {
	return strings.Join(h.output, "\n")
}
