package shell

import (
	"bufio"
	"io"

	"github.com/chzyer/readline"

	"github.com/hay-kot/calc/internal/core/registry"
)

// LineReader yields one input line per call and io.EOF at end of input.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// NewReadline returns a line editor with tab completion for the commands
// registered in r.
func NewReadline(prompt string, r *registry.Registry) (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    completer(r),
		InterruptPrompt: "^C",
		EOFPrompt:       CmdExit,
	})
	if err != nil {
		return nil, err
	}
	return rl, nil
}

func completer(r *registry.Registry) *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, r.Len())
	for _, e := range r.List() {
		if e.Name == CmdHistory {
			sub := make([]readline.PrefixCompleterInterface, 0, len(historyActions))
			for _, a := range historyActions {
				sub = append(sub, readline.PcItem(a.name))
			}
			items = append(items, readline.PcItem(e.Name, sub...))
			continue
		}
		items = append(items, readline.PcItem(e.Name))
	}
	return readline.NewPrefixCompleter(items...)
}

// plainReader reads lines without editing support, for piped input.
type plainReader struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

// NewPlain reads lines from r. If r is an io.Closer it is closed by Close.
func NewPlain(r io.Reader) LineReader {
	pr := &plainReader{scanner: bufio.NewScanner(r)}
	if c, ok := r.(io.Closer); ok {
		pr.closer = c
	}
	return pr
}

func (p *plainReader) Readline() (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

func (p *plainReader) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
