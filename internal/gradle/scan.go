package gradle

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	oerrors "github.com/safespot/droidcfg/internal/errors"
)

type eventKind int

const (
	eventStatement eventKind = iota
	eventOpen
	eventClose
)

// event is one structural element of a Kotlin DSL script: a statement, or
// the opening or closing of a configuration block.
type event struct {
	kind eventKind
	text string
	line int
}

// scanner splits a build script into events. It understands string
// literals and comments well enough that braces inside them do not count,
// which is all the structure a declarative build script needs.
type scanner struct {
	r    *bufio.Reader
	name string

	line      int
	stmt      strings.Builder
	stmtLine  int
	parens    int
	pendingNL bool
	opened    []event
	events    []event
}

func scan(r io.Reader, name string) ([]event, error) {
	s := &scanner{r: bufio.NewReader(r), name: name, line: 1}
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.events, nil
}

func (s *scanner) errorf(line int, format string, args ...any) error {
	return oerrors.NewParseError(fmt.Sprintf(format, args...), fmt.Sprintf("%s:%d", s.name, line), "")
}

func (s *scanner) run() error {
	for {
		r, _, err := s.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", s.name, err)
		}

		switch r {
		case '\n':
			s.line++
			if s.parens == 0 {
				s.pendingNL = true
			} else {
				s.write(' ')
			}
			continue
		case ' ', '\t', '\r':
			if s.stmt.Len() > 0 && !s.pendingNL {
				s.write(' ')
			}
			continue
		}

		if s.pendingNL {
			s.pendingNL = false
			if !s.continues(r) {
				s.flush()
			} else {
				s.write(' ')
			}
		}

		switch r {
		case '/':
			next, _, _ := s.r.ReadRune()
			switch next {
			case '/':
				if err := s.skipLineComment(); err != nil {
					return err
				}
			case '*':
				if err := s.skipBlockComment(); err != nil {
					return err
				}
			default:
				s.write('/')
				if next != 0 {
					_ = s.r.UnreadRune()
				}
			}
		case '"':
			if err := s.readString(); err != nil {
				return err
			}
		case '(':
			s.parens++
			s.write(r)
		case ')':
			if s.parens > 0 {
				s.parens--
			}
			s.write(r)
		case ';':
			s.flush()
		case '{':
			header := strings.TrimSpace(s.stmt.String())
			line := s.stmtLine
			if header == "" {
				line = s.line
			}
			s.reset()
			ev := event{kind: eventOpen, text: header, line: line}
			s.opened = append(s.opened, ev)
			s.events = append(s.events, ev)
		case '}':
			s.flush()
			if len(s.opened) == 0 {
				return s.errorf(s.line, "unexpected '}' without a matching '{'")
			}
			s.opened = s.opened[:len(s.opened)-1]
			s.events = append(s.events, event{kind: eventClose, line: s.line})
		default:
			s.write(r)
		}
	}

	s.flush()
	if n := len(s.opened); n > 0 {
		open := s.opened[n-1]
		return s.errorf(open.line, "block %q is never closed", open.text)
	}
	return nil
}

// continues reports whether the statement in progress carries on past a line
// break: a chained call on the next line, or a dangling operator.
func (s *scanner) continues(next rune) bool {
	if s.stmt.Len() == 0 {
		return false
	}
	if next == '.' || next == '?' || next == '{' {
		return true
	}
	text := strings.TrimRight(s.stmt.String(), " ")
	if text == "" {
		return false
	}
	switch text[len(text)-1] {
	case '=', '+', '-', '*', ',', '(', '&', '|':
		return true
	}
	return false
}

func (s *scanner) write(r rune) {
	if s.stmt.Len() == 0 {
		if r == ' ' {
			return
		}
		s.stmtLine = s.line
	}
	s.stmt.WriteRune(r)
}

func (s *scanner) reset() {
	s.stmt.Reset()
	s.parens = 0
	s.pendingNL = false
}

func (s *scanner) flush() {
	text := strings.TrimSpace(s.stmt.String())
	if text != "" {
		s.events = append(s.events, event{kind: eventStatement, text: text, line: s.stmtLine})
	}
	s.reset()
}

func (s *scanner) skipLineComment() error {
	for {
		r, _, err := s.r.ReadRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if r == '\n' {
			s.line++
			if s.parens == 0 {
				s.pendingNL = true
			}
			return nil
		}
	}
}

func (s *scanner) skipBlockComment() error {
	start := s.line
	prev := rune(0)
	for {
		r, _, err := s.r.ReadRune()
		if err == io.EOF {
			return s.errorf(start, "unterminated block comment")
		}
		if err != nil {
			return err
		}
		if r == '\n' {
			s.line++
		}
		if prev == '*' && r == '/' {
			return nil
		}
		prev = r
	}
}

// readString copies a string literal, quotes and escapes included, into the
// current statement. Raw strings (""") are copied verbatim.
func (s *scanner) readString() error {
	start := s.line
	if peek, _ := s.r.Peek(2); string(peek) == `""` {
		_, _ = s.r.Discard(2)
		return s.readRawString(start)
	}

	s.write('"')
	for {
		r, _, err := s.r.ReadRune()
		if err == io.EOF {
			return s.errorf(start, "unterminated string literal")
		}
		if err != nil {
			return err
		}
		switch r {
		case '\n':
			return s.errorf(start, "unterminated string literal")
		case '\\':
			s.write(r)
			next, _, err := s.r.ReadRune()
			if err != nil {
				return s.errorf(start, "unterminated string literal")
			}
			s.write(next)
		case '"':
			s.write(r)
			return nil
		default:
			s.write(r)
		}
	}
}

func (s *scanner) readRawString(start int) error {
	s.stmt.WriteString(`"""`)
	quotes := 0
	for {
		r, _, err := s.r.ReadRune()
		if err == io.EOF {
			return s.errorf(start, "unterminated raw string literal")
		}
		if err != nil {
			return err
		}
		if r == '\n' {
			s.line++
		}
		s.stmt.WriteRune(r)
		if r == '"' {
			quotes++
			if quotes == 3 {
				return nil
			}
		} else {
			quotes = 0
		}
	}
}
