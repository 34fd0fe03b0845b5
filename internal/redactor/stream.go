package redactor

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strings"
)

// maxPrivateKeyBuffer bounds the PEM LineBuffer (§3): a block that grows
// past this many lines is considered a runaway and is redacted
// immediately rather than risk buffering key material forever.
const maxPrivateKeyBuffer = 100

var (
	pemBeginRe = regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`)
	pemEndRe   = regexp.MustCompile(`-----END [A-Z ]*PRIVATE KEY-----`)
)

const privateKeyMarker = "[REDACTED:PRIVATE_KEY:multiline]\n"

type streamState int

const (
	stateNormal streamState = iota
	stateInPrivateKey
	stateInPrivateKeyOverflow
)

// Run drives C1: it reads r byte-wise, splits on '\n' while preserving
// the terminator, and for each logical line either passes it through the
// redaction Pipeline or buffers/collapses it as part of a PEM block, per
// the state machine in §4.1. Output is flushed after every emitted line.
//
// On encountering a NUL byte, Run stops inspecting input entirely: it
// flushes any buffered PEM lines through the pipeline, emits the
// offending line verbatim, copies the remainder of r to w byte-for-byte,
// and returns.
func Run(r io.Reader, w io.Writer, p *Pipeline) error {
	bw := bufio.NewWriterSize(w, 64*1024)
	reader := bufio.NewReaderSize(r, 64*1024)

	state := stateNormal
	var buffer []string

	emit := func(s string) error {
		if _, err := bw.WriteString(s); err != nil {
			return err
		}
		return bw.Flush()
	}

	flushBuffer := func() error {
		for _, raw := range buffer {
			if err := emit(p.RedactLine(raw)); err != nil {
				return err
			}
		}
		buffer = nil
		return nil
	}

	for {
		raw, readErr := reader.ReadBytes('\n')
		if len(raw) == 0 {
			if readErr != nil {
				break
			}
			continue
		}

		if bytes.IndexByte(raw, 0) >= 0 {
			if err := flushBuffer(); err != nil {
				return err
			}
			if _, err := bw.Write(raw); err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return err
			}
			if _, err := io.Copy(bw, reader); err != nil {
				return err
			}
			return bw.Flush()
		}

		// Ill-formed byte sequences are replaced lossily (§4.1 step 2, §9)
		// so downstream redactors still operate on valid UTF-8.
		line := strings.ToValidUTF8(string(raw), "�")

		switch state {
		case stateNormal:
			if pemBeginRe.MatchString(line) {
				state = stateInPrivateKey
				buffer = []string{line}
			} else if err := emit(p.RedactLine(line)); err != nil {
				return err
			}

		case stateInPrivateKey:
			buffer = append(buffer, line)
			switch {
			case pemEndRe.MatchString(line):
				if err := emit(privateKeyMarker); err != nil {
					return err
				}
				buffer = nil
				state = stateNormal
			case len(buffer) > maxPrivateKeyBuffer:
				if err := emit(privateKeyMarker); err != nil {
					return err
				}
				buffer = nil
				state = stateInPrivateKeyOverflow
			}

		case stateInPrivateKeyOverflow:
			if pemEndRe.MatchString(line) {
				state = stateNormal
			}
			// otherwise silently consumed
		}

		if readErr != nil {
			break
		}
	}

	switch state {
	case stateInPrivateKey:
		return emit(privateKeyMarker)
	case stateNormal:
		if len(buffer) > 0 {
			return flushBuffer()
		}
	}
	return nil
}
