// Package manifest loads and writes the participant schedule of a
// simulation.
//
// The file format is whitespace separated. The first token is the number
// of participants, followed by that many "<role> <duration>" pairs, one
// per line by convention:
//
//	5
//	R  3
//	R  4
//	W  3
//	R  1
//	W  4
//
// Roles are R or W (or reader / writer), durations are positive tick
// counts. Anything after the declared entries is ignored.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/thetarby/rwsim"
)

// Entry describes one participant: its role and how many ticks it holds
// the critical section.
type Entry struct {
	Role     rwsim.Role
	Duration int
}

func (e Entry) String() string {
	return fmt.Sprintf("%s/%d", e.Role.Tag(), e.Duration)
}

// Manifest is the ordered participant schedule. Index is participant id
// and spawn order.
type Manifest []Entry

// Counts returns the number of readers and writers.
func (m Manifest) Counts() (readers, writers int) {
	for _, e := range m {
		if e.Role == rwsim.Writer {
			writers++
		} else {
			readers++
		}
	}
	return readers, writers
}

// TotalDuration is the sum of all hold durations in ticks.
func (m Manifest) TotalDuration() int {
	total := 0
	for _, e := range m {
		total += e.Duration
	}
	return total
}

// ErrInvalidEntry is wrapped by every entry-level validation failure.
var ErrInvalidEntry = errors.New("invalid manifest entry")

// Validate checks every entry for a known role and a positive duration.
func (m Manifest) Validate() error {
	for i, e := range m {
		if e.Role != rwsim.Reader && e.Role != rwsim.Writer {
			return fmt.Errorf("%w: participant %d: unknown role %v", ErrInvalidEntry, i, e.Role)
		}
		if e.Duration <= 0 {
			return fmt.Errorf("%w: participant %d: duration must be positive (got %d)", ErrInvalidEntry, i, e.Duration)
		}
	}
	return nil
}

// ParseError describes a malformed manifest file.
type ParseError struct {
	Line int // 1-based line of the offending token, 0 at end of input
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return "manifest: " + e.Msg
	}
	return fmt.Sprintf("manifest: line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// tokenizer yields whitespace separated words with their line numbers.
type tokenizer struct {
	sc   *bufio.Scanner
	line int
	buf  []string
}

func (t *tokenizer) next() (string, int, bool) {
	for len(t.buf) == 0 {
		if !t.sc.Scan() {
			return "", 0, false
		}
		t.line++
		t.buf = strings.Fields(t.sc.Text())
	}
	tok := t.buf[0]
	t.buf = t.buf[1:]
	return tok, t.line, true
}

// Parse reads a manifest from r.
func Parse(r io.Reader) (Manifest, error) {
	tk := &tokenizer{sc: bufio.NewScanner(r)}

	tok, line, ok := tk.next()
	if !ok {
		if err := tk.sc.Err(); err != nil {
			return nil, fmt.Errorf("manifest: read: %w", err)
		}
		return nil, &ParseError{Msg: "empty manifest, expected participant count"}
	}
	count, err := strconv.Atoi(tok)
	if err != nil || count < 0 {
		return nil, &ParseError{Line: line, Msg: fmt.Sprintf("invalid participant count %q", tok), Err: err}
	}

	m := make(Manifest, 0, count)
	for i := 0; i < count; i++ {
		roleTok, roleLine, ok := tk.next()
		if !ok {
			return nil, truncated(tk, i, count)
		}
		role, err := rwsim.ParseRole(roleTok)
		if err != nil {
			return nil, &ParseError{Line: roleLine, Msg: fmt.Sprintf("participant %d: unknown role %q", i, roleTok), Err: err}
		}

		durTok, durLine, ok := tk.next()
		if !ok {
			return nil, truncated(tk, i, count)
		}
		d, err := strconv.Atoi(durTok)
		if err != nil {
			return nil, &ParseError{Line: durLine, Msg: fmt.Sprintf("participant %d: invalid duration %q", i, durTok), Err: err}
		}
		if d <= 0 {
			return nil, &ParseError{Line: durLine, Msg: fmt.Sprintf("participant %d: duration must be positive (got %d)", i, d), Err: ErrInvalidEntry}
		}

		m = append(m, Entry{Role: role, Duration: d})
	}
	return m, nil
}

func truncated(tk *tokenizer, got, want int) error {
	if err := tk.sc.Err(); err != nil {
		return fmt.Errorf("manifest: read: %w", err)
	}
	return &ParseError{Msg: fmt.Sprintf("expected %d participants, found %d", want, got)}
}

// Load reads a manifest file from disk.
func Load(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Write emits m in the manifest file format.
func Write(w io.Writer, m Manifest) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(m))
	for _, e := range m {
		fmt.Fprintf(bw, "%s  %d\n", e.Role.Tag(), e.Duration)
	}
	return bw.Flush()
}

// Generate builds a pseudo-random manifest with the given number of
// readers and writers, shuffled, with durations in [1, maxDuration]. The
// same seed always yields the same manifest.
func Generate(seed int64, readers, writers, maxDuration int) (Manifest, error) {
	if readers < 0 || writers < 0 {
		return nil, fmt.Errorf("%w: negative participant count", ErrInvalidEntry)
	}
	if maxDuration <= 0 {
		return nil, fmt.Errorf("%w: max duration must be positive (got %d)", ErrInvalidEntry, maxDuration)
	}

	rng := rand.New(rand.NewSource(seed))
	m := make(Manifest, 0, readers+writers)
	for i := 0; i < readers; i++ {
		m = append(m, Entry{Role: rwsim.Reader, Duration: 1 + rng.Intn(maxDuration)})
	}
	for i := 0; i < writers; i++ {
		m = append(m, Entry{Role: rwsim.Writer, Duration: 1 + rng.Intn(maxDuration)})
	}
	rng.Shuffle(len(m), func(i, j int) { m[i], m[j] = m[j], m[i] })
	return m, nil
}
