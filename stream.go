package filesniff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// WindowSize is the number of bytes read from each end of a stream.
// Header patterns that extend past the first window never match.
const WindowSize = 1024

// sniffChunkSize is the read size used when scanning a stream for a
// content sniff target.
const sniffChunkSize = 32 * 1024

// MatchReader is the streaming form of MatchBytes. It reads at most
// WindowSize bytes from the start of r and, when a trailer or content check
// is needed and r implements io.Seeker, a second window from the end.
//
// For seekable streams the read position is restored before returning, on
// every path. Non-seekable streams are consumed and a match that needs
// confirmation is reported as Inconclusive.
//
// The context is checked before every read. Concurrent calls must not share
// a stream.
func (t *Table) MatchReader(ctx context.Context, fileName string, r io.Reader) (Match, error) {
	return t.matchReader(ctx, fileName, r, WindowSize)
}

func (t *Table) matchReader(ctx context.Context, fileName string, r io.Reader, window int) (m Match, err error) {
	if err := ctx.Err(); err != nil {
		return notFound, err
	}
	if r == nil {
		return notFound, ErrNilStream
	}
	if window <= 0 {
		window = WindowSize
	}

	ext := extensionOf(fileName)
	if ext == "" {
		return notFound, nil
	}
	sig, ok := t.Lookup(ext)
	if !ok {
		return notFound, nil
	}

	s := &streamSniffer{ctx: ctx, r: r, window: window}
	s.seeker, s.seekable = r.(io.Seeker)

	if s.seekable {
		origin, err := s.seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return notFound, fmt.Errorf("get stream position: %w", err)
		}
		defer func() {
			if _, serr := s.seeker.Seek(origin, io.SeekStart); serr != nil && err == nil {
				m, err = notFound, fmt.Errorf("restore stream position: %w", serr)
			}
		}()
		if _, err := s.seeker.Seek(0, io.SeekStart); err != nil {
			return notFound, fmt.Errorf("seek to stream start: %w", err)
		}
	}

	head, err := s.readWindow()
	if err != nil {
		return notFound, err
	}

	unconfirmed := false
	for _, header := range sig.Headers {
		if !matchHeader(head, header) {
			continue
		}

		if len(sig.Trailers) == 0 {
			return Match{Signature: sig, Outcome: Found}, nil
		}

		if !s.seekable {
			unconfirmed = true
			continue
		}

		tail, err := s.tail()
		if err != nil {
			return notFound, err
		}

		for _, trailer := range sig.Trailers {
			if !matchTrailer(tail, trailer) {
				continue
			}
			if sig.ContentSniffTarget == "" {
				return Match{Signature: sig, Outcome: Found}, nil
			}
			found, err := s.contains(sig.ContentSniffTarget)
			if err != nil {
				return notFound, err
			}
			if found {
				return Match{Signature: sig, Outcome: Found}, nil
			}
			return notFound, nil
		}

		if sig.ContentSniffTarget != "" {
			found, err := s.contains(sig.ContentSniffTarget)
			if err != nil {
				return notFound, err
			}
			if found {
				return Match{Signature: sig, Outcome: Found}, nil
			}
		}
	}

	if unconfirmed {
		return Match{Signature: sig, Outcome: Inconclusive}, nil
	}
	return notFound, nil
}

// streamSniffer performs the reads for one MatchReader call and memoizes
// the trailer window and content search.
type streamSniffer struct {
	ctx      context.Context
	r        io.Reader
	seeker   io.Seeker
	seekable bool
	window   int

	tailBuf    []byte
	tailLoaded bool

	contentChecked bool
	contentFound   bool
}

// readWindow reads up to s.window bytes from the current position.
func (s *streamSniffer) readWindow() ([]byte, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, s.window)
	n, err := io.ReadFull(ctxReader{ctx: s.ctx, r: s.r}, buf)
	if cerr := s.ctx.Err(); cerr != nil {
		return nil, cerr
	}
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	return buf[:n], nil
}

// tail returns the last window of the stream.
func (s *streamSniffer) tail() ([]byte, error) {
	if s.tailLoaded {
		return s.tailBuf, nil
	}
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}

	length, err := s.seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek to stream end: %w", err)
	}
	start := max(0, length-int64(s.window))
	if _, err := s.seeker.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to trailer window: %w", err)
	}

	buf, err := s.readWindow()
	if err != nil {
		return nil, err
	}
	s.tailBuf, s.tailLoaded = buf, true
	return buf, nil
}

// contains reports whether the whole stream, read from offset zero,
// contains target. Matching the raw bytes of a valid UTF-8 target is
// equivalent to matching the decoded text.
func (s *streamSniffer) contains(target string) (bool, error) {
	if s.contentChecked {
		return s.contentFound, nil
	}
	if err := s.ctx.Err(); err != nil {
		return false, err
	}
	if _, err := s.seeker.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("seek to stream start: %w", err)
	}

	found, err := streamContains(ctxReader{ctx: s.ctx, r: s.r}, []byte(target))
	if cerr := s.ctx.Err(); cerr != nil {
		return false, cerr
	}
	if err != nil {
		return false, fmt.Errorf("read stream content: %w", err)
	}
	s.contentChecked, s.contentFound = true, found
	return found, nil
}

// streamContains scans r for needle in fixed-size chunks, carrying enough
// bytes between chunks to catch a match that straddles a boundary.
func streamContains(r io.Reader, needle []byte) (bool, error) {
	if len(needle) == 0 {
		return true, nil
	}
	keep := len(needle) - 1
	buf := make([]byte, keep+sniffChunkSize)
	carried := 0

	for {
		n, err := r.Read(buf[carried:])
		if n > 0 {
			filled := carried + n
			if bytes.Contains(buf[:filled], needle) {
				return true, nil
			}
			carried = min(keep, filled)
			copy(buf, buf[filled-carried:filled])
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}

// ctxReader fails reads once its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
