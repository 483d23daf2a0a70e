// SPDX-License-Identifier: GPL-3.0-only
package stream

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// frame is one dispatched server-sent event.
type frame struct {
	ID       string
	HasID    bool
	Event    string
	Data     string
	Retry    time.Duration
	HasRetry bool
}

type frameReader struct {
	r *bufio.Reader
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: bufio.NewReader(r)}
}

// Next returns the next frame. Comment-only blocks are skipped. At end of
// input a pending frame without its blank line is discarded.
func (fr *frameReader) Next() (frame, error) {
	var (
		f       frame
		data    []string
		pending bool
	)

	for {
		line, err := fr.r.ReadString('\n')
		if err != nil {
			return frame{}, err
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		if line == "" {
			if !pending {
				continue
			}
			f.Data = strings.Join(data, "\n")
			return f, nil
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if found {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "event":
			f.Event = value
		case "data":
			data = append(data, value)
		case "id":
			if !strings.ContainsRune(value, 0) {
				f.ID = value
				f.HasID = true
			}
		case "retry":
			ms, err := strconv.Atoi(value)
			if err != nil || ms < 0 {
				continue
			}
			f.Retry = time.Duration(ms) * time.Millisecond
			f.HasRetry = true
		default:
			continue
		}
		pending = true
	}
}
