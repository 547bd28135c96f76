// Package subcues loads subtitle files into a cue index.
package subcues

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/asticode/go-astisub"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/user/vidbanner/pkg/cues"
)

// DefaultEncoding is the legacy code page most community subtitle files
// for the target audience are saved in.
const DefaultEncoding = "cp1251"

var (
	// ErrUnsupportedEncoding is returned for unknown text encodings.
	ErrUnsupportedEncoding = errors.New("subcues: unsupported encoding")

	// ErrUnsupportedFormat is returned for unknown subtitle extensions.
	ErrUnsupportedFormat = errors.New("subcues: unsupported subtitle format")
)

type reader func(io.Reader) (*astisub.Subtitles, error)

var readers = map[string]reader{
	".srt": astisub.ReadFromSRT,
	".ssa": astisub.ReadFromSSA,
	".ass": astisub.ReadFromSSA,
	".vtt": astisub.ReadFromWebVTT,
}

// Load reads the subtitle file at path, decoding it from the named
// encoding (e.g. "cp1251", "utf-8", "koi8-r"). An empty path yields an
// empty index.
func Load(path, encodingName string) (*cues.Index, error) {
	if path == "" {
		return cues.NewIndex(nil), nil
	}

	read, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitles: %w", err)
	}
	defer f.Close()

	return Parse(transform.NewReader(f, enc.NewDecoder()), read)
}

// Parse converts already-decoded UTF-8 subtitle text into a cue index
// using read as the format parser. Load order is file order.
func Parse(r io.Reader, read func(io.Reader) (*astisub.Subtitles, error)) (*cues.Index, error) {
	subs, err := read(r)
	if err != nil {
		return nil, fmt.Errorf("parse subtitles: %w", err)
	}

	list := make([]cues.Cue, 0, len(subs.Items))
	for _, item := range subs.Items {
		if item == nil {
			continue
		}
		list = append(list, cues.Cue{
			Start: item.StartAt,
			End:   item.EndAt,
			Text:  itemText(item),
		})
	}
	return cues.NewIndex(list), nil
}

// itemText flattens a subtitle item onto one line. A newline would be
// typed as Enter and split the cue into several chat messages.
func itemText(item *astisub.Item) string {
	var parts []string
	for _, line := range item.Lines {
		parts = append(parts, line.String())
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, name)
	}
	return enc, nil
}
