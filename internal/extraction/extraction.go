// Package extraction pulls analysis payloads out of uploaded archives.
package extraction

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/mholt/archives"
	"github.com/pkg/errors"

	"room-service/internal/apperrors"
)

const (
	MaxPayloads    = 500
	MaxPayloadSize = 10 << 20
)

// Payload is one JSON document found in an archive.
type Payload struct {
	Name string
	Data []byte
}

// ExtractPayloads reads every .json file from a zip or tar archive held in
// memory. Payloads come back sorted by name.
func ExtractPayloads(ctx context.Context, filename string, data []byte) ([]Payload, error) {
	format, _, err := archives.Identify(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrMalformedInput, "unrecognized archive %s: %v", filename, err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrMalformedInput, "%s is not an extractable archive", filename)
	}

	var payloads []Payload
	err = extractor.Extract(ctx, bytes.NewReader(data), func(ctx context.Context, f archives.FileInfo) error {
		if f.IsDir() || !wanted(f.NameInArchive) {
			return nil
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		p, err := readPayload(f.NameInArchive, rc, len(payloads))
		if err != nil {
			return err
		}
		payloads = append(payloads, p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "extract %s", filename)
	}

	return sorted(payloads), nil
}

// ReadPayloads collects .json files from an archive or a directory on disk.
func ReadPayloads(ctx context.Context, root string) ([]Payload, error) {
	fsys, err := archives.FileSystem(ctx, root, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", root)
	}

	var payloads []Payload
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !wanted(p) {
			return nil
		}
		f, err := fsys.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		payload, err := readPayload(p, f, len(payloads))
		if err != nil {
			return err
		}
		payloads = append(payloads, payload)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}

	return sorted(payloads), nil
}

func readPayload(name string, r io.Reader, have int) (Payload, error) {
	if have >= MaxPayloads {
		return Payload{}, errors.Wrapf(apperrors.ErrMalformedInput, "archive holds more than %d payloads", MaxPayloads)
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxPayloadSize+1))
	if err != nil {
		return Payload{}, errors.Wrapf(err, "read %s", name)
	}
	if len(data) > MaxPayloadSize {
		return Payload{}, errors.Wrapf(apperrors.ErrMalformedInput, "%s exceeds %d bytes", name, MaxPayloadSize)
	}
	return Payload{Name: name, Data: data}, nil
}

// wanted skips non-JSON files and archiver metadata such as __MACOSX and dotfiles.
func wanted(name string) bool {
	if !strings.EqualFold(path.Ext(name), ".json") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") || part == "__MACOSX" {
			return false
		}
	}
	return true
}

func sorted(payloads []Payload) []Payload {
	sort.Slice(payloads, func(i, j int) bool { return payloads[i].Name < payloads[j].Name })
	return payloads
}
