package util

import (
	"errors"
	"fmt"
	"io"
	"os"

	exiftool "github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
)

// DateStatus distinguishes "no date" from "could not look".
type DateStatus int

const (
	DateFound DateStatus = iota
	// DateMissing means the file was readable but carries no capture date.
	DateMissing
	// DateUnreadable means the file could not be opened or decoded.
	DateUnreadable
)

func (s DateStatus) String() string {
	switch s {
	case DateFound:
		return "found"
	case DateMissing:
		return "missing"
	case DateUnreadable:
		return "unreadable"
	default:
		return fmt.Sprintf("DateStatus(%d)", int(s))
	}
}

// CaptureDate is the result of reading an image's DateTimeOriginal field.
// Year is only set when Status is DateFound; Err only when DateUnreadable.
// Partial carries a non-fatal decode problem in a section other than the
// one holding the date.
type CaptureDate struct {
	Year    string
	Status  DateStatus
	Err     error
	Partial error
}

// DateReader extracts the capture year from an image file. Implementations
// never return a Go error; failures are reported through CaptureDate.
type DateReader interface {
	ReadCaptureDate(path string) CaptureDate
}

// yearFromExifDate takes "YYYY:MM:DD HH:MM:SS" and returns "YYYY".
func yearFromExifDate(value string) (string, bool) {
	if len(value) < 4 {
		return "", false
	}
	for _, r := range value[:4] {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return value[:4], true
}

// ExifReader decodes EXIF in-process. It understands JPEG and TIFF; other
// formats usually come back as DateMissing.
type ExifReader struct{}

func (ExifReader) ReadCaptureDate(path string) CaptureDate {
	f, err := os.Open(path)
	if err != nil {
		return CaptureDate{Status: DateUnreadable, Err: err}
	}
	defer f.Close()

	x, err := exif.Decode(f)
	var partial error
	switch {
	case err == nil:
	case x != nil && !exif.IsCriticalError(err):
		// A broken GPS or Interop block leaves the main IFDs intact.
		partial = fmt.Errorf("decode exif: %w", err)
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		// Running off the end of the file while hunting for the APP1 marker
		// just means there is no EXIF block.
		return CaptureDate{Status: DateMissing}
	default:
		return CaptureDate{Status: DateUnreadable, Err: fmt.Errorf("decode exif: %w", err)}
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		if exif.IsTagNotPresentError(err) {
			return CaptureDate{Status: DateMissing, Partial: partial}
		}
		return CaptureDate{Status: DateUnreadable, Err: err}
	}
	value, err := tag.StringVal()
	if err != nil {
		return CaptureDate{Status: DateUnreadable, Err: fmt.Errorf("DateTimeOriginal: %w", err)}
	}
	year, ok := yearFromExifDate(value)
	if !ok {
		return CaptureDate{Status: DateMissing, Partial: partial}
	}
	return CaptureDate{Year: year, Status: DateFound, Partial: partial}
}

// ExiftoolReader reads metadata through a long-running exiftool process,
// which covers PNG, HEIC and raw formats the in-process decoder cannot.
type ExiftoolReader struct {
	et *exiftool.Exiftool
}

// NewExiftoolReader starts exiftool. Callers must Close the reader.
func NewExiftoolReader() (*ExiftoolReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("start exiftool: %w", err)
	}
	return &ExiftoolReader{et: et}, nil
}

func (r *ExiftoolReader) ReadCaptureDate(path string) CaptureDate {
	metas := r.et.ExtractMetadata(path)
	if len(metas) == 0 {
		return CaptureDate{Status: DateUnreadable, Err: errors.New("exiftool returned no result")}
	}
	if metas[0].Err != nil {
		return CaptureDate{Status: DateUnreadable, Err: metas[0].Err}
	}
	value, ok := metas[0].Fields["DateTimeOriginal"].(string)
	if !ok {
		return CaptureDate{Status: DateMissing}
	}
	year, ok := yearFromExifDate(value)
	if !ok {
		return CaptureDate{Status: DateMissing}
	}
	return CaptureDate{Year: year, Status: DateFound}
}

// Close stops the exiftool process.
func (r *ExiftoolReader) Close() error {
	return r.et.Close()
}
