package ingest

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// unpackArchive strips a .zip, .gz or .lz4 wrapper from the upload. It returns
// the inner reader and the name the payload should be parsed as. Uploads that
// are not archives are returned unchanged. A positive maxUnpacked rejects
// payloads that decompress to more bytes than that.
func unpackArchive(r io.Reader, filename string, maxUnpacked int64) (io.Reader, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	inner := strings.TrimSuffix(filename, filepath.Ext(filename))
	switch ext {
	case ".zip":
		return unpackZipArchive(r, filename, maxUnpacked)
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, "", parseErr(filename, 0, "not a gzip stream", err)
		}
		return limitUnpacked(gr, filename, inner, maxUnpacked)
	case ".lz4":
		return limitUnpacked(lz4.NewReader(r), filename, inner, maxUnpacked)
	}
	return r, filename, nil
}

// limitUnpacked buffers at most maxUnpacked bytes of the decompressed stream.
// With no limit the stream is passed through.
func limitUnpacked(r io.Reader, filename, inner string, maxUnpacked int64) (io.Reader, string, error) {
	if maxUnpacked <= 0 {
		return r, inner, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, maxUnpacked+1))
	if err != nil {
		return nil, "", parseErr(filename, 0, "decompress", err)
	}
	if int64(len(data)) > maxUnpacked {
		return nil, "", parseErr(filename, 0, fmt.Sprintf("decompressed size exceeds %d bytes", maxUnpacked), nil)
	}
	return bytes.NewReader(data), inner, nil
}

// unpackZipArchive picks the largest file in the archive, like a user would
// expect when a dataset ships with a readme next to it.
func unpackZipArchive(r io.Reader, filename string, maxUnpacked int64) (io.Reader, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read zip: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", parseErr(filename, 0, "not a zip archive", err)
	}

	var largestFile *zip.File
	var largestSize uint64
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largestFile == nil || f.UncompressedSize64 > largestSize {
			largestFile = f
			largestSize = f.UncompressedSize64
		}
	}
	if largestFile == nil {
		return nil, "", parseErr(filename, 0, "zip archive has no files", nil)
	}

	rc, err := largestFile.Open()
	if err != nil {
		return nil, "", parseErr(filename, 0, "open "+largestFile.Name, err)
	}
	defer rc.Close()
	name := filepath.Base(largestFile.Name)
	if maxUnpacked > 0 {
		// the header size is only a claim; limitUnpacked counts real bytes
		return limitUnpacked(rc, filename, name, maxUnpacked)
	}
	inner, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", parseErr(filename, 0, "extract "+largestFile.Name, err)
	}
	return bytes.NewReader(inner), name, nil
}
