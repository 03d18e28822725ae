package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corvan/pixwall/models"
)

// Metadata documents are a delimited key-value header followed by free-form
// body content:
//
//	---
//	title: Sunset
//	image: /images/1705320000000_ab12cd34_original.jpg
//	...
//	---
//	<body>
//
// The body is reserved for future description text and must round-trip
// unchanged through header updates.
const delimiter = "---"

// Canonical header keys, emitted first and in this order. Unknown keys
// survive a decode/encode cycle but land after these, sorted.
var canonicalKeys = []string{
	headerTitle,
	headerImage,
	headerModalImage,
	headerThumbnailImage,
	headerUploadDate,
}

const (
	headerTitle          = "title"
	headerImage          = "image"
	headerModalImage     = "modalImage"
	headerThumbnailImage = "thumbnailImage"
	headerUploadDate     = "uploadDate"
)

// EncodeDocument renders a header mapping and body into document bytes.
// Values are flattened to a single line so no value can fabricate a
// delimiter line of its own.
func EncodeDocument(header map[string]string, body string) []byte {
	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteByte('\n')

	emitted := make(map[string]bool, len(header))
	for _, key := range canonicalKeys {
		if val, ok := header[key]; ok {
			writeHeaderLine(&b, key, val)
			emitted[key] = true
		}
	}

	extra := make([]string, 0, len(header))
	for key := range header {
		if !emitted[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		writeHeaderLine(&b, key, header[key])
	}

	b.WriteString(delimiter)
	if body != "" {
		b.WriteByte('\n')
		b.WriteString(body)
	}
	return []byte(b.String())
}

func writeHeaderLine(b *strings.Builder, key, val string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(flattenValue(val))
	b.WriteByte('\n')
}

func flattenValue(val string) string {
	val = strings.ReplaceAll(val, "\r", "")
	return strings.ReplaceAll(val, "\n", " ")
}

// DecodeDocument splits document bytes into a header mapping and the body.
// A header line's key runs to the first ": "; the remainder is the value,
// rejoined if it contained the separator itself. Blank lines are skipped.
func DecodeDocument(doc []byte) (map[string]string, string, error) {
	s := string(doc)
	if !strings.HasPrefix(s, delimiter+"\n") {
		return nil, "", fmt.Errorf("%w: missing opening delimiter", ErrMalformedDocument)
	}
	rest := s[len(delimiter)+1:]

	end := strings.Index(rest, "\n"+delimiter)
	if end < 0 {
		return nil, "", fmt.Errorf("%w: missing closing delimiter", ErrMalformedDocument)
	}
	headerBlock := rest[:end]
	body := rest[end+1+len(delimiter):]
	body = strings.TrimPrefix(body, "\n")

	header := make(map[string]string)
	for _, line := range strings.Split(headerBlock, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, ": ", 2)
		if len(parts) == 1 {
			header[parts[0]] = ""
			continue
		}
		header[parts[0]] = parts[1]
	}
	return header, body, nil
}

// MergeHeader decodes a document, overwrites only the supplied keys and
// re-encodes. All other keys and the body are preserved byte-for-byte;
// key order is the encoder's, not the source document's.
func MergeHeader(doc []byte, partial map[string]string) ([]byte, error) {
	header, body, err := DecodeDocument(doc)
	if err != nil {
		return nil, err
	}
	for key, val := range partial {
		header[key] = val
	}
	return EncodeDocument(header, body), nil
}

// headerFromRecord projects a record into the document header mapping.
func headerFromRecord(rec models.ImageRecord) map[string]string {
	return map[string]string{
		headerTitle:          rec.Title,
		headerImage:          rec.Path,
		headerModalImage:     rec.ModalPath,
		headerThumbnailImage: rec.ThumbnailPath,
		headerUploadDate:     rec.UploadDate.UTC().Format(time.RFC3339Nano),
	}
}

// recordFromHeader rebuilds a record from a decoded header. An unparseable
// upload date leaves the zero time; the record still lists, sorted last.
func recordFromHeader(id string, header map[string]string) models.ImageRecord {
	rec := models.ImageRecord{
		ID:            id,
		Title:         header[headerTitle],
		Path:          header[headerImage],
		ModalPath:     header[headerModalImage],
		ThumbnailPath: header[headerThumbnailImage],
	}
	if ts, err := time.Parse(time.RFC3339Nano, header[headerUploadDate]); err == nil {
		rec.UploadDate = ts
	}
	return rec
}
