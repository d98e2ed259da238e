package queryir

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DomainQuerySpec is the domain prefix for QuerySpec fingerprints.
// Version suffix enables future algorithm migration.
const DomainQuerySpec = "featureql/query/v1"

// Fingerprint returns a stable hex SHA-256 identity of the spec's semantic
// content. Two specs that compile to the same statements share a fingerprint.
//
// Format: SHA256(domain + 0x00 + canonical), where canonical is the sorted
// list of quoted key=value lines with NFC-normalized strings.
func (q QuerySpec) Fingerprint() string {
	fields := map[string]string{
		"limit":   strconv.Itoa(q.Limit),
		"cursor":  strconv.FormatInt(q.Cursor, 10),
		"output":  strconv.Itoa(q.OutputSRID),
		"storage": strconv.Itoa(q.StorageSRID),
	}
	if q.Collection != nil {
		fields["collection"] = q.Collection.ID
	}
	if q.BBox != nil {
		b := q.BBox.Bound
		fields["bbox"] = strings.Join([]string{
			formatFloat(b.Min[0]), formatFloat(b.Min[1]),
			formatFloat(b.Max[0]), formatFloat(b.Max[1]),
			strconv.Itoa(q.BBox.SRID),
		}, ",")
	}
	if q.Datetime != nil {
		fields["datetime"] = q.Datetime.Column + "|" + q.Datetime.Kind.String() + "|" +
			formatTime(q.Datetime.Start) + "|" + formatTime(q.Datetime.End)
	}
	if q.Attribute != nil {
		fields["filter"] = q.Attribute.Column + "=" + q.Attribute.Value
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var canonical strings.Builder
	for _, k := range keys {
		canonical.WriteString(k)
		canonical.WriteByte('=')
		canonical.WriteString(strconv.Quote(norm.NFC.String(fields[k])))
		canonical.WriteByte('\n')
	}

	h := sha256.New()
	h.Write([]byte(DomainQuerySpec))
	h.Write([]byte{0x00}) // Null separator prevents domain/data ambiguity
	h.Write([]byte(canonical.String()))
	return hex.EncodeToString(h.Sum(nil))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
