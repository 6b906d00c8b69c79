package format

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/mithrel/markpad/pkg/api"
)

// ErrBadBackup is returned when a backup blob cannot be decoded.
var ErrBadBackup = errors.New("malformed backup")

// Backup wire layout:
//
//	message Backup   { uint32 version = 1; repeated Document documents = 2; }
//	message Document { string created_at = 1; string name = 2; string content = 3; }
const (
	backupVersion = 1

	fieldVersion   protowire.Number = 1
	fieldDocuments protowire.Number = 2

	fieldCreatedAt protowire.Number = 1
	fieldName      protowire.Number = 2
	fieldContent   protowire.Number = 3
)

// EncodeBackup serializes documents in the compact protobuf wire format.
func EncodeBackup(docs []api.Document) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, backupVersion)
	for _, d := range docs {
		b = protowire.AppendTag(b, fieldDocuments, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeDocument(d))
	}
	return b
}

func encodeDocument(d api.Document) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldCreatedAt, protowire.BytesType)
	b = protowire.AppendString(b, d.CreatedAt)
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, d.Name)
	b = protowire.AppendTag(b, fieldContent, protowire.BytesType)
	b = protowire.AppendString(b, d.Content)
	return b
}

// DecodeBackup parses a blob produced by EncodeBackup. Unknown fields are
// skipped; a backup without documents is rejected.
func DecodeBackup(b []byte) ([]api.Document, error) {
	var (
		docs    []api.Document
		version uint64
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrBadBackup, protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: version: %v", ErrBadBackup, protowire.ParseError(n))
			}
			version = v
			b = b[n:]
		case num == fieldDocuments && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: document: %v", ErrBadBackup, protowire.ParseError(n))
			}
			d, err := decodeDocument(raw)
			if err != nil {
				return nil, err
			}
			docs = append(docs, d)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %v", ErrBadBackup, num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	if version != backupVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadBackup, version)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents", ErrBadBackup)
	}
	return docs, nil
}

func decodeDocument(b []byte) (api.Document, error) {
	var d api.Document
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return d, fmt.Errorf("%w: %v", ErrBadBackup, protowire.ParseError(n))
		}
		b = b[n:]
		if typ != protowire.BytesType || num < fieldCreatedAt || num > fieldContent {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return d, fmt.Errorf("%w: %v", ErrBadBackup, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		s, n := protowire.ConsumeString(b)
		if n < 0 {
			return d, fmt.Errorf("%w: %v", ErrBadBackup, protowire.ParseError(n))
		}
		switch num {
		case fieldCreatedAt:
			d.CreatedAt = s
		case fieldName:
			d.Name = s
		case fieldContent:
			d.Content = s
		}
		b = b[n:]
	}
	return d, nil
}
