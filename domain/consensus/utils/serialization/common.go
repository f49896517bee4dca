package serialization

import (
	"io"

	"github.com/dagcore/dagd/domain/consensus/model/externalapi"
	"github.com/dagcore/dagd/util/binaryserializer"
	"github.com/pkg/errors"
)

var errNoEncodingForType = errors.New("there's no encoding for this type")

var errMalformed = errors.New("errMalformed")

func writeHash(w io.Writer, hash *externalapi.DomainHash) error {
	_, err := w.Write(hash.ByteSlice())
	return errors.WithStack(err)
}

// WriteElement writes element to w in little endian, dispatching on its
// concrete type. Integers are fixed width, booleans are a single canonical
// byte, hashes are raw bytes and byte slices are length prefixed.
func WriteElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case uint8:
		return binaryserializer.PutUint8(w, e)

	case uint16:
		return binaryserializer.PutUint16(w, e)

	case uint32:
		return binaryserializer.PutUint32(w, e)

	case int32:
		return binaryserializer.PutUint32(w, uint32(e))

	case uint64:
		return binaryserializer.PutUint64(w, e)

	case int64:
		return binaryserializer.PutUint64(w, uint64(e))

	case bool:
		if e {
			return binaryserializer.PutUint8(w, 0x01)
		}
		return binaryserializer.PutUint8(w, 0x00)

	case externalapi.DomainHash:
		return writeHash(w, &e)

	case *externalapi.DomainHash:
		return writeHash(w, e)

	case externalapi.DomainTransactionID:
		hash := externalapi.DomainHash(e)
		return writeHash(w, &hash)

	case *externalapi.DomainTransactionID:
		hash := externalapi.DomainHash(*e)
		return writeHash(w, &hash)

	case []byte:
		err := binaryserializer.PutUint64(w, uint64(len(e)))
		if err != nil {
			return err
		}
		_, err = w.Write(e)
		return errors.WithStack(err)
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to write type %T", element)
}

// WriteElements writes each of elements in turn via WriteElement
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadElement reads from r into the variable element points to,
// dispatching on its concrete pointer type. The encoding mirrors
// WriteElement.
func ReadElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint8:
		rv, err := binaryserializer.Uint8(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *uint16:
		rv, err := binaryserializer.Uint16(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *uint32:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int32:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = int32(rv)
		return nil

	case *uint64:
		rv, err := binaryserializer.Uint64(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int64:
		rv, err := binaryserializer.Uint64(r)
		if err != nil {
			return err
		}
		*e = int64(rv)
		return nil

	case *bool:
		rv, err := binaryserializer.Uint8(r)
		if err != nil {
			return err
		}
		switch rv {
		case 0x00:
			*e = false
		case 0x01:
			*e = true
		default:
			return errors.Wrapf(errMalformed, "in order to keep serialization canonical, true has to"+
				" always be 0x01")
		}
		return nil
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to read type %T", element)
}

// ReadElements reads into each of elements in turn via ReadElement
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := ReadElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// IsMalformedError reports whether err indicates truncated or
// non-canonical serialized data
func IsMalformedError(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) || errors.Is(err, errMalformed)
}
